// This defines a library for generating randomly-connected 2D grid mazes,
// finding paths through them, and replanning around obstacles placed along
// those paths. Grids can be drawn using the image.Image returned by
// NewSceneImage.
package maze

import (
	"errors"
	"fmt"
	"strings"
)

// Returned (wrapped) when a coordinate lies outside of the grid.
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// Returned (wrapped) when two cells can't be joined because they aren't
// directly next to each other in the given direction.
var ErrInvalidAdjacency = errors.New("cells are not adjacent")

// Identifies a single cell in a grid.
type Coord struct {
	Row int
	Col int
}

// Returns the coordinate one cell over in the given direction. The result may
// be outside of any particular grid.
func (c Coord) Step(d Direction) Coord {
	switch d {
	case Left:
		return Coord{Row: c.Row, Col: c.Col - 1}
	case Up:
		return Coord{Row: c.Row - 1, Col: c.Col}
	case Right:
		return Coord{Row: c.Row, Col: c.Col + 1}
	case Down:
		return Coord{Row: c.Row + 1, Col: c.Col}
	}
	return c
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// One of the four directions a cell may connect in. The numeric values are
// the indices into a cell's wall array.
type Direction uint8

const (
	Left Direction = iota
	Up
	Right
	Down
)

// The order in which neighbors are visited. Searches break ties according to
// this order, so it must not change.
var neighborOrder = [4]Direction{Left, Right, Up, Down}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Unknown direction: %d", uint8(d))
}

// Returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// A single cell of the grid.
type gridCell struct {
	// Whether each of the cell's walls are present, indexed by Direction. A
	// missing wall means that the cell is connected to its neighbor in that
	// direction.
	walls [4]bool
	// Obstacles can't be entered by a search.
	obstacle bool
}

// A read-only snapshot of a single cell, returned by CellAt.
type Cell struct {
	Coord    Coord
	Walls    [4]bool
	Obstacle bool
}

// Returns true if the cell connects to its neighbor in the given direction.
func (c Cell) Open(d Direction) bool {
	if d > Down {
		return false
	}
	return !c.Walls[d]
}

// A rows x cols rectangular maze. Create using NewGrid or Generate. Cells are
// stored in a single slice, in row-major order.
type Grid struct {
	rows  int
	cols  int
	cells []gridCell
}

// Allocates a grid where every cell is surrounded by walls and no cell is an
// obstacle.
func NewGrid(rows, cols int) (*Grid, error) {
	if (rows < 1) || (cols < 1) {
		return nil, fmt.Errorf("rows and cols must be at least 1")
	}
	cellCount := rows * cols
	// Check for overflow.
	if (cellCount <= 0) || (cellCount/cols != rows) {
		return nil, fmt.Errorf("The grid's size was too big")
	}
	toReturn := &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]gridCell, cellCount),
	}
	for i := range toReturn.cells {
		for j := range toReturn.cells[i].walls {
			toReturn.cells[i].walls[j] = true
		}
	}
	return toReturn, nil
}

func (g *Grid) Rows() int {
	return g.rows
}

func (g *Grid) Cols() int {
	return g.cols
}

// Returns true if the coordinate is on the grid.
func (g *Grid) InBounds(c Coord) bool {
	return (c.Row >= 0) && (c.Col >= 0) && (c.Row < g.rows) && (c.Col < g.cols)
}

// Returns the index of the coordinate in g.cells. The coordinate must already
// have been checked.
func (g *Grid) index(c Coord) int {
	return c.Row*g.cols + c.Col
}

// Returns the coordinate of the cell at the index in g.cells.
func (g *Grid) coord(index int) Coord {
	return Coord{Row: index / g.cols, Col: index % g.cols}
}

func (g *Grid) checkBounds(c Coord) error {
	if !g.InBounds(c) {
		return fmt.Errorf("%s on a %dx%d grid: %w", c, g.rows, g.cols,
			ErrOutOfBounds)
	}
	return nil
}

// Removes the wall between a and b, where b must be the cell next to a in the
// given direction. The connection is always made on both sides.
func (g *Grid) Connect(a, b Coord, dir Direction) error {
	if e := g.checkBounds(a); e != nil {
		return e
	}
	if e := g.checkBounds(b); e != nil {
		return e
	}
	if dir > Down {
		return fmt.Errorf("Invalid direction %s: %w", dir, ErrInvalidAdjacency)
	}
	if a.Step(dir) != b {
		return fmt.Errorf("%s is not %s of %s: %w", b, dir, a,
			ErrInvalidAdjacency)
	}
	g.cells[g.index(a)].walls[dir] = false
	g.cells[g.index(b)].walls[dir.Opposite()] = false
	return nil
}

// Returns true if the cell has a wall in the given direction. Coordinates off
// the grid are treated as solid walls, and the outer edges of the grid always
// have walls.
func (g *Grid) HasWall(c Coord, dir Direction) bool {
	if !g.InBounds(c) || (dir > Down) {
		return true
	}
	return g.cells[g.index(c)].walls[dir]
}

// Returns the cells connected to c, in the order left, right, up, down.
// Obstacles are included; it's up to the caller to skip them.
func (g *Grid) Neighbors(c Coord) ([]Coord, error) {
	if e := g.checkBounds(c); e != nil {
		return nil, e
	}
	toReturn := make([]Coord, 0, 4)
	return g.appendNeighbors(toReturn, g.index(c)), nil
}

// Appends the indices' neighbor coordinates to dst. Used by Neighbors and the
// search, which avoids allocating a new slice for every cell.
func (g *Grid) appendNeighbors(dst []Coord, index int) []Coord {
	cell := &(g.cells[index])
	c := g.coord(index)
	for _, d := range neighborOrder {
		if cell.walls[d] {
			continue
		}
		dst = append(dst, c.Step(d))
	}
	return dst
}

// Sets or clears the obstacle flag on a single cell. Doesn't change any walls.
func (g *Grid) SetObstacle(c Coord, blocked bool) error {
	if e := g.checkBounds(c); e != nil {
		return e
	}
	g.cells[g.index(c)].obstacle = blocked
	return nil
}

// Returns true if the cell is an obstacle. Returns false for coordinates off
// the grid.
func (g *Grid) IsObstacle(c Coord) bool {
	if !g.InBounds(c) {
		return false
	}
	return g.cells[g.index(c)].obstacle
}

// Returns the coordinates of every obstacle, in row-major order.
func (g *Grid) Obstacles() []Coord {
	var toReturn []Coord
	for i := range g.cells {
		if g.cells[i].obstacle {
			toReturn = append(toReturn, g.coord(i))
		}
	}
	return toReturn
}

// Returns a snapshot of the cell at the given coordinate.
func (g *Grid) CellAt(c Coord) (Cell, error) {
	if e := g.checkBounds(c); e != nil {
		return Cell{}, e
	}
	cell := &(g.cells[g.index(c)])
	return Cell{
		Coord:    c,
		Walls:    cell.walls,
		Obstacle: cell.obstacle,
	}, nil
}

// Builds a disjoint set over the grid's cells, joining every pair of cells
// connected by a missing wall. Obstacles are ignored.
func (g *Grid) regions() *disjointSet {
	toReturn := newDisjointSet(len(g.cells))
	for i := range g.cells {
		cell := &(g.cells[i])
		// Only looking right and down is enough since walls are removed on
		// both sides.
		if !cell.walls[Right] {
			toReturn.union(i, i+1)
		}
		if !cell.walls[Down] {
			toReturn.union(i, i+g.cols)
		}
	}
	return toReturn
}

// Returns true if there's any sequence of open walls leading from a to b,
// ignoring obstacles. Coordinates off the grid are never connected.
func (g *Grid) Connected(a, b Coord) bool {
	if !g.InBounds(a) || !g.InBounds(b) {
		return false
	}
	s := g.regions()
	return s.findSet(g.index(a)) == s.findSet(g.index(b))
}

// Returns the number of separate connected regions in the grid, ignoring
// obstacles.
func (g *Grid) RegionCount() int {
	return g.regions().count()
}

// Draws the grid using ASCII characters. Obstacles are drawn as "X".
func (g *Grid) String() string {
	var b strings.Builder
	b.WriteString("+" + strings.Repeat("---+", g.cols) + "\n")
	for row := 0; row < g.rows; row++ {
		b.WriteString("|")
		for col := 0; col < g.cols; col++ {
			cell := &(g.cells[row*g.cols+col])
			if cell.obstacle {
				b.WriteString(" X ")
			} else {
				b.WriteString("   ")
			}
			if cell.walls[Right] {
				b.WriteString("|")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n+")
		for col := 0; col < g.cols; col++ {
			if g.cells[row*g.cols+col].walls[Down] {
				b.WriteString("---+")
			} else {
				b.WriteString("   +")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
