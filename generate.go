package maze

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// The maximum number of sides PickBorderDestination will draw before giving
// up.
const MaxDestinationDraws = 64

// Returned (wrapped) by PickBorderDestination if no valid side was drawn.
var ErrNoDestination = errors.New("no destination side could be chosen")

// One of the four borders of a grid.
type Side uint8

const (
	Top Side = iota
	Bottom
	LeftSide
	RightSide
)

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case LeftSide:
		return "left"
	case RightSide:
		return "right"
	}
	return fmt.Sprintf("Unknown side: %d", uint8(s))
}

// The pair of cells a path is searched between.
type Endpoints struct {
	Source      Coord
	Destination Coord
}

// Returns a new RNG using the given seed. If the seed is not positive, a new
// seed will be selected based on the current time in nanoseconds. The seed
// that was actually used is also returned.
func NewRNG(seed int64) (*rand.Rand, int64) {
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}

// Creates a grid with random connectivity. For each cell, a coin is flipped to
// decide if it connects to the cell to its right, and another to decide if it
// connects to the cell below it. Afterwards, numObstacles distinct cells are
// chosen uniformly to become obstacles. No attempt is made to keep the maze
// connected.
func Generate(rows, cols, numObstacles int, rng *rand.Rand) (*Grid, error) {
	toReturn, e := NewGrid(rows, cols)
	if e != nil {
		return nil, e
	}
	cellCount := len(toReturn.cells)
	if (numObstacles < 0) || (numObstacles > cellCount) {
		return nil, fmt.Errorf("Can't place %d obstacles in %d cells",
			numObstacles, cellCount)
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c := Coord{Row: row, Col: col}
			// Coins are only flipped for connections that stay on the grid.
			if (col < (cols - 1)) && (rng.Intn(2) == 0) {
				e = toReturn.Connect(c, c.Step(Right), Right)
				if e != nil {
					return nil, fmt.Errorf("Internal error: %w", e)
				}
			}
			if (row < (rows - 1)) && (rng.Intn(2) == 0) {
				e = toReturn.Connect(c, c.Step(Down), Down)
				if e != nil {
					return nil, fmt.Errorf("Internal error: %w", e)
				}
			}
		}
	}
	if numObstacles == 0 {
		return toReturn, nil
	}
	for _, index := range rng.Perm(cellCount)[:numObstacles] {
		toReturn.cells[index].obstacle = true
	}
	return toReturn, nil
}

// Returns the borders the coordinate lies on. Corners are on two borders, and
// cells on narrow grids may be on more.
func BorderSides(rows, cols int, c Coord) []Side {
	var toReturn []Side
	if c.Row == 0 {
		toReturn = append(toReturn, Top)
	}
	if c.Row == (rows - 1) {
		toReturn = append(toReturn, Bottom)
	}
	if c.Col == 0 {
		toReturn = append(toReturn, LeftSide)
	}
	if c.Col == (cols - 1) {
		toReturn = append(toReturn, RightSide)
	}
	return toReturn
}

func onSide(rows, cols int, c Coord, s Side) bool {
	for _, v := range BorderSides(rows, cols, c) {
		if v == s {
			return true
		}
	}
	return false
}

// Returns a random row or column strictly between 0 and n - 1. n must be at
// least 3.
func randomInner(n int, rng *rand.Rand) int {
	return 1 + rng.Intn(n-2)
}

func checkBorderSize(rows, cols int) error {
	if (rows < 3) || (cols < 3) {
		return fmt.Errorf("Border endpoints need at least a 3x3 grid, got "+
			"%dx%d", rows, cols)
	}
	return nil
}

// Picks a starting point on the left border of the grid, never in a corner.
func PickBorderSource(rows, cols int, rng *rand.Rand) (Coord, error) {
	if e := checkBorderSize(rows, cols); e != nil {
		return Coord{}, e
	}
	return Coord{Row: randomInner(rows, rng), Col: 0}, nil
}

// Picks an ending point on a border of the grid that the source isn't on, and
// never in a corner. Sides are drawn uniformly, and drawn again if the source
// lies on the chosen side. Gives up with ErrNoDestination after
// MaxDestinationDraws draws.
func PickBorderDestination(rows, cols int, source Coord,
	rng *rand.Rand) (Coord, error) {
	if e := checkBorderSize(rows, cols); e != nil {
		return Coord{}, e
	}
	for i := 0; i < MaxDestinationDraws; i++ {
		side := Side(rng.Intn(4))
		if onSide(rows, cols, source, side) {
			continue
		}
		switch side {
		case Top:
			return Coord{Row: 0, Col: randomInner(cols, rng)}, nil
		case Bottom:
			return Coord{Row: rows - 1, Col: randomInner(cols, rng)}, nil
		case LeftSide:
			return Coord{Row: randomInner(rows, rng), Col: 0}, nil
		case RightSide:
			return Coord{Row: randomInner(rows, rng), Col: cols - 1}, nil
		}
	}
	return Coord{}, fmt.Errorf("Source %s, %d draws: %w", source,
		MaxDestinationDraws, ErrNoDestination)
}

// Picks both a source and a destination on the border of a grid.
func NewEndpoints(rows, cols int, rng *rand.Rand) (Endpoints, error) {
	source, e := PickBorderSource(rows, cols, rng)
	if e != nil {
		return Endpoints{}, e
	}
	destination, e := PickBorderDestination(rows, cols, source, rng)
	if e != nil {
		return Endpoints{}, e
	}
	return Endpoints{
		Source:      source,
		Destination: destination,
	}, nil
}
