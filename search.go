package maze

import (
	"container/heap"
	"fmt"
	"math"
	"strings"
)

// Distance of cells the search hasn't reached.
const unreachedDistance = math.MaxInt

// An ordered list of coordinates from a source to a destination, inclusive.
type Path []Coord

// Returns the number of coordinates in the path.
func (p Path) Len() int {
	return len(p)
}

func (p Path) Contains(c Coord) bool {
	for _, v := range p {
		if v == c {
			return true
		}
	}
	return false
}

// Returns the coordinates in the path, excluding the two endpoints. Returns
// nil if the path has fewer than three coordinates.
func (p Path) Interior() []Coord {
	if len(p) < 3 {
		return nil
	}
	return p[1 : len(p)-1]
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// The outcome of a single search. If Found is false, there is no path between
// the endpoints; this is a normal outcome rather than an error.
type SearchResult struct {
	Found bool
	// Nil if Found is false.
	Path Path
	// The number of steps in the path, or -1 if Found is false.
	Distance int
	// The number of cells that were popped off the frontier and expanded.
	Expanded int
}

// The estimate of the remaining cost from c to dst that orders the frontier.
// This is sqrt(|2*dr + 2*dc|), where dr and dc are the signed row and column
// differences. It is neither Euclidean nor Manhattan distance, and it can
// overestimate, so the paths aren't guaranteed to be the shortest. Changing it
// changes which paths are returned.
func Heuristic(c, dst Coord) float64 {
	rowDiff := c.Row - dst.Row
	colDiff := c.Col - dst.Col
	return math.Sqrt(math.Abs(float64(rowDiff*2 + colDiff*2)))
}

// Runs A* searches over a single grid. The per-cell state is reset at the
// start of every Search, so the same PathFinder may be used for multiple
// searches, including after obstacles change. Not safe for concurrent use.
type PathFinder struct {
	grid     *Grid
	distance []int
	visited  []bool
	queue    frontier
	// Reused when expanding each cell.
	neighbors []Coord
}

func NewPathFinder(g *Grid) *PathFinder {
	return &PathFinder{
		grid:      g,
		distance:  make([]int, len(g.cells)),
		visited:   make([]bool, len(g.cells)),
		neighbors: make([]Coord, 0, 4),
	}
}

func (f *PathFinder) reset() {
	for i := range f.distance {
		f.distance[i] = unreachedDistance
		f.visited[i] = false
	}
	f.queue = f.queue[:0]
}

// Returns the distance from the source recorded by the last search, or -1 if
// the cell wasn't reached.
func (f *PathFinder) DistanceTo(c Coord) int {
	if !f.grid.InBounds(c) {
		return -1
	}
	d := f.distance[f.grid.index(c)]
	if d == unreachedDistance {
		return -1
	}
	return d
}

// Finds a path from src to dst that avoids obstacles. Only returns an error if
// either coordinate is off the grid, or if an internal error occurs. If either
// endpoint is an obstacle, no path is found.
func (f *PathFinder) Search(src, dst Coord) (SearchResult, error) {
	g := f.grid
	if e := g.checkBounds(src); e != nil {
		return SearchResult{}, fmt.Errorf("Bad source: %w", e)
	}
	if e := g.checkBounds(dst); e != nil {
		return SearchResult{}, fmt.Errorf("Bad destination: %w", e)
	}
	f.reset()
	notFound := SearchResult{Distance: -1}
	if g.IsObstacle(src) || g.IsObstacle(dst) {
		return notFound, nil
	}

	sequence := 0
	heap.Push(&f.queue, frontierItem{
		index:    g.index(src),
		cost:     0,
		estimate: Heuristic(src, dst),
		sequence: sequence,
	})
	expanded := 0
	// The whole reachable region is expanded; the search doesn't stop early
	// when reaching dst.
	for f.queue.Len() != 0 {
		current := heap.Pop(&f.queue).(frontierItem)
		if f.visited[current.index] {
			continue
		}
		f.visited[current.index] = true
		f.distance[current.index] = current.cost
		expanded++
		newCost := current.cost + 1
		f.neighbors = g.appendNeighbors(f.neighbors[:0], current.index)
		for _, n := range f.neighbors {
			nIndex := g.index(n)
			if f.visited[nIndex] || g.cells[nIndex].obstacle {
				continue
			}
			if newCost >= f.distance[nIndex] {
				continue
			}
			f.distance[nIndex] = newCost
			sequence++
			heap.Push(&f.queue, frontierItem{
				index:    nIndex,
				cost:     newCost,
				estimate: float64(newCost) + Heuristic(n, dst),
				sequence: sequence,
			})
		}
	}

	if f.distance[g.index(dst)] == unreachedDistance {
		notFound.Expanded = expanded
		return notFound, nil
	}
	path, e := f.descend(src, dst)
	if e != nil {
		return SearchResult{}, e
	}
	return SearchResult{
		Found:    true,
		Path:     path,
		Distance: len(path) - 1,
		Expanded: expanded,
	}, nil
}

// Builds the path by walking from dst back to src, always stepping to the
// first neighbor (in neighbor order) with the lowest distance. Must only be
// called after a search reached dst.
func (f *PathFinder) descend(src, dst Coord) (Path, error) {
	g := f.grid
	index := g.index(dst)
	srcIndex := g.index(src)
	toReturn := make(Path, 0, f.distance[index]+1)
	for index != srcIndex {
		toReturn = append(toReturn, g.coord(index))
		// Every step must lower the distance, so it can't take more steps
		// than there are cells.
		if len(toReturn) > len(g.cells) {
			return nil, fmt.Errorf("Internal error: path from %s to %s "+
				"doesn't descend", src, dst)
		}
		best := -1
		bestDistance := unreachedDistance
		f.neighbors = g.appendNeighbors(f.neighbors[:0], index)
		for _, n := range f.neighbors {
			nIndex := g.index(n)
			if g.cells[nIndex].obstacle {
				continue
			}
			if f.distance[nIndex] < bestDistance {
				best = nIndex
				bestDistance = f.distance[nIndex]
			}
		}
		if (best < 0) || (bestDistance >= f.distance[index]) {
			return nil, fmt.Errorf("Internal error: no lower neighbor of %s",
				g.coord(index))
		}
		index = best
	}
	toReturn = append(toReturn, src)
	// Reverse the path so it goes from src to dst
	for i, j := 0, len(toReturn)-1; i < j; i, j = i+1, j-1 {
		toReturn[i], toReturn[j] = toReturn[j], toReturn[i]
	}
	return toReturn, nil
}

// A convenience wrapper that runs a single search using a new PathFinder.
func FindPath(g *Grid, src, dst Coord) (SearchResult, error) {
	return NewPathFinder(g).Search(src, dst)
}
