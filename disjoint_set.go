package maze

// Implements the disjoint set data structure from CLRS, over the integers
// 0 through n-1.
type disjointSet struct {
	parent []int
	rank   []int
}

// Returns a new disjointSet where every element is in its own set.
func newDisjointSet(n int) *disjointSet {
	toReturn := &disjointSet{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range toReturn.parent {
		toReturn.parent[i] = i
	}
	return toReturn
}

// Finds the unique "root" of the set containing x. May adjust parent entries.
func (s *disjointSet) findSet(x int) int {
	if s.parent[x] != x {
		s.parent[x] = s.findSet(s.parent[x])
	}
	return s.parent[x]
}

// Joins the sets containing a and b. May adjust parents and ranks.
func (s *disjointSet) union(a, b int) {
	x := s.findSet(a)
	y := s.findSet(b)
	if x == y {
		return
	}
	if s.rank[x] > s.rank[y] {
		s.parent[y] = x
		return
	}
	s.parent[x] = y
	if s.rank[x] == s.rank[y] {
		s.rank[y]++
	}
}

// Returns the number of distinct sets.
func (s *disjointSet) count() int {
	toReturn := 0
	for i := range s.parent {
		if s.findSet(i) == i {
			toReturn++
		}
	}
	return toReturn
}
