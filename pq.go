package maze

// A single entry in the search frontier. The same cell may have several
// entries at once; stale ones are skipped when popped.
type frontierItem struct {
	index int
	// The cost from the source when this entry was pushed.
	cost int
	// cost plus the heuristic estimate to the destination.
	estimate float64
	// Increases with every push, used to break ties between equal entries.
	sequence int
}

// Satisfies heap.Interface. The entry with the lowest estimate is popped
// first, then the one with the lowest cost, then the oldest.
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	a, b := &(f[i]), &(f[j])
	if a.estimate != b.estimate {
		return a.estimate < b.estimate
	}
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	return a.sequence < b.sequence
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) {
	*f = append(*f, x.(frontierItem))
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
