package booking

import (
	"sort"
	"sync"
)

// resourceLocks serializes check-then-insert per resource so two concurrent
// callers cannot both observe "available" and both insert overlapping rows.
type resourceLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newResourceLocks() *resourceLocks {
	return &resourceLocks{locks: make(map[int64]*sync.Mutex)}
}

func (r *resourceLocks) get(id int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	return l
}

// acquire locks the given resources in sorted id order to avoid deadlock and
// returns a release function that unlocks them in reverse.
func (r *resourceLocks) acquire(ids []int64) func() {
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	held := make([]*sync.Mutex, 0, len(sorted))
	var prev int64
	for i, id := range sorted {
		if i > 0 && id == prev {
			continue
		}
		prev = id
		l := r.get(id)
		l.Lock()
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
