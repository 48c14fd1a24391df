package cache

import (
	"sync"
	"time"
)

type ringSlot[K comparable, V any] struct {
	key  K
	val  V
	used bool
}

// Ring is a fixed-capacity cache. Once full, every insert evicts the oldest
// inserted entry. It is safe for concurrent use.
type Ring[K comparable, V any] struct {
	lock sync.Mutex

	slots []ringSlot[K, V]
	index map[K]int
	next  int

	stats CacheStats
}

func NewRing[K comparable, V any](n int) *Ring[K, V] {
	if n < 1 {
		n = 1
	}

	return &Ring[K, V]{
		slots: make([]ringSlot[K, V], n),
		index: make(map[K]int, n),
		stats: CacheStats{Created: time.Now()},
	}
}

func (r *Ring[K, V]) Get(key K) (V, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.stats.Reads++

	if idx, ok := r.index[key]; ok {
		r.stats.Hits++
		return r.slots[idx].val, true
	}

	var zero V
	return zero, false
}

func (r *Ring[K, V]) Put(key K, val V) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if idx, ok := r.index[key]; ok {
		r.slots[idx].val = val
		return
	}

	slot := &r.slots[r.next]
	if slot.used {
		delete(r.index, slot.key)
		r.stats.Evictions++
	}

	slot.key = key
	slot.val = val
	slot.used = true
	r.index[key] = r.next

	r.next = (r.next + 1) % len(r.slots)
}

func (r *Ring[K, V]) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()

	return len(r.index)
}

func (r *Ring[K, V]) Stats() CacheStats {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.stats
}
