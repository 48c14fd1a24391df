package query

import (
	"fmt"
	"iter"

	"github.com/dot5enko/leaf-query/source"
)

type RunnerStats struct {
	LeavesVisited int
	RowsMatched   int
}

// Runner walks a State leaf by leaf and yields absolute row indices in
// strictly increasing order. It borrows the state and the source; a fresh
// Runner over a Reset state starts the query again. A Runner is not safe for
// concurrent use.
type Runner struct {
	state *State
	data  source.LeafSource

	done  bool
	stats RunnerStats
}

func NewRunner(state *State, data source.LeafSource) *Runner {
	return &Runner{
		state: state,
		data:  data,
	}
}

// Next returns the next matching row, or false once the source is exhausted
// or an error stopped the query (see Err).
func (r *Runner) Next() (int, bool) {
	st := r.state

	if st.err != nil || r.done {
		return 0, false
	}

	for st.leafIndex < st.leafCount {
		if found, ok := st.conditions.NextTrue(); ok {
			r.stats.RowsMatched++
			return found + st.offset, true
		}

		// go to the next leaf
		st.offset += st.leafRows
		st.leafIndex++
		r.stats.LeavesVisited++

		var next source.Rows
		if st.leafIndex < st.leafCount {
			leaf, err := r.data.Leaf(st.leafIndex)
			if err != nil {
				_ = st.fail(fmt.Errorf("unable to fetch leaf %d: %w", st.leafIndex, err))
				return 0, false
			}
			next = leaf
		}

		if err := st.bind(next); err != nil {
			return 0, false
		}
	}

	r.done = true
	st.logger.Debug("query finished", "leaves", r.stats.LeavesVisited, "matched", r.stats.RowsMatched)

	return 0, false
}

// All yields the remaining matching rows. Check Err once it stops.
func (r *Runner) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for {
			idx, ok := r.Next()
			if !ok || !yield(idx) {
				return
			}
		}
	}
}

// Err is the fetch or bind error that stopped the query, shared by every
// Runner over the same State until it is Reset.
func (r *Runner) Err() error {
	return r.state.err
}

func (r *Runner) Stats() RunnerStats {
	return r.stats
}
