package query

import (
	"fmt"
	"log/slog"

	"github.com/dot5enko/leaf-query/scan"
	"github.com/dot5enko/leaf-query/source"
)

// State is the mutable cursor over a compiled scanner tree. offset is always
// the total row count of the leaves before leafIndex, and the tree is bound to
// leaf leafIndex (or to no leaf once past the end). A failed fetch or bind
// sticks in err until the next Reset.
type State struct {
	conditions scan.Scanner

	leafCount int
	leafIndex int
	leafRows  int
	offset    int

	err error

	logger *slog.Logger
}

// NewState binds scanner to the first leaf of src.
func NewState(scanner scan.Scanner, src source.LeafSource) (*State, error) {
	s := &State{
		conditions: scanner,
		logger:     slog.Default(),
	}

	if err := s.Reset(src); err != nil {
		return nil, err
	}

	return s, nil
}

// Reset restarts the cursor at the first leaf of src, rebinding the same
// scanner tree. A nil src leaves the state empty and unbound. Call it again
// after the leaves of src change.
func (s *State) Reset(src source.LeafSource) error {
	s.leafCount = 0
	s.leafIndex = 0
	s.leafRows = 0
	s.offset = 0
	s.err = nil

	if src == nil {
		return s.bind(nil)
	}

	leafCount := src.LeafCount()

	var leaf source.Rows
	if leafCount > 0 {
		var err error
		leaf, err = src.Leaf(0)
		if err != nil {
			return s.fail(fmt.Errorf("unable to fetch leaf 0: %w", err))
		}
	}

	if err := s.bind(leaf); err != nil {
		return err
	}

	s.leafCount = leafCount
	return nil
}

func (s *State) bind(leaf source.Rows) error {
	s.leafRows = 0

	if leaf == nil {
		return s.conditions.Bind(nil)
	}

	if err := s.conditions.Bind(leaf); err != nil {
		s.err = fmt.Errorf("unable to bind leaf %d: %w", s.leafIndex, err)
		return s.err
	}

	s.leafRows = leaf.Len()
	return nil
}

// fail unbinds the tree and records err.
func (s *State) fail(err error) error {
	_ = s.conditions.Bind(nil)
	s.leafRows = 0
	s.err = err
	return err
}

// Err is the error that stopped the state, if any. Runners over a failed
// state yield nothing until Reset.
func (s *State) Err() error {
	return s.err
}

func (s *State) LeafCount() int {
	return s.leafCount
}

func (s *State) LeafIndex() int {
	return s.leafIndex
}

// Offset is the absolute index of the first row of the current leaf.
func (s *State) Offset() int {
	return s.offset
}
