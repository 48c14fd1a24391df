// Package scan holds the compiled, stateful form of a predicate: a tree of
// scanners that is bound to one leaf at a time and reports which of the leaf's
// rows satisfy the predicate.
package scan

import (
	"github.com/dot5enko/leaf-query/source"
)

// Scanner is a node of a compiled predicate tree.
type Scanner interface {
	// Bind resets the scanner and points it at a leaf. A nil leaf unbinds it.
	// On error the scanner is left unbound.
	Bind(rows source.Rows) error

	// NextTrue returns the lowest row after the last row returned by NextTrue
	// or NextFalse since Bind at which the condition holds.
	NextTrue() (int, bool)

	// NextFalse is NextTrue for rows where the condition does not hold.
	NextFalse() (int, bool)

	// IsTrue evaluates the condition at a row of the bound leaf without
	// moving the scan position. Rows outside the leaf never match.
	IsTrue(row int) bool
}

// cursor is the per-leaf scan position of a node.
type cursor struct {
	len int
	i   int
}

func (c *cursor) reset(rows source.Rows) {
	c.i = 0
	if rows != nil {
		c.len = rows.Len()
	} else {
		c.len = 0
	}
}

func (c *cursor) inRange(row int) bool {
	return row >= 0 && row < c.len
}

// scan is the baseline linear search: test every remaining row with IsTrue.
func (c *cursor) scan(s Scanner, want bool) (int, bool) {
	for c.i < c.len {
		i := c.i
		c.i++
		if s.IsTrue(i) == want {
			return i, true
		}
	}

	return 0, false
}

// bindAll binds every child to rows. If any child fails, all of them are
// unbound and the first error is returned.
func bindAll(conditions []Scanner, rows source.Rows) error {
	for _, cond := range conditions {
		if err := cond.Bind(rows); err != nil {
			for _, c := range conditions {
				_ = c.Bind(nil)
			}
			return err
		}
	}
	return nil
}
