package scan

import (
	"github.com/dot5enko/leaf-query/source"
)

// And matches rows where every condition matches. With no conditions it
// matches every row of the leaf.
type And struct {
	// TODO: order conditions by cost so the cheapest comparison runs first.
	conditions []Scanner
	cursor
}

// NewAnd combines conditions; each is bound to the same leaf as the And.
func NewAnd(conditions ...Scanner) *And {
	return &And{conditions: conditions}
}

func (a *And) Bind(rows source.Rows) error {
	if err := bindAll(a.conditions, rows); err != nil {
		a.cursor.reset(nil)
		return err
	}

	a.cursor.reset(rows)
	return nil
}

func (a *And) NextTrue() (int, bool) {
	return a.cursor.scan(a, true)
}

func (a *And) NextFalse() (int, bool) {
	return a.cursor.scan(a, false)
}

func (a *And) IsTrue(row int) bool {
	if !a.inRange(row) {
		return false
	}

	for _, cond := range a.conditions {
		if !cond.IsTrue(row) {
			return false
		}
	}

	return true
}

// Or matches rows where at least one condition matches. With no conditions
// it matches nothing.
type Or struct {
	conditions []Scanner
	cursor
}

// NewOr combines conditions; each is bound to the same leaf as the Or.
func NewOr(conditions ...Scanner) *Or {
	return &Or{conditions: conditions}
}

func (o *Or) Bind(rows source.Rows) error {
	if err := bindAll(o.conditions, rows); err != nil {
		o.cursor.reset(nil)
		return err
	}

	o.cursor.reset(rows)
	return nil
}

func (o *Or) NextTrue() (int, bool) {
	return o.cursor.scan(o, true)
}

func (o *Or) NextFalse() (int, bool) {
	return o.cursor.scan(o, false)
}

func (o *Or) IsTrue(row int) bool {
	if !o.inRange(row) {
		return false
	}

	for _, cond := range o.conditions {
		if cond.IsTrue(row) {
			return true
		}
	}

	return false
}

// Not inverts its condition by swapping the true and false scans.
type Not struct {
	cond Scanner
	len  int
}

// NewNot wraps cond, which shares the Not's scan position.
func NewNot(cond Scanner) *Not {
	return &Not{cond: cond}
}

func (n *Not) Bind(rows source.Rows) error {
	n.len = 0

	if err := n.cond.Bind(rows); err != nil {
		return err
	}

	if rows != nil {
		n.len = rows.Len()
	}
	return nil
}

func (n *Not) NextTrue() (int, bool) {
	return n.cond.NextFalse()
}

func (n *Not) NextFalse() (int, bool) {
	return n.cond.NextTrue()
}

func (n *Not) IsTrue(row int) bool {
	if row < 0 || row >= n.len {
		return false
	}
	return !n.cond.IsTrue(row)
}
