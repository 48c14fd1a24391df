package scan

import (
	"github.com/dot5enko/leaf-query/bits"
	"github.com/dot5enko/leaf-query/ops"
	"github.com/dot5enko/leaf-query/schema"
	"github.com/dot5enko/leaf-query/source"
)

func compareValues(op ops.Operator, a, b schema.Value) bool {
	switch a.Type() {
	case schema.Int64FieldType:
		return ops.Apply(op, a.Int64(), b.Int64())
	case schema.Float64FieldType:
		return ops.Apply(op, a.Float64(), b.Float64())
	case schema.BoolFieldType:
		return ops.ApplyBool(op, a.Bool(), b.Bool())
	default:
		return false
	}
}

type kernelState uint8

const (
	kernelPending kernelState = iota
	kernelReady
	kernelUnavailable
)

// ConstComparison compares one column against a constant. Rows without a
// value never match.
type ConstComparison struct {
	column int
	needle schema.Value
	op     ops.Operator

	col source.Column
	cursor

	linear  bool
	state   kernelState
	matches *bits.Bitfield
}

// NewConstComparison builds column op needle. needle must not be null; its
// type is the type the column is expected to have.
func NewConstComparison(column int, op ops.Operator, needle schema.Value) *ConstComparison {
	return &ConstComparison{
		column: column,
		needle: needle,
		op:     op,
	}
}

// SetLinear turns off the vectorized scan, leaving the IsTrue-per-row scan.
func (c *ConstComparison) SetLinear(linear bool) {
	c.linear = linear
}

func (c *ConstComparison) Bind(rows source.Rows) error {
	c.col = nil
	c.state = kernelPending
	c.cursor.reset(nil)

	if rows == nil {
		return nil
	}

	col, err := rows.Column(c.column, c.needle.Type())
	if err != nil {
		return err
	}

	c.col = col
	c.cursor.reset(rows)
	return nil
}

func (c *ConstComparison) NextTrue() (int, bool) {
	if c.kernelMatches() {
		return c.nextFromMatches(true)
	}
	return c.cursor.scan(c, true)
}

func (c *ConstComparison) NextFalse() (int, bool) {
	if c.kernelMatches() {
		return c.nextFromMatches(false)
	}
	return c.cursor.scan(c, false)
}

func (c *ConstComparison) IsTrue(row int) bool {
	if c.col == nil || !c.inRange(row) {
		return false
	}

	value, ok := c.col.Get(row)
	if !ok {
		return false
	}

	return compareValues(c.op, value, c.needle)
}

func (c *ConstComparison) nextFromMatches(want bool) (int, bool) {
	var idx int
	if want {
		idx = c.matches.NextSet(c.i, c.len)
	} else {
		idx = c.matches.NextClear(c.i, c.len)
	}

	if idx < 0 {
		c.i = c.len
		return 0, false
	}

	c.i = idx + 1
	return idx, true
}

// kernelMatches evaluates the whole leaf into c.matches on first use after
// Bind, when the column exposes its backing array.
func (c *ConstComparison) kernelMatches() bool {
	switch c.state {
	case kernelReady:
		return true
	case kernelUnavailable:
		return false
	}

	c.state = kernelUnavailable

	if c.linear || c.col == nil || c.len > bits.BitfieldSize {
		return false
	}

	if c.matches == nil {
		c.matches = &bits.Bitfield{}
	}

	var validity *bits.Bitfield

	switch c.needle.Type() {
	case schema.Int64FieldType:
		arr, ok := c.col.(source.Int64Array)
		if !ok {
			return false
		}
		values, valid := arr.Int64s()
		if len(values) < c.len {
			return false
		}
		ops.Filter(c.op, values[:c.len], c.needle.Int64(), c.matches)
		validity = valid

	case schema.Float64FieldType:
		arr, ok := c.col.(source.Float64Array)
		if !ok {
			return false
		}
		values, valid := arr.Float64s()
		if len(values) < c.len {
			return false
		}
		ops.Filter(c.op, values[:c.len], c.needle.Float64(), c.matches)
		validity = valid

	case schema.BoolFieldType:
		arr, ok := c.col.(source.BoolArray)
		if !ok {
			return false
		}
		values, valid := arr.Bools()
		if len(values) < c.len {
			return false
		}
		ops.FilterBool(c.op, values[:c.len], c.needle.Bool(), c.matches)
		validity = valid

	default:
		return false
	}

	if validity != nil {
		c.matches.And(validity)
	}

	c.state = kernelReady
	return true
}

// ColumnComparison compares two columns of the same type row by row. Rows
// where either side has no value never match, except that a column compared
// to itself with an operator that holds for equal operands (=, <=, >=) matches
// every row without reading it.
type ColumnComparison struct {
	left, right int
	typ         schema.FieldType
	op          ops.Operator

	colLeft, colRight source.Column
	cursor
}

// NewColumnComparison builds left op right. Both columns must be of typ.
func NewColumnComparison(left, right int, typ schema.FieldType, op ops.Operator) *ColumnComparison {
	return &ColumnComparison{
		left:  left,
		right: right,
		typ:   typ,
		op:    op,
	}
}

func (c *ColumnComparison) Bind(rows source.Rows) error {
	c.colLeft, c.colRight = nil, nil
	c.cursor.reset(nil)

	if rows == nil {
		return nil
	}

	left, err := rows.Column(c.left, c.typ)
	if err != nil {
		return err
	}
	right, err := rows.Column(c.right, c.typ)
	if err != nil {
		return err
	}

	c.colLeft, c.colRight = left, right
	c.cursor.reset(rows)
	return nil
}

func (c *ColumnComparison) NextTrue() (int, bool) {
	return c.cursor.scan(c, true)
}

func (c *ColumnComparison) NextFalse() (int, bool) {
	return c.cursor.scan(c, false)
}

func (c *ColumnComparison) IsTrue(row int) bool {
	if !c.inRange(row) {
		return false
	}

	if c.left == c.right && c.op.IdentityIsTrue() {
		return true
	}

	a, ok := c.colLeft.Get(row)
	if !ok {
		return false
	}
	b, ok := c.colRight.Get(row)
	if !ok {
		return false
	}

	return compareValues(c.op, a, b)
}
