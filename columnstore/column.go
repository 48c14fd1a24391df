package columnstore

import (
	"fmt"

	"github.com/dot5enko/leaf-query/bits"
	"github.com/dot5enko/leaf-query/schema"
)

// Column is the array of one column within one leaf.
type Column struct {
	typ schema.FieldType

	int64s   []int64
	float64s []float64
	bools    []bool

	// nil when every row has a value
	validity *bits.Bitfield
}

func Int64s(values ...int64) *Column {
	return &Column{typ: schema.Int64FieldType, int64s: values}
}

func Float64s(values ...float64) *Column {
	return &Column{typ: schema.Float64FieldType, float64s: values}
}

func Bools(values ...bool) *Column {
	return &Column{typ: schema.BoolFieldType, bools: values}
}

func newColumn(typ schema.FieldType) *Column {
	return &Column{typ: typ}
}

// WithNulls marks rows as having no value. Rows outside the column are ignored.
func (c *Column) WithNulls(rows ...int) *Column {
	n := c.Len()

	for _, row := range rows {
		if row < 0 || row >= n {
			continue
		}
		c.ensureValidity()
		c.validity.Clear(row)
	}

	return c
}

func (c *Column) ensureValidity() {
	if c.validity == nil {
		c.validity = &bits.Bitfield{}
		c.validity.SetFirst(c.Len())
	}
}

func (c *Column) Type() schema.FieldType {
	return c.typ
}

func (c *Column) Len() int {
	switch c.typ {
	case schema.Int64FieldType:
		return len(c.int64s)
	case schema.Float64FieldType:
		return len(c.float64s)
	case schema.BoolFieldType:
		return len(c.bools)
	default:
		return 0
	}
}

func (c *Column) HasNulls() bool {
	return c.validity != nil
}

// NullCount is the number of rows without a value.
func (c *Column) NullCount() int {
	if c.validity == nil {
		return 0
	}
	return c.Len() - c.validity.Count()
}

func (c *Column) Get(row int) (schema.Value, bool) {
	if row < 0 || row >= c.Len() {
		return schema.Value{}, false
	}

	if c.validity != nil && !c.validity.Get(row) {
		return schema.Value{}, false
	}

	switch c.typ {
	case schema.Int64FieldType:
		return schema.Int64(c.int64s[row]), true
	case schema.Float64FieldType:
		return schema.Float64(c.float64s[row]), true
	case schema.BoolFieldType:
		return schema.Bool(c.bools[row]), true
	default:
		return schema.Value{}, false
	}
}

func (c *Column) Int64s() ([]int64, *bits.Bitfield) {
	return c.int64s, c.validity
}

func (c *Column) Float64s() ([]float64, *bits.Bitfield) {
	return c.float64s, c.validity
}

func (c *Column) Bools() ([]bool, *bits.Bitfield) {
	return c.bools, c.validity
}

func (c *Column) append(v schema.Value) error {
	if !v.IsNull() && v.Type() != c.typ {
		return fmt.Errorf("%w: cannot append %s value to %s column", ErrValueType, v.Type().String(), c.typ.String())
	}

	row := c.Len()
	if row >= bits.BitfieldSize {
		return fmt.Errorf("column is full (%d rows)", row)
	}

	if v.IsNull() {
		c.ensureValidity()
	}

	switch c.typ {
	case schema.Int64FieldType:
		c.int64s = append(c.int64s, v.Int64())
	case schema.Float64FieldType:
		c.float64s = append(c.float64s, v.Float64())
	case schema.BoolFieldType:
		c.bools = append(c.bools, v.Bool())
	}

	if c.validity != nil {
		c.validity.SetTo(row, !v.IsNull())
	}

	return nil
}
