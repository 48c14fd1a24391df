// Package source declares what the query engine needs from a storage layer:
// a relation split into leaves, each leaf a set of positional typed columns.
package source

import (
	"github.com/dot5enko/leaf-query/bits"
	"github.com/dot5enko/leaf-query/schema"
)

// LeafSource is a whole partitioned relation, like a cluster tree.
type LeafSource interface {
	// LeafCount is the number of leaves.
	LeafCount() int

	// Leaf returns the leaf at the 0-based index, or a nil Rows when the
	// index is out of range.
	Leaf(index int) (Rows, error)
}

// Rows is a single leaf.
type Rows interface {
	Len() int

	// Column resolves a positional column index to a typed accessor. A column
	// of another type, or a missing column, yields a *schema.SchemaMismatchError.
	Column(index int, typ schema.FieldType) (Column, error)
}

// Column is the per-leaf array of one column.
type Column interface {
	Type() schema.FieldType

	// Get returns false when the row holds no value.
	Get(row int) (schema.Value, bool)
}

// Int64Array is implemented by columns that can hand out their backing array.
// Validity is nil when the column has no nulls; otherwise a set bit marks a
// present value.
type Int64Array interface {
	Int64s() (values []int64, validity *bits.Bitfield)
}

type Float64Array interface {
	Float64s() (values []float64, validity *bits.Bitfield)
}

type BoolArray interface {
	Bools() (values []bool, validity *bits.Bitfield)
}
