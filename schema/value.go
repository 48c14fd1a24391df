package schema

import (
	"fmt"
	"strconv"
)

// Value is a single cell: an int64, a float64, a bool, or null.
type Value struct {
	typ  FieldType
	null bool

	i int64
	f float64
	b bool
}

func Int64(v int64) Value {
	return Value{typ: Int64FieldType, i: v}
}

func Float64(v float64) Value {
	return Value{typ: Float64FieldType, f: v}
}

func Bool(v bool) Value {
	return Value{typ: BoolFieldType, b: v}
}

// Null is an absent value. It is accepted by a column of any type.
func Null() Value {
	return Value{null: true}
}

func (v Value) Type() FieldType {
	return v.typ
}

func (v Value) IsNull() bool {
	return v.null
}

func (v Value) Int64() int64 {
	return v.i
}

func (v Value) Float64() float64 {
	return v.f
}

func (v Value) Bool() bool {
	return v.b
}

func (v Value) String() string {
	if v.null {
		return "null"
	}

	switch v.typ {
	case Int64FieldType:
		return strconv.FormatInt(v.i, 10)
	case Float64FieldType:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case BoolFieldType:
		return strconv.FormatBool(v.b)
	default:
		return fmt.Sprintf("<invalid type %d>", v.typ)
	}
}
