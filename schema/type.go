package schema

type FieldType uint8

const (
	Int64FieldType FieldType = iota
	Float64FieldType
	BoolFieldType
)

func (f FieldType) String() string {
	switch f {
	case Int64FieldType:
		return "Int64"
	case Float64FieldType:
		return "Float64"
	case BoolFieldType:
		return "Bool"
	default:
		return ""
	}
}

func (f FieldType) Valid() bool {
	return f <= BoolFieldType
}

// Size is the encoded width of a single value.
func (f FieldType) Size() int {
	switch f {
	case BoolFieldType:
		return 1
	case Int64FieldType, Float64FieldType:
		return 8
	default:
		panic("unknown field type " + f.String())
	}
}
