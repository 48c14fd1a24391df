package ops

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type Operator byte

const (
	Eq Operator = iota
	Neq
	Lt
	Lte
	Gt
	Gte
)

func (op Operator) String() string {
	switch op {
	case Eq:
		return "="
	case Neq:
		return "!="
	case Lt:
		return "<"
	case Lte:
		return "<="
	case Gt:
		return ">"
	case Gte:
		return ">="
	default:
		return fmt.Sprintf("Operator(%d)", byte(op))
	}
}

func (op Operator) Valid() bool {
	return op <= Gte
}

// IdentityIsTrue reports whether x op x holds for every x.
func (op Operator) IdentityIsTrue() bool {
	switch op {
	case Eq, Lte, Gte:
		return true
	default:
		return false
	}
}

func Apply[T constraints.Ordered](op Operator, a, b T) bool {
	switch op {
	case Eq:
		return a == b
	case Neq:
		return a != b
	case Lt:
		return a < b
	case Lte:
		return a <= b
	case Gt:
		return a > b
	case Gte:
		return a >= b
	default:
		panic(fmt.Sprintf("unknown operator %v", byte(op)))
	}
}

// ApplyBool orders false before true.
func ApplyBool(op Operator, a, b bool) bool {
	return Apply(op, b2u(a), b2u(b))
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
