package ops

import (
	"fmt"

	"github.com/dot5enko/leaf-query/bits"
	"golang.org/x/exp/constraints"
)

// Filter sets in out the bit of every index i where arr[i] op needle holds.
// out is cleared first. len(arr) must not exceed bits.BitfieldSize.
func Filter[T constraints.Ordered](op Operator, arr []T, needle T, out *bits.Bitfield) {
	if len(arr) > bits.BitfieldSize {
		panic(fmt.Sprintf("filter input of %d items exceeds bitfield size %d", len(arr), bits.BitfieldSize))
	}

	out.Reset()

	switch op {
	case Eq:
		CompareValuesAreEqual(arr, needle, out)
	case Neq:
		CompareValuesAreNotEqual(arr, needle, out)
	case Lt:
		CompareValuesAreSmaller(arr, needle, out)
	case Lte:
		CompareValuesAreSmallerOrEqual(arr, needle, out)
	case Gt:
		CompareValuesAreBigger(arr, needle, out)
	case Gte:
		CompareValuesAreBiggerOrEqual(arr, needle, out)
	default:
		panic(fmt.Sprintf("unknown operator %v", byte(op)))
	}
}

func FilterBool(op Operator, arr []bool, needle bool, out *bits.Bitfield) {
	if len(arr) > bits.BitfieldSize {
		panic(fmt.Sprintf("filter input of %d items exceeds bitfield size %d", len(arr), bits.BitfieldSize))
	}

	out.Reset()

	for i, v := range arr {
		if ApplyBool(op, v, needle) {
			out.Set(i)
		}
	}
}
