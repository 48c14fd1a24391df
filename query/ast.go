package query

import (
	"fmt"
	"strings"

	"github.com/dot5enko/leaf-query/ops"
	"github.com/dot5enko/leaf-query/schema"
)

// Ast is an unbound predicate. It is built by the caller and never changed by
// compilation.
type Ast interface {
	fmt.Stringer

	isAst()
}

type (
	// And matches rows where every term matches; an empty And matches everything.
	And []Ast

	// Or matches rows where any term matches; an empty Or matches nothing.
	Or []Ast

	Not struct {
		Term Ast
	}

	// ColumnConstComparison is `column <Comparison> Value`. Column is a
	// positional index into a leaf's columns. The column must have the
	// type of Value.
	ColumnConstComparison struct {
		Column     int
		Value      schema.Value
		Comparison ops.Operator
	}

	// ColumnComparison is `Left <Comparison> Right` where both columns are of Type.
	ColumnComparison struct {
		Left, Right int
		Type        schema.FieldType
		Comparison  ops.Operator
	}
)

func (And) isAst()                   {}
func (Or) isAst()                    {}
func (Not) isAst()                   {}
func (ColumnConstComparison) isAst() {}
func (ColumnComparison) isAst()      {}

// Compare is shorthand for a ColumnConstComparison.
func Compare(column int, op ops.Operator, value schema.Value) ColumnConstComparison {
	return ColumnConstComparison{
		Column:     column,
		Value:      value,
		Comparison: op,
	}
}

func joinTerms(op string, terms []Ast) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		if t == nil {
			parts = append(parts, "<nil>")
			continue
		}
		parts = append(parts, t.String())
	}
	return op + "(" + strings.Join(parts, ", ") + ")"
}

func (a And) String() string {
	return joinTerms("AND", a)
}

func (o Or) String() string {
	return joinTerms("OR", o)
}

func (n Not) String() string {
	if n.Term == nil {
		return "NOT(<nil>)"
	}
	return "NOT(" + n.Term.String() + ")"
}

func (c ColumnConstComparison) String() string {
	return fmt.Sprintf("col%d %s %s", c.Column, c.Comparison.String(), c.Value.String())
}

func (c ColumnComparison) String() string {
	return fmt.Sprintf("col%d %s col%d", c.Left, c.Comparison.String(), c.Right)
}
