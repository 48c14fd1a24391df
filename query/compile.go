package query

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dot5enko/leaf-query/scan"
	"github.com/dot5enko/leaf-query/schema"
	"github.com/dot5enko/leaf-query/source"
)

var (
	ErrInvalidAst = errors.New("invalid predicate")
)

type Options struct {
	// DisableKernels makes constant comparisons test rows one at a time
	// instead of evaluating whole leaves with the vectorized filters.
	DisableKernels bool

	Logger *slog.Logger
}

// Compile lowers an Ast into a scanner tree with default options.
func Compile(ast Ast) (scan.Scanner, error) {
	return Options{}.Compile(ast)
}

// Compile lowers an Ast into a scanner tree. It reads no leaf data; the tree
// is unbound until it is handed to a State.
func (o Options) Compile(ast Ast) (scan.Scanner, error) {
	switch node := ast.(type) {
	case And:
		terms, err := o.compileTerms(node)
		if err != nil {
			return nil, err
		}
		return scan.NewAnd(terms...), nil

	case Or:
		terms, err := o.compileTerms(node)
		if err != nil {
			return nil, err
		}
		return scan.NewOr(terms...), nil

	case Not:
		term, err := o.Compile(node.Term)
		if err != nil {
			return nil, err
		}
		return scan.NewNot(term), nil

	case ColumnConstComparison:
		if node.Column < 0 {
			return nil, fmt.Errorf("%w: negative column index %d in %s", ErrInvalidAst, node.Column, node.String())
		}
		if !node.Comparison.Valid() {
			return nil, fmt.Errorf("%w: unknown comparison %s", ErrInvalidAst, node.Comparison.String())
		}
		if node.Value.IsNull() {
			return nil, fmt.Errorf("%w: null constant in %s", ErrInvalidAst, node.String())
		}

		switch node.Value.Type() {
		case schema.Int64FieldType, schema.Float64FieldType, schema.BoolFieldType:
			cond := scan.NewConstComparison(node.Column, node.Comparison, node.Value)
			cond.SetLinear(o.DisableKernels)
			return cond, nil
		default:
			return nil, fmt.Errorf("%w: unsupported constant type %d in %s", ErrInvalidAst, node.Value.Type(), node.String())
		}

	case ColumnComparison:
		if node.Left < 0 || node.Right < 0 {
			return nil, fmt.Errorf("%w: negative column index in %s", ErrInvalidAst, node.String())
		}
		if !node.Comparison.Valid() {
			return nil, fmt.Errorf("%w: unknown comparison %s", ErrInvalidAst, node.Comparison.String())
		}
		if !node.Type.Valid() {
			return nil, fmt.Errorf("%w: unsupported column type %d in %s", ErrInvalidAst, node.Type, node.String())
		}
		return scan.NewColumnComparison(node.Left, node.Right, node.Type, node.Comparison), nil

	case nil:
		return nil, fmt.Errorf("%w: nil node", ErrInvalidAst)

	default:
		return nil, fmt.Errorf("%w: unsupported node %T", ErrInvalidAst, ast)
	}
}

func (o Options) compileTerms(terms []Ast) ([]scan.Scanner, error) {
	compiled := make([]scan.Scanner, 0, len(terms))

	for _, term := range terms {
		s, err := o.Compile(term)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, s)
	}

	return compiled, nil
}

// Query is an unbound predicate plus the options it is compiled with.
type Query struct {
	Root    Ast
	Options Options
}

// Compile builds the scanner tree and binds it to the first leaf of source.
func (q Query) Compile(src source.LeafSource) (*State, error) {
	scanner, err := q.Options.Compile(q.Root)
	if err != nil {
		return nil, err
	}

	state, err := NewState(scanner, src)
	if err != nil {
		return nil, err
	}

	if q.Options.Logger != nil {
		state.logger = q.Options.Logger
	}

	return state, nil
}

// Collect compiles q against src and returns every matching row index.
func Collect(q Query, src source.LeafSource) ([]int, error) {
	state, err := q.Compile(src)
	if err != nil {
		return nil, err
	}

	runner := NewRunner(state, src)

	result := []int{}
	for idx := range runner.All() {
		result = append(result, idx)
	}

	return result, runner.Err()
}
