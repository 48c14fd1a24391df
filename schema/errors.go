package schema

import (
	"errors"
	"fmt"
)

var (
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// SchemaMismatchError reports a column requested with a type it does not have,
// or a column index the leaf does not contain. It means a predicate was compiled
// for a differently shaped source.
type SchemaMismatchError struct {
	Column int

	Expected FieldType
	Actual   FieldType

	// set when the leaf has fewer columns than Column
	Missing bool
}

func (e *SchemaMismatchError) Error() string {
	if e.Missing {
		return fmt.Sprintf("schema mismatch: column %d does not exist", e.Column)
	}
	return fmt.Sprintf("schema mismatch: column %d is %s, requested as %s", e.Column, e.Actual.String(), e.Expected.String())
}

func (e *SchemaMismatchError) Unwrap() error {
	return ErrSchemaMismatch
}
