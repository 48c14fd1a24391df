package columnstore

import (
	"github.com/dot5enko/leaf-query/schema"
	"github.com/dot5enko/leaf-query/source"
	"github.com/google/uuid"
)

// Leaf is a contiguous run of rows stored as parallel column arrays.
type Leaf struct {
	id   uuid.UUID
	rows int

	columns []*Column
}

func (l *Leaf) ID() uuid.UUID {
	return l.id
}

func (l *Leaf) Len() int {
	return l.rows
}

func (l *Leaf) Column(index int, typ schema.FieldType) (source.Column, error) {
	if index < 0 || index >= len(l.columns) {
		return nil, &schema.SchemaMismatchError{Column: index, Expected: typ, Missing: true}
	}

	col := l.columns[index]
	if col.typ != typ {
		return nil, &schema.SchemaMismatchError{Column: index, Expected: typ, Actual: col.typ}
	}

	return col, nil
}
