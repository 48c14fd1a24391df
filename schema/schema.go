package schema

// BlockRowsSize is the largest number of rows a single leaf may hold.
// Per-leaf bitfields are sized to it.
const BlockRowsSize = 32 * 1024 // 32k rows per leaf

// Schema is the positional column layout shared by every leaf of a relation.
type Schema struct {
	Columns []FieldType
}

func (s Schema) Len() int {
	return len(s.Columns)
}

func (s Schema) Column(index int) (FieldType, bool) {
	if index < 0 || index >= len(s.Columns) {
		return 0, false
	}
	return s.Columns[index], true
}
