package columnstore

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/dot5enko/leaf-query/bits"
	"github.com/dot5enko/leaf-query/schema"
)

// leafHeaderSize is uuid + rows + column count.
const leafHeaderSize = 16 + 4 + 2

func encodedLeafSize(l *Leaf) int {
	size := leafHeaderSize
	words := validityWords(l.rows)

	for _, col := range l.columns {
		size += 2
		if col.HasNulls() {
			size += words * 8
		}
		size += l.rows * col.typ.Size()
	}

	return size
}

func validityWords(rows int) int {
	return (rows + 63) / 64
}

func encodeLeaf(l *Leaf) []byte {
	bw := bits.NewEncodeBuffer(make([]byte, encodedLeafSize(l)), binary.LittleEndian)

	bw.Write(l.id[:])
	bw.PutUint32(uint32(l.rows))
	bw.PutUint16(uint16(len(l.columns)))

	for _, col := range l.columns {
		bw.WriteByte(uint8(col.typ))
		bw.PutBool(col.HasNulls())

		if col.HasNulls() {
			for i := 0; i < validityWords(l.rows); i++ {
				bw.PutUint64(col.validity[i])
			}
		}

		switch col.typ {
		case schema.Int64FieldType:
			for _, v := range col.int64s {
				bw.PutInt64(v)
			}
		case schema.Float64FieldType:
			for _, v := range col.float64s {
				bw.PutFloat64(v)
			}
		case schema.BoolFieldType:
			for _, v := range col.bools {
				bw.PutBool(v)
			}
		}
	}

	return bw.Bytes()
}

func decodeLeaf(data []byte, s schema.Schema) (*Leaf, error) {
	reader := bits.NewReader(bytes.NewReader(data), binary.LittleEndian)

	id, err := reader.ReadUUID()
	if err != nil {
		return nil, fmt.Errorf("%w: unable to decode leaf id: %s", ErrCorruptLeaf, err.Error())
	}

	rows, err := reader.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("%w: unable to decode leaf row count: %s", ErrCorruptLeaf, err.Error())
	}
	if rows > schema.BlockRowsSize {
		return nil, fmt.Errorf("%w: leaf %s claims %d rows", ErrCorruptLeaf, id.String(), rows)
	}

	columnsCount, err := reader.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("%w: unable to decode column count: %s", ErrCorruptLeaf, err.Error())
	}
	if int(columnsCount) != s.Len() {
		return nil, fmt.Errorf("%w: leaf %s has %d columns, schema has %d", ErrCorruptLeaf, id.String(), columnsCount, s.Len())
	}

	leaf := &Leaf{
		id:      id,
		rows:    int(rows),
		columns: make([]*Column, columnsCount),
	}

	for idx := range leaf.columns {
		col, colErr := decodeColumn(reader, s.Columns[idx], int(rows))
		if colErr != nil {
			return nil, fmt.Errorf("%w: leaf %s column %d: %s", ErrCorruptLeaf, id.String(), idx, colErr.Error())
		}
		leaf.columns[idx] = col
	}

	return leaf, nil
}

func decodeColumn(reader *bits.BitsReader, want schema.FieldType, rows int) (*Column, error) {
	typRaw, err := reader.ReadU8()
	if err != nil {
		return nil, err
	}

	typ := schema.FieldType(typRaw)
	if typ != want {
		return nil, fmt.Errorf("type %s, schema says %s", typ.String(), want.String())
	}

	hasNulls, err := reader.ReadBool()
	if err != nil {
		return nil, err
	}

	col := newColumn(typ)

	if hasNulls {
		col.validity = &bits.Bitfield{}
		for i := 0; i < validityWords(rows); i++ {
			if col.validity[i], err = reader.ReadU64(); err != nil {
				return nil, err
			}
		}
	}

	switch typ {
	case schema.Int64FieldType:
		col.int64s = make([]int64, rows)
		for i := range col.int64s {
			if col.int64s[i], err = reader.ReadI64(); err != nil {
				return nil, err
			}
		}
	case schema.Float64FieldType:
		col.float64s = make([]float64, rows)
		for i := range col.float64s {
			if col.float64s[i], err = reader.ReadF64(); err != nil {
				return nil, err
			}
		}
	case schema.BoolFieldType:
		col.bools = make([]bool, rows)
		for i := range col.bools {
			if col.bools[i], err = reader.ReadBool(); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unknown column type %d", typRaw)
	}

	return col, nil
}
