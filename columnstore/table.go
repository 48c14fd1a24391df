// Package columnstore is an in-memory relation partitioned into fixed-size
// leaves of typed column arrays. Full leaves can be sealed: encoded and lz4
// compressed, then decoded again on demand through a small cache.
package columnstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/dot5enko/leaf-query/cache"
	"github.com/dot5enko/leaf-query/compression"
	"github.com/dot5enko/leaf-query/schema"
	"github.com/dot5enko/leaf-query/source"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	ErrValueType   = errors.New("value type does not match column type")
	ErrLeafShape   = errors.New("leaf does not match table schema")
	ErrCorruptLeaf = errors.New("corrupt sealed leaf")
)

type leafEntry struct {
	id   uuid.UUID
	rows int

	// exactly one of decoded and sealed is set
	decoded *Leaf
	sealed  []byte
	rawSize int
}

type Table struct {
	config Config
	schema schema.Schema

	lock   sync.RWMutex
	leaves []*leafEntry

	// last leaf still accepting AppendRow
	open *leafEntry

	decoded *cache.Ring[uuid.UUID, *Leaf]
	loads   singleflight.Group

	logger *slog.Logger
}

var _ source.LeafSource = (*Table)(nil)

func New(config Config, columns ...schema.FieldType) *Table {
	config = config.withDefaults()

	return &Table{
		config:  config,
		schema:  schema.Schema{Columns: columns},
		decoded: cache.NewRing[uuid.UUID, *Leaf](config.CacheLeaves),
		logger:  config.Logger,
	}
}

func (t *Table) Schema() schema.Schema {
	return t.schema
}

func (t *Table) LeafCount() int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return len(t.leaves)
}

// Rows is the total number of rows over all leaves.
func (t *Table) Rows() int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	total := 0
	for _, it := range t.leaves {
		total += it.rows
	}
	return total
}

func (t *Table) CacheStats() cache.CacheStats {
	return t.decoded.Stats()
}

// CachedLeaves is how many sealed leaves are currently held decoded.
func (t *Table) CachedLeaves() int {
	return t.decoded.Len()
}

func (t *Table) newLeaf(rows int, columns []*Column) *leafEntry {
	leaf := &Leaf{
		id:      uuid.New(),
		rows:    rows,
		columns: columns,
	}

	entry := &leafEntry{
		id:      leaf.id,
		rows:    rows,
		decoded: leaf,
	}

	t.leaves = append(t.leaves, entry)
	return entry
}

// AppendRow adds one row, one value per column. Values may be schema.Null().
func (t *Table) AppendRow(values ...schema.Value) error {
	if len(values) != t.schema.Len() {
		return fmt.Errorf("%w: got %d values, table has %d columns", ErrLeafShape, len(values), t.schema.Len())
	}

	for idx, v := range values {
		typ, _ := t.schema.Column(idx)
		if !v.IsNull() && v.Type() != typ {
			return fmt.Errorf("%w: column %d is %s, got %s", ErrValueType, idx, typ.String(), v.Type().String())
		}
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if t.open == nil || t.open.decoded == nil || t.open.rows >= t.config.LeafRows {
		columns := make([]*Column, t.schema.Len())
		for idx, typ := range t.schema.Columns {
			columns[idx] = newColumn(typ)
		}
		t.open = t.newLeaf(0, columns)
	}

	leaf := t.open.decoded
	for idx, v := range values {
		if err := leaf.columns[idx].append(v); err != nil {
			return err
		}
	}

	leaf.rows++
	t.open.rows++

	if t.open.rows >= t.config.LeafRows {
		full := t.open
		t.open = nil

		if t.config.AutoSeal {
			if err := t.sealEntry(full); err != nil {
				return err
			}
		}
	}

	return nil
}

// AppendLeaf adds a complete leaf. Every column must have the same length and
// the column types must follow the table schema.
func (t *Table) AppendLeaf(columns ...*Column) error {
	if len(columns) != t.schema.Len() {
		return fmt.Errorf("%w: got %d columns, table has %d", ErrLeafShape, len(columns), t.schema.Len())
	}

	rows := 0
	for idx, col := range columns {
		if col.typ != t.schema.Columns[idx] {
			return fmt.Errorf("%w: column %d is %s, schema says %s", ErrLeafShape, idx, col.typ.String(), t.schema.Columns[idx].String())
		}
		if idx == 0 {
			rows = col.Len()
		} else if col.Len() != rows {
			return fmt.Errorf("%w: column %d has %d rows, column 0 has %d", ErrLeafShape, idx, col.Len(), rows)
		}
	}

	if rows > schema.BlockRowsSize {
		return fmt.Errorf("%w: %d rows exceeds leaf capacity %d", ErrLeafShape, rows, schema.BlockRowsSize)
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	t.newLeaf(rows, columns)
	t.open = nil

	return nil
}

// Leaf returns the leaf at index, decoding it if it was sealed. Out of range
// indices return a nil Rows.
func (t *Table) Leaf(index int) (source.Rows, error) {
	t.lock.RLock()
	if index < 0 || index >= len(t.leaves) {
		t.lock.RUnlock()
		return nil, nil
	}
	entry := t.leaves[index]
	decoded, payload, rawSize := entry.decoded, entry.sealed, entry.rawSize
	t.lock.RUnlock()

	if decoded != nil {
		return decoded, nil
	}

	if cached, ok := t.decoded.Get(entry.id); ok {
		return cached, nil
	}

	loaded, err, _ := t.loads.Do(entry.id.String(), func() (any, error) {
		if cached, ok := t.decoded.Get(entry.id); ok {
			return cached, nil
		}

		raw, err := compression.DecompressLz4(payload, rawSize)
		if err != nil {
			return nil, fmt.Errorf("%w: leaf %s: %s", ErrCorruptLeaf, entry.id.String(), err.Error())
		}

		leaf, err := decodeLeaf(raw, t.schema)
		if err != nil {
			t.logger.Error("unable to decode sealed leaf", "leaf", entry.id.String(), "err", err, "head", spew.Sdump(raw[:min(len(raw), 64)]))
			return nil, err
		}

		t.decoded.Put(entry.id, leaf)
		return leaf, nil
	})

	if err != nil {
		return nil, err
	}

	return loaded.(*Leaf), nil
}

func compressLeaf(leaf *Leaf) (payload []byte, rawSize int, err error) {
	raw := encodeLeaf(leaf)

	var out bytes.Buffer
	if err := compression.CompressLz4(raw, &out); err != nil {
		return nil, 0, fmt.Errorf("unable to compress leaf %s: %w", leaf.id.String(), err)
	}

	return out.Bytes(), len(raw), nil
}

func (t *Table) sealEntry(entry *leafEntry) error {
	payload, rawSize, err := compressLeaf(entry.decoded)
	if err != nil {
		return err
	}

	entry.sealed = payload
	entry.rawSize = rawSize
	entry.decoded = nil

	return nil
}

// Seal compresses every leaf that is not sealed yet. Leaves are encoded in
// parallel; the table is locked for writes meanwhile.
func (t *Table) Seal(ctx context.Context) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	pending := []*leafEntry{}
	for _, it := range t.leaves {
		if it.decoded != nil {
			pending = append(pending, it)
		}
	}

	if len(pending) == 0 {
		return nil
	}

	type sealed struct {
		payload []byte
		rawSize int
	}

	results := make([]sealed, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for idx, entry := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			payload, rawSize, err := compressLeaf(entry.decoded)
			if err != nil {
				return err
			}

			results[idx] = sealed{payload: payload, rawSize: rawSize}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	rawTotal, compressedTotal, nulls := 0, 0, 0
	for idx, entry := range pending {
		for _, col := range entry.decoded.columns {
			nulls += col.NullCount()
		}

		entry.sealed = results[idx].payload
		entry.rawSize = results[idx].rawSize
		entry.decoded = nil

		rawTotal += entry.rawSize
		compressedTotal += len(entry.sealed)
	}
	t.open = nil

	t.logger.Info("sealed leaves", "count", len(pending), "raw_bytes", rawTotal, "compressed_bytes", compressedTotal, "nulls", nulls)

	return nil
}
