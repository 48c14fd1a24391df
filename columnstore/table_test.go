package columnstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dot5enko/leaf-query/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T, config Config, rows int) *Table {
	table := New(config, schema.Int64FieldType, schema.Float64FieldType, schema.BoolFieldType)

	for i := 0; i < rows; i++ {
		value := schema.Float64(float64(i) / 2)
		if i%5 == 0 {
			value = schema.Null()
		}
		require.NoError(t, table.AppendRow(schema.Int64(int64(i)), value, schema.Bool(i%2 == 0)))
	}

	return table
}

func leafValues(t *testing.T, table *Table, index int) [][]schema.Value {
	leaf, err := table.Leaf(index)
	require.NoError(t, err)
	require.NotNil(t, leaf)

	out := [][]schema.Value{}
	for idx, typ := range table.Schema().Columns {
		col, err := leaf.Column(idx, typ)
		require.NoError(t, err)

		values := make([]schema.Value, leaf.Len())
		for row := range values {
			v, ok := col.Get(row)
			if !ok {
				v = schema.Null()
			}
			values[row] = v
		}
		out = append(out, values)
	}

	return out
}

func TestAppendRowSplitsLeaves(t *testing.T) {
	table := sampleTable(t, Config{LeafRows: 4}, 10)

	assert.Equal(t, 3, table.LeafCount())
	assert.Equal(t, 10, table.Rows())

	last, err := table.Leaf(2)
	require.NoError(t, err)
	assert.Equal(t, 2, last.Len())

	values := leafValues(t, table, 1)
	assert.Equal(t, schema.Int64(4), values[0][0])
	assert.True(t, values[1][1].IsNull())
	assert.Equal(t, schema.Float64(3), values[1][2])
	assert.Equal(t, schema.Bool(true), values[2][2])

	// out of range
	leaf, err := table.Leaf(3)
	assert.NoError(t, err)
	assert.Nil(t, leaf)
	leaf, err = table.Leaf(-1)
	assert.NoError(t, err)
	assert.Nil(t, leaf)
}

func TestAppendRowErrors(t *testing.T) {
	table := New(Config{}, schema.Int64FieldType, schema.BoolFieldType)

	err := table.AppendRow(schema.Int64(1))
	assert.ErrorIs(t, err, ErrLeafShape)

	err = table.AppendRow(schema.Int64(1), schema.Int64(2))
	assert.ErrorIs(t, err, ErrValueType)

	assert.Equal(t, 0, table.LeafCount())

	require.NoError(t, table.AppendRow(schema.Null(), schema.Null()))
	assert.Equal(t, 1, table.Rows())
}

func TestAppendLeafErrors(t *testing.T) {
	table := New(Config{}, schema.Int64FieldType, schema.Float64FieldType)

	assert.ErrorIs(t, table.AppendLeaf(Int64s(1)), ErrLeafShape)
	assert.ErrorIs(t, table.AppendLeaf(Int64s(1), Bools(true)), ErrLeafShape)
	assert.ErrorIs(t, table.AppendLeaf(Int64s(1, 2), Float64s(1)), ErrLeafShape)
	assert.ErrorIs(t, table.AppendLeaf(make([]*Column, 0)...), ErrLeafShape)

	big := make([]int64, schema.BlockRowsSize+1)
	assert.ErrorIs(t, table.AppendLeaf(Int64s(big...), Float64s(make([]float64, len(big))...)), ErrLeafShape)

	assert.Equal(t, 0, table.LeafCount())
}

func TestAppendLeafClosesOpenLeaf(t *testing.T) {
	table := New(Config{LeafRows: 10}, schema.Int64FieldType)

	require.NoError(t, table.AppendRow(schema.Int64(1)))
	require.NoError(t, table.AppendLeaf(Int64s(2, 3)))
	require.NoError(t, table.AppendRow(schema.Int64(4)))

	assert.Equal(t, 3, table.LeafCount())
}

func TestColumnMismatch(t *testing.T) {
	table := sampleTable(t, Config{}, 3)

	leaf, err := table.Leaf(0)
	require.NoError(t, err)

	_, err = leaf.Column(1, schema.Int64FieldType)
	var mismatch *schema.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 1, mismatch.Column)
	assert.Equal(t, schema.Float64FieldType, mismatch.Actual)
	assert.False(t, mismatch.Missing)

	_, err = leaf.Column(3, schema.Int64FieldType)
	require.ErrorAs(t, err, &mismatch)
	assert.True(t, mismatch.Missing)
}

func TestSealRoundTrip(t *testing.T) {
	table := sampleTable(t, Config{LeafRows: 70}, 200)

	before := [][][]schema.Value{}
	for i := 0; i < table.LeafCount(); i++ {
		before = append(before, leafValues(t, table, i))
	}

	require.NoError(t, table.Seal(context.Background()))

	for _, entry := range table.leaves {
		assert.Nil(t, entry.decoded)
		assert.NotEmpty(t, entry.sealed)
	}

	for i := 0; i < table.LeafCount(); i++ {
		assert.Equal(t, before[i], leafValues(t, table, i))
	}

	// sealing twice is a no-op
	require.NoError(t, table.Seal(context.Background()))
}

func TestSealedLeafKeepsID(t *testing.T) {
	table := sampleTable(t, Config{}, 3)

	leaf, err := table.Leaf(0)
	require.NoError(t, err)
	id := leaf.(*Leaf).ID()

	require.NoError(t, table.Seal(context.Background()))

	leaf, err = table.Leaf(0)
	require.NoError(t, err)
	assert.Equal(t, id, leaf.(*Leaf).ID())
}

func TestSealedLeafCache(t *testing.T) {
	table := sampleTable(t, Config{LeafRows: 10, CacheLeaves: 2}, 30)
	require.NoError(t, table.Seal(context.Background()))

	first, err := table.Leaf(0)
	require.NoError(t, err)
	again, err := table.Leaf(0)
	require.NoError(t, err)
	assert.Same(t, first, again)

	stats := table.CacheStats()
	assert.Equal(t, 1, stats.Hits)

	_, err = table.Leaf(1)
	require.NoError(t, err)
	_, err = table.Leaf(2)
	require.NoError(t, err)

	assert.Equal(t, 1, table.CacheStats().Evictions)
	assert.Equal(t, 2, table.CachedLeaves())

	evicted, err := table.Leaf(0)
	require.NoError(t, err)
	assert.NotSame(t, first, evicted)
}

func TestAutoSeal(t *testing.T) {
	table := sampleTable(t, Config{LeafRows: 8, AutoSeal: true}, 20)

	require.Len(t, table.leaves, 3)
	assert.NotNil(t, table.leaves[0].sealed)
	assert.NotNil(t, table.leaves[1].sealed)
	assert.NotNil(t, table.leaves[2].decoded)

	values := leafValues(t, table, 1)
	assert.Equal(t, schema.Int64(8), values[0][0])
	assert.True(t, values[1][2].IsNull())

	require.NoError(t, table.AppendRow(schema.Int64(20), schema.Float64(1), schema.Bool(false)))
	assert.Equal(t, 21, table.Rows())
}

func TestAppendAfterSeal(t *testing.T) {
	table := sampleTable(t, Config{LeafRows: 10}, 5)
	require.NoError(t, table.Seal(context.Background()))

	require.NoError(t, table.AppendRow(schema.Int64(5), schema.Null(), schema.Bool(true)))
	assert.Equal(t, 2, table.LeafCount())
}

func TestCorruptLeaf(t *testing.T) {
	table := sampleTable(t, Config{}, 10)
	require.NoError(t, table.Seal(context.Background()))

	entry := table.leaves[0]
	entry.sealed = []byte("definitely not an lz4 frame")

	_, err := table.Leaf(0)
	assert.ErrorIs(t, err, ErrCorruptLeaf)
}

func TestDecodeTruncated(t *testing.T) {
	table := sampleTable(t, Config{}, 10)

	raw := encodeLeaf(table.leaves[0].decoded)
	assert.Equal(t, encodedLeafSize(table.leaves[0].decoded), len(raw))

	_, err := decodeLeaf(raw[:len(raw)-3], table.Schema())
	assert.ErrorIs(t, err, ErrCorruptLeaf)

	other := schema.Schema{Columns: []schema.FieldType{schema.Int64FieldType}}
	_, err = decodeLeaf(raw, other)
	assert.ErrorIs(t, err, ErrCorruptLeaf)

	swapped := schema.Schema{Columns: []schema.FieldType{schema.BoolFieldType, schema.Float64FieldType, schema.BoolFieldType}}
	_, err = decodeLeaf(raw, swapped)
	assert.ErrorIs(t, err, ErrCorruptLeaf)
}

func TestConcurrentLeafLoads(t *testing.T) {
	table := sampleTable(t, Config{LeafRows: 50}, 200)
	require.NoError(t, table.Seal(context.Background()))

	var wg sync.WaitGroup
	errs := make(chan error, 32)

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			leaf, err := table.Leaf(i % table.LeafCount())
			if err == nil && leaf.Len() != 50 {
				err = errors.New("unexpected leaf size")
			}
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestSealCancelled(t *testing.T) {
	table := sampleTable(t, Config{LeafRows: 10}, 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := table.Seal(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	// nothing is swapped in on failure
	for _, entry := range table.leaves {
		assert.NotNil(t, entry.decoded)
	}
}

func TestColumnNulls(t *testing.T) {
	col := Int64s(1, 2, 3).WithNulls(1, 7, -1)

	assert.True(t, col.HasNulls())

	_, ok := col.Get(1)
	assert.False(t, ok)

	v, ok := col.Get(2)
	assert.True(t, ok)
	assert.Equal(t, int64(3), v.Int64())

	_, ok = col.Get(3)
	assert.False(t, ok)

	values, validity := col.Int64s()
	assert.Equal(t, []int64{1, 2, 3}, values)
	assert.Equal(t, 2, validity.Count())
	assert.Equal(t, 1, col.NullCount())

	assert.False(t, Bools(true).HasNulls())
	assert.Equal(t, 0, Bools(true).NullCount())
}
