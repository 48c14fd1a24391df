package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/dot5enko/leaf-query/columnstore"
	"github.com/dot5enko/leaf-query/ops"
	"github.com/dot5enko/leaf-query/query"
	"github.com/dot5enko/leaf-query/schema"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type benchOptions struct {
	rows     int
	leafRows int
	seal     bool
	linear   bool
	seed     int64
	cycles   int

	createdBefore int64
	minValue      float64
}

func newBenchCmd() *cobra.Command {
	opts := benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Generate a random table and time a predicate over it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.rows, "rows", 1_000_000, "rows to generate")
	f.IntVar(&opts.leafRows, "leaf-rows", columnstore.DefaultLeafRows, "rows per leaf")
	f.BoolVar(&opts.seal, "seal", false, "lz4 compress leaves before querying")
	f.BoolVar(&opts.linear, "linear", false, "disable vectorized comparison kernels")
	f.Int64Var(&opts.seed, "seed", 1, "random seed")
	f.IntVar(&opts.cycles, "cycles", 3, "times to run the query")
	f.Int64Var(&opts.createdBefore, "created-before", 25000, "match rows with created_at <= this")
	f.Float64Var(&opts.minValue, "min-value", 0.5, "match rows with value > this")

	return cmd
}

// genFakeTable fills a table with created_at int64, value float64 and flag bool
// columns. Every 97th value is null.
func genFakeTable(opts benchOptions) (*columnstore.Table, error) {
	rnd := rand.New(rand.NewSource(opts.seed))

	table := columnstore.New(columnstore.Config{LeafRows: opts.leafRows},
		schema.Int64FieldType,
		schema.Float64FieldType,
		schema.BoolFieldType,
	)

	for i := 0; i < opts.rows; i++ {
		value := schema.Float64(rnd.Float64())
		if i%97 == 0 {
			value = schema.Null()
		}

		err := table.AppendRow(
			schema.Int64(rnd.Int63n(50000)),
			value,
			schema.Bool(rnd.Intn(2) == 0),
		)
		if err != nil {
			return nil, err
		}
	}

	return table, nil
}

func benchQuery(opts benchOptions) query.Query {
	return query.Query{
		Root: query.And{
			query.Compare(0, ops.Lte, schema.Int64(opts.createdBefore)),
			query.Compare(1, ops.Gt, schema.Float64(opts.minValue)),
			query.Not{Term: query.Compare(2, ops.Eq, schema.Bool(true))},
		},
		Options: query.Options{DisableKernels: opts.linear},
	}
}

func runBench(cmd *cobra.Command, opts benchOptions) error {
	before := time.Now()

	table, err := genFakeTable(opts)
	if err != nil {
		return fmt.Errorf("unable to generate table: %w", err)
	}

	columns := []string{}
	for _, typ := range table.Schema().Columns {
		columns = append(columns, typ.String())
	}

	color.Cyan("generated %d rows in %d leaves of [%s] (%s)", table.Rows(), table.LeafCount(), strings.Join(columns, ", "), time.Since(before))

	if opts.seal {
		sealStart := time.Now()
		if err := table.Seal(cmd.Context()); err != nil {
			return fmt.Errorf("unable to seal table: %w", err)
		}
		color.Cyan("sealed in %s", time.Since(sealStart))
	}

	q := benchQuery(opts)
	color.White("query: %s", q.Root.String())

	for cycle := range opts.cycles {
		start := time.Now()

		matches, err := query.Collect(q, table)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}

		took := time.Since(start)
		perRow := took.Nanoseconds() / int64(max(table.Rows(), 1))

		color.Green("[%d] %d matches in %s, %d ns/row", cycle, len(matches), took, perRow)
	}

	if opts.seal {
		stats := table.CacheStats()
		color.Yellow("leaf cache: %d reads, %d hits, %d evictions, %d resident", stats.Reads, stats.Hits, stats.Evictions, table.CachedLeaves())
	}

	return nil
}
