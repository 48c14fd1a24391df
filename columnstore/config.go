package columnstore

import (
	"log/slog"

	"github.com/dot5enko/leaf-query/schema"
)

const (
	DefaultLeafRows    = 4096
	DefaultCacheLeaves = 8
)

type Config struct {
	// LeafRows is how many rows AppendRow puts in a leaf before starting
	// the next one. Capped to schema.BlockRowsSize.
	LeafRows int

	// AutoSeal compresses a leaf as soon as AppendRow fills it.
	AutoSeal bool

	// CacheLeaves is how many decoded sealed leaves are kept in memory.
	CacheLeaves int

	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.LeafRows <= 0 {
		c.LeafRows = DefaultLeafRows
	}
	if c.LeafRows > schema.BlockRowsSize {
		c.LeafRows = schema.BlockRowsSize
	}
	if c.CacheLeaves <= 0 {
		c.CacheLeaves = DefaultCacheLeaves
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
