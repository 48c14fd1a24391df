package cache

import "time"

type CacheStats struct {
	Reads     int
	Hits      int
	Evictions int

	Created time.Time
}

func (s CacheStats) Misses() int {
	return s.Reads - s.Hits
}
