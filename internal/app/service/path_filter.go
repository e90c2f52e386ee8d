package service

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// pathFilterCapacity sizes the Bloom filter; at one million links the false
// positive rate stays around 0.1%, and a false positive only costs one extra
// path generation.
const (
	pathFilterCapacity = 1_000_000
	pathFilterFPRate   = 0.001
)

// PathFilter is a concurrency-safe Bloom filter over link paths already
// issued. It lets the create loop skip paths known to be taken without a
// round trip to Postgres; the unique index remains the source of truth.
type PathFilter struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
}

// NewPathFilter returns an empty filter.
func NewPathFilter() *PathFilter {
	return &PathFilter{
		filter: bloom.NewWithEstimates(pathFilterCapacity, pathFilterFPRate),
	}
}

// Seed loads existing paths, typically from the store at startup.
func (f *PathFilter) Seed(paths []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range paths {
		f.filter.Add([]byte(p))
	}
}

// Add records a path issued elsewhere (e.g. learned from a link event).
func (f *PathFilter) Add(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter.Add([]byte(path))
}

// TestAndAdd reports whether path was (probably) already present, adding it
// either way.
func (f *PathFilter) TestAndAdd(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter.TestOrAdd([]byte(path))
}
