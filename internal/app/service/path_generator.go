package service

import (
	"math/rand"
	"sync"
)

const (
	// PathLength is the fixed length of generated link paths. 24 characters
	// over a 36-symbol alphabet is ~124 bits of entropy, so accidental
	// collisions are negligible; the unique index stays authoritative.
	PathLength = 24

	pathAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// PathGenerator produces short link paths, uniformly random per character.
// Safe for concurrent use.
type PathGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPathGenerator returns a generator with a randomly seeded source.
func NewPathGenerator() *PathGenerator {
	return NewSeededPathGenerator(rand.Uint64(), rand.Uint64())
}

// NewSeededPathGenerator returns a generator with a deterministic source.
// Used in tests to make output reproducible.
func NewSeededPathGenerator(seed1, seed2 uint64) *PathGenerator {
	return &PathGenerator{rng: rand.New(rand.NewSource(int64(seed1*0x9E3779B97F4A7C15 ^ seed2)))}
}

// Generate returns a fresh PathLength-character path over [A-Z0-9].
func (g *PathGenerator) Generate() string {
	buf := make([]byte, PathLength)

	g.mu.Lock()
	for i := range buf {
		buf[i] = pathAlphabet[g.rng.Intn(len(pathAlphabet))]
	}
	g.mu.Unlock()

	return string(buf)
}
