// Package idgen provides ID generation utilities
package idgen

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces identifiers for catalog records. Parts describe the record's
// position (catalog kind, catalog name, feature path) and may be ignored.
type Generator interface {
	Generate(parts ...string) string
}

// Namespace scopes name-based feature IDs
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/KirkDiggler/rpg-features/features"))

// NameBasedGenerator derives a stable UUIDv5 from the record's parts, so reloading
// the same catalog yields the same IDs.
type NameBasedGenerator struct {
	prefix string
}

// NewNameBased creates a generator with an optional prefix
func NewNameBased(prefix string) *NameBasedGenerator {
	return &NameBasedGenerator{prefix: prefix}
}

// Generate creates a deterministic ID from the lowercased parts
func (g *NameBasedGenerator) Generate(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = strings.ToLower(strings.TrimSpace(p))
	}
	id := uuid.NewSHA1(Namespace, []byte(strings.Join(normalized, "/"))).String()
	if g.prefix != "" {
		return fmt.Sprintf("%s_%s", g.prefix, id)
	}
	return id
}

// RandomGenerator generates random UUIDv4 IDs
type RandomGenerator struct {
	prefix string
}

// NewRandom creates a random generator with an optional prefix
func NewRandom(prefix string) *RandomGenerator {
	return &RandomGenerator{prefix: prefix}
}

// Generate ignores parts and returns a fresh ID
func (g *RandomGenerator) Generate(_ ...string) string {
	id := uuid.NewString()
	if g.prefix != "" {
		return fmt.Sprintf("%s_%s", g.prefix, id)
	}
	return id
}

// SequentialGenerator generates sequential IDs for testing
type SequentialGenerator struct {
	prefix  string
	counter uint64
}

// NewSequential creates a new sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate creates a new sequential ID
func (g *SequentialGenerator) Generate(_ ...string) string {
	n := atomic.AddUint64(&g.counter, 1)
	if g.prefix != "" {
		return fmt.Sprintf("%s_%d", g.prefix, n)
	}
	return fmt.Sprintf("%d", n)
}
