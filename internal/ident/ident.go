// Package ident generates file names for exports and stored images.
package ident

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator names the files auditlog writes: the partial export file
// before it is renamed into place, and each resized image.
type Generator interface {
	Generate() string
}

// UUIDv7Generator names files with UUIDv7 strings, so partial export
// files and resized images sort by creation time.
type UUIDv7Generator struct{}

// Generate implements Generator. It panics only if the system random
// source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator hands out a fixed list of names, so tests can predict
// the image and scratch file paths. Safe for concurrent use.
type FixedGenerator struct {
	mu    sync.Mutex
	names []string
	next  int
}

// NewFixedGenerator returns a generator yielding names in order.
func NewFixedGenerator(names ...string) *FixedGenerator {
	return &FixedGenerator{names: names}
}

// Generate implements Generator. It panics once the list is used up, which
// means the caller wrote more files than the test set up names for.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.next >= len(g.names) {
		panic(fmt.Sprintf("ident: no name left after %d files", len(g.names)))
	}
	name := g.names[g.next]
	g.next++
	return name
}
