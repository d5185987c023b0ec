package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates "obs-0001", "obs-0002", ... in call order.
//
// This keeps stored observation IDs stable so query results can be compared
// exactly. It satisfies store.IDGenerator.
//
// Thread-safety: Generate is safe for concurrent use.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator with the given prefix. An empty
// prefix defaults to "obs".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "obs"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
