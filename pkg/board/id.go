package board

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces collision-resistant identifiers for new boards,
// layouts, sections and items.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random version 4 UUIDs.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() string { return uuid.NewString() }

// SequenceGenerator generates "<prefix>-1", "<prefix>-2", ... and is safe for
// concurrent use. It exists for tests and reproducible fixtures.
type SequenceGenerator struct {
	prefix string
	n      atomic.Int64
}

// NewSequenceGenerator returns a generator counting from 1.
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// NewID implements IDGenerator.
func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1))
}

var (
	_ IDGenerator = UUIDGenerator{}
	_ IDGenerator = (*SequenceGenerator)(nil)
)
