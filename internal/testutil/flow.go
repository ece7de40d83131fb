package testutil

import (
	"sync"

	"github.com/google/uuid"
)

// SequentialIDs hands out v4-shaped UUIDs whose leading bytes encode a
// counter: the first id starts with "000001", the second with "000002", and
// so on. Short ids therefore never collide within 2^24 ids.
//
// Thread-safety: safe for concurrent use.
type SequentialIDs struct {
	mu sync.Mutex
	n  uint32
}

// NewSequentialIDs creates a generator whose first id has counter 1.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

// Next returns the next id. Suitable as a state.Reducer NewID function.
func (g *SequentialIDs) Next() uuid.UUID {
	g.mu.Lock()
	g.n++
	n := g.n
	g.mu.Unlock()

	return IDFor(n)
}

// IDFor returns the id the generator produces for counter n.
func IDFor(n uint32) uuid.UUID {
	var id uuid.UUID
	id[0] = byte(n >> 16)
	id[1] = byte(n >> 8)
	id[2] = byte(n)
	id[6] = 0x40 // version 4
	id[8] = 0x80 // RFC 4122 variant
	return id
}
