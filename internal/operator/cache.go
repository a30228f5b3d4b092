package operator

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

// assignmentCache maps identities to assignments so authorization checks on
// the submission path skip the store. Every write through the service
// invalidates the affected identity.
//
// A fill from the store is tagged with the generation read before the store
// lookup. Set and Invalidate bump the generation, so a fill that raced with a
// write is dropped instead of resurrecting a stale assignment.
type assignmentCache struct {
	mu         sync.Mutex
	generation uint64
	lru        *expirable.LRU[string, domain.OperatorAssignment]
}

func newAssignmentCache(size int, ttl time.Duration) *assignmentCache {
	return &assignmentCache{
		lru: expirable.NewLRU[string, domain.OperatorAssignment](size, nil, ttl),
	}
}

func (c *assignmentCache) Get(identity string) (domain.OperatorAssignment, bool) {
	return c.lru.Get(identity)
}

// Generation returns the token to pass to Fill after a store read.
func (c *assignmentCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Set stores an assignment the caller has just written.
func (c *assignmentCache) Set(a domain.OperatorAssignment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.lru.Add(a.Identity, a)
}

// Fill stores an assignment read from the store unless a write happened since
// generation was taken. It reports whether the entry was stored.
func (c *assignmentCache) Fill(a domain.OperatorAssignment, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		return false
	}
	c.lru.Add(a.Identity, a)
	return true
}

func (c *assignmentCache) Invalidate(identity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.lru.Remove(identity)
}
