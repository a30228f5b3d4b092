package concurrency

import (
	"context"
	"sync"
)

// LockManager hands out one exclusive section per key. Different keys never
// contend; the same key is held by at most one goroutine at a time.
//
// A key's slot lives only while some goroutine holds or waits for it, so the
// table is bounded by the keys in use rather than every key ever seen.
type LockManager struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

type lockSlot struct {
	ch   chan struct{} // capacity 1; a send takes the section
	refs int           // holders plus waiters, guarded by LockManager.mu
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{slots: make(map[string]*lockSlot)}
}

func (lm *LockManager) ref(key string) *lockSlot {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	s, ok := lm.slots[key]
	if !ok {
		s = &lockSlot{ch: make(chan struct{}, 1)}
		lm.slots[key] = s
	}
	s.refs++
	return s
}

func (lm *LockManager) unref(key string, s *lockSlot) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(lm.slots, key)
	}
}

// Acquire blocks until the section for key is free or ctx is done.
// The returned release func is safe to call more than once.
func (lm *LockManager) Acquire(ctx context.Context, key string) (func(), error) {
	s := lm.ref(key)
	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		lm.unref(key, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			lm.unref(key, s)
		})
	}, nil
}

// Len reports how many keys are currently held or waited on.
func (lm *LockManager) Len() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.slots)
}
