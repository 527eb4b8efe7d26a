// Package concurrency provides the per-duel mutual exclusion used by
// the lifecycle service for read-modify-write sequences on the duel
// document.
package concurrency

import (
	"sync"

	"github.com/google/uuid"
)

// DuelLocks hands out one mutex per duel so join and completion for the
// same duel serialize while different duels proceed independently.
// Entries are never evicted; the key space is bounded by the duels the
// process touches, not by request volume.
type DuelLocks struct {
	locks sync.Map // uuid.UUID -> *sync.Mutex
}

// NewDuelLocks creates an empty lock table
func NewDuelLocks() *DuelLocks {
	return &DuelLocks{}
}

// Lock acquires the duel's mutex and returns its unlock function
func (dl *DuelLocks) Lock(duelID uuid.UUID) func() {
	lock, _ := dl.locks.LoadOrStore(duelID, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
