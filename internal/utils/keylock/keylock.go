// Package keylock provides per-key mutual exclusion. The ledger serializes
// wallet mutations per user and the booking engine serializes transitions
// per booking with it.
package keylock

import (
	"sync"
)

// KeyedMutex hands out one mutex per key. Mutexes are retained for the
// process lifetime; the key space (users, bookings) is bounded.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[uint]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *KeyedMutex) Lock(key uint) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
