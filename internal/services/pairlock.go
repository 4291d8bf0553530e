package services

import "sync"

// PairLocks serializes mutations that touch the same user pair. Both
// directions of a pair map to the same canonical key, so two sessions acting
// on the same two users queue behind one mutex while unrelated pairs proceed.
// One instance is shared by every service that mutates pair state, so a
// graph change cannot interleave with a conversation change on the same pair.
type PairLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewPairLocks() *PairLocks {
	return &PairLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the key and returns its unlock func. Entries
// are retained; the key space is bounded by the user pairs actually touched.
func (p *PairLocks) Lock(key string) func() {
	p.mu.Lock()
	m, ok := p.locks[key]
	if !ok {
		m = &sync.Mutex{}
		p.locks[key] = m
	}
	p.mu.Unlock()

	m.Lock()
	return m.Unlock
}
