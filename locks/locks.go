// Package locks provides the named, owner-reentrant mutual-exclusion slots that
// serialize the update tick against input from every source.
package locks

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Lock names a slot in the registry.
type Lock int

const (
	GameState Lock = iota
	numLocks
)

func (l Lock) String() string {
	switch l {
	case GameState:
		return "GAME_STATE"
	default:
		return fmt.Sprintf("Lock(%d)", int(l))
	}
}

// OwnerID identifies the holder of a lock. Free means unowned.
type OwnerID int

const Free OwnerID = 0

type slot struct {
	mu    sync.Mutex
	freed *sync.Cond
	owner OwnerID
}

// Registry holds one slot per Lock. Waiters are woken on release in no particular
// order, so a busy owner can starve others.
type Registry struct {
	slots  [numLocks]slot
	logger zerolog.Logger
}

type Option func(r *Registry)

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func NewRegistry(options ...Option) *Registry {
	r := &Registry{logger: log.Logger}
	for i := range r.slots {
		r.slots[i].freed = sync.NewCond(&r.slots[i].mu)
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *Registry) slot(lock Lock) *slot {
	if lock < 0 || lock >= numLocks {
		panic(fmt.Sprintf("unknown lock %d", int(lock)))
	}
	return &r.slots[lock]
}

// Acquire blocks until lock is free and claims it for owner. It returns at once
// if owner already holds the lock.
func (r *Registry) Acquire(lock Lock, owner OwnerID) {
	if owner == Free {
		r.logger.Debug().Stringer("lock", lock).Msg("ignoring acquire by the free owner")
		return
	}
	s := r.slot(lock)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner == owner {
		return
	}
	for s.owner != Free {
		s.freed.Wait()
	}
	s.owner = owner
}

// Release frees lock if owner holds it. Releases by anyone else are ignored.
func (r *Registry) Release(lock Lock, owner OwnerID) {
	s := r.slot(lock)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != owner || owner == Free {
		r.logger.Debug().
			Stringer("lock", lock).
			Int("owner", int(s.owner)).
			Int("caller", int(owner)).
			Msg("ignoring release by non-owner")
		return
	}
	s.owner = Free
	s.freed.Broadcast()
}

// Peek returns the current owner of lock without blocking.
func (r *Registry) Peek(lock Lock) OwnerID {
	s := r.slot(lock)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}
