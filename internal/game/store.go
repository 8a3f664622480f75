package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/songle/internal/models"
	"github.com/desertthunder/songle/internal/shared"
)

// entry guards one owner's session. Once closed it is no longer reachable through the store.
type entry struct {
	mu      sync.Mutex
	session models.GameSession
	closed  bool
}

// Store holds active sessions keyed by owner.
type Store struct {
	sessions sync.Map // owner ID -> *entry
	now      func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// TryStart inserts a new active session for owner unless one already exists.
func (s *Store) TryStart(ownerID string, answer models.Track, maxGuesses int) (models.GameSession, error) {
	return s.start(ownerID, answer, models.CatalogReference{}, maxGuesses)
}

func (s *Store) start(ownerID string, answer models.Track, source models.CatalogReference, maxGuesses int) (models.GameSession, error) {
	if maxGuesses < 1 {
		return models.GameSession{}, fmt.Errorf("%w: max guesses must be positive, got %d", shared.ErrInvalidArgument, maxGuesses)
	}

	e := &entry{session: models.GameSession{
		ID:               shared.GenerateID(),
		OwnerID:          ownerID,
		Answer:           answer,
		Source:           source,
		MaxGuesses:       maxGuesses,
		GuessesRemaining: maxGuesses,
		History:          []string{},
		State:            models.StateActive,
		StartedAt:        s.now(),
	}}

	if _, loaded := s.sessions.LoadOrStore(ownerID, e); loaded {
		return models.GameSession{}, shared.ErrSessionActive
	}
	return e.session.Clone(), nil
}

// Get returns a snapshot of owner's session.
func (s *Store) Get(ownerID string) (models.GameSession, error) {
	var snapshot models.GameSession
	err := s.withSession(ownerID, func(e *entry) {
		snapshot = e.session.Clone()
	})
	return snapshot, err
}

// Remove deletes owner's session. Removing an absent session is a no-op.
func (s *Store) Remove(ownerID string) {
	_ = s.withSession(ownerID, s.close)
}

// Len returns the number of active sessions.
func (s *Store) Len() int {
	n := 0
	s.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// withSession runs fn with owner's entry locked.
//
// If the entry it loaded was closed before the lock was acquired, the lookup is retried so fn
// always sees the session that is current at the time it runs.
func (s *Store) withSession(ownerID string, fn func(*entry)) error {
	for {
		v, ok := s.sessions.Load(ownerID)
		if !ok {
			return shared.ErrNoActiveSession
		}

		e := v.(*entry)
		e.mu.Lock()
		if e.closed {
			e.mu.Unlock()
			continue
		}
		fn(e)
		e.mu.Unlock()
		return nil
	}
}

// close unlinks e from the store. The caller holds e.mu.
func (s *Store) close(e *entry) {
	s.sessions.CompareAndDelete(e.session.OwnerID, e)
	e.closed = true
}
