// Package storage provides session persistence implementations.
package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/logger"
)

// Compile-time interface check.
var _ domain.SessionStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory session store. Safe for concurrent access.
// Sessions are copied on the way in and out so callers never share state
// with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	log      *logger.Logger
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*domain.Session),
		log:      log,
	}
}

// Save persists a session. Overwrites if it already exists.
func (s *MemoryStore) Save(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving session %s (steps=%d, status=%s)", session.ID, len(session.Drink.Steps), session.Status)
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

// Load retrieves a session by ID.
func (s *MemoryStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		s.log.Debug("session not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return cloneSession(sess), nil
}

// Delete removes a session by ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sessions, id)
	s.log.Debug("deleted session %s", id)
	return nil
}

// ListActive returns all active sessions, oldest first.
func (s *MemoryStore) ListActive(ctx context.Context) ([]*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Session
	for _, sess := range s.sessions {
		if sess.Status == domain.SessionActive {
			out = append(out, cloneSession(sess))
		}
	}
	sortSessions(out)
	s.log.Debug("listing active sessions, count=%d", len(out))
	return out, nil
}

// ListFinished returns all finished sessions, most recently served first.
func (s *MemoryStore) ListFinished(ctx context.Context) ([]*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Session
	for _, sess := range s.sessions {
		if sess.Status == domain.SessionFinished {
			out = append(out, cloneSession(sess))
		}
	}
	sortServed(out)
	s.log.Debug("listing finished sessions, count=%d", len(out))
	return out, nil
}

func sortSessions(list []*domain.Session) {
	slices.SortFunc(list, func(a, b *domain.Session) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// sortServed orders sessions by last update, newest first.
func sortServed(list []*domain.Session) {
	slices.SortFunc(list, func(a, b *domain.Session) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// cloneSession deep-copies everything reachable from a session.
// Ingredients referenced by steps are immutable and stay shared.
func cloneSession(in *domain.Session) *domain.Session {
	out := *in
	out.Drink.Steps = slices.Clone(in.Drink.Steps)
	out.Drink.Layers = slices.Clone(in.Drink.Layers)
	out.Drink.Garnish = slices.Clone(in.Drink.Garnish)
	if in.Recipe != nil {
		r := *in.Recipe
		r.Ingredients = slices.Clone(in.Recipe.Ingredients)
		r.Instructions = slices.Clone(in.Recipe.Instructions)
		out.Recipe = &r
	}
	return &out
}
