package repository

import (
	"context"
	"sync"
	"time"

	"loan-advisor/domain"
	"loan-advisor/loanerrors"
)

type sessionEntry struct {
	result    domain.RecommendationResult
	expiresAt time.Time
}

// SessionRepositoryMemory is an in-memory SessionRepository whose entries
// expire after ttl.
type SessionRepositoryMemory struct {
	mu   sync.RWMutex
	data map[string]sessionEntry
	ttl  time.Duration
	now  func() time.Time
}

func NewSessionRepositoryMemory(ttl time.Duration) *SessionRepositoryMemory {
	return &SessionRepositoryMemory{
		data: make(map[string]sessionEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (r *SessionRepositoryMemory) Save(_ context.Context, sessionID string, result domain.RecommendationResult) error {
	entry := sessionEntry{result: result}
	if r.ttl > 0 {
		entry.expiresAt = r.now().Add(r.ttl)
	}

	r.mu.Lock()
	r.data[sessionID] = entry
	r.mu.Unlock()
	return nil
}

func (r *SessionRepositoryMemory) Get(_ context.Context, sessionID string) (domain.RecommendationResult, error) {
	r.mu.RLock()
	entry, ok := r.data[sessionID]
	r.mu.RUnlock()

	if !ok || (!entry.expiresAt.IsZero() && !r.now().Before(entry.expiresAt)) {
		return domain.RecommendationResult{}, loanerrors.NewNotFoundError("recommendation")
	}
	return entry.result, nil
}

func (r *SessionRepositoryMemory) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.data, sessionID)
	r.mu.Unlock()
	return nil
}

// Purge drops expired sessions.
func (r *SessionRepositoryMemory) Purge() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, entry := range r.data {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(r.data, id)
		}
	}
}
