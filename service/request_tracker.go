package service

import (
	"sync"
	"time"

	"loan-advisor/loanerrors"
)

const (
	trackerIdleThreshold = 24 * time.Hour
	trackerCleanupEvery  = 30 * time.Minute
)

// sessionSequence holds the newest sequence of one session. mu guards latest
// and serializes the session's commits; touched is guarded by the tracker.
type sessionSequence struct {
	mu      sync.Mutex
	latest  uint64
	touched time.Time
}

// RequestTracker orders recommendation requests per session so that only the
// latest one may publish its result. Sequences are global and increasing.
type RequestTracker struct {
	mu          sync.Mutex
	next        uint64
	sessions    map[string]*sessionSequence
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

func NewRequestTracker() *RequestTracker {
	t := &RequestTracker{
		sessions:    make(map[string]*sessionSequence),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go t.cleanupLoop()
	return t
}

// entry returns the session's sequence, creating it when create is set. The
// tracker lock is held only for the map access.
func (t *RequestTracker) entry(sessionID string, create bool) (*sessionSequence, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		if !create {
			return nil, 0
		}
		s = &sessionSequence{}
		t.sessions[sessionID] = s
	}
	s.touched = t.now()
	if create {
		t.next++
		return s, t.next
	}
	return s, 0
}

// Begin issues the sequence of a new request, superseding any request of the
// same session still in flight.
func (t *RequestTracker) Begin(sessionID string) uint64 {
	s, seq := t.entry(sessionID, true)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Concurrent Begins may arrive here out of order.
	if seq > s.latest {
		s.latest = seq
	}
	return seq
}

// Commit runs publish only if seq is still the latest sequence of the
// session, and returns a *loanerrors.StaleResultError otherwise. The check and
// publish happen under the session's lock, so a superseded result can never
// overwrite a newer one. Other sessions are not blocked by a slow publish.
func (t *RequestTracker) Commit(sessionID string, seq uint64, publish func() error) error {
	s, _ := t.entry(sessionID, false)
	if s == nil {
		return &loanerrors.StaleResultError{Sequence: seq}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest != seq {
		return &loanerrors.StaleResultError{Sequence: seq, Latest: s.latest}
	}
	return publish()
}

// Latest reports the newest sequence issued for the session, or 0.
func (t *RequestTracker) Latest(sessionID string) uint64 {
	t.mu.Lock()
	s, ok := t.sessions[sessionID]
	t.mu.Unlock()
	if !ok {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (t *RequestTracker) cleanupLoop() {
	ticker := time.NewTicker(trackerCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.cleanup()
		case <-t.stopCleanup:
			return
		}
	}
}

func (t *RequestTracker) cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for id, s := range t.sessions {
		if now.Sub(s.touched) > trackerIdleThreshold {
			delete(t.sessions, id)
		}
	}
}

func (t *RequestTracker) Stop() {
	t.stopOnce.Do(func() { close(t.stopCleanup) })
}
