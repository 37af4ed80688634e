package repository

import (
	"context"
	"sync"
	"time"
)

type memorySession struct {
	values    map[string]string
	expiresAt time.Time
}

const memorySweepInterval = time.Minute

// MemorySessionRepository keeps sessions in process memory. Sessions expire
// ttl after their last write. Writes sweep out expired sessions at most once
// per memorySweepInterval.
type MemorySessionRepository struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
	sessions  map[string]*memorySession
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*memorySession),
	}
}

func (r *MemorySessionRepository) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.live(sessionID)
	if s == nil {
		return "", false, nil
	}

	value, ok := s.values[key]
	return value, ok, nil
}

func (r *MemorySessionRepository) Put(ctx context.Context, sessionID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep()

	s := r.live(sessionID)
	if s == nil {
		s = &memorySession{values: make(map[string]string)}
		r.sessions[sessionID] = s
	}

	s.values[key] = value
	s.expiresAt = r.now().Add(r.ttl)
	return nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, sessionID string, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.live(sessionID)
	if s == nil {
		return nil
	}

	for _, key := range keys {
		delete(s.values, key)
	}

	if len(s.values) == 0 {
		delete(r.sessions, sessionID)
	}
	return nil
}

func (r *MemorySessionRepository) Ping(ctx context.Context) error {
	return nil
}

// live returns the session or nil, evicting it when expired. Callers hold mu.
func (r *MemorySessionRepository) live(sessionID string) *memorySession {
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}

	if r.now().After(s.expiresAt) {
		delete(r.sessions, sessionID)
		return nil
	}
	return s
}

// sweep drops every expired session. Callers hold mu.
func (r *MemorySessionRepository) sweep() {
	now := r.now()
	if now.Sub(r.lastSweep) < memorySweepInterval {
		return
	}
	r.lastSweep = now

	for id, s := range r.sessions {
		if now.After(s.expiresAt) {
			delete(r.sessions, id)
		}
	}
}
