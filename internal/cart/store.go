package cart

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSessionLocked is returned when a session stays locked by another request for too long.
var ErrSessionLocked = errors.New("cart session is locked")

// SessionStore keeps one cart per session id.
type SessionStore interface {
	// Load returns the session's cart, or an empty cart if the session has none.
	Load(ctx context.Context, sessionID string) (*Cart, error)

	// Update loads the cart, applies fn and saves the result while holding the session's lock.
	// Nothing is saved when fn returns an error.
	Update(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error)

	// Delete drops the session's cart.
	Delete(ctx context.Context, sessionID string) error
}

type memorySession struct {
	mu      sync.Mutex
	items   []LineItem
	expires time.Time
	// dropped is set under mu once the session left the map; writers must start over.
	dropped bool
}

// MemoryStore keeps carts in process memory. Sessions idle for longer than the TTL are dropped.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a MemoryStore whose sessions expire after ttl of inactivity.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) session(sessionID string) *memorySession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &memorySession{}
		s.sessions[sessionID] = sess
	}
	return sess
}

// lockedSession returns the live session for sessionID with its mu held.
// A session removed by Delete or Sweep before the lock was taken is replaced.
func (s *MemoryStore) lockedSession(sessionID string) *memorySession {
	for {
		sess := s.session(sessionID)
		sess.mu.Lock()
		if !sess.dropped {
			return sess
		}
		sess.mu.Unlock()
	}
}

// drop removes sess from the map. Callers hold s.mu.
func (s *MemoryStore) drop(sessionID string, sess *memorySession) {
	delete(s.sessions, sessionID)
	sess.dropped = true
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return New(), nil
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.cartOf(sess), nil
}

func (s *MemoryStore) Update(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sess := s.lockedSession(sessionID)
	defer sess.mu.Unlock()

	c := s.cartOf(sess)
	if err := fn(c); err != nil {
		return nil, err
	}
	sess.items = c.Items()
	sess.expires = s.now().Add(s.ttl)
	return c, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	sess.mu.Lock()
	s.drop(sessionID, sess)
	sess.mu.Unlock()
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		if s.expired(sess, now) {
			s.drop(id, sess)
			removed++
		}
		sess.mu.Unlock()
	}
	return removed
}

// RunJanitor sweeps expired sessions every interval until ctx is cancelled.
func (s *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// cartOf builds a detached cart from the session. Callers hold sess.mu.
func (s *MemoryStore) cartOf(sess *memorySession) *Cart {
	c := New()
	if s.expired(sess, s.now()) {
		sess.items = nil
		return c
	}
	c.items = append(c.items, sess.items...)
	return c
}

func (s *MemoryStore) expired(sess *memorySession, now time.Time) bool {
	return s.ttl > 0 && !sess.expires.IsZero() && now.After(sess.expires)
}
