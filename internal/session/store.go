// Package session keeps one viewer state per browser session.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jengzang/photomap-backend-go/internal/viewer"
)

// ErrSessionNotFound is returned for unknown or expired session IDs
var ErrSessionNotFound = errors.New("session not found")

// Session owns a viewer state and serialises access to it
type Session struct {
	ID string

	mu       sync.Mutex
	state    *viewer.State
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's viewer state
func (s *Session) Do(fn func(*viewer.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	fn(s.state)
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store holds the active sessions
type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	ttl      time.Duration
	newState func() *viewer.State
	logger   *slog.Logger
}

// NewStore creates a store whose sessions start from newState and expire
// after ttl without activity. A zero ttl disables expiry.
func NewStore(ttl time.Duration, newState func() *viewer.State, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		newState: newState,
		logger:   logger,
	}
}

// Create starts a new session
func (s *Store) Create() *Session {
	sess := &Session{
		ID:       uuid.NewString(),
		state:    s.newState(),
		lastSeen: time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Debug("Session created", "session", sess.ID)
	return sess
}

// Get returns an active session
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, exists := s.sessions[id]
	s.mu.RUnlock()
	if !exists {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete ends a session
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of active sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many were removed
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.idleSince()) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions periodically until ctx is cancelled
func (s *Store) Run(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}

	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				s.logger.Info("Expired idle sessions", "count", n, "active", s.Len())
			}
		}
	}
}
