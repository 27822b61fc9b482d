// Package session provides the cookie-backed session store. Sessions
// are created at login or registration and destroyed at logout or
// expiry; handlers only ever see the store interface.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie set on login.
const CookieName = "nb_session"

// DefaultTTL matches the original cookie lifetime of seven days.
const DefaultTTL = 7 * 24 * time.Hour

// Store maps opaque tokens to user ids.
type Store interface {
	Create(userID int) string
	Get(token string) (userID int, ok bool)
	Destroy(token string)
}

type entry struct {
	userID    int
	expiresAt time.Time
}

// MemoryStore is an in-process Store with lazy expiry.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]entry
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]entry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(userID int) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = entry{userID: userID, expiresAt: s.now().Add(s.ttl)}
	return token
}

func (s *MemoryStore) Get(token string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[token]
	if !ok {
		return 0, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.sessions, token)
		return 0, false
	}
	return e.userID, true
}

func (s *MemoryStore) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
