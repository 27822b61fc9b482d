package session

import (
	"testing"
	"time"
)

func TestSessionLifecycle(t *testing.T) {
	s := NewMemoryStore(time.Hour)

	token := s.Create(42)
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	userID, ok := s.Get(token)
	if !ok || userID != 42 {
		t.Fatalf("Get = (%d, %v), want (42, true)", userID, ok)
	}

	s.Destroy(token)
	if _, ok := s.Get(token); ok {
		t.Fatal("expected destroyed session to be gone")
	}
}

func TestSessionExpiry(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	token := s.Create(7)

	now = now.Add(30 * time.Minute)
	if _, ok := s.Get(token); !ok {
		t.Fatal("session should still be valid before TTL")
	}

	now = now.Add(31 * time.Minute)
	if _, ok := s.Get(token); ok {
		t.Fatal("session should have expired")
	}
}

func TestTokensAreUnique(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	a := s.Create(1)
	b := s.Create(1)
	if a == b {
		t.Fatal("expected distinct tokens for separate sessions")
	}
}
