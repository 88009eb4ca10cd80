// Package identity reconciles transient Nakama sessions with the stable
// player ids the game engine records.
package identity

import (
	"context"
	"sync"

	"fortyone/internal/ports"
)

type binding struct {
	bySession map[string]string
	byPlayer  map[string]string
}

// MemoryStore is an in-process ports.IdentityPort.
type MemoryStore struct {
	mu      sync.RWMutex
	matches map[string]*binding
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{matches: make(map[string]*binding)}
}

func (s *MemoryStore) Bind(_ context.Context, matchID, sessionID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.matches[matchID]
	if !ok {
		b = &binding{bySession: make(map[string]string), byPlayer: make(map[string]string)}
		s.matches[matchID] = b
	}
	if old, ok := b.byPlayer[playerID]; ok {
		delete(b.bySession, old)
	}
	if prev, ok := b.bySession[sessionID]; ok {
		delete(b.byPlayer, prev)
	}
	b.bySession[sessionID] = playerID
	b.byPlayer[playerID] = sessionID
	return nil
}

func (s *MemoryStore) Resolve(_ context.Context, matchID, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.matches[matchID]; ok {
		if id, ok := b.bySession[sessionID]; ok {
			return id, nil
		}
	}
	return "", ports.ErrSessionNotBound
}

func (s *MemoryStore) Session(_ context.Context, matchID, playerID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.matches[matchID]; ok {
		if sid, ok := b.byPlayer[playerID]; ok {
			return sid, nil
		}
	}
	return "", ports.ErrSessionNotBound
}

func (s *MemoryStore) Release(_ context.Context, matchID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.matches[matchID]; ok {
		if id, ok := b.bySession[sessionID]; ok {
			delete(b.bySession, sessionID)
			delete(b.byPlayer, id)
		}
	}
	return nil
}

func (s *MemoryStore) Purge(_ context.Context, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, matchID)
	return nil
}

var _ ports.IdentityPort = (*MemoryStore)(nil)
