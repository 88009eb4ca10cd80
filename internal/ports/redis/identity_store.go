// Package redis shares session bindings between Nakama nodes through Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"fortyone/internal/ports"
)

const keyPrefix = "fortyone"

// IdentityStore implements ports.IdentityPort on two Redis hashes per match:
// session -> player and player -> session. Both expire after ttl of inactivity.
type IdentityStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewIdentityStore wraps an existing client.
func NewIdentityStore(rdb *goredis.Client, ttl time.Duration) *IdentityStore {
	return &IdentityStore{rdb: rdb, ttl: ttl}
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr string, ttl time.Duration) (*IdentityStore, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewIdentityStore(rdb, ttl), nil
}

func sessionsKey(matchID string) string {
	return fmt.Sprintf("%s:%s:sessions", keyPrefix, matchID)
}

func playersKey(matchID string) string {
	return fmt.Sprintf("%s:%s:players", keyPrefix, matchID)
}

func (s *IdentityStore) Bind(ctx context.Context, matchID, sessionID, playerID string) error {
	sk, pk := sessionsKey(matchID), playersKey(matchID)
	oldSession, err := s.rdb.HGet(ctx, pk, playerID).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("lookup session of %s: %w", playerID, err)
	}
	prevPlayer, err := s.rdb.HGet(ctx, sk, sessionID).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("lookup player of %s: %w", sessionID, err)
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		if oldSession != "" && oldSession != sessionID {
			pipe.HDel(ctx, sk, oldSession)
		}
		// A session moving to another seat leaves its previous player unbound.
		if prevPlayer != "" && prevPlayer != playerID {
			pipe.HDel(ctx, pk, prevPlayer)
		}
		pipe.HSet(ctx, sk, sessionID, playerID)
		pipe.HSet(ctx, pk, playerID, sessionID)
		pipe.Expire(ctx, sk, s.ttl)
		pipe.Expire(ctx, pk, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("bind %s to %s: %w", sessionID, playerID, err)
	}
	return nil
}

func (s *IdentityStore) Resolve(ctx context.Context, matchID, sessionID string) (string, error) {
	id, err := s.rdb.HGet(ctx, sessionsKey(matchID), sessionID).Result()
	if errors.Is(err, goredis.Nil) {
		return "", ports.ErrSessionNotBound
	}
	if err != nil {
		return "", fmt.Errorf("resolve session %s: %w", sessionID, err)
	}
	return id, nil
}

func (s *IdentityStore) Session(ctx context.Context, matchID, playerID string) (string, error) {
	sid, err := s.rdb.HGet(ctx, playersKey(matchID), playerID).Result()
	if errors.Is(err, goredis.Nil) {
		return "", ports.ErrSessionNotBound
	}
	if err != nil {
		return "", fmt.Errorf("session of %s: %w", playerID, err)
	}
	return sid, nil
}

func (s *IdentityStore) Release(ctx context.Context, matchID, sessionID string) error {
	playerID, err := s.Resolve(ctx, matchID, sessionID)
	if errors.Is(err, ports.ErrSessionNotBound) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HDel(ctx, sessionsKey(matchID), sessionID)
		pipe.HDel(ctx, playersKey(matchID), playerID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("release session %s: %w", sessionID, err)
	}
	return nil
}

func (s *IdentityStore) Purge(ctx context.Context, matchID string) error {
	if err := s.rdb.Del(ctx, sessionsKey(matchID), playersKey(matchID)).Err(); err != nil {
		return fmt.Errorf("purge match %s: %w", matchID, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *IdentityStore) Close() error {
	return s.rdb.Close()
}

var _ ports.IdentityPort = (*IdentityStore)(nil)
