package denylist

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the token engine.
var ErrRedisUnavailable = errors.New("redis unavailable")

const defaultPrefix = "gojose:deny"

// Store defines a public type used by goJose APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	rdb    *redis.Client
	prefix string
}

// NewStore describes the newstore operation and its observable behavior.
func NewStore(rdb *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix}
}

// Revoke marks jti as revoked for ttl. A non-positive ttl is a no-op: the
// token is already expired and the engine rejects it on exp anyway.
//
// Revoke may return an error when input validation, dependency calls, or security checks fail.
func (s *Store) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("empty jti")
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, s.key(jti), "1", ttl).Err(); err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether jti has been revoked and is still inside its
// revocation window.
//
// IsRevoked may return an error when input validation, dependency calls, or security checks fail.
func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	n, err := s.rdb.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, errors.Join(ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

func (s *Store) key(jti string) string {
	return s.prefix + ":" + jti
}
