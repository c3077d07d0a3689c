package denylist

import (
	"context"
	"errors"
	"time"
)

// ErrTokenRevoked is an exported constant or variable used by the token engine.
var ErrTokenRevoked = errors.New("token revoked")

// Decoder is the slice of the engine the guard needs: cryptographic
// validation of a compact token.
type Decoder interface {
	Decode(token string) (map[string]any, error)
}

// Guard defines a public type used by goJose APIs.
//
// Guard validates a token cryptographically and then checks its jti against
// the revocation store. Tokens without a jti pass the revocation check by
// definition; only tokens minted with an id can be revoked.
type Guard struct {
	decoder Decoder
	store   *Store
	now     func() time.Time
}

// NewGuard describes the newguard operation and its observable behavior.
func NewGuard(decoder Decoder, store *Store) *Guard {
	return &Guard{decoder: decoder, store: store, now: time.Now}
}

// Authenticate decodes token through the engine and rejects it with
// [ErrTokenRevoked] when its jti is on the denylist. The payload is returned
// on success.
//
// Authenticate may return an error when input validation, dependency calls, or security checks fail.
func (g *Guard) Authenticate(ctx context.Context, token string) (map[string]any, error) {
	payload, err := g.decoder.Decode(token)
	if err != nil {
		return nil, err
	}

	jti, _ := payload["jti"].(string)
	if jti == "" {
		return payload, nil
	}

	revoked, err := g.store.IsRevoked(ctx, jti)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return payload, nil
}

// Revoke decodes token and places its jti on the denylist until the token's
// exp claim. Tokens without jti cannot be revoked; tokens without exp are
// denied for maxTTL as a bound on unexpiring tokens.
//
// Revoke may return an error when input validation, dependency calls, or security checks fail.
func (g *Guard) Revoke(ctx context.Context, token string, maxTTL time.Duration) error {
	payload, err := g.decoder.Decode(token)
	if err != nil {
		return err
	}

	jti, _ := payload["jti"].(string)
	if jti == "" {
		return errors.New("token has no jti claim")
	}

	ttl := maxTTL
	if exp, ok := payload["exp"].(float64); ok {
		ttl = time.Unix(int64(exp), 0).Sub(g.now())
		if maxTTL > 0 && ttl > maxTTL {
			ttl = maxTTL
		}
	}
	return g.store.Revoke(ctx, jti, ttl)
}
