package goJose

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/MrEthical07/goJose/jwk"
)

// KeyRegistry defines a public type used by goJose APIs.
//
// KeyRegistry holds two independent lookup tables, one for signing and one
// for verification, each mapping an algorithm name to an ordered candidate
// list. A single write lock spans both table updates of one Register call so
// readers never observe one table updated and the other stale for the same
// key.
type KeyRegistry struct {
	mu     sync.RWMutex
	sign   map[string][]*jwk.JWS
	verify map[string][]*jwk.JWS
}

// NewKeyRegistry describes the newkeyregistry operation and its observable behavior.
func NewKeyRegistry() *KeyRegistry {
	return &KeyRegistry{
		sign:   make(map[string][]*jwk.JWS),
		verify: make(map[string][]*jwk.JWS),
	}
}

// Register adds key to the tables its material qualifies it for: MAC secret
// or public key enters the verify table, MAC secret or private key enters the
// sign table. A key whose label already exists in a table replaces the old
// entry at its original position. Keys declaring a non-signature use are
// skipped.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
func (r *KeyRegistry) Register(key *jwk.JWK) error {
	if key.Use() != "" && key.Use() != jwk.UseSignature {
		slog.Warn("key skipped: not a signature key", "use", key.Use(), "alg", key.Algorithm())
		return nil
	}

	binding, err := jwk.NewJWS(key)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if binding.CanVerify() {
		r.verify[key.Algorithm()] = upsert(r.verify[key.Algorithm()], binding)
	}
	if binding.CanSign() {
		r.sign[key.Algorithm()] = upsert(r.sign[key.Algorithm()], binding)
	}
	return nil
}

// upsert replaces the list entry sharing the new binding's label, preserving
// its position, or appends when the label is new. The input slice is never
// mutated: readers resolved a snapshot of it outside the write lock.
func upsert(list []*jwk.JWS, binding *jwk.JWS) []*jwk.JWS {
	next := make([]*jwk.JWS, len(list))
	copy(next, list)
	for i, existing := range next {
		if existing.Key().Label() == binding.Key().Label() {
			slog.Info("replacing key", "label", binding.Key().Label(), "alg", binding.Key().Algorithm())
			next[i] = binding
			return next
		}
	}
	return append(next, binding)
}

// IsUnsecure reports whether no key is registered at all. An unsecure engine
// accepts and emits unsigned two-segment tokens.
func (r *KeyRegistry) IsUnsecure() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sign) == 0 && len(r.verify) == 0
}

// AvailableAlgorithms returns the union of both tables' algorithms plus the
// literal "none", which RFC 7518 keeps always available. The result is
// sorted.
func (r *KeyRegistry) AvailableAlgorithms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := map[string]struct{}{"none": {}}
	for alg := range r.sign {
		set[alg] = struct{}{}
	}
	for alg := range r.verify {
		set[alg] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for alg := range set {
		out = append(out, alg)
	}
	slices.Sort(out)
	return out
}

// resolveForSign returns the signing candidates for alg. The caller picks one
// of them; the slice must not be mutated.
func (r *KeyRegistry) resolveForSign(alg string) []*jwk.JWS {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sign[alg]
}

// resolveForVerify returns the verification candidates for alg. Key-id
// filtering is left to the caller because the "no candidate matched" versus
// "no candidate existed" distinction must survive that filter.
func (r *KeyRegistry) resolveForVerify(alg string) []*jwk.JWS {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.verify[alg]
}
