package goJose

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"hash"
	"math/rand/v2"

	"golang.org/x/crypto/sha3"

	"github.com/MrEthical07/goJose/jwk"
)

// Engine defines a public type used by goJose APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
// The key registry is the only mutable state; AddKey may be called at any
// point in the engine's lifetime and is safe under concurrent decodes.
type Engine struct {
	registry *KeyRegistry
	metrics  *Metrics

	allowEmbeddedKey bool
	rootCA           *x509.Certificate

	// nonceDigest allocates a fresh digest per verification; hash.Hash is
	// not reentrant, so sharing one instance would need its own exclusion.
	nonceDigest func() hash.Hash

	// pick selects a signing key index among n equally valid candidates.
	// Load distribution only, not a security control; tests inject a
	// deterministic source.
	pick func(n int) int
}

// nonceDigests maps the configurable nonce-hash algorithm names to digest
// constructors. Names follow the JCA convention the providers that use this
// extension document ("SHA-256" and friends).
var nonceDigests = map[string]func() hash.Hash{
	"SHA-1":    sha1.New,
	"SHA-256":  sha256.New,
	"SHA-384":  sha512.New384,
	"SHA-512":  sha512.New,
	"SHA3-256": sha3.New256,
	"SHA3-384": sha3.New384,
	"SHA3-512": sha3.New512,
}

// NewEngine describes the newengine operation and its observable behavior.
//
// NewEngine may return an error when input validation, dependency calls, or security checks fail.
func NewEngine(cfg Config) (*Engine, error) {
	e := &Engine{
		registry:         NewKeyRegistry(),
		metrics:          NewMetrics(cfg.Metrics),
		allowEmbeddedKey: cfg.AllowEmbeddedKey,
		pick:             rand.IntN,
	}

	if cfg.EmbeddedKeyRootCA != "" {
		der, err := base64.StdEncoding.DecodeString(cfg.EmbeddedKeyRootCA)
		if err != nil {
			return nil, fmt.Errorf("invalid embedded-key root CA: %w", err)
		}
		cert, err := jwk.ParseX5c(der)
		if err != nil {
			return nil, fmt.Errorf("invalid embedded-key root CA: %w", err)
		}
		e.rootCA = cert
		// a pinned root of trust only makes sense with embedded keys on
		e.allowEmbeddedKey = true
	}

	if cfg.NonceAlgorithm != "" {
		digest, ok := nonceDigests[cfg.NonceAlgorithm]
		if !ok {
			return nil, fmt.Errorf("unknown nonce digest algorithm %q", cfg.NonceAlgorithm)
		}
		e.nonceDigest = digest
	}

	return e, nil
}

// AddKey registers key material with the engine's registry.
//
// AddKey may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) AddKey(key *jwk.JWK) error {
	return e.registry.Register(key)
}

// Registry exposes the engine's key registry for direct registration and
// introspection.
func (e *Engine) Registry() *KeyRegistry {
	return e.registry
}

// IsUnsecure reports whether the engine holds no keys and therefore operates
// on unsigned two-segment tokens only.
func (e *Engine) IsUnsecure() bool {
	return e.registry.IsUnsecure()
}

// AvailableAlgorithms describes the availablealgorithms operation and its observable behavior.
func (e *Engine) AvailableAlgorithms() []string {
	return e.registry.AvailableAlgorithms()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}
