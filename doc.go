// Package goJose implements a JOSE token engine: signing, decoding, and
// verifying JSON Web Tokens in JWS compact serialization, with multi-key
// registries, key-id resolution, embedded certificate chains (x5c), and the
// legacy nonce-hashing header transform some identity providers apply.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [NewEngine]; [Engine.AddKey] may interleave with decodes.
//
// # Architecture boundaries
//
// goJose is the public surface. It exposes [Engine], [KeyRegistry], [Config],
// [SignOptions], and value types (Token, DecodedToken, MetricsSnapshot).
// Key material and per-key crypto live in the jwk sub-package; certificate
// chain validation lives under internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Implement cryptographic primitives; signature math belongs to jwk.
//   - Perform I/O. Sign and Decode are CPU-bound and synchronous; callers
//     integrate them into their own concurrency model.
//   - Retry. Every failure category is terminal and surfaced once.
//
// # Performance contract
//
// Decode is the hot path. Registry reads never block concurrent decodes;
// nonce digests are allocated per call rather than shared behind a lock.
package goJose
