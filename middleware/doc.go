// Package middleware exposes HTTP middleware adapters that enforce token
// verification in front of a wrapped handler.
//
// # Guards
//
//   - [Guard] — generic adapter over any [Authenticator].
//   - [RequireVerified] — stateless cryptographic verification, no Redis call.
//   - [RequireUnrevoked] — verification plus a denylist revocation check.
//
// Each guard reads the Authorization header, authenticates the bearer token,
// and injects the validated claims into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into engine calls. It does NOT
// implement token logic itself — all decisions are delegated to the
// authenticator.
//
// # What this package must NOT do
//
//   - Parse or verify tokens directly (delegates to the engine).
//   - Access Redis (the denylist guard handles I/O).
//   - Make authorization decisions beyond pass/reject from the authenticator.
package middleware
