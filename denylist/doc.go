// Package denylist provides Redis-backed token revocation keyed by the jti
// claim, plus a [Guard] that composes engine decoding with a revocation
// check. The engine core stays free of I/O; this package is the integration
// layer for deployments that need to revoke individual tokens before they
// expire.
//
// Keys expire with the token: a revocation entry is stored with a TTL derived
// from the token's exp claim, so Redis cleans up on its own.
package denylist
