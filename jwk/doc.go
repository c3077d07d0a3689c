// Package jwk models JSON Web Keys (RFC 7517) and their signature bindings.
//
// A [JWK] carries one piece of key material: its JOSE algorithm, optional key
// id, usage restriction, and whichever of MAC secret, public key, or private
// key the source provided. A [JWS] pairs one JWK with the signature
// operations that are valid for it. The registry in the root package stores
// JWS values and never touches the crypto directly.
//
// # What this package must NOT do
//
//   - Generate key material (callers bring their own keys).
//   - Perform any I/O; parsing operates on byte slices only.
//   - Make trust decisions; chain validation lives in internal/certchain.
package jwk
