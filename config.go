package goJose

/*
====================================
ENGINE CONFIG
====================================
*/

// Config defines a public type used by goJose APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// AllowEmbeddedKey enables verification against an x5c certificate chain
	// embedded in the token header. Disabled by default: a malicious client
	// could otherwise self-sign a certificate, embed it, and always pass
	// validation. Deployments enabling this should also pin a root of trust.
	AllowEmbeddedKey bool

	// EmbeddedKeyRootCA is a standard base64 (not base64url) DER certificate
	// appended to every embedded chain as the root of trust. Setting it
	// implies AllowEmbeddedKey.
	EmbeddedKeyRootCA string

	// NonceAlgorithm names the digest applied to the header "nonce" claim
	// before signature verification, e.g. "SHA-256". Empty disables the
	// transform. Some identity providers (Azure AD graph tokens) hash a
	// client-supplied nonce into the header after the client generated it.
	NonceAlgorithm string

	Metrics MetricsConfig
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goJose APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
SIGN OPTIONS
====================================
*/

// SignOptions defines a public type used by goJose APIs.
//
// SignOptions instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SignOptions struct {
	// Algorithm is the requested JOSE algorithm name, e.g. "HS256" or "none".
	Algorithm string

	// Header supplies extra header claims. "typ" and "alg" are always
	// overridden by the engine; "kid" is overridden when a keyed algorithm
	// selects a key that has an id.
	Header map[string]any

	// ExpiresInSeconds sets the token lifetime. Zero or negative means no
	// "exp" claim is injected.
	ExpiresInSeconds int64

	// NoTimestamp suppresses the injected "iat" claim.
	NoTimestamp bool

	// Audiences becomes the "aud" claim: a single string when one entry, a
	// JSON array when several.
	Audiences []string

	Issuer  string
	Subject string
}
