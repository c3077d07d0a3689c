package jwk

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	jwxjwk "github.com/lestrrat-go/jwx/v3/jwk"
)

// UseSignature is the only key use the token engine acts on. Keys carrying an
// empty use are treated as signature keys per RFC 7517 leniency.
const UseSignature = "sig"

// ErrUnsupportedAlgorithm is an exported constant or variable used by the token engine.
var ErrUnsupportedAlgorithm = errors.New("jwk: unsupported algorithm")

// ErrKeyMismatch is returned when key material does not fit the declared algorithm.
var ErrKeyMismatch = errors.New("jwk: key material does not match algorithm")

// JWK defines a public type used by goJose APIs.
//
// JWK instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JWK struct {
	alg     string
	kid     string
	label   string
	use     string
	mac     []byte
	public  crypto.PublicKey
	private crypto.PrivateKey
}

// Algorithm returns the JOSE algorithm identifier, e.g. "HS256".
func (j *JWK) Algorithm() string { return j.alg }

// ID returns the key id or the empty string when the key has none.
func (j *JWK) ID() string { return j.kid }

// Label returns the stable identity used for registry deduplication. It is
// the key id when one exists, otherwise a generated unique value.
func (j *JWK) Label() string { return j.label }

// Use returns the declared key use ("sig" or empty).
func (j *JWK) Use() string { return j.use }

// HasMAC reports whether the key carries a symmetric MAC secret.
func (j *JWK) HasMAC() bool { return len(j.mac) > 0 }

// HasPublicKey reports whether the key carries an asymmetric public key.
func (j *JWK) HasPublicKey() bool { return j.public != nil }

// HasPrivateKey reports whether the key carries an asymmetric private key.
func (j *JWK) HasPrivateKey() bool { return j.private != nil }

func newJWK(alg, kid, use string) *JWK {
	j := &JWK{alg: alg, kid: kid, use: use, label: kid}
	if j.label == "" {
		j.label = alg + "#" + uuid.NewString()
	}
	return j
}

// NewSymmetric builds a MAC key for one of the HS algorithms. The kid may be
// empty.
//
// NewSymmetric may return an error when input validation, dependency calls, or security checks fail.
func NewSymmetric(alg, kid string, secret []byte) (*JWK, error) {
	info, ok := algorithms[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
	if info.family != famHMAC {
		return nil, fmt.Errorf("%w: %s is not a MAC algorithm", ErrKeyMismatch, alg)
	}
	if len(secret) == 0 {
		return nil, errors.New("jwk: empty MAC secret")
	}
	j := newJWK(alg, kid, UseSignature)
	j.mac = secret
	return j, nil
}

// FromKeyPair builds an asymmetric key for alg. Either of pub and priv may be
// nil, but not both; a verify-only key carries just the public half.
//
// FromKeyPair may return an error when input validation, dependency calls, or security checks fail.
func FromKeyPair(alg, kid string, pub crypto.PublicKey, priv crypto.PrivateKey) (*JWK, error) {
	info, ok := algorithms[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
	if info.family == famHMAC {
		return nil, fmt.Errorf("%w: %s requires a MAC secret", ErrKeyMismatch, alg)
	}
	if pub == nil && priv == nil {
		return nil, errors.New("jwk: no key material")
	}
	j := newJWK(alg, kid, UseSignature)
	j.public = pub
	j.private = priv
	if err := checkKeyMaterial(info, j); err != nil {
		return nil, err
	}
	return j, nil
}

// FromPEM parses a PEM-encoded key for alg, accepting either the private or
// the public half. Symmetric algorithms are rejected since HS secrets are
// never PEM encoded.
//
// FromPEM may return an error when input validation, dependency calls, or security checks fail.
func FromPEM(alg, kid string, pemBytes []byte) (*JWK, error) {
	info, ok := algorithms[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}

	switch info.family {
	case famRSA, famRSAPSS:
		if priv, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes); err == nil {
			return FromKeyPair(alg, kid, &priv.PublicKey, priv)
		}
		pub, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
		if err != nil {
			return nil, fmt.Errorf("jwk: invalid RSA PEM block: %w", err)
		}
		return FromKeyPair(alg, kid, pub, nil)
	case famECDSA:
		if priv, err := jwt.ParseECPrivateKeyFromPEM(pemBytes); err == nil {
			return FromKeyPair(alg, kid, &priv.PublicKey, priv)
		}
		pub, err := jwt.ParseECPublicKeyFromPEM(pemBytes)
		if err != nil {
			return nil, fmt.Errorf("jwk: invalid EC PEM block: %w", err)
		}
		return FromKeyPair(alg, kid, pub, nil)
	case famEd25519:
		if priv, err := jwt.ParseEdPrivateKeyFromPEM(pemBytes); err == nil {
			edPriv, ok := priv.(ed25519.PrivateKey)
			if !ok {
				return nil, fmt.Errorf("%w: not an Ed25519 private key", ErrKeyMismatch)
			}
			return FromKeyPair(alg, kid, edPriv.Public(), edPriv)
		}
		pub, err := jwt.ParseEdPublicKeyFromPEM(pemBytes)
		if err != nil {
			return nil, fmt.Errorf("jwk: invalid Ed25519 PEM block: %w", err)
		}
		return FromKeyPair(alg, kid, pub, nil)
	default:
		return nil, fmt.Errorf("%w: %s keys are not PEM encoded", ErrKeyMismatch, alg)
	}
}

// ParseJWK decodes a single RFC 7517 JSON Web Key. The document must declare
// an "alg"; "kid" and "use" are honored when present.
//
// ParseJWK may return an error when input validation, dependency calls, or security checks fail.
func ParseJWK(data []byte) (*JWK, error) {
	var meta struct {
		Kty string `json:"kty"`
		Kid string `json:"kid"`
		Alg string `json:"alg"`
		Use string `json:"use"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("jwk: invalid JWK document: %w", err)
	}
	if meta.Alg == "" {
		return nil, errors.New("jwk: JWK document is missing alg")
	}
	info, ok := algorithms[meta.Alg]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, meta.Alg)
	}

	key, err := jwxjwk.ParseKey(data)
	if err != nil {
		return nil, fmt.Errorf("jwk: parse JWK document: %w", err)
	}

	var raw any
	if err := jwxjwk.Export(key, &raw); err != nil {
		return nil, fmt.Errorf("jwk: export key material: %w", err)
	}

	j := newJWK(meta.Alg, meta.Kid, meta.Use)
	switch k := raw.(type) {
	case []byte:
		j.mac = k
	case *rsa.PrivateKey:
		j.private = k
		j.public = &k.PublicKey
	case *rsa.PublicKey:
		j.public = k
	case *ecdsa.PrivateKey:
		j.private = k
		j.public = &k.PublicKey
	case *ecdsa.PublicKey:
		j.public = k
	case ed25519.PrivateKey:
		j.private = k
		j.public = k.Public()
	case ed25519.PublicKey:
		j.public = k
	default:
		return nil, fmt.Errorf("jwk: unsupported key type %T", raw)
	}
	if err := checkKeyMaterial(info, j); err != nil {
		return nil, err
	}
	return j, nil
}

func checkKeyMaterial(info algInfo, j *JWK) error {
	switch info.family {
	case famHMAC:
		if len(j.mac) == 0 {
			return fmt.Errorf("%w: %s requires a MAC secret", ErrKeyMismatch, j.alg)
		}
	case famRSA, famRSAPSS:
		if j.public != nil {
			if _, ok := j.public.(*rsa.PublicKey); !ok {
				return fmt.Errorf("%w: %s requires an RSA public key", ErrKeyMismatch, j.alg)
			}
		}
		if j.private != nil {
			if _, ok := j.private.(*rsa.PrivateKey); !ok {
				return fmt.Errorf("%w: %s requires an RSA private key", ErrKeyMismatch, j.alg)
			}
		}
	case famECDSA:
		if j.public != nil {
			pub, ok := j.public.(*ecdsa.PublicKey)
			if !ok || pub.Curve != info.curve {
				return fmt.Errorf("%w: %s requires an ECDSA key on %s", ErrKeyMismatch, j.alg, info.curve.Params().Name)
			}
		}
		if j.private != nil {
			priv, ok := j.private.(*ecdsa.PrivateKey)
			if !ok || priv.Curve != info.curve {
				return fmt.Errorf("%w: %s requires an ECDSA key on %s", ErrKeyMismatch, j.alg, info.curve.Params().Name)
			}
		}
	case famEd25519:
		if j.public != nil {
			if _, ok := j.public.(ed25519.PublicKey); !ok {
				return fmt.Errorf("%w: EdDSA requires an Ed25519 public key", ErrKeyMismatch)
			}
		}
		if j.private != nil {
			if _, ok := j.private.(ed25519.PrivateKey); !ok {
				return fmt.Errorf("%w: EdDSA requires an Ed25519 private key", ErrKeyMismatch)
			}
		}
	}
	return nil
}
