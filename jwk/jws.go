package jwk

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/subtle"
	"crypto/x509"
	"errors"
	"fmt"
	"math/big"
)

type algFamily uint8

const (
	famHMAC algFamily = iota
	famRSA
	famRSAPSS
	famECDSA
	famEd25519
)

type algInfo struct {
	family algFamily
	hash   crypto.Hash
	curve  elliptic.Curve
	// halfLen is the byte length of each half of a JOSE R||S signature.
	halfLen int
}

var algorithms = map[string]algInfo{
	"HS256": {family: famHMAC, hash: crypto.SHA256},
	"HS384": {family: famHMAC, hash: crypto.SHA384},
	"HS512": {family: famHMAC, hash: crypto.SHA512},
	"RS256": {family: famRSA, hash: crypto.SHA256},
	"RS384": {family: famRSA, hash: crypto.SHA384},
	"RS512": {family: famRSA, hash: crypto.SHA512},
	"PS256": {family: famRSAPSS, hash: crypto.SHA256},
	"PS384": {family: famRSAPSS, hash: crypto.SHA384},
	"PS512": {family: famRSAPSS, hash: crypto.SHA512},
	"ES256": {family: famECDSA, hash: crypto.SHA256, curve: elliptic.P256(), halfLen: 32},
	"ES384": {family: famECDSA, hash: crypto.SHA384, curve: elliptic.P384(), halfLen: 48},
	"ES512": {family: famECDSA, hash: crypto.SHA512, curve: elliptic.P521(), halfLen: 66},
	"EdDSA": {family: famEd25519},
}

// SupportedAlgorithm reports whether alg names a signature algorithm this
// package can execute.
func SupportedAlgorithm(alg string) bool {
	_, ok := algorithms[alg]
	return ok
}

// JWS defines a public type used by goJose APIs.
//
// JWS instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JWS struct {
	key  *JWK
	info algInfo
}

// NewJWS binds a key to its signature operations.
//
// NewJWS may return an error when input validation, dependency calls, or security checks fail.
func NewJWS(key *JWK) (*JWS, error) {
	if key == nil {
		return nil, errors.New("jwk: nil key")
	}
	info, ok := algorithms[key.Algorithm()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, key.Algorithm())
	}
	return &JWS{key: key, info: info}, nil
}

// Key returns the bound key material.
func (s *JWS) Key() *JWK { return s.key }

// CanSign reports whether the binding holds material usable for signing.
func (s *JWS) CanSign() bool {
	return s.key.HasMAC() || s.key.HasPrivateKey()
}

// CanVerify reports whether the binding holds material usable for
// verification.
func (s *JWS) CanVerify() bool {
	return s.key.HasMAC() || s.key.HasPublicKey()
}

// Sign computes the raw JWS signature over signingInput. ECDSA signatures use
// the JOSE R||S form, not ASN.1 DER.
//
// Sign may return an error when input validation, dependency calls, or security checks fail.
func (s *JWS) Sign(signingInput []byte) ([]byte, error) {
	switch s.info.family {
	case famHMAC:
		if !s.key.HasMAC() {
			return nil, errors.New("jwk: key has no MAC secret")
		}
		mac := hmac.New(s.info.hash.New, s.key.mac)
		mac.Write(signingInput)
		return mac.Sum(nil), nil

	case famRSA:
		priv, err := s.rsaPrivate()
		if err != nil {
			return nil, err
		}
		return rsa.SignPKCS1v15(rand.Reader, priv, s.info.hash, digest(s.info.hash, signingInput))

	case famRSAPSS:
		priv, err := s.rsaPrivate()
		if err != nil {
			return nil, err
		}
		opts := &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash, Hash: s.info.hash}
		return rsa.SignPSS(rand.Reader, priv, s.info.hash, digest(s.info.hash, signingInput), opts)

	case famECDSA:
		priv, ok := s.key.private.(*ecdsa.PrivateKey)
		if !ok {
			return nil, errors.New("jwk: key has no ECDSA private key")
		}
		r, sv, err := ecdsa.Sign(rand.Reader, priv, digest(s.info.hash, signingInput))
		if err != nil {
			return nil, err
		}
		out := make([]byte, 2*s.info.halfLen)
		r.FillBytes(out[:s.info.halfLen])
		sv.FillBytes(out[s.info.halfLen:])
		return out, nil

	case famEd25519:
		priv, ok := s.key.private.(ed25519.PrivateKey)
		if !ok {
			return nil, errors.New("jwk: key has no Ed25519 private key")
		}
		return ed25519.Sign(priv, signingInput), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, s.key.alg)
}

// Verify reports whether signature is a valid signature over signingInput for
// the bound key. Malformed signatures and mismatched key material verify as
// false rather than erroring, because during token validation a failed
// candidate is simply skipped.
func (s *JWS) Verify(signature, signingInput []byte) bool {
	switch s.info.family {
	case famHMAC:
		if !s.key.HasMAC() {
			return false
		}
		mac := hmac.New(s.info.hash.New, s.key.mac)
		mac.Write(signingInput)
		return subtle.ConstantTimeCompare(mac.Sum(nil), signature) == 1

	case famRSA:
		pub, ok := s.key.public.(*rsa.PublicKey)
		if !ok {
			return false
		}
		return rsa.VerifyPKCS1v15(pub, s.info.hash, digest(s.info.hash, signingInput), signature) == nil

	case famRSAPSS:
		pub, ok := s.key.public.(*rsa.PublicKey)
		if !ok {
			return false
		}
		opts := &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash, Hash: s.info.hash}
		return rsa.VerifyPSS(pub, s.info.hash, digest(s.info.hash, signingInput), signature, opts) == nil

	case famECDSA:
		pub, ok := s.key.public.(*ecdsa.PublicKey)
		if !ok || len(signature) != 2*s.info.halfLen {
			return false
		}
		r := new(big.Int).SetBytes(signature[:s.info.halfLen])
		sv := new(big.Int).SetBytes(signature[s.info.halfLen:])
		return ecdsa.Verify(pub, digest(s.info.hash, signingInput), r, sv)

	case famEd25519:
		pub, ok := s.key.public.(ed25519.PublicKey)
		if !ok {
			return false
		}
		return ed25519.Verify(pub, signingInput, signature)
	}
	return false
}

func (s *JWS) rsaPrivate() (*rsa.PrivateKey, error) {
	priv, ok := s.key.private.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("jwk: key has no RSA private key")
	}
	return priv, nil
}

func digest(h crypto.Hash, data []byte) []byte {
	hasher := h.New()
	hasher.Write(data)
	return hasher.Sum(nil)
}

// VerifySignature checks signature over signingInput against a bare public
// key, typically the leaf certificate of an embedded x5c chain.
//
// VerifySignature may return an error when input validation, dependency calls, or security checks fail.
func VerifySignature(alg string, pub crypto.PublicKey, signature, signingInput []byte) (bool, error) {
	info, ok := algorithms[alg]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
	if info.family == famHMAC {
		return false, fmt.Errorf("%w: %s cannot verify with a public key", ErrKeyMismatch, alg)
	}
	j := newJWK(alg, "", UseSignature)
	j.public = pub
	if err := checkKeyMaterial(info, j); err != nil {
		return false, err
	}
	jws, err := NewJWS(j)
	if err != nil {
		return false, err
	}
	return jws.Verify(signature, signingInput), nil
}

// ParseX5c parses one DER certificate as found in an x5c header entry.
//
// ParseX5c may return an error when input validation, dependency calls, or security checks fail.
func ParseX5c(der []byte) (*x509.Certificate, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("jwk: invalid DER certificate: %w", err)
	}
	return cert, nil
}
