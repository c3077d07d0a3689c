package goJose

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is an exported constant or variable used by the token engine.
	ErrInvalidFormat = errors.New("invalid token format")
	// ErrEmptySignature is an exported constant or variable used by the token engine.
	ErrEmptySignature = errors.New("signature segment is empty")
	// ErrMissingSignature is an exported constant or variable used by the token engine.
	ErrMissingSignature = errors.New("missing signature segment")
	// ErrAlgorithmNotAllowed is an exported constant or variable used by the token engine.
	ErrAlgorithmNotAllowed = errors.New(`algorithm "none" not allowed`)
	// ErrAlgorithmNotSupported is an exported constant or variable used by the token engine.
	ErrAlgorithmNotSupported = errors.New("algorithm not supported for signing")
	// ErrNoSuchAlgorithm is an exported constant or variable used by the token engine.
	ErrNoSuchAlgorithm = errors.New("no verification key registered for algorithm")
	// ErrNoSuchKeyID is an exported constant or variable used by the token engine.
	ErrNoSuchKeyID = errors.New("no key for key id")
	// ErrSignatureVerification is an exported constant or variable used by the token engine.
	ErrSignatureVerification = errors.New("signature verification failed")
	// ErrTrustChainInvalid is an exported constant or variable used by the token engine.
	ErrTrustChainInvalid = errors.New("certificate chain invalid")
	// ErrCryptoOperation is an exported constant or variable used by the token engine.
	ErrCryptoOperation = errors.New("crypto operation failed")
	// ErrSignedTokenUnsecureMode is an exported constant or variable used by the token engine.
	ErrSignedTokenUnsecureMode = errors.New("engine is in unsecure mode but token is signed")
	// ErrUnsignedTokenSecureMode is an exported constant or variable used by the token engine.
	ErrUnsignedTokenSecureMode = errors.New("engine is in secure mode but token is not signed")
)

// NoSuchKeyIDError reports that the verification tables held no candidate for
// a token, carrying the algorithm and the key id the token asked for so that
// integrators can log an unknown signer identity separately from a known
// signer producing a bad signature.
type NoSuchKeyIDError struct {
	Algorithm string
	KeyID     string
}

// Error describes the error operation and its observable behavior.
func (e *NoSuchKeyIDError) Error() string {
	if e.KeyID == "" {
		return fmt.Sprintf("no key for algorithm %q", e.Algorithm)
	}
	return fmt.Sprintf("no key with id %q for algorithm %q", e.KeyID, e.Algorithm)
}

// Is matches the bare [ErrNoSuchKeyID] sentinel, so
// errors.Is(err, ErrNoSuchKeyID) works without unwrapping.
func (e *NoSuchKeyIDError) Is(target error) bool {
	return target == ErrNoSuchKeyID
}
