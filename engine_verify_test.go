package goJose

import (
	"crypto/sha256"
	"errors"
	"strings"
	"testing"

	"github.com/MrEthical07/goJose/jwk"
)

// flipSignatureByte corrupts the first byte of a token's signature segment
// while keeping it valid base64url.
func flipSignatureByte(t *testing.T, token string) string {
	t.Helper()
	i := strings.LastIndex(token, ".")
	if i < 0 || i == len(token)-1 {
		t.Fatalf("token %q has no signature segment", token)
	}
	signature, err := base64urlDecode(token[i+1:])
	if err != nil {
		t.Fatalf("decode signature failed: %v", err)
	}
	signature[0] ^= 0xff
	return token[:i+1] + base64urlEncode(signature)
}

func TestDecodeRoundTrip(t *testing.T) {
	e := newSecureEngine(t, Config{})

	token, err := e.Sign(map[string]any{"sub": "alice", "scope": "read"}, SignOptions{Algorithm: "HS256"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	payload, err := e.Decode(token)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if payload["sub"] != "alice" || payload["scope"] != "read" {
		t.Fatalf("unexpected payload: %v", payload)
	}

	full, err := e.DecodeFull(token)
	if err != nil {
		t.Fatalf("DecodeFull failed: %v", err)
	}
	if full.Header["alg"] != "HS256" || full.Header["kid"] != "k1" {
		t.Fatalf("unexpected header: %v", full.Header)
	}
}

func TestDecodeUnsecureRoundTrip(t *testing.T) {
	e := newUnsecureEngine(t)

	token, err := e.Sign(map[string]any{"sub": "bob"}, SignOptions{Algorithm: "none"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	payload, err := e.Decode(token)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if payload["sub"] != "bob" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestDecodeRejectsTamperedSignature(t *testing.T) {
	e := newSecureEngine(t, Config{})

	token, err := e.Sign(map[string]any{"sub": "alice"}, SignOptions{Algorithm: "HS256"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := e.Decode(flipSignatureByte(t, token)); !errors.Is(err, ErrSignatureVerification) {
		t.Fatalf("expected ErrSignatureVerification, got %v", err)
	}
}

func TestDecodeRejectsUnknownAlgorithm(t *testing.T) {
	e := newSecureEngine(t, Config{})

	header, _ := encodeJSONSegment(map[string]any{"alg": "RS256", "typ": "JWT"})
	payload, _ := encodeJSONSegment(map[string]any{"sub": "x"})
	token := header + "." + payload + ".c2ln"

	err := errorOnly(e.Decode(token))
	if !errors.Is(err, ErrNoSuchAlgorithm) {
		t.Fatalf("expected ErrNoSuchAlgorithm, got %v", err)
	}
	if !strings.Contains(err.Error(), "RS256") {
		t.Fatalf("error must name the algorithm: %v", err)
	}
}

func TestDecodeRejectsMissingAlgorithmAsUnknown(t *testing.T) {
	e := newSecureEngine(t, Config{})

	header, _ := encodeJSONSegment(map[string]any{"typ": "JWT"})
	payload, _ := encodeJSONSegment(map[string]any{"sub": "x"})

	if err := errorOnly(e.Decode(header + "." + payload + ".c2ln")); !errors.Is(err, ErrNoSuchAlgorithm) {
		t.Fatalf("expected ErrNoSuchAlgorithm, got %v", err)
	}
}

func TestDecodeRejectsUnknownKeyID(t *testing.T) {
	e := newSecureEngine(t, Config{})

	// same secret, but the advertised kid matches no registered key
	signer, err := NewEngine(Config{})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if err := signer.AddKey(mustSymmetric(t, "HS256", "other", testSecret)); err != nil {
		t.Fatalf("AddKey failed: %v", err)
	}
	token, err := signer.Sign(map[string]any{"sub": "x"}, SignOptions{Algorithm: "HS256"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	_, err = e.Decode(token)
	if !errors.Is(err, ErrNoSuchKeyID) {
		t.Fatalf("expected ErrNoSuchKeyID, got %v", err)
	}
	var kidErr *NoSuchKeyIDError
	if !errors.As(err, &kidErr) {
		t.Fatalf("expected *NoSuchKeyIDError, got %T", err)
	}
	if kidErr.Algorithm != "HS256" || kidErr.KeyID != "other" {
		t.Fatalf("unexpected error detail: %+v", kidErr)
	}
}

func TestDecodeKidlessTokenTriedAgainstAllCandidates(t *testing.T) {
	e := newSecureEngine(t, Config{})

	// token without a kid, signed by a key the verifier does not hold:
	// every candidate is tried and the failure is a signature failure,
	// not a key-id lookup failure
	signer, err := NewEngine(Config{})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if err := signer.AddKey(mustSymmetric(t, "HS256", "", "another-secret-another-secret-32")); err != nil {
		t.Fatalf("AddKey failed: %v", err)
	}
	token, err := signer.Sign(map[string]any{"sub": "x"}, SignOptions{Algorithm: "HS256"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := e.Decode(token); !errors.Is(err, ErrSignatureVerification) {
		t.Fatalf("expected ErrSignatureVerification, got %v", err)
	}
}

func TestDecodeSegmentPolicy(t *testing.T) {
	secure := newSecureEngine(t, Config{})
	unsecure := newUnsecureEngine(t)

	signed, err := secure.Sign(map[string]any{"sub": "x"}, SignOptions{Algorithm: "HS256"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	unsigned, err := unsecure.Sign(map[string]any{"sub": "x"}, SignOptions{Algorithm: "none"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if err := errorOnly(secure.Decode(unsigned)); !errors.Is(err, ErrUnsignedTokenSecureMode) {
		t.Fatalf("expected ErrUnsignedTokenSecureMode, got %v", err)
	}
	if err := errorOnly(unsecure.Decode(signed)); !errors.Is(err, ErrSignedTokenUnsecureMode) {
		t.Fatalf("expected ErrSignedTokenUnsecureMode, got %v", err)
	}
}

func TestDecodeRejectsEmptySignatureSegment(t *testing.T) {
	for _, newEngine := range map[string]func(*testing.T) *Engine{
		"secure":   func(t *testing.T) *Engine { return newSecureEngine(t, Config{}) },
		"unsecure": func(t *testing.T) *Engine { return newUnsecureEngine(t) },
	} {
		e := newEngine(t)
		header, _ := encodeJSONSegment(map[string]any{"alg": "HS256"})
		payload, _ := encodeJSONSegment(map[string]any{"sub": "x"})
		if err := errorOnly(e.Decode(header + "." + payload + ".")); !errors.Is(err, ErrEmptySignature) {
			t.Fatalf("expected ErrEmptySignature, got %v", err)
		}
	}
}

func TestDecodeRejectsSingleSegment(t *testing.T) {
	e := newSecureEngine(t, Config{})
	if err := errorOnly(e.Decode("justonesegment")); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestDecodeSecureRejectsAlgNoneToken(t *testing.T) {
	e := newSecureEngine(t, Config{})

	header, _ := encodeJSONSegment(map[string]any{"alg": "none"})
	payload, _ := encodeJSONSegment(map[string]any{"sub": "x"})

	if err := errorOnly(e.Decode(header + "." + payload + ".c2ln")); !errors.Is(err, ErrAlgorithmNotAllowed) {
		t.Fatalf("expected ErrAlgorithmNotAllowed, got %v", err)
	}
}

func TestDecodeRequiresSignatureWhenPolicyDeferred(t *testing.T) {
	// with embedded keys enabled the segment-count policy is skipped, so a
	// two-segment token reaches the keyed path and fails there
	e := newSecureEngine(t, Config{AllowEmbeddedKey: true})

	header, _ := encodeJSONSegment(map[string]any{"alg": "HS256"})
	payload, _ := encodeJSONSegment(map[string]any{"sub": "x"})

	if err := errorOnly(e.Decode(header + "." + payload)); !errors.Is(err, ErrMissingSignature) {
		t.Fatalf("expected ErrMissingSignature, got %v", err)
	}
}

func TestDecodeNonceDigestRewrite(t *testing.T) {
	e, err := NewEngine(Config{NonceAlgorithm: "SHA-256"})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	key := mustSymmetric(t, "HS256", "k1", testSecret)
	if err := e.AddKey(key); err != nil {
		t.Fatalf("AddKey failed: %v", err)
	}

	// the provider signs over digest(nonce) but puts the raw nonce on the wire
	rawNonce := "client-nonce-123"
	sum := sha256.Sum256([]byte(rawNonce))
	digestedNonce := base64urlEncode(sum[:])

	signedHeader, err := encodeJSONSegment(map[string]any{"alg": "HS256", "typ": "JWT", "kid": "k1", "nonce": digestedNonce})
	if err != nil {
		t.Fatalf("encode header failed: %v", err)
	}
	payloadSegment, err := encodeJSONSegment(map[string]any{"sub": "azure-user"})
	if err != nil {
		t.Fatalf("encode payload failed: %v", err)
	}

	binding, err := jwk.NewJWS(key)
	if err != nil {
		t.Fatalf("NewJWS failed: %v", err)
	}
	signature, err := binding.Sign([]byte(signedHeader + "." + payloadSegment))
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	wireHeader, err := encodeJSONSegment(map[string]any{"alg": "HS256", "typ": "JWT", "kid": "k1", "nonce": rawNonce})
	if err != nil {
		t.Fatalf("encode header failed: %v", err)
	}
	token := wireHeader + "." + payloadSegment + "." + base64urlEncode(signature)

	full, err := e.DecodeFull(token)
	if err != nil {
		t.Fatalf("DecodeFull failed: %v", err)
	}
	if full.Payload["sub"] != "azure-user" {
		t.Fatalf("unexpected payload: %v", full.Payload)
	}
	if full.Header["nonce"] != digestedNonce {
		t.Fatalf("returned header must carry the digested nonce, got %v", full.Header["nonce"])
	}

	// without the nonce transform configured the same token must fail
	plain := newSecureEngine(t, Config{})
	if _, err := plain.Decode(token); !errors.Is(err, ErrSignatureVerification) {
		t.Fatalf("expected ErrSignatureVerification without nonce rewrite, got %v", err)
	}
}

func TestDecodeNonceMustBeString(t *testing.T) {
	e, err := NewEngine(Config{NonceAlgorithm: "SHA-256"})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if err := e.AddKey(mustSymmetric(t, "HS256", "k1", testSecret)); err != nil {
		t.Fatalf("AddKey failed: %v", err)
	}

	header, _ := encodeJSONSegment(map[string]any{"alg": "HS256", "nonce": 42})
	payload, _ := encodeJSONSegment(map[string]any{"sub": "x"})

	if err := errorOnly(e.Decode(header + "." + payload + ".c2ln")); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func errorOnly(_ map[string]any, err error) error { return err }
