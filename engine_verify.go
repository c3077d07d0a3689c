package goJose

import (
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/goJose/internal/certchain"
	"github.com/MrEthical07/goJose/jwk"
)

// DecodedToken defines a public type used by goJose APIs.
//
// DecodedToken carries both halves of a verified token for callers that need
// header claims (kid, x5c, nonce) alongside the payload.
type DecodedToken struct {
	Header  map[string]any
	Payload map[string]any
}

// Decode validates token against the registered keys and returns its payload.
// See [Engine.DecodeFull] for the header-inclusive variant.
//
// Decode may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) Decode(token string) (map[string]any, error) {
	decoded, err := e.decode(token)
	if err != nil {
		return nil, err
	}
	return decoded.Payload, nil
}

// DecodeFull validates token against the registered keys and returns header
// and payload.
//
// DecodeFull may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) DecodeFull(token string) (*DecodedToken, error) {
	return e.decode(token)
}

func (e *Engine) decode(token string) (*DecodedToken, error) {
	start := time.Now()
	decoded, err := e.decodeInner(token)
	e.metrics.Observe(MetricDecodeLatency, time.Since(start))
	if err != nil {
		e.metrics.Inc(MetricDecodeFailure)
		switch {
		case errors.Is(err, ErrNoSuchKeyID):
			e.metrics.Inc(MetricUnknownKeyID)
		case errors.Is(err, ErrNoSuchAlgorithm):
			e.metrics.Inc(MetricUnknownAlgorithm)
		case errors.Is(err, ErrSignatureVerification):
			e.metrics.Inc(MetricSignatureRejected)
		case errors.Is(err, ErrTrustChainInvalid):
			e.metrics.Inc(MetricEmbeddedChainRejected)
		}
		return nil, err
	}
	e.metrics.Inc(MetricDecodeSuccess)
	return decoded, nil
}

func (e *Engine) decodeInner(token string) (*DecodedToken, error) {
	segments := strings.Split(token, ".")
	if len(segments) < 2 {
		return nil, fmt.Errorf("%w: %d segments", ErrInvalidFormat, len(segments))
	}

	headerSegment := segments[0]
	payloadSegment := segments[1]
	signatureSegment := ""
	if len(segments) == 3 {
		signatureSegment = segments[2]
	}

	// an empty signature segment is never allowed
	if len(segments) >= 3 && segments[2] == "" {
		return nil, ErrEmptySignature
	}

	header, err := decodeJSONSegment(headerSegment, "header")
	if err != nil {
		return nil, err
	}

	unsecure := e.registry.IsUnsecure()

	// Segment-count policy. When embedded keys are allowed a chain in the
	// header may legitimize a signature even without registered keys, so the
	// check is deferred to the embedded or keyed path.
	if unsecure {
		if !e.allowEmbeddedKey && len(segments) != 2 {
			return nil, ErrSignedTokenUnsecureMode
		}
	} else {
		if !e.allowEmbeddedKey && len(segments) != 3 {
			return nil, ErrUnsignedTokenSecureMode
		}
	}

	payload, err := decodeJSONSegment(payloadSegment, "payload")
	if err != nil {
		return nil, err
	}

	alg, _ := header["alg"].(string)

	if !unsecure && alg == "none" {
		return nil, ErrAlgorithmNotAllowed
	}

	if e.allowEmbeddedKey {
		if _, ok := header["x5c"]; ok {
			if signatureSegment == "" {
				return nil, ErrMissingSignature
			}
			if err := e.verifyEmbedded(header, alg, signatureSegment, headerSegment+"."+payloadSegment); err != nil {
				return nil, err
			}
			return &DecodedToken{Header: header, Payload: payload}, nil
		}
	}

	if !unsecure {
		candidates := e.registry.resolveForVerify(alg)
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoSuchAlgorithm, alg)
		}

		if signatureSegment == "" {
			return nil, ErrMissingSignature
		}
		signature, err := base64urlDecode(signatureSegment)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed signature segment", ErrInvalidFormat)
		}

		if e.nonceDigest != nil {
			if _, ok := header["nonce"]; ok {
				headerSegment, err = e.rewriteNonce(header)
				if err != nil {
					return nil, err
				}
			}
		}
		signingInput := []byte(headerSegment + "." + payloadSegment)

		kid, _ := header["kid"].(string)
		hasKey := false

		for _, candidate := range candidates {
			// a kid on the token skips candidates bound to a different id
			if kid != "" && candidate.Key().ID() != "" && candidate.Key().ID() != kid {
				continue
			}
			hasKey = true
			if candidate.Verify(signature, signingInput) {
				return &DecodedToken{Header: header, Payload: payload}, nil
			}
		}

		if hasKey {
			return nil, ErrSignatureVerification
		}
		return nil, &NoSuchKeyIDError{Algorithm: alg, KeyID: kid}
	}

	// unsecure mode: a structurally valid unsigned token is accepted as-is
	return &DecodedToken{Header: header, Payload: payload}, nil
}

// rewriteNonce applies the provider-side nonce transform: the signed header
// carried digest(nonce), while the wire token carries the raw client nonce.
// The header claim is replaced with the digest and the header segment
// re-derived so the signing input matches what was actually signed.
func (e *Engine) rewriteNonce(header map[string]any) (string, error) {
	nonce, ok := header["nonce"].(string)
	if !ok {
		return "", fmt.Errorf("%w: nonce claim is not a string", ErrInvalidFormat)
	}
	digest := e.nonceDigest()
	digest.Write([]byte(nonce))
	header["nonce"] = base64urlEncode(digest.Sum(nil))
	return encodeJSONSegment(header)
}

// verifyEmbedded runs the x5c path: decode the embedded chain, validate it
// (anchored against the configured root of trust when one exists), then check
// the signature with the leaf certificate's public key.
func (e *Engine) verifyEmbedded(header map[string]any, alg, signatureSegment, signingInput string) error {
	rawChain, ok := header["x5c"].([]any)
	if !ok || len(rawChain) == 0 {
		return fmt.Errorf("%w: x5c chain is missing or empty", ErrTrustChainInvalid)
	}

	chain := make([]*x509.Certificate, 0, len(rawChain)+1)
	for i, entry := range rawChain {
		encoded, ok := entry.(string)
		if !ok {
			return fmt.Errorf("%w: x5c entry %d is not a string", ErrTrustChainInvalid, i)
		}
		// x5c entries are standard base64 DER, not base64url (RFC 7515 4.1.6)
		der, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("%w: x5c entry %d is not base64 DER", ErrTrustChainInvalid, i)
		}
		cert, err := jwk.ParseX5c(der)
		if err != nil {
			return fmt.Errorf("%w: x5c entry %d: %v", ErrTrustChainInvalid, i, err)
		}
		chain = append(chain, cert)
	}

	anchored := e.rootCA != nil
	if anchored {
		chain = append(chain, e.rootCA)
	}
	if err := certchain.CheckValidity(chain, anchored); err != nil {
		return fmt.Errorf("%w: %v", ErrTrustChainInvalid, err)
	}

	signature, err := base64urlDecode(signatureSegment)
	if err != nil {
		return fmt.Errorf("%w: malformed signature segment", ErrInvalidFormat)
	}
	ok, err = jwk.VerifySignature(alg, chain[0].PublicKey, signature, []byte(signingInput))
	if err != nil || !ok {
		return ErrSignatureVerification
	}
	return nil
}
