package goJose

import (
	"fmt"
	"time"

	"github.com/MrEthical07/goJose/jwk"
)

// Sign serializes payload into a compact JWS under the requested algorithm.
// In secure mode (any key registered) the signing key is resolved from the
// registry: a lone candidate is used directly, several candidates are chosen
// among uniformly at random to spread load across equally valid keys. In
// unsecure mode the token is emitted unsigned with two segments.
//
// Sign may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) Sign(payload map[string]any, opts SignOptions) (string, error) {
	token, err := e.sign(payload, opts)
	if err != nil {
		e.metrics.Inc(MetricSignFailure)
		return "", err
	}
	e.metrics.Inc(MetricSignSuccess)
	return token, nil
}

func (e *Engine) sign(payload map[string]any, opts SignOptions) (string, error) {
	unsecure := e.registry.IsUnsecure()
	algorithm := opts.Algorithm

	if !unsecure && algorithm == "none" {
		return "", ErrAlgorithmNotAllowed
	}

	var binding *jwk.JWS
	var kid string

	if !unsecure {
		candidates := e.registry.resolveForSign(algorithm)
		if len(candidates) == 0 {
			return "", fmt.Errorf("%w: %s", ErrAlgorithmNotSupported, algorithm)
		}
		if len(candidates) == 1 {
			binding = candidates[0]
		} else {
			binding = candidates[e.pick(len(candidates))]
		}
		kid = binding.Key().ID()
	}

	// typ is a fixed value; alg and kid always win over caller headers
	header := make(map[string]any, len(opts.Header)+3)
	for k, v := range opts.Header {
		header[k] = v
	}
	header["typ"] = "JWT"
	header["alg"] = algorithm
	if kid != "" {
		header["kid"] = kid
	}

	claims := make(map[string]any, len(payload)+5)
	for k, v := range payload {
		claims[k] = v
	}

	// NumericDate: seconds since epoch in UTC
	now := time.Now().Unix()
	iatBase := now
	if v, ok := numericClaim(claims["iat"]); ok {
		iatBase = v
	}
	if !opts.NoTimestamp {
		if _, ok := claims["iat"]; !ok {
			claims["iat"] = now
		}
	}
	if opts.ExpiresInSeconds > 0 {
		if _, ok := claims["exp"]; !ok {
			claims["exp"] = iatBase + opts.ExpiresInSeconds
		}
	}
	if len(opts.Audiences) > 0 {
		if _, ok := claims["aud"]; !ok {
			if len(opts.Audiences) == 1 {
				claims["aud"] = opts.Audiences[0]
			} else {
				claims["aud"] = opts.Audiences
			}
		}
	}
	if opts.Issuer != "" {
		if _, ok := claims["iss"]; !ok {
			claims["iss"] = opts.Issuer
		}
	}
	if opts.Subject != "" {
		if _, ok := claims["sub"]; !ok {
			claims["sub"] = opts.Subject
		}
	}

	headerSegment, err := encodeJSONSegment(header)
	if err != nil {
		return "", fmt.Errorf("%w: encode header: %v", ErrInvalidFormat, err)
	}
	payloadSegment, err := encodeJSONSegment(claims)
	if err != nil {
		return "", fmt.Errorf("%w: encode payload: %v", ErrInvalidFormat, err)
	}

	if unsecure {
		return headerSegment + "." + payloadSegment, nil
	}

	signingInput := headerSegment + "." + payloadSegment
	signature, err := binding.Sign([]byte(signingInput))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCryptoOperation, err)
	}
	return signingInput + "." + base64urlEncode(signature), nil
}

// numericClaim normalizes a caller-supplied numeric claim value. JSON
// decoding yields float64; callers building payloads in Go commonly use int
// or int64.
func numericClaim(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
