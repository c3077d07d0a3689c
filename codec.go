package goJose

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Token holds the decoded pieces of one compact-serialization JWS. Values are
// built fresh per call and never cached; the segment strings are the exact
// wire segments so the signing input can be recomputed bit for bit.
type Token struct {
	Header  map[string]any
	Payload map[string]any

	HeaderSegment    string
	PayloadSegment   string
	SignatureSegment string

	// SigningInput is headerSegment + "." + payloadSegment as raw bytes.
	SigningInput []byte
}

// Split cuts a compact-serialization token into its dot-joined segments.
//
// Split may return an error when input validation, dependency calls, or security checks fail.
func Split(token string) ([]string, error) {
	segments := strings.Split(token, ".")
	if len(segments) < 2 || len(segments) > 3 {
		return nil, fmt.Errorf("%w: %d segments", ErrInvalidFormat, len(segments))
	}
	return segments, nil
}

// Parse decodes a token without any trust decision: no algorithm check, no
// signature check. It exists for introspection only; callers that care about
// authenticity use [Engine.Decode].
//
// Parse may return an error when input validation, dependency calls, or security checks fail.
func Parse(token string) (*Token, error) {
	segments, err := Split(token)
	if err != nil {
		return nil, err
	}

	header, err := decodeJSONSegment(segments[0], "header")
	if err != nil {
		return nil, err
	}
	payload, err := decodeJSONSegment(segments[1], "payload")
	if err != nil {
		return nil, err
	}

	t := &Token{
		Header:         header,
		Payload:        payload,
		HeaderSegment:  segments[0],
		PayloadSegment: segments[1],
		SigningInput:   []byte(segments[0] + "." + segments[1]),
	}
	if len(segments) == 3 {
		t.SignatureSegment = segments[2]
	}
	return t, nil
}

// decodeJSONSegment base64url-decodes (RFC 4648 section 5, unpadded) one
// segment and parses it as a UTF-8 JSON object.
func decodeJSONSegment(segment, name string) (map[string]any, error) {
	raw, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed %s segment", ErrInvalidFormat, name)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %s is not a JSON object", ErrInvalidFormat, name)
	}
	return out, nil
}

func encodeJSONSegment(obj map[string]any) (string, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func base64urlEncode(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}

func base64urlDecode(segment string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(segment)
}
