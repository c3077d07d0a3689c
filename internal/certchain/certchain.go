// Package certchain validates ordered X.509 certificate chains for the
// embedded-key (x5c) token path. Chains are ordered leaf first, each
// certificate issued by the next one in the list.
package certchain

import (
	"crypto/x509"
	"errors"
	"fmt"
	"time"
)

// ErrEmptyChain is an exported constant or variable used by the token engine.
var ErrEmptyChain = errors.New("certchain: empty certificate chain")

// CheckValidity walks the chain leaf to issuer, asserting that every
// certificate is inside its validity window and signed by its successor.
// When anchored is true the last certificate is the caller-provided
// root of trust and must be self-signed.
func CheckValidity(chain []*x509.Certificate, anchored bool) error {
	return CheckValidityAt(chain, anchored, time.Now())
}

// CheckValidityAt is CheckValidity with an explicit evaluation time, used by
// tests to pin the clock.
func CheckValidityAt(chain []*x509.Certificate, anchored bool, at time.Time) error {
	if len(chain) == 0 {
		return ErrEmptyChain
	}

	for i, cert := range chain {
		if at.Before(cert.NotBefore) || at.After(cert.NotAfter) {
			return fmt.Errorf("certchain: certificate %d outside validity period", i)
		}
		if i < len(chain)-1 {
			issuer := chain[i+1]
			if i+1 < len(chain)-1 || anchored {
				// intermediates and an anchored root must be CA certificates
				if issuer.BasicConstraintsValid && !issuer.IsCA {
					return fmt.Errorf("certchain: certificate %d issued by a non-CA certificate", i)
				}
			}
			if err := cert.CheckSignatureFrom(issuer); err != nil {
				return fmt.Errorf("certchain: certificate %d not signed by certificate %d: %w", i, i+1, err)
			}
		}
	}

	if anchored {
		root := chain[len(chain)-1]
		if err := root.CheckSignature(root.SignatureAlgorithm, root.RawTBSCertificate, root.Signature); err != nil {
			return fmt.Errorf("certchain: root of trust is not self-signed: %w", err)
		}
	}

	return nil
}
