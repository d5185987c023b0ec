package predicate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainPredicate separates predicate fingerprints from any other hash the
// service computes. The version suffix allows the encoding to change.
const DomainPredicate = "sostime/predicate/v1"

// Fingerprint returns the hex SHA-256 of the canonical form of p, with
// domain separation: SHA256(domain + 0x00 + canonical).
func Fingerprint(p Predicate) (string, error) {
	canonical, err := MarshalCanonical(p)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(DomainPredicate))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
