package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainShape    = "metaclass/shape/v1"
	DomainSnapshot = "metaclass/snapshot/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ShapeID computes the content ID of an attribute layout.
// Key order matters: two stores with the same keys inserted in a different
// order have different shapes.
func ShapeID(keys []string) string {
	canonical, err := MarshalCanonical(keys)
	if err != nil {
		// []string always canonicalizes; keep the signature total.
		panic(fmt.Sprintf("ShapeID: %v", err))
	}
	return hashWithDomain(DomainShape, canonical)
}

// SnapshotID computes the content ID of a snapshot from its classes.
// The snapshot's own ID field is ignored.
func SnapshotID(classes []ClassView) (string, error) {
	list := make([]any, len(classes))
	for i, c := range classes {
		list[i] = c.toCanonicalMap()
	}
	canonical, err := MarshalCanonical(map[string]any{
		"version": SnapshotVersion,
		"classes": list,
	})
	if err != nil {
		return "", fmt.Errorf("SnapshotID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}
