package codec

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"gridview/internal/domain"

	"golang.org/x/crypto/blake2b"
)

// Canonical returns the JSON encoding of a snapshot together with its blake2b-256
// digest. Equal snapshots always produce equal digests.
func Canonical(snapshot *domain.Snapshot) (data []byte, digest string, err error) {
	var buf bytes.Buffer
	if err := NewJSONCodec().Encode(snapshot, &buf); err != nil {
		return nil, "", fmt.Errorf("canonical encoding: %w", err)
	}
	sum := blake2b.Sum256(buf.Bytes())
	return buf.Bytes(), hex.EncodeToString(sum[:]), nil
}

// Fingerprint returns only the digest of a snapshot
func Fingerprint(snapshot *domain.Snapshot) (string, error) {
	_, digest, err := Canonical(snapshot)
	return digest, err
}
