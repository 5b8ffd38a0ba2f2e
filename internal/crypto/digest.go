package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest computes a deterministic hex-encoded digest of its input. The PIN
// authenticator takes it as an explicit dependency so tests can substitute a
// fixed digest.
type Digest interface {
	Sum(input []byte) string
	Algorithm() string
}

// SHA256Digest is the default Digest implementation.
type SHA256Digest struct{}

func (SHA256Digest) Sum(input []byte) string {
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:])
}

func (SHA256Digest) Algorithm() string { return "sha256" }
