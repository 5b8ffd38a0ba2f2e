package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

var (
	ErrCryptoUnavailable = errors.New("secure random source unavailable")
	ErrInvalidRange      = errors.New("invalid range: min must not exceed max")
)

// RandomSource produces cryptographically secure random values. All secret
// material in the application (passwords, salts, nonces) flows through it.
// There is deliberately no fallback to a non-cryptographic generator: if the
// underlying reader fails, every method returns ErrCryptoUnavailable.
type RandomSource struct {
	reader io.Reader
}

// NewRandomSource returns a RandomSource backed by the platform CSPRNG.
func NewRandomSource() *RandomSource {
	return &RandomSource{reader: rand.Reader}
}

// NewRandomSourceFrom returns a RandomSource backed by the given reader.
// Intended for deterministic tests only.
func NewRandomSourceFrom(reader io.Reader) *RandomSource {
	return &RandomSource{reader: reader}
}

// Bytes returns n random bytes.
func (s *RandomSource) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("byte count must be non-negative, got %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.reader, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}
	return buf, nil
}

// Int returns a uniform random integer in [min, max] inclusive. Uniformity
// is achieved by rejection sampling: draws that would bias the modulo are
// discarded and redrawn.
func (s *RandomSource) Int(min, max int) (int, error) {
	if min > max {
		return 0, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, min, max)
	}
	span := uint64(max-min) + 1
	if span == 1 {
		return min, nil
	}

	// Minimum byte width covering the span.
	width := 1
	for limit := uint64(1) << 8; limit < span && width < 8; width++ {
		limit <<= 8
	}

	// Largest multiple of span representable in width bytes; draws at or
	// above it are rejected.
	var threshold uint64
	if width == 8 {
		if r := (^uint64(0)%span + 1) % span; r == 0 {
			threshold = 0 // span divides 2^64: every draw is unbiased
		} else {
			threshold = ^uint64(0) - r + 1
		}
	} else {
		limit := uint64(1) << (8 * width)
		threshold = limit - limit%span
	}

	buf := make([]byte, width)
	for {
		if _, err := io.ReadFull(s.reader, buf); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
		}
		var draw uint64
		for _, b := range buf {
			draw = draw<<8 | uint64(b)
		}
		if threshold == 0 || draw < threshold {
			return min + int(draw%span), nil
		}
	}
}

// ShuffleBytes returns a Fisher-Yates shuffled copy of data. The input is
// never mutated.
func (s *RandomSource) ShuffleBytes(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	for i := len(out) - 1; i > 0; i-- {
		j, err := s.Int(0, i)
		if err != nil {
			return nil, err
		}
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// ShuffleInts returns a Fisher-Yates shuffled copy of data. The input is
// never mutated.
func (s *RandomSource) ShuffleInts(data []int) ([]int, error) {
	out := make([]int, len(data))
	copy(out, data)
	for i := len(out) - 1; i > 0; i-- {
		j, err := s.Int(0, i)
		if err != nil {
			return nil, err
		}
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
