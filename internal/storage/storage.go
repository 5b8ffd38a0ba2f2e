// Package storage defines the key/value contract the auth subsystem
// persists through. Each logical field (PIN hash, salt, attempt count, lock
// settings) lives under its own key; no cross-key atomicity is assumed.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// KV is an encrypted key/value store scoped to one device.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
