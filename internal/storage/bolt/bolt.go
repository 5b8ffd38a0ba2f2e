// Package bolt implements the storage.KV contract on a local BoltDB file.
// Values are sealed with AES-256-GCM under a key derived from the device
// passphrase, so the file on disk never holds plaintext secrets.
package bolt

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/passguard/passguard-go/internal/crypto"
	"github.com/passguard/passguard-go/internal/storage"
)

var (
	bucketValues = []byte("values")
	bucketMeta   = []byte("meta")

	metaSaltKey = []byte("kdf_salt")
)

// Store is a BoltDB-backed encrypted key/value store.
type Store struct {
	db  *bbolt.DB
	src *crypto.RandomSource
	key []byte
}

// Open opens (or creates) the store at path and derives the encryption key
// from passphrase. The KDF salt is created on first open and kept in a
// plaintext meta bucket; everything in the values bucket is sealed.
func Open(path, passphrase string, src *crypto.RandomSource) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	var salt []byte
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketValues); err != nil {
			return fmt.Errorf("creating values bucket: %w", err)
		}
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return fmt.Errorf("creating meta bucket: %w", err)
		}

		if existing := meta.Get(metaSaltKey); existing != nil {
			salt = append([]byte(nil), existing...)
			return nil
		}
		fresh, err := src.Bytes(crypto.StoreSaltSize)
		if err != nil {
			return err
		}
		if err := meta.Put(metaSaltKey, fresh); err != nil {
			return fmt.Errorf("persisting kdf salt: %w", err)
		}
		salt = fresh
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		src: src,
		key: crypto.DeriveStoreKey(passphrase, salt),
	}, nil
}

// Close closes the underlying database file.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var sealed []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketValues).Get([]byte(key))
		if data == nil {
			return storage.ErrNotFound
		}
		sealed = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return "", err
	}

	plaintext, err := crypto.Open(sealed, s.key)
	if err != nil {
		return "", fmt.Errorf("unsealing %q: %w", key, err)
	}
	return string(plaintext), nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	sealed, err := crypto.Seal(s.src, []byte(value), s.key)
	if err != nil {
		return fmt.Errorf("sealing %q: %w", key, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketValues).Put([]byte(key), sealed)
	})
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketValues).Delete([]byte(key))
	})
}
