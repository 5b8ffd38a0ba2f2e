// Package pin implements salted-digest PIN authentication with failed
// attempt tracking and a lockout window.
package pin

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/passguard/passguard-go/internal/crypto"
	"github.com/passguard/passguard-go/internal/storage"
)

const (
	MinDigits = 4
	MaxDigits = 6

	// DefaultMaxAttempts consecutive failures trigger the lockout.
	DefaultMaxAttempts = 5
	// DefaultLockoutWindow is how long verification is refused after the
	// attempt limit is hit, measured from the last failed attempt.
	DefaultLockoutWindow = 5 * time.Minute

	saltSize = 32
)

// Store keys. Each field of the PIN record is a separate key; the store
// offers no cross-key atomicity, so all read-modify-write cycles go through
// the authenticator's mutex.
const (
	keyHash        = "pin.hash"
	keySalt        = "pin.salt"
	keyEnabled     = "pin.enabled"
	keyAttempts    = "pin.attempts"
	keyLastAttempt = "pin.last_attempt"
)

var (
	ErrInvalidFormat = errors.New("pin must be 4 to 6 digits")
	ErrNotConfigured = errors.New("no pin is configured")
)

// LockedOutError reports that verification is refused until the lockout
// window elapses.
type LockedOutError struct {
	Remaining time.Duration
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("too many failed attempts, try again in %d seconds", int(e.Remaining.Seconds())+1)
}

// IncorrectPinError reports a failed current-PIN verification inside Change
// or Remove, carrying the attempts left before lockout.
type IncorrectPinError struct {
	AttemptsRemaining int
}

func (e *IncorrectPinError) Error() string {
	return fmt.Sprintf("current pin is incorrect, %d attempts remaining", e.AttemptsRemaining)
}

// VerifyResult is the outcome of a verification attempt that was not
// refused outright.
type VerifyResult struct {
	Valid bool
	// AttemptsRemaining is meaningful only when Valid is false.
	AttemptsRemaining int
}

// Authenticator manages the device PIN record. A single mutex serializes
// every read-increment-write cycle on the attempt counter, so concurrent
// verification attempts cannot lose updates.
type Authenticator struct {
	mu     sync.Mutex
	store  storage.KV
	src    *crypto.RandomSource
	digest crypto.Digest
	now    func() time.Time

	maxAttempts   int
	lockoutWindow time.Duration
}

// New creates an Authenticator with the default attempt limit and lockout
// window.
func New(store storage.KV, src *crypto.RandomSource, digest crypto.Digest) *Authenticator {
	return &Authenticator{
		store:         store,
		src:           src,
		digest:        digest,
		now:           time.Now,
		maxAttempts:   DefaultMaxAttempts,
		lockoutWindow: DefaultLockoutWindow,
	}
}

// WithClock replaces the time source. Tests only.
func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	a.now = now
	return a
}

func validateFormat(pin string) error {
	if len(pin) < MinDigits || len(pin) > MaxDigits {
		return ErrInvalidFormat
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return ErrInvalidFormat
		}
	}
	return nil
}

// Setup creates (or replaces) the PIN record: fresh random salt, digest of
// pin||salt, enabled flag set, attempt bookkeeping cleared.
func (a *Authenticator) Setup(ctx context.Context, pin string) error {
	if err := validateFormat(pin); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.writeRecord(ctx, pin)
}

func (a *Authenticator) writeRecord(ctx context.Context, pin string) error {
	saltBytes, err := a.src.Bytes(saltSize)
	if err != nil {
		return err
	}
	salt := base64.StdEncoding.EncodeToString(saltBytes)
	hash := a.digest.Sum([]byte(pin + salt))

	if err := a.store.Set(ctx, keySalt, salt); err != nil {
		return fmt.Errorf("persisting salt: %w", err)
	}
	if err := a.store.Set(ctx, keyHash, hash); err != nil {
		return fmt.Errorf("persisting hash: %w", err)
	}
	if err := a.store.Set(ctx, keyEnabled, "true"); err != nil {
		return fmt.Errorf("persisting enabled flag: %w", err)
	}
	return a.clearAttempts(ctx)
}

// Verify checks pin against the stored record. The lockout check runs
// before any hashing so a locked-out caller costs no digest work. Hash
// comparison is constant-time.
func (a *Authenticator) Verify(ctx context.Context, pin string) (VerifyResult, error) {
	if err := validateFormat(pin); err != nil {
		return VerifyResult{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	hash, salt, err := a.loadRecord(ctx)
	if err != nil {
		return VerifyResult{}, err
	}

	attempts, lastAttempt, err := a.loadAttempts(ctx)
	if err != nil {
		return VerifyResult{}, err
	}

	now := a.now()
	if attempts >= a.maxAttempts {
		elapsed := now.Sub(lastAttempt)
		if elapsed < a.lockoutWindow {
			return VerifyResult{}, &LockedOutError{Remaining: a.lockoutWindow - elapsed}
		}
		// Window elapsed: back to normal, counters reset.
		attempts = 0
		if err := a.clearAttempts(ctx); err != nil {
			return VerifyResult{}, err
		}
	}

	candidate := a.digest.Sum([]byte(pin + salt))
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) == 1 {
		if err := a.clearAttempts(ctx); err != nil {
			return VerifyResult{}, err
		}
		return VerifyResult{Valid: true}, nil
	}

	attempts++
	if err := a.store.Set(ctx, keyAttempts, strconv.Itoa(attempts)); err != nil {
		return VerifyResult{}, fmt.Errorf("persisting attempt count: %w", err)
	}
	if err := a.store.Set(ctx, keyLastAttempt, strconv.FormatInt(now.Unix(), 10)); err != nil {
		return VerifyResult{}, fmt.Errorf("persisting attempt time: %w", err)
	}

	remaining := a.maxAttempts - attempts
	if remaining < 0 {
		remaining = 0
	}
	return VerifyResult{Valid: false, AttemptsRemaining: remaining}, nil
}

// Change verifies the current PIN and replaces it with a new one.
func (a *Authenticator) Change(ctx context.Context, current, newPin string) error {
	if err := validateFormat(newPin); err != nil {
		return err
	}
	result, err := a.Verify(ctx, current)
	if err != nil {
		return err
	}
	if !result.Valid {
		return &IncorrectPinError{AttemptsRemaining: result.AttemptsRemaining}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.writeRecord(ctx, newPin)
}

// Remove verifies the current PIN, deletes the record and disables PIN
// authentication.
func (a *Authenticator) Remove(ctx context.Context, current string) error {
	result, err := a.Verify(ctx, current)
	if err != nil {
		return err
	}
	if !result.Valid {
		return &IncorrectPinError{AttemptsRemaining: result.AttemptsRemaining}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, key := range []string{keyHash, keySalt, keyAttempts, keyLastAttempt} {
		if err := a.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("deleting %q: %w", key, err)
		}
	}
	if err := a.store.Set(ctx, keyEnabled, "false"); err != nil {
		return fmt.Errorf("persisting enabled flag: %w", err)
	}
	return nil
}

// IsConfigured reports whether a PIN record exists.
func (a *Authenticator) IsConfigured(ctx context.Context) (bool, error) {
	_, err := a.store.Get(ctx, keyHash)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsEnabled reports whether PIN authentication is enabled.
func (a *Authenticator) IsEnabled(ctx context.Context) (bool, error) {
	v, err := a.store.Get(ctx, keyEnabled)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

func (a *Authenticator) loadRecord(ctx context.Context) (hash, salt string, err error) {
	hash, err = a.store.Get(ctx, keyHash)
	if errors.Is(err, storage.ErrNotFound) {
		return "", "", ErrNotConfigured
	}
	if err != nil {
		return "", "", err
	}
	salt, err = a.store.Get(ctx, keySalt)
	if errors.Is(err, storage.ErrNotFound) {
		return "", "", ErrNotConfigured
	}
	if err != nil {
		return "", "", err
	}
	return hash, salt, nil
}

func (a *Authenticator) loadAttempts(ctx context.Context) (int, time.Time, error) {
	var attempts int
	v, err := a.store.Get(ctx, keyAttempts)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		attempts = 0
	case err != nil:
		return 0, time.Time{}, err
	default:
		attempts, err = strconv.Atoi(v)
		if err != nil {
			return 0, time.Time{}, fmt.Errorf("corrupt attempt count %q: %w", v, err)
		}
	}

	var lastAttempt time.Time
	v, err = a.store.Get(ctx, keyLastAttempt)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// No failed attempts recorded.
	case err != nil:
		return 0, time.Time{}, err
	default:
		unix, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, time.Time{}, fmt.Errorf("corrupt attempt time %q: %w", v, err)
		}
		lastAttempt = time.Unix(unix, 0)
	}

	return attempts, lastAttempt, nil
}

func (a *Authenticator) clearAttempts(ctx context.Context) error {
	if err := a.store.Delete(ctx, keyAttempts); err != nil {
		return fmt.Errorf("clearing attempt count: %w", err)
	}
	if err := a.store.Delete(ctx, keyLastAttempt); err != nil {
		return fmt.Errorf("clearing attempt time: %w", err)
	}
	return nil
}
