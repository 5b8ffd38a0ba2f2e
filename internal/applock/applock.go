// Package applock decides whether the application should be locked, based
// on settings and activity timestamps. It is purely reactive: no timers are
// armed, the elapsed-time test runs on Initialize and OnForeground.
package applock

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/passguard/passguard-go/internal/biometric"
	"github.com/passguard/passguard-go/internal/storage"
)

// Settings controls the lock behavior. Mutated only through
// UpdateSettings; a LockTimeout of 0 means any backgrounding qualifies for
// re-lock on the next foreground event.
type Settings struct {
	Enabled              bool
	LockTimeout          time.Duration
	RequireAuthOnStart   bool
	BackgroundProtection bool
	BiometricEnabled     bool
}

// DefaultSettings: lock enabled with a one-minute timeout.
func DefaultSettings() Settings {
	return Settings{
		Enabled:              true,
		LockTimeout:          time.Minute,
		BackgroundProtection: true,
	}
}

// State is the externally visible lock state.
type State struct {
	Locked         bool
	LastActiveTime time.Time
	AuthRequired   bool
}

// Store keys for the persisted parts of the state machine.
const (
	keyEnabled              = "applock.enabled"
	keyLockTimeout          = "applock.timeout_seconds"
	keyRequireAuthOnStart   = "applock.require_auth_on_start"
	keyBackgroundProtection = "applock.background_protection"
	keyBiometricEnabled     = "applock.biometric_enabled"
	keyLastActive           = "applock.last_active"
)

// pinQuerier is the slice of the PIN authenticator the state machine needs:
// it consults configuration only, never performs the challenge itself.
type pinQuerier interface {
	IsConfigured(ctx context.Context) (bool, error)
}

// StateMachine holds the lock state for one device.
type StateMachine struct {
	mu    sync.Mutex
	store storage.KV
	pins  pinQuerier
	bio   biometric.Capability
	now   func() time.Time

	settings   Settings
	locked     bool
	lastActive time.Time
}

// New creates a StateMachine with default settings. Call Initialize before
// use to load persisted settings and compute the cold-start state.
func New(store storage.KV, pins pinQuerier, bio biometric.Capability) *StateMachine {
	return &StateMachine{
		store:    store,
		pins:     pins,
		bio:      bio,
		now:      time.Now,
		settings: DefaultSettings(),
	}
}

// WithClock replaces the time source. Tests only.
func (m *StateMachine) WithClock(now func() time.Time) *StateMachine {
	m.now = now
	return m
}

// IsAvailable reports whether any local authentication method can be
// offered: a configured PIN, or enabled-and-enrolled biometrics.
func (m *StateMachine) IsAvailable(ctx context.Context) (bool, error) {
	configured, err := m.pins.IsConfigured(ctx)
	if err != nil {
		return false, err
	}
	if configured {
		return true, nil
	}

	m.mu.Lock()
	bioEnabled := m.settings.BiometricEnabled
	m.mu.Unlock()

	return bioEnabled && m.bio.HasHardware() && m.bio.IsEnrolled(), nil
}

// Initialize loads persisted settings and activity, then computes the
// cold-start state: disabled stays unlocked, RequireAuthOnStart forces a
// lock, otherwise the elapsed-vs-timeout test decides.
func (m *StateMachine) Initialize(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.loadSettings(ctx); err != nil {
		return State{}, err
	}
	if err := m.loadLastActive(ctx); err != nil {
		return State{}, err
	}

	switch {
	case !m.settings.Enabled:
		m.locked = false
	case m.settings.RequireAuthOnStart:
		m.locked = true
	default:
		m.locked = m.timeoutElapsed()
	}
	return m.state(), nil
}

// OnBackground records the time the app left the foreground. No state
// transition happens here; the decision is deferred to OnForeground.
func (m *StateMachine) OnBackground(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.settings.Enabled || !m.settings.BackgroundProtection {
		return m.state(), nil
	}

	m.lastActive = m.now()
	if err := m.store.Set(ctx, keyLastActive, strconv.FormatInt(m.lastActive.Unix(), 10)); err != nil {
		return State{}, fmt.Errorf("persisting last active time: %w", err)
	}
	return m.state(), nil
}

// OnForeground re-runs the elapsed-time test and locks if the timeout has
// passed since the last recorded activity.
func (m *StateMachine) OnForeground(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.settings.Enabled {
		return m.state(), nil
	}
	if m.timeoutElapsed() {
		m.locked = true
	}
	return m.state(), nil
}

// Authenticate transitions Locked -> Unlocked. Callers invoke it only
// after a successful PIN or biometric challenge.
func (m *StateMachine) Authenticate(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.locked = false
	m.lastActive = m.now()
	if err := m.store.Set(ctx, keyLastActive, strconv.FormatInt(m.lastActive.Unix(), 10)); err != nil {
		return State{}, fmt.Errorf("persisting last active time: %w", err)
	}
	return m.state(), nil
}

// Lock forces the locked state from anywhere, e.g. a user-initiated lock.
func (m *StateMachine) Lock(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.locked = true
	return m.state(), nil
}

// Status returns the current state without any transition.
func (m *StateMachine) Status(ctx context.Context) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state()
}

// Settings returns a copy of the current settings.
func (m *StateMachine) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// UpdateSettings replaces the settings and persists them.
func (m *StateMachine) UpdateSettings(ctx context.Context, s Settings) error {
	if s.LockTimeout < 0 {
		return errors.New("lock timeout must not be negative")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pairs := map[string]string{
		keyEnabled:              strconv.FormatBool(s.Enabled),
		keyLockTimeout:          strconv.Itoa(int(s.LockTimeout.Seconds())),
		keyRequireAuthOnStart:   strconv.FormatBool(s.RequireAuthOnStart),
		keyBackgroundProtection: strconv.FormatBool(s.BackgroundProtection),
		keyBiometricEnabled:     strconv.FormatBool(s.BiometricEnabled),
	}
	for key, value := range pairs {
		if err := m.store.Set(ctx, key, value); err != nil {
			return fmt.Errorf("persisting %q: %w", key, err)
		}
	}
	m.settings = s
	return nil
}

// timeoutElapsed reports whether the timeout has passed since the last
// activity. Callers hold the mutex. A zero LastActiveTime (no activity ever
// recorded) does not lock by itself.
func (m *StateMachine) timeoutElapsed() bool {
	if m.lastActive.IsZero() {
		return false
	}
	if m.settings.LockTimeout == 0 {
		// Immediate: any recorded backgrounding qualifies.
		return true
	}
	elapsed := m.now().Sub(m.lastActive)
	return elapsed > m.settings.LockTimeout
}

func (m *StateMachine) state() State {
	return State{
		Locked:         m.locked,
		LastActiveTime: m.lastActive,
		AuthRequired:   m.locked,
	}
}

func (m *StateMachine) loadSettings(ctx context.Context) error {
	s := DefaultSettings()

	if v, err := m.getOptional(ctx, keyEnabled); err != nil {
		return err
	} else if v != "" {
		s.Enabled = v == "true"
	}
	if v, err := m.getOptional(ctx, keyLockTimeout); err != nil {
		return err
	} else if v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("corrupt lock timeout %q: %w", v, err)
		}
		s.LockTimeout = time.Duration(seconds) * time.Second
	}
	if v, err := m.getOptional(ctx, keyRequireAuthOnStart); err != nil {
		return err
	} else if v != "" {
		s.RequireAuthOnStart = v == "true"
	}
	if v, err := m.getOptional(ctx, keyBackgroundProtection); err != nil {
		return err
	} else if v != "" {
		s.BackgroundProtection = v == "true"
	}
	if v, err := m.getOptional(ctx, keyBiometricEnabled); err != nil {
		return err
	} else if v != "" {
		s.BiometricEnabled = v == "true"
	}

	m.settings = s
	return nil
}

func (m *StateMachine) loadLastActive(ctx context.Context) error {
	v, err := m.getOptional(ctx, keyLastActive)
	if err != nil {
		return err
	}
	if v == "" {
		m.lastActive = time.Time{}
		return nil
	}
	unix, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("corrupt last active time %q: %w", v, err)
	}
	m.lastActive = time.Unix(unix, 0)
	return nil
}

func (m *StateMachine) getOptional(ctx context.Context, key string) (string, error) {
	v, err := m.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}
