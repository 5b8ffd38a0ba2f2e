package applock

import (
	"context"
	"testing"
	"time"

	"github.com/passguard/passguard-go/internal/biometric"
	"github.com/passguard/passguard-go/internal/storage"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type stubPins struct {
	configured bool
}

func (s stubPins) IsConfigured(ctx context.Context) (bool, error) {
	return s.configured, nil
}

func newTestMachine(t *testing.T, settings Settings, pins stubPins, bio biometric.Capability) (*StateMachine, *fakeClock) {
	t.Helper()
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}

	m := New(storage.NewMemory(), pins, bio).WithClock(clock.Now)
	if err := m.UpdateSettings(ctx, settings); err != nil {
		t.Fatalf("UpdateSettings() unexpected error: %v", err)
	}
	return m, clock
}

func TestForegroundTimeout(t *testing.T) {
	tests := []struct {
		name       string
		elapsed    time.Duration
		wantLocked bool
	}{
		{"31s elapsed locks", 31 * time.Second, true},
		{"29s elapsed stays unlocked", 29 * time.Second, false},
		{"exactly at timeout stays unlocked", 30 * time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			settings := DefaultSettings()
			settings.LockTimeout = 30 * time.Second
			m, clock := newTestMachine(t, settings, stubPins{configured: true}, biometric.None())

			if _, err := m.OnBackground(ctx); err != nil {
				t.Fatalf("OnBackground() unexpected error: %v", err)
			}
			clock.Advance(tt.elapsed)

			state, err := m.OnForeground(ctx)
			if err != nil {
				t.Fatalf("OnForeground() unexpected error: %v", err)
			}
			if state.Locked != tt.wantLocked {
				t.Errorf("OnForeground() locked = %v, want %v", state.Locked, tt.wantLocked)
			}
		})
	}
}

func TestImmediateTimeout(t *testing.T) {
	ctx := context.Background()
	settings := DefaultSettings()
	settings.LockTimeout = 0
	m, _ := newTestMachine(t, settings, stubPins{configured: true}, biometric.None())

	// Any backgrounding qualifies for re-lock, even with no time elapsed.
	if _, err := m.OnBackground(ctx); err != nil {
		t.Fatalf("OnBackground() unexpected error: %v", err)
	}

	state, err := m.OnForeground(ctx)
	if err != nil {
		t.Fatalf("OnForeground() unexpected error: %v", err)
	}
	if !state.Locked {
		t.Error("OnForeground() with immediate timeout did not lock")
	}
}

func TestLockAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMachine(t, DefaultSettings(), stubPins{configured: true}, biometric.None())

	state, err := m.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock() unexpected error: %v", err)
	}
	if !state.Locked {
		t.Fatal("Lock() did not lock")
	}
	if !state.AuthRequired {
		t.Error("Lock() state has AuthRequired = false")
	}

	state, err = m.Authenticate(ctx)
	if err != nil {
		t.Fatalf("Authenticate() unexpected error: %v", err)
	}
	if state.Locked {
		t.Error("Authenticate() did not unlock")
	}
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Settings)
		elapsed    time.Duration
		background bool
		wantLocked bool
	}{
		{
			name:       "disabled stays unlocked",
			mutate:     func(s *Settings) { s.Enabled = false; s.RequireAuthOnStart = true },
			wantLocked: false,
		},
		{
			name:       "require auth on start",
			mutate:     func(s *Settings) { s.RequireAuthOnStart = true },
			wantLocked: true,
		},
		{
			name:       "timeout elapsed",
			mutate:     func(s *Settings) { s.LockTimeout = time.Minute },
			background: true,
			elapsed:    2 * time.Minute,
			wantLocked: true,
		},
		{
			name:       "timeout not elapsed",
			mutate:     func(s *Settings) { s.LockTimeout = time.Minute },
			background: true,
			elapsed:    30 * time.Second,
			wantLocked: false,
		},
		{
			name:       "no activity recorded stays unlocked",
			mutate:     func(s *Settings) { s.LockTimeout = time.Minute },
			wantLocked: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			settings := DefaultSettings()
			tt.mutate(&settings)

			store := storage.NewMemory()
			clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}

			// First machine persists settings and activity.
			first := New(store, stubPins{configured: true}, biometric.None()).WithClock(clock.Now)
			if err := first.UpdateSettings(ctx, settings); err != nil {
				t.Fatalf("UpdateSettings() unexpected error: %v", err)
			}
			if tt.background {
				if _, err := first.OnBackground(ctx); err != nil {
					t.Fatalf("OnBackground() unexpected error: %v", err)
				}
			}
			clock.Advance(tt.elapsed)

			// Cold start: a fresh machine over the same store.
			second := New(store, stubPins{configured: true}, biometric.None()).WithClock(clock.Now)
			state, err := second.Initialize(ctx)
			if err != nil {
				t.Fatalf("Initialize() unexpected error: %v", err)
			}
			if state.Locked != tt.wantLocked {
				t.Errorf("Initialize() locked = %v, want %v", state.Locked, tt.wantLocked)
			}
		})
	}
}

func TestInitializeLoadsPersistedSettings(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	first := New(store, stubPins{}, biometric.None())
	settings := Settings{
		Enabled:              true,
		LockTimeout:          42 * time.Second,
		RequireAuthOnStart:   true,
		BackgroundProtection: true,
		BiometricEnabled:     true,
	}
	if err := first.UpdateSettings(ctx, settings); err != nil {
		t.Fatalf("UpdateSettings() unexpected error: %v", err)
	}

	second := New(store, stubPins{}, biometric.None())
	if _, err := second.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() unexpected error: %v", err)
	}
	if got := second.Settings(); got != settings {
		t.Errorf("Settings() after Initialize = %+v, want %+v", got, settings)
	}
}

func TestDisabledNeverLocks(t *testing.T) {
	ctx := context.Background()
	settings := DefaultSettings()
	settings.Enabled = false
	settings.LockTimeout = 0
	m, clock := newTestMachine(t, settings, stubPins{configured: true}, biometric.None())

	if _, err := m.OnBackground(ctx); err != nil {
		t.Fatalf("OnBackground() unexpected error: %v", err)
	}
	clock.Advance(time.Hour)

	state, err := m.OnForeground(ctx)
	if err != nil {
		t.Fatalf("OnForeground() unexpected error: %v", err)
	}
	if state.Locked {
		t.Error("OnForeground() locked while app lock is disabled")
	}
}

func TestIsAvailable(t *testing.T) {
	tests := []struct {
		name          string
		pinConfigured bool
		bioEnabled    bool
		bio           biometric.StaticCapability
		want          bool
	}{
		{
			name:          "pin configured",
			pinConfigured: true,
			want:          true,
		},
		{
			name:       "biometrics enabled and enrolled",
			bioEnabled: true,
			bio:        biometric.StaticCapability{Hardware: true, Enrolled: true},
			want:       true,
		},
		{
			name:       "biometrics enabled but not enrolled",
			bioEnabled: true,
			bio:        biometric.StaticCapability{Hardware: true},
			want:       false,
		},
		{
			name: "hardware present but biometrics disabled",
			bio:  biometric.StaticCapability{Hardware: true, Enrolled: true},
			want: false,
		},
		{
			name: "nothing configured",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			settings := DefaultSettings()
			settings.BiometricEnabled = tt.bioEnabled
			m, _ := newTestMachine(t, settings, stubPins{configured: tt.pinConfigured}, tt.bio)

			got, err := m.IsAvailable(ctx)
			if err != nil {
				t.Fatalf("IsAvailable() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsAvailable() = %v, want %v", got, tt.want)
			}
		})
	}
}
