package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/passguard/passguard-go/internal/applock"
	"github.com/passguard/passguard-go/internal/biometric"
	"github.com/passguard/passguard-go/internal/crypto"
	"github.com/passguard/passguard-go/internal/model"
	"github.com/passguard/passguard-go/internal/pin"
	"github.com/passguard/passguard-go/internal/storage"
)

const testSecret = "test-secret"

func newTestAuthService(t *testing.T) (*AuthService, *applock.StateMachine) {
	t.Helper()
	store := storage.NewMemory()
	src := crypto.NewRandomSource()

	pins := pin.New(store, src, crypto.SHA256Digest{})
	lock := applock.New(store, pins, biometric.None())
	if _, err := lock.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() unexpected error: %v", err)
	}

	return NewAuthService(pins, lock, testSecret, time.Minute), lock
}

func TestVerifyPinMintsToken(t *testing.T) {
	ctx := context.Background()
	svc, lock := newTestAuthService(t)

	if err := svc.SetupPin(ctx, model.PinSetupRequest{Pin: "1234"}); err != nil {
		t.Fatalf("SetupPin() unexpected error: %v", err)
	}
	if _, err := lock.Lock(ctx); err != nil {
		t.Fatalf("Lock() unexpected error: %v", err)
	}

	resp, err := svc.VerifyPin(ctx, model.PinVerifyRequest{Pin: "1234"})
	if err != nil {
		t.Fatalf("VerifyPin() unexpected error: %v", err)
	}
	if !resp.Valid {
		t.Fatal("VerifyPin() rejected the correct pin")
	}
	if resp.Token == "" {
		t.Fatal("VerifyPin() did not mint a session token")
	}

	if _, err := crypto.ValidateSessionToken(resp.Token, testSecret); err != nil {
		t.Errorf("minted token failed validation: %v", err)
	}

	if lock.Status(ctx).Locked {
		t.Error("app still locked after a valid pin")
	}
}

func TestVerifyPinWrongPinNoToken(t *testing.T) {
	ctx := context.Background()
	svc, lock := newTestAuthService(t)

	if err := svc.SetupPin(ctx, model.PinSetupRequest{Pin: "1234"}); err != nil {
		t.Fatalf("SetupPin() unexpected error: %v", err)
	}
	if _, err := lock.Lock(ctx); err != nil {
		t.Fatalf("Lock() unexpected error: %v", err)
	}

	resp, err := svc.VerifyPin(ctx, model.PinVerifyRequest{Pin: "0000"})
	if err != nil {
		t.Fatalf("VerifyPin() unexpected error: %v", err)
	}
	if resp.Valid {
		t.Fatal("VerifyPin() accepted a wrong pin")
	}
	if resp.Token != "" {
		t.Error("VerifyPin() minted a token for a wrong pin")
	}
	if resp.AttemptsRemaining != pin.DefaultMaxAttempts-1 {
		t.Errorf("AttemptsRemaining = %d, want %d", resp.AttemptsRemaining, pin.DefaultMaxAttempts-1)
	}

	if !lock.Status(ctx).Locked {
		t.Error("app unlocked despite a wrong pin")
	}
}

func TestVerifyPinNotConfigured(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.VerifyPin(context.Background(), model.PinVerifyRequest{Pin: "1234"})
	if !errors.Is(err, pin.ErrNotConfigured) {
		t.Errorf("VerifyPin() error = %v, want pin.ErrNotConfigured", err)
	}
}

func TestPinStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	status, err := svc.PinStatus(ctx)
	if err != nil {
		t.Fatalf("PinStatus() unexpected error: %v", err)
	}
	if status.Configured || status.Enabled {
		t.Errorf("PinStatus() = %+v before setup, want unconfigured", status)
	}

	if err := svc.SetupPin(ctx, model.PinSetupRequest{Pin: "1234"}); err != nil {
		t.Fatalf("SetupPin() unexpected error: %v", err)
	}

	status, err = svc.PinStatus(ctx)
	if err != nil {
		t.Fatalf("PinStatus() unexpected error: %v", err)
	}
	if !status.Configured || !status.Enabled {
		t.Errorf("PinStatus() = %+v after setup, want configured and enabled", status)
	}
}

func TestChangeAndRemovePin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	if err := svc.SetupPin(ctx, model.PinSetupRequest{Pin: "1234"}); err != nil {
		t.Fatalf("SetupPin() unexpected error: %v", err)
	}
	if err := svc.ChangePin(ctx, model.PinChangeRequest{CurrentPin: "1234", NewPin: "5678"}); err != nil {
		t.Fatalf("ChangePin() unexpected error: %v", err)
	}

	resp, err := svc.VerifyPin(ctx, model.PinVerifyRequest{Pin: "5678"})
	if err != nil {
		t.Fatalf("VerifyPin() unexpected error: %v", err)
	}
	if !resp.Valid {
		t.Error("VerifyPin() rejected the new pin")
	}

	if err := svc.RemovePin(ctx, model.PinRemoveRequest{CurrentPin: "5678"}); err != nil {
		t.Fatalf("RemovePin() unexpected error: %v", err)
	}

	status, err := svc.PinStatus(ctx)
	if err != nil {
		t.Fatalf("PinStatus() unexpected error: %v", err)
	}
	if status.Configured {
		t.Error("PinStatus() still configured after removal")
	}
}
