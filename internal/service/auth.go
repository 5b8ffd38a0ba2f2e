package service

import (
	"context"
	"time"

	"github.com/passguard/passguard-go/internal/applock"
	"github.com/passguard/passguard-go/internal/crypto"
	"github.com/passguard/passguard-go/internal/model"
	"github.com/passguard/passguard-go/internal/pin"
)

// AuthService ties PIN authentication to the lock state machine: a
// successful verification unlocks the app and mints a session token.
type AuthService struct {
	pins      *pin.Authenticator
	lock      *applock.StateMachine
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(pins *pin.Authenticator, lock *applock.StateMachine, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		pins:      pins,
		lock:      lock,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// SetupPin configures a new device PIN.
func (s *AuthService) SetupPin(ctx context.Context, req model.PinSetupRequest) error {
	return s.pins.Setup(ctx, req.Pin)
}

// VerifyPin checks the PIN. On success the lock state machine transitions
// to Unlocked and a session token is returned.
func (s *AuthService) VerifyPin(ctx context.Context, req model.PinVerifyRequest) (model.PinVerifyResponse, error) {
	result, err := s.pins.Verify(ctx, req.Pin)
	if err != nil {
		return model.PinVerifyResponse{}, err
	}
	if !result.Valid {
		return model.PinVerifyResponse{
			Valid:             false,
			AttemptsRemaining: result.AttemptsRemaining,
		}, nil
	}

	if _, err := s.lock.Authenticate(ctx); err != nil {
		return model.PinVerifyResponse{}, err
	}

	token, _, err := crypto.GenerateSessionToken(s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.PinVerifyResponse{}, err
	}

	return model.PinVerifyResponse{Valid: true, Token: token}, nil
}

// ChangePin replaces the PIN after verifying the current one.
func (s *AuthService) ChangePin(ctx context.Context, req model.PinChangeRequest) error {
	return s.pins.Change(ctx, req.CurrentPin, req.NewPin)
}

// RemovePin deletes the PIN record after verifying the current one.
func (s *AuthService) RemovePin(ctx context.Context, req model.PinRemoveRequest) error {
	return s.pins.Remove(ctx, req.CurrentPin)
}

// PinStatus reports whether a PIN is configured and enabled.
func (s *AuthService) PinStatus(ctx context.Context) (model.PinStatusResponse, error) {
	configured, err := s.pins.IsConfigured(ctx)
	if err != nil {
		return model.PinStatusResponse{}, err
	}
	enabled, err := s.pins.IsEnabled(ctx)
	if err != nil {
		return model.PinStatusResponse{}, err
	}
	return model.PinStatusResponse{Configured: configured, Enabled: enabled}, nil
}
