package service

import (
	"context"
	"time"

	"github.com/passguard/passguard-go/internal/applock"
	"github.com/passguard/passguard-go/internal/model"
)

// LockService exposes the app-lock state machine to the transport layer.
type LockService struct {
	lock *applock.StateMachine
}

// NewLockService creates a new LockService.
func NewLockService(lock *applock.StateMachine) *LockService {
	return &LockService{lock: lock}
}

// Status reports the current lock state and authentication availability.
func (s *LockService) Status(ctx context.Context) (model.LockStatusResponse, error) {
	available, err := s.lock.IsAvailable(ctx)
	if err != nil {
		return model.LockStatusResponse{}, err
	}
	return statusResponse(s.lock.Status(ctx), available), nil
}

// Lock forces the locked state.
func (s *LockService) Lock(ctx context.Context) (model.LockStatusResponse, error) {
	state, err := s.lock.Lock(ctx)
	if err != nil {
		return model.LockStatusResponse{}, err
	}
	return s.withAvailability(ctx, state)
}

// OnForeground re-evaluates the lock timeout after the app returns to the
// foreground.
func (s *LockService) OnForeground(ctx context.Context) (model.LockStatusResponse, error) {
	state, err := s.lock.OnForeground(ctx)
	if err != nil {
		return model.LockStatusResponse{}, err
	}
	return s.withAvailability(ctx, state)
}

// OnBackground records the time the app left the foreground.
func (s *LockService) OnBackground(ctx context.Context) (model.LockStatusResponse, error) {
	state, err := s.lock.OnBackground(ctx)
	if err != nil {
		return model.LockStatusResponse{}, err
	}
	return s.withAvailability(ctx, state)
}

// Settings returns the active lock settings.
func (s *LockService) Settings(ctx context.Context) model.LockSettingsResponse {
	return settingsResponse(s.lock.Settings())
}

// UpdateSettings applies the non-nil fields of the request on top of the
// current settings and persists the result.
func (s *LockService) UpdateSettings(ctx context.Context, req model.LockSettingsRequest) (model.LockSettingsResponse, error) {
	settings := s.lock.Settings()

	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}
	if req.LockTimeoutSeconds != nil {
		settings.LockTimeout = time.Duration(*req.LockTimeoutSeconds) * time.Second
	}
	if req.RequireAuthOnStart != nil {
		settings.RequireAuthOnStart = *req.RequireAuthOnStart
	}
	if req.BackgroundProtection != nil {
		settings.BackgroundProtection = *req.BackgroundProtection
	}
	if req.BiometricEnabled != nil {
		settings.BiometricEnabled = *req.BiometricEnabled
	}

	if err := s.lock.UpdateSettings(ctx, settings); err != nil {
		return model.LockSettingsResponse{}, err
	}
	return settingsResponse(settings), nil
}

func (s *LockService) withAvailability(ctx context.Context, state applock.State) (model.LockStatusResponse, error) {
	available, err := s.lock.IsAvailable(ctx)
	if err != nil {
		return model.LockStatusResponse{}, err
	}
	return statusResponse(state, available), nil
}

func statusResponse(state applock.State, available bool) model.LockStatusResponse {
	resp := model.LockStatusResponse{
		Locked:       state.Locked,
		AuthRequired: state.AuthRequired,
		Available:    available,
	}
	if !state.LastActiveTime.IsZero() {
		t := state.LastActiveTime
		resp.LastActiveTime = &t
	}
	return resp
}

func settingsResponse(s applock.Settings) model.LockSettingsResponse {
	return model.LockSettingsResponse{
		Enabled:              s.Enabled,
		LockTimeoutSeconds:   int(s.LockTimeout.Seconds()),
		RequireAuthOnStart:   s.RequireAuthOnStart,
		BackgroundProtection: s.BackgroundProtection,
		BiometricEnabled:     s.BiometricEnabled,
	}
}
