package model

import "time"

// LockStatusResponse represents the current lock state.
type LockStatusResponse struct {
	Locked         bool       `json:"locked"`
	AuthRequired   bool       `json:"auth_required"`
	Available      bool       `json:"available"`
	LastActiveTime *time.Time `json:"last_active_time,omitempty"`
}

// LockSettingsRequest updates lock settings. Pointer fields leave the
// existing value unchanged when nil.
type LockSettingsRequest struct {
	Enabled              *bool `json:"enabled"`
	LockTimeoutSeconds   *int  `json:"lock_timeout_seconds"`
	RequireAuthOnStart   *bool `json:"require_auth_on_start"`
	BackgroundProtection *bool `json:"background_protection"`
	BiometricEnabled     *bool `json:"biometric_enabled"`
}

// LockSettingsResponse represents the active lock settings.
type LockSettingsResponse struct {
	Enabled              bool `json:"enabled"`
	LockTimeoutSeconds   int  `json:"lock_timeout_seconds"`
	RequireAuthOnStart   bool `json:"require_auth_on_start"`
	BackgroundProtection bool `json:"background_protection"`
	BiometricEnabled     bool `json:"biometric_enabled"`
}
