package model

// PinSetupRequest represents a PIN setup request.
type PinSetupRequest struct {
	Pin string `json:"pin"`
}

// PinVerifyRequest represents a PIN verification request.
type PinVerifyRequest struct {
	Pin string `json:"pin"`
}

// PinChangeRequest represents a PIN change request.
type PinChangeRequest struct {
	CurrentPin string `json:"current_pin"`
	NewPin     string `json:"new_pin"`
}

// PinRemoveRequest represents a PIN removal request.
type PinRemoveRequest struct {
	CurrentPin string `json:"current_pin"`
}

// PinVerifyResponse represents the outcome of a verification attempt.
// Token is set only on success and opens an unlock session.
type PinVerifyResponse struct {
	Valid             bool   `json:"valid"`
	AttemptsRemaining int    `json:"attempts_remaining,omitempty"`
	Token             string `json:"token,omitempty"`
}

// PinStatusResponse reports whether a PIN is configured and enabled.
type PinStatusResponse struct {
	Configured bool `json:"configured"`
	Enabled    bool `json:"enabled"`
}
