package model

import "time"

// GenerateRequest represents a password generation request.
// Pointer bools allow distinguishing between missing (nil -> default true)
// and explicit false.
type GenerateRequest struct {
	Length           int   `json:"length"`
	Uppercase        *bool `json:"uppercase"`
	Lowercase        *bool `json:"lowercase"`
	Digits           *bool `json:"digits"`
	Symbols          *bool `json:"symbols"`
	ExcludeSimilar   bool  `json:"exclude_similar"`
	PreventRepeating bool  `json:"prevent_repeating"`
	ReadableFormat   bool  `json:"readable_format"`
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Password        string           `json:"password"`
	Formatted       string           `json:"formatted,omitempty"`
	Length          int              `json:"length"`
	Entropy         float64          `json:"entropy"`
	Strength        StrengthResponse `json:"strength"`
	RelaxedNoRepeat bool             `json:"relaxed_no_repeat,omitempty"`
	GeneratedAt     time.Time        `json:"generated_at"`
}
