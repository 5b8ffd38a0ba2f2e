package model

// StrengthRequest represents a strength calculation request.
type StrengthRequest struct {
	Password string `json:"password"`
}

// StrengthResponse represents the scored strength of a password.
type StrengthResponse struct {
	Score     int      `json:"score"`
	Level     string   `json:"level"`
	Color     string   `json:"color"`
	Bucket    int      `json:"bucket"`
	Entropy   float64  `json:"entropy"`
	Feedback  []string `json:"feedback"`
	CrackTime string   `json:"crack_time,omitempty"`
}
