package service

import (
	"github.com/passguard/passguard-go/internal/model"
	"github.com/passguard/passguard-go/internal/strength"
)

// StrengthService handles password strength scoring.
type StrengthService struct{}

// NewStrengthService creates a new StrengthService.
func NewStrengthService() *StrengthService {
	return &StrengthService{}
}

// Calculate scores the given password and annotates the crack-time bucket.
// Any input is accepted; empty input yields the weakest well-formed result.
func (s *StrengthService) Calculate(req model.StrengthRequest) model.StrengthResponse {
	result := strength.Calculate(req.Password)
	return strengthResponse(result, strength.EstimateCrackTime(req.Password))
}
