package handler

import (
	"net/http"

	"github.com/passguard/passguard-go/internal/model"
	"github.com/passguard/passguard-go/internal/service"
)

// StrengthHandler handles HTTP requests for password strength scoring.
type StrengthHandler struct {
	service *service.StrengthService
}

// NewStrengthHandler creates a new StrengthHandler.
func NewStrengthHandler(svc *service.StrengthService) *StrengthHandler {
	return &StrengthHandler{service: svc}
}

// HandleCalculate handles POST /api/v1/strength requests. Calculation is a
// total function, so the only error path is a malformed body.
func (h *StrengthHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req model.StrengthRequest
	if !decodeBody(w, r, &req) {
		return
	}

	writeJSON(w, http.StatusOK, h.service.Calculate(req))
}
