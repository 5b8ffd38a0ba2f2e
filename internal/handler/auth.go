package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/passguard/passguard-go/internal/crypto"
	"github.com/passguard/passguard-go/internal/model"
	"github.com/passguard/passguard-go/internal/pin"
	"github.com/passguard/passguard-go/internal/service"
)

// AuthHandler handles HTTP requests for PIN authentication.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleSetup handles POST /api/v1/pin/setup requests.
func (h *AuthHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	var req model.PinSetupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.SetupPin(r.Context(), req); err != nil {
		writePinError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "pin configured"})
}

// HandleVerify handles POST /api/v1/pin/verify requests. A valid PIN
// unlocks the app and returns a session token; an invalid one reports the
// attempts remaining before lockout.
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req model.PinVerifyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.VerifyPin(r.Context(), req)
	if err != nil {
		writePinError(w, err)
		return
	}
	if !resp.Valid {
		writeJSON(w, http.StatusUnauthorized, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleChange handles POST /api/v1/pin/change requests.
func (h *AuthHandler) HandleChange(w http.ResponseWriter, r *http.Request) {
	var req model.PinChangeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.ChangePin(r.Context(), req); err != nil {
		writePinError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pin changed"})
}

// HandleRemove handles POST /api/v1/pin/remove requests.
func (h *AuthHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	var req model.PinRemoveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.RemovePin(r.Context(), req); err != nil {
		writePinError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pin removed"})
}

// HandleStatus handles GET /api/v1/pin requests.
func (h *AuthHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.PinStatus(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writePinError maps PIN domain errors onto HTTP statuses. Lockout carries
// a Retry-After header with the remaining window.
func writePinError(w http.ResponseWriter, err error) {
	var locked *pin.LockedOutError
	var incorrect *pin.IncorrectPinError
	switch {
	case errors.As(err, &locked):
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(locked.Remaining.Seconds())+1))
		writeJSON(w, http.StatusTooManyRequests, errorResponse(locked.Error()))
	case errors.As(err, &incorrect):
		writeJSON(w, http.StatusUnauthorized, errorResponse(incorrect.Error()))
	case errors.Is(err, pin.ErrInvalidFormat):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, pin.ErrNotConfigured):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, crypto.ErrCryptoUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse("secure random source unavailable"))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
