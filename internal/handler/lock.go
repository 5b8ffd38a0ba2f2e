package handler

import (
	"net/http"

	"github.com/passguard/passguard-go/internal/model"
	"github.com/passguard/passguard-go/internal/service"
)

// LockHandler handles HTTP requests for the app-lock state machine.
type LockHandler struct {
	service *service.LockService
}

// NewLockHandler creates a new LockHandler.
func NewLockHandler(svc *service.LockService) *LockHandler {
	return &LockHandler{service: svc}
}

// HandleStatus handles GET /api/v1/lock/status requests.
func (h *LockHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Status(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleLock handles POST /api/v1/lock requests (user-initiated lock).
func (h *LockHandler) HandleLock(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Lock(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleForeground handles POST /api/v1/lock/foreground requests.
func (h *LockHandler) HandleForeground(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.OnForeground(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleBackground handles POST /api/v1/lock/background requests.
func (h *LockHandler) HandleBackground(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.OnBackground(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetSettings handles GET /api/v1/lock/settings requests.
func (h *LockHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Settings(r.Context()))
}

// HandleUpdateSettings handles PUT /api/v1/lock/settings requests.
func (h *LockHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req model.LockSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.UpdateSettings(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
