package handler

import (
	"net/http"

	"github.com/delegation-tools/delegation-manager/internal/service"
)

// PowerHandler handles the read-only power listing.
type PowerHandler struct {
	svc *service.AdminService
}

// NewPowerHandler creates a new PowerHandler.
func NewPowerHandler(svc *service.AdminService) *PowerHandler {
	return &PowerHandler{svc: svc}
}

// List enumerates the server-defined permission primitives.
func (h *PowerHandler) List(w http.ResponseWriter, r *http.Request) {
	powers, err := h.svc.GetPowers(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, powers)
}
