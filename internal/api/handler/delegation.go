package handler

import (
	"net/http"

	"github.com/delegation-tools/delegation-manager/internal/domain"
	"github.com/delegation-tools/delegation-manager/internal/service"
)

// DelegationHandler handles grant/revoke and delegation listings.
type DelegationHandler struct {
	svc *service.AdminService
}

// NewDelegationHandler creates a new DelegationHandler.
func NewDelegationHandler(svc *service.AdminService) *DelegationHandler {
	return &DelegationHandler{svc: svc}
}

// List lists the delegations held by the admin group named in the query.
func (h *DelegationHandler) List(w http.ResponseWriter, r *http.Request) {
	adminGroup := r.URL.Query().Get("admin_group")
	if adminGroup == "" {
		respondError(w, http.StatusBadRequest, "admin_group is required")
		return
	}

	delegations, err := h.svc.GetDelegations(r.Context(), adminGroup)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, delegations)
}

// Grant delegates a role over a view to an admin group.
func (h *DelegationHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var req domain.DelegationRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	d := domain.Delegation{AdminGroup: req.AdminGroup, Role: req.Role, ScopedView: req.ScopedView}
	if err := h.svc.Grant(r.Context(), d); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, d)
}

// Revoke removes a delegation triple.
func (h *DelegationHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	var req domain.DelegationRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	d := domain.Delegation{AdminGroup: req.AdminGroup, Role: req.Role, ScopedView: req.ScopedView}
	if err := h.svc.Revoke(r.Context(), d); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
