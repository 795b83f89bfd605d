package handler

import (
	"net/http"

	"github.com/delegation-tools/delegation-manager/internal/domain"
	"github.com/delegation-tools/delegation-manager/internal/service"
)

// ServerHandler handles server discovery endpoints.
type ServerHandler struct {
	svc *service.AdminService
}

// NewServerHandler creates a new ServerHandler.
func NewServerHandler(svc *service.AdminService) *ServerHandler {
	return &ServerHandler{svc: svc}
}

// List discovers registered delegation servers under the selection policy
// named in the query (default primary).
func (h *ServerHandler) List(w http.ResponseWriter, r *http.Request) {
	policy := domain.SelectionPolicy(r.URL.Query().Get("policy"))
	if policy == "" {
		policy = domain.SelectPrimary
	}

	servers, err := h.svc.GetServers(r.Context(), policy)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, servers)
}
