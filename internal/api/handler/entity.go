package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/delegation-tools/delegation-manager/internal/domain"
	"github.com/delegation-tools/delegation-manager/internal/service"
)

// EntityHandler handles ScopedView, AdminGroup, and Role endpoints.
type EntityHandler struct {
	svc *service.AdminService
}

// NewEntityHandler creates a new EntityHandler.
func NewEntityHandler(svc *service.AdminService) *EntityHandler {
	return &EntityHandler{svc: svc}
}

// kindParam reads the entity kind from the URL.
func kindParam(r *http.Request) domain.Kind {
	return domain.Kind(chi.URLParam(r, "kind"))
}

// List lists entities matching the pattern query parameter (default all).
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")
	if pattern == "" {
		pattern = "*"
	}

	entities, err := h.svc.GetEntities(r.Context(), kindParam(r), pattern)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entities)
}

// Get fetches one entity by exact name.
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	entities, err := h.svc.GetEntities(r.Context(), kindParam(r), chi.URLParam(r, "name"))
	if err != nil {
		handleError(w, err)
		return
	}
	if len(entities) == 0 {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, entities[0])
}

// Create creates a new entity.
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEntityRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	if err := h.svc.CreateEntity(r.Context(), kindParam(r), req); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, &domain.Entity{Kind: kindParam(r), Name: req.Name,
		Description: req.Description, Comment: req.Comment})
}

// Delete removes the entities matching the name, which may be a wildcard
// pattern. Per-item failures in a wildcard batch are reported together.
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveEntities(r.Context(), kindParam(r), chi.URLParam(r, "name")); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Rename renames one entity.
func (h *EntityHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req domain.RenameRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	if err := h.svc.RenameEntity(r.Context(), kindParam(r), chi.URLParam(r, "name"), req.NewName); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetComment replaces the comment on the matching entities.
func (h *EntityHandler) SetComment(w http.ResponseWriter, r *http.Request) {
	var req domain.SetTextRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	if err := h.svc.SetComment(r.Context(), kindParam(r), chi.URLParam(r, "name"), req.Text); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDescription replaces the description on the matching entities.
func (h *EntityHandler) SetDescription(w http.ResponseWriter, r *http.Request) {
	var req domain.SetTextRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	if err := h.svc.SetDescription(r.Context(), kindParam(r), chi.URLParam(r, "name"), req.Text); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
