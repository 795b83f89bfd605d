package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/delegation-tools/delegation-manager/internal/storage"
)

// AuditHandler exposes the local audit trail.
type AuditHandler struct {
	store storage.Storage
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(store storage.Storage) *AuditHandler {
	return &AuditHandler{store: store}
}

// List lists audit entries, newest first, narrowed by the optional
// operation, target, and status query parameters.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.AuditFilter{
		Operation: q.Get("operation"),
		Target:    q.Get("target"),
		Status:    q.Get("status"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	entries, err := h.store.ListAuditEntries(r.Context(), filter)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// Get fetches one audit entry by id.
func (h *AuditHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.store.GetAuditEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}
