package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/delegation-tools/delegation-manager/internal/domain"
	"github.com/delegation-tools/delegation-manager/internal/service"
)

// RuleHandler handles membership-rule endpoints nested under an entity.
type RuleHandler struct {
	svc *service.AdminService
}

// NewRuleHandler creates a new RuleHandler.
func NewRuleHandler(svc *service.AdminService) *RuleHandler {
	return &RuleHandler{svc: svc}
}

// List lists the rules of the parent entity, optionally narrowed by the
// pattern query parameter.
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.GetRules(r.Context(), kindParam(r), chi.URLParam(r, "name"), r.URL.Query().Get("pattern"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rules)
}

// Create adds a rule to the parent entity.
func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.AddRuleRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	parent := chi.URLParam(r, "name")
	if err := h.svc.AddRule(r.Context(), kindParam(r), parent, req.Name, req.Options); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, &domain.Rule{
		Parent:      parent,
		ParentKind:  kindParam(r),
		Name:        req.Name,
		Description: req.Options.Description,
		Comment:     req.Options.Comment,
		Type:        req.Options.Type,
	})
}

// Delete removes a rule from the parent entity.
func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.RemoveRule(r.Context(), kindParam(r), chi.URLParam(r, "name"), chi.URLParam(r, "rule"))
	if err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Rename renames a rule; its type and matching attributes are unchanged.
func (h *RuleHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req domain.RenameRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	err := h.svc.RenameRule(r.Context(), kindParam(r), chi.URLParam(r, "name"), chi.URLParam(r, "rule"), req.NewName)
	if err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetComment replaces a rule's comment.
func (h *RuleHandler) SetComment(w http.ResponseWriter, r *http.Request) {
	var req domain.SetTextRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	err := h.svc.SetRuleComment(r.Context(), kindParam(r), chi.URLParam(r, "name"), chi.URLParam(r, "rule"), req.Text)
	if err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
