package domain

// Kind identifies one of the delegation entity kinds managed by this layer.
type Kind string

const (
	KindScopedView Kind = "scoped-view"
	KindAdminGroup Kind = "admin-group"
	KindRole       Kind = "role"
)

// Valid reports whether k names a known entity kind.
func (k Kind) Valid() bool {
	switch k {
	case KindScopedView, KindAdminGroup, KindRole:
		return true
	}
	return false
}

// Tag returns the backend CLI keyword for the kind (AV, AG, ROLE).
func (k Kind) Tag() string {
	switch k {
	case KindScopedView:
		return "AV"
	case KindAdminGroup:
		return "AG"
	case KindRole:
		return "ROLE"
	}
	return ""
}

// Label returns the header label the CLI backend prints for the kind.
func (k Kind) Label() string {
	switch k {
	case KindScopedView:
		return "ScopedView"
	case KindAdminGroup:
		return "AdminGroup"
	case KindRole:
		return "Role"
	}
	return ""
}

// HasAssigned reports whether listings of this kind carry the trailing
// Assigned field (AdminGroup and Role do, ScopedView does not).
func (k Kind) HasAssigned() bool {
	return k == KindAdminGroup || k == KindRole
}

// Entity is a delegation entity as reported by either backend.
// ScopedView records leave Assigned false; it is meaningless for that kind.
type Entity struct {
	Kind        Kind   `json:"kind"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Comment     string `json:"comment"`
	Builtin     bool   `json:"builtin"`
	Assigned    bool   `json:"assigned,omitempty"`
}

// Power is a server-defined permission primitive. Powers are enumerated,
// never mutated.
type Power struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateEntityRequest is the request body for creating an entity.
type CreateEntityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Comment     string `json:"comment,omitempty"`
}

// RenameRequest is the request body for renaming an entity or rule.
type RenameRequest struct {
	NewName string `json:"new_name"`
}

// SetTextRequest is the request body for updating a comment or description.
type SetTextRequest struct {
	Text string `json:"text"`
}
