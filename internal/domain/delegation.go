package domain

// Delegation is the ternary grant relationship: an AdminGroup holds a Role's
// permissions over a ScopedView. It has no name of its own; the triple is the
// identity.
type Delegation struct {
	AdminGroup string `json:"admin_group"`
	Role       string `json:"role"`
	ScopedView string `json:"scoped_view"`
}

// DelegationRequest is the request body for granting or revoking a delegation.
type DelegationRequest struct {
	AdminGroup string `json:"admin_group"`
	Role       string `json:"role"`
	ScopedView string `json:"scoped_view"`
}
