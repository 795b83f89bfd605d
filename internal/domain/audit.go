package domain

import "time"

// Audit outcome values.
const (
	AuditOK     = "ok"
	AuditFailed = "failed"
)

// AuditEntry records one backend-affecting operation. The audit trail is the
// only local persistence in this system; it never stores remote entity state.
type AuditEntry struct {
	ID        string    `json:"id" db:"id"`
	Operation string    `json:"operation" db:"operation"`
	Kind      string    `json:"kind,omitempty" db:"kind"`
	Target    string    `json:"target,omitempty" db:"target"`
	Server    string    `json:"server,omitempty" db:"server"`
	Status    string    `json:"status" db:"status"`
	Error     string    `json:"error,omitempty" db:"error"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
