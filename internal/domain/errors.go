package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used throughout the application. Every backend failure is
// normalized to exactly one of these before it reaches a caller.
var (
	// ErrValidation is returned before any backend call when a supplied
	// name or option fails local validation.
	ErrValidation = errors.New("validation failed")
	// ErrConnection is returned when the chosen server cannot be resolved
	// or instantiated.
	ErrConnection = errors.New("server connection failed")
	// ErrNotFound is returned when an empty result was required to mean
	// "does not exist", or the CLI backend printed its not-found sentinel.
	ErrNotFound = errors.New("object not found")
	// ErrRemoteOperation is returned for a nonzero exit code, a nonzero
	// backend status code, or a trailing failure-sentinel output line.
	ErrRemoteOperation = errors.New("remote operation failed")
	// ErrAlreadyExists is returned by the explicit pre-check performed for
	// create-like operations the backend does not itself guard.
	ErrAlreadyExists = errors.New("object already exists")
	// ErrUnauthorized is returned by the API layer for bad credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// OperationError is the normalized form of a backend failure. The backend's
// own failure text is preserved verbatim in Output; operators match on it.
type OperationError struct {
	Op     string // operation name, e.g. "create-entity"
	Kind   Kind   // entity kind involved, if any
	Target string // object name the failure is about
	Code   uint32 // backend status code, 0 when none
	Output string // verbatim backend failure text
	Err    error  // one of the sentinel errors above
}

// Error implements the error interface. Numeric backend codes are always
// rendered as 8-digit hexadecimal.
func (e *OperationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Kind != "" {
		fmt.Fprintf(&b, " %s", e.Kind)
	}
	if e.Target != "" {
		fmt.Fprintf(&b, " %q", e.Target)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	if e.Code != 0 {
		fmt.Fprintf(&b, " (code %08x)", e.Code)
	}
	if e.Output != "" {
		fmt.Fprintf(&b, ": %s", e.Output)
	}
	return b.String()
}

// Unwrap exposes the sentinel for errors.Is.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// BulkError accumulates per-item failures from a bulk operation. The
// remainder of the batch proceeds past each failed item.
type BulkError struct {
	Op    string
	Items []*OperationError
}

// Error implements the error interface.
func (e *BulkError) Error() string {
	if len(e.Items) == 1 {
		return fmt.Sprintf("%s: 1 item failed: %v", e.Op, e.Items[0])
	}
	msgs := make([]string, len(e.Items))
	for i, item := range e.Items {
		msgs[i] = item.Error()
	}
	return fmt.Sprintf("%s: %d items failed: %s", e.Op, len(e.Items), strings.Join(msgs, "; "))
}

// Add records one failed item.
func (e *BulkError) Add(item *OperationError) {
	e.Items = append(e.Items, item)
}

// HasErrors reports whether any item failed.
func (e *BulkError) HasErrors() bool {
	return len(e.Items) > 0
}

// Unwrap exposes the accumulated items so errors.Is can match any of their
// sentinels.
func (e *BulkError) Unwrap() []error {
	errs := make([]error, len(e.Items))
	for i, item := range e.Items {
		errs[i] = item
	}
	return errs
}

// APIError represents an error response from the REST API.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}
