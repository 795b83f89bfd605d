//go:build !windows

package gateway

import (
	"context"
	"fmt"
)

// ComDispatcher is only functional on Windows; off Windows every submit
// fails, which the service layer reports as a connection failure.
type ComDispatcher struct {
	progID string
}

// NewComDispatcher creates a ComDispatcher for the registered program ID.
func NewComDispatcher(progID string) *ComDispatcher {
	return &ComDispatcher{progID: progID}
}

// Ensure ComDispatcher implements Dispatcher.
var _ Dispatcher = (*ComDispatcher)(nil)

// Submit always fails off Windows.
func (d *ComDispatcher) Submit(ctx context.Context, server string, params *ParameterSet) (ResultSet, error) {
	return nil, fmt.Errorf("object gateway %s is only available on windows", d.progID)
}
