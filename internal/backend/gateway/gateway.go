package gateway

import (
	"context"
	"fmt"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

// Operation names accepted by the server object.
const (
	OpEnumerateScopedViews = "EnumerateScopedViews"
	OpEnumerateAdminGroups = "EnumerateAdminGroups"
	OpEnumerateRoles       = "EnumerateRoles"
	OpEnumeratePowers      = "EnumeratePowers"
	OpEnumerateDelegations = "EnumerateDelegations"
)

// Container paths addressed by enumeration requests.
const (
	containerScopedViews = "ScopedViews"
	containerAdminGroups = "AdminGroups"
	containerRoles       = "Roles"
	containerPowers      = "Powers"
	containerDelegations = "Delegations"
)

// Hint columns per object kind; order fixes the positional indexes the
// tabular parser reads by.
var (
	hintsScopedView = []string{"Name", "Description", "Comment", "Builtin"}
	hintsAssignable = []string{"Name", "Description", "Comment", "Builtin", "Assigned"}
	hintsPowers     = []string{"Name", "Description"}
	hintsDelegation = []string{"AdminGroup", "Role", "ScopedView"}
)

// Dispatcher resolves the server object bound to a server name and submits
// one parameter set, returning the tabular result handle. An error from
// Submit means the object could not be instantiated or reached; remote
// logical failures travel inside the ResultSet's LastError field.
type Dispatcher interface {
	Submit(ctx context.Context, server string, params *ParameterSet) (ResultSet, error)
}

// Gateway submits enumeration requests to the distributed-object backend of
// one server. Each call is a fresh synchronous round trip.
type Gateway struct {
	dispatcher Dispatcher
	server     string
}

// New creates a Gateway that targets the named server through the
// dispatcher.
func New(dispatcher Dispatcher, server string) *Gateway {
	return &Gateway{dispatcher: dispatcher, server: server}
}

// Server returns the server name this gateway targets.
func (g *Gateway) Server() string {
	return g.server
}

// submit sends the parameter set and normalizes the two failure shapes:
// instantiation failure becomes ConnectionError, a nonzero result status
// becomes RemoteOperationError carrying the code verbatim.
func (g *Gateway) submit(ctx context.Context, op string, params *ParameterSet) (ResultSet, error) {
	rs, err := g.dispatcher.Submit(ctx, g.server, params)
	if err != nil {
		return nil, &domain.OperationError{
			Op:     op,
			Target: g.server,
			Output: err.Error(),
			Err:    domain.ErrConnection,
		}
	}
	if code := rs.LastError(); code != 0 {
		return nil, &domain.OperationError{
			Op:     op,
			Target: g.server,
			Code:   code,
			Output: fmt.Sprintf("server reported status %08x", code),
			Err:    domain.ErrRemoteOperation,
		}
	}
	return rs, nil
}

// EnumerateEntities lists entities of the kind whose names match the
// (possibly wildcard) pattern. The pattern's literal fragments are escaped
// before they reach the filter expression.
func (g *Gateway) EnumerateEntities(ctx context.Context, kind domain.Kind, pattern string, mode EmptyMode) ([]domain.Entity, error) {
	var op, container string
	hints := hintsAssignable
	switch kind {
	case domain.KindScopedView:
		op, container, hints = OpEnumerateScopedViews, containerScopedViews, hintsScopedView
	case domain.KindAdminGroup:
		op, container = OpEnumerateAdminGroups, containerAdminGroups
	case domain.KindRole:
		op, container = OpEnumerateRoles, containerRoles
	default:
		return nil, fmt.Errorf("unsupported kind %q", kind)
	}

	params := NewParameterSet()
	params.SetOperation(op)
	params.SetHints(hints)
	params.SetContainer(container)
	params.SetFilter(fmt.Sprintf("(Name=%s)", EscapeFilterPattern(pattern)))

	rs, err := g.submit(ctx, "get-entities", params)
	if err != nil {
		return nil, err
	}
	return MaterializeEntities(rs, kind, mode, pattern)
}

// EnumerateDelegations lists the delegation triples held by the admin
// group. The group name is path-escaped into the container field.
func (g *Gateway) EnumerateDelegations(ctx context.Context, adminGroup string) ([]domain.Delegation, error) {
	params := NewParameterSet()
	params.SetOperation(OpEnumerateDelegations)
	params.SetHints(hintsDelegation)
	params.SetContainer(containerDelegations + "/" + EscapePath(adminGroup))
	params.SetFilter(fmt.Sprintf("(AdminGroup=%s)", EscapeFilterPattern(adminGroup)))

	rs, err := g.submit(ctx, "get-delegations", params)
	if err != nil {
		return nil, err
	}
	return MaterializeDelegations(rs)
}

// EnumeratePowers lists the server-defined permission primitives.
func (g *Gateway) EnumeratePowers(ctx context.Context) ([]domain.Power, error) {
	params := NewParameterSet()
	params.SetOperation(OpEnumeratePowers)
	params.SetHints(hintsPowers)
	params.SetContainer(containerPowers)
	params.SetFilter("(Name=*)")

	rs, err := g.submit(ctx, "get-powers", params)
	if err != nil {
		return nil, err
	}
	return MaterializePowers(rs)
}
