// Package service implements the operation surface of the delegation
// manager: validation, backend routing, bulk fan-out, and audit recording.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/delegation-tools/delegation-manager/internal/backend/gateway"
	"github.com/delegation-tools/delegation-manager/internal/discovery"
	"github.com/delegation-tools/delegation-manager/internal/domain"
	"github.com/delegation-tools/delegation-manager/internal/storage"
	"github.com/delegation-tools/delegation-manager/internal/validation"
)

// CommandBackend is the executable backend surface. cli.Backend satisfies it.
type CommandBackend interface {
	ListEntities(ctx context.Context, kind domain.Kind, pattern string) ([]domain.Entity, error)
	ListRules(ctx context.Context, kind domain.Kind, parent, pattern string) ([]domain.Rule, error)
	CreateEntity(ctx context.Context, kind domain.Kind, req domain.CreateEntityRequest) error
	RemoveEntity(ctx context.Context, kind domain.Kind, name string) error
	RenameEntity(ctx context.Context, kind domain.Kind, name, newName string) error
	SetComment(ctx context.Context, kind domain.Kind, name, text string) error
	SetDescription(ctx context.Context, kind domain.Kind, name, text string) error
	AddRule(ctx context.Context, kind domain.Kind, parent, name string, opts domain.RuleOptions) error
	RemoveRule(ctx context.Context, kind domain.Kind, parent, name string) error
	RenameRule(ctx context.Context, kind domain.Kind, parent, name, newName string) error
	SetRuleComment(ctx context.Context, kind domain.Kind, parent, name, text string) error
	Grant(ctx context.Context, d domain.Delegation) error
	Revoke(ctx context.Context, d domain.Delegation) error
}

// QueryBackend is the distributed-object backend surface. gateway.Gateway
// satisfies it. It may be absent when the gateway is disabled by
// configuration; enumeration then falls back to the executable backend
// where a fallback exists.
type QueryBackend interface {
	EnumerateEntities(ctx context.Context, kind domain.Kind, pattern string, mode gateway.EmptyMode) ([]domain.Entity, error)
	EnumerateDelegations(ctx context.Context, adminGroup string) ([]domain.Delegation, error)
	EnumeratePowers(ctx context.Context) ([]domain.Power, error)
}

// ServerResolver discovers registered delegation servers.
type ServerResolver interface {
	Discover(ctx context.Context) (*discovery.Snapshot, error)
}

// AdminService is the delegation-management operation surface. All entity
// state lives on the remote server; the only local persistence is the audit
// trail.
type AdminService struct {
	cmd      CommandBackend
	query    QueryBackend
	resolver ServerResolver
	store    storage.Storage
	server   string
	logger   *zap.Logger
}

// NewAdminService creates the service. query and resolver may be nil when
// the gateway or discovery is disabled; operations that need them fail with
// a configuration error. store may be nil to disable the audit trail.
func NewAdminService(cmd CommandBackend, query QueryBackend, resolver ServerResolver, store storage.Storage, server string, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		cmd:      cmd,
		query:    query,
		resolver: resolver,
		store:    store,
		server:   server,
		logger:   logger,
	}
}

// validationError wraps a validation failure with the taxonomy sentinel.
func validationError(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

// audit records the outcome of one backend-affecting operation. Recording is
// best effort; a storage failure is logged, never surfaced to the caller.
func (s *AdminService) audit(ctx context.Context, op string, kind domain.Kind, target string, opErr error) {
	if s.store == nil {
		return
	}
	entry := &domain.AuditEntry{
		ID:        uuid.New().String(),
		Operation: op,
		Kind:      string(kind),
		Target:    target,
		Server:    s.server,
		Status:    domain.AuditOK,
		CreatedAt: time.Now(),
	}
	if opErr != nil {
		entry.Status = domain.AuditFailed
		entry.Error = opErr.Error()
	}
	if err := s.store.CreateAuditEntry(ctx, entry); err != nil {
		s.logger.Warn("audit record not written",
			zap.String("operation", op),
			zap.String("target", target),
			zap.Error(err))
	}
}

// GetEntities lists entities of the kind whose names match the pattern. The
// gateway backend serves listings when available; otherwise the executable
// backend's text output is parsed instead. A non-wildcard lookup that finds
// nothing is ObjectNotFound; an empty wildcard result is an empty list.
func (s *AdminService) GetEntities(ctx context.Context, kind domain.Kind, pattern string) ([]domain.Entity, error) {
	if err := validation.ValidateKind(kind); err != nil {
		return nil, validationError(err)
	}
	if err := validation.ValidatePattern(pattern); err != nil {
		return nil, validationError(err)
	}

	if s.query != nil {
		mode := gateway.Reporting
		if validation.IsWildcard(pattern) {
			mode = gateway.Silent
		}
		return s.query.EnumerateEntities(ctx, kind, pattern, mode)
	}

	entities, err := s.cmd.ListEntities(ctx, kind, pattern)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 && !validation.IsWildcard(pattern) {
		return nil, &domain.OperationError{
			Op:     "get-entities",
			Kind:   kind,
			Target: pattern,
			Err:    domain.ErrNotFound,
		}
	}
	return entities, nil
}

// GetRules lists the membership rules of parent matching the rule-name
// pattern. Roles carry no rules.
func (s *AdminService) GetRules(ctx context.Context, kind domain.Kind, parent, pattern string) ([]domain.Rule, error) {
	if err := s.validateRuleParent(kind, parent); err != nil {
		return nil, err
	}
	if pattern != "" {
		if err := validation.ValidatePattern(pattern); err != nil {
			return nil, validationError(err)
		}
	}
	return s.cmd.ListRules(ctx, kind, parent, pattern)
}

// CreateEntity creates a ScopedView or AdminGroup. Role creation is not
// supported by this layer.
func (s *AdminService) CreateEntity(ctx context.Context, kind domain.Kind, req domain.CreateEntityRequest) error {
	if err := validation.ValidateKind(kind); err != nil {
		return validationError(err)
	}
	if kind == domain.KindRole {
		return validationError(errors.New("roles cannot be created through this layer"))
	}
	if err := validation.ValidateName(req.Name); err != nil {
		return validationError(err)
	}
	err := s.cmd.CreateEntity(ctx, kind, req)
	s.audit(ctx, "create-entity", kind, req.Name, err)
	return err
}

// RemoveEntities removes the entities matching the pattern. A wildcard
// pattern is resolved to names first and removed one call per item; failed
// items are reported per item while the remainder of the batch proceeds.
// Role removal is not supported.
func (s *AdminService) RemoveEntities(ctx context.Context, kind domain.Kind, pattern string) error {
	if err := validation.ValidateKind(kind); err != nil {
		return validationError(err)
	}
	if kind == domain.KindRole {
		return validationError(errors.New("roles cannot be removed through this layer"))
	}
	if err := validation.ValidatePattern(pattern); err != nil {
		return validationError(err)
	}

	if !validation.IsWildcard(pattern) {
		err := s.cmd.RemoveEntity(ctx, kind, pattern)
		s.audit(ctx, "remove-entity", kind, pattern, err)
		return err
	}

	return s.bulk(ctx, "remove-entity", kind, pattern, func(ctx context.Context, name string) error {
		return s.cmd.RemoveEntity(ctx, kind, name)
	})
}

// RenameEntity renames one entity. Rename applies to all three kinds,
// including roles.
func (s *AdminService) RenameEntity(ctx context.Context, kind domain.Kind, name, newName string) error {
	if err := validation.ValidateKind(kind); err != nil {
		return validationError(err)
	}
	if err := validation.ValidateName(name); err != nil {
		return validationError(err)
	}
	if err := validation.ValidateName(newName); err != nil {
		return validationError(fmt.Errorf("new name: %w", err))
	}
	err := s.cmd.RenameEntity(ctx, kind, name, newName)
	s.audit(ctx, "rename-entity", kind, name, err)
	return err
}

// SetComment replaces the comment on every entity matching the pattern.
func (s *AdminService) SetComment(ctx context.Context, kind domain.Kind, pattern, text string) error {
	return s.setText(ctx, "set-comment", kind, pattern, text, s.cmd.SetComment)
}

// SetDescription replaces the description on every entity matching the
// pattern.
func (s *AdminService) SetDescription(ctx context.Context, kind domain.Kind, pattern, text string) error {
	return s.setText(ctx, "set-description", kind, pattern, text, s.cmd.SetDescription)
}

func (s *AdminService) setText(ctx context.Context, op string, kind domain.Kind, pattern, text string, apply func(context.Context, domain.Kind, string, string) error) error {
	if err := validation.ValidateKind(kind); err != nil {
		return validationError(err)
	}
	if err := validation.ValidatePattern(pattern); err != nil {
		return validationError(err)
	}

	if !validation.IsWildcard(pattern) {
		err := apply(ctx, kind, pattern, text)
		s.audit(ctx, op, kind, pattern, err)
		return err
	}

	return s.bulk(ctx, op, kind, pattern, func(ctx context.Context, name string) error {
		return apply(ctx, kind, name, text)
	})
}

// bulk resolves the wildcard pattern to exact names and applies the
// operation to each, one backend call per item. Failures are accumulated per
// item; the batch continues past them.
func (s *AdminService) bulk(ctx context.Context, op string, kind domain.Kind, pattern string, apply func(context.Context, string) error) error {
	entities, err := s.resolveNames(ctx, kind, pattern)
	if err != nil {
		return err
	}

	bulkErr := &domain.BulkError{Op: op}
	for _, entity := range entities {
		err := apply(ctx, entity.Name)
		s.audit(ctx, op, kind, entity.Name, err)
		if err != nil {
			var opErr *domain.OperationError
			if !errors.As(err, &opErr) {
				opErr = &domain.OperationError{
					Op: op, Kind: kind, Target: entity.Name,
					Output: err.Error(), Err: domain.ErrRemoteOperation,
				}
			}
			s.logger.Warn("bulk item failed",
				zap.String("operation", op),
				zap.String("target", entity.Name),
				zap.Error(err))
			bulkErr.Add(opErr)
			continue
		}
	}
	if bulkErr.HasErrors() {
		return bulkErr
	}
	return nil
}

// resolveNames lists the entities matching the pattern without treating
// emptiness as an error.
func (s *AdminService) resolveNames(ctx context.Context, kind domain.Kind, pattern string) ([]domain.Entity, error) {
	if s.query != nil {
		return s.query.EnumerateEntities(ctx, kind, pattern, gateway.Silent)
	}
	return s.cmd.ListEntities(ctx, kind, pattern)
}

// AddRule adds a membership rule to parent. The backend does not guard
// against duplicate rule names, so an explicit same-name pre-check runs
// first and reports ObjectAlreadyExists.
func (s *AdminService) AddRule(ctx context.Context, kind domain.Kind, parent, name string, opts domain.RuleOptions) error {
	if err := s.validateRuleParent(kind, parent); err != nil {
		return err
	}
	if err := validation.ValidateName(name); err != nil {
		return validationError(err)
	}
	if err := validation.ValidateRuleOptions(opts); err != nil {
		return validationError(err)
	}

	existing, err := s.cmd.ListRules(ctx, kind, parent, name)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	for _, rule := range existing {
		if rule.Name == name {
			return &domain.OperationError{
				Op:     "add-rule",
				Kind:   kind,
				Target: name,
				Err:    domain.ErrAlreadyExists,
			}
		}
	}

	err = s.cmd.AddRule(ctx, kind, parent, name, opts)
	s.audit(ctx, "add-rule", kind, parent+"/"+name, err)
	return err
}

// RemoveRule removes a rule from parent by exact name.
func (s *AdminService) RemoveRule(ctx context.Context, kind domain.Kind, parent, name string) error {
	if err := s.validateRuleParent(kind, parent); err != nil {
		return err
	}
	if err := validation.ValidateName(name); err != nil {
		return validationError(err)
	}
	err := s.cmd.RemoveRule(ctx, kind, parent, name)
	s.audit(ctx, "remove-rule", kind, parent+"/"+name, err)
	return err
}

// RenameRule renames a rule. The rule's type and matching attributes are
// untouched.
func (s *AdminService) RenameRule(ctx context.Context, kind domain.Kind, parent, name, newName string) error {
	if err := s.validateRuleParent(kind, parent); err != nil {
		return err
	}
	if err := validation.ValidateName(name); err != nil {
		return validationError(err)
	}
	if err := validation.ValidateName(newName); err != nil {
		return validationError(fmt.Errorf("new name: %w", err))
	}
	err := s.cmd.RenameRule(ctx, kind, parent, name, newName)
	s.audit(ctx, "rename-rule", kind, parent+"/"+name, err)
	return err
}

// SetRuleComment replaces a rule's comment.
func (s *AdminService) SetRuleComment(ctx context.Context, kind domain.Kind, parent, name, text string) error {
	if err := s.validateRuleParent(kind, parent); err != nil {
		return err
	}
	if err := validation.ValidateName(name); err != nil {
		return validationError(err)
	}
	err := s.cmd.SetRuleComment(ctx, kind, parent, name, text)
	s.audit(ctx, "set-rule-comment", kind, parent+"/"+name, err)
	return err
}

// validateRuleParent checks the kind/parent pair for a rule operation.
func (s *AdminService) validateRuleParent(kind domain.Kind, parent string) error {
	if err := validation.ValidateKind(kind); err != nil {
		return validationError(err)
	}
	if kind == domain.KindRole {
		return validationError(errors.New("roles carry no membership rules"))
	}
	if err := validation.ValidateName(parent); err != nil {
		return validationError(fmt.Errorf("parent: %w", err))
	}
	return nil
}

// Grant delegates the role's permissions over the view to the admin group.
// Granting an already-granted triple is reported however the backend
// reports it; this layer does not deduplicate.
func (s *AdminService) Grant(ctx context.Context, d domain.Delegation) error {
	if err := s.validateDelegation(d); err != nil {
		return err
	}
	err := s.cmd.Grant(ctx, d)
	s.audit(ctx, "grant", domain.KindAdminGroup, d.AdminGroup, err)
	return err
}

// Revoke removes the delegation triple. A triple that does not exist is
// ObjectNotFound.
func (s *AdminService) Revoke(ctx context.Context, d domain.Delegation) error {
	if err := s.validateDelegation(d); err != nil {
		return err
	}
	err := s.cmd.Revoke(ctx, d)
	s.audit(ctx, "revoke", domain.KindAdminGroup, d.AdminGroup, err)
	return err
}

func (s *AdminService) validateDelegation(d domain.Delegation) error {
	if err := validation.ValidateName(d.AdminGroup); err != nil {
		return validationError(fmt.Errorf("admin group: %w", err))
	}
	if err := validation.ValidateName(d.Role); err != nil {
		return validationError(fmt.Errorf("role: %w", err))
	}
	if err := validation.ValidateName(d.ScopedView); err != nil {
		return validationError(fmt.Errorf("scoped view: %w", err))
	}
	return nil
}

// GetDelegations lists the delegation triples held by the admin group. This
// listing exists only on the gateway backend.
func (s *AdminService) GetDelegations(ctx context.Context, adminGroup string) ([]domain.Delegation, error) {
	if err := validation.ValidateName(adminGroup); err != nil {
		return nil, validationError(err)
	}
	if s.query == nil {
		return nil, fmt.Errorf("delegation listing requires the gateway backend, which is disabled")
	}
	return s.query.EnumerateDelegations(ctx, adminGroup)
}

// GetPowers lists the server-defined permission primitives. This listing
// exists only on the gateway backend.
func (s *AdminService) GetPowers(ctx context.Context) ([]domain.Power, error) {
	if s.query == nil {
		return nil, fmt.Errorf("power listing requires the gateway backend, which is disabled")
	}
	return s.query.EnumeratePowers(ctx)
}

// GetServers discovers the registered delegation servers and applies the
// selection policy. Discovery is a fresh directory round trip per call.
func (s *AdminService) GetServers(ctx context.Context, policy domain.SelectionPolicy) ([]domain.ServerRecord, error) {
	if !policy.Valid() {
		return nil, validationError(fmt.Errorf("invalid selection policy: %s", policy))
	}
	if s.resolver == nil {
		return nil, fmt.Errorf("server discovery is not configured")
	}
	snapshot, err := s.resolver.Discover(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Select(policy)
}
