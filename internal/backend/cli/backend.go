package cli

import (
	"context"
	"strings"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

// FailedMarker is the suffix the backend appends to its final output line
// when an add-rule family verb fails despite exiting zero.
const FailedMarker = "Failed"

// Verb actions understood by the executable backend.
const (
	actionDisplay    = "DISPLAY"
	actionCreate     = "CREATE"
	actionDelete     = "DELETE"
	actionMove       = "MOVE"
	actionUpdate     = "UPDATE"
	actionRules      = "RULES"
	actionAddRule    = "ADDRULE"
	actionDeleteRule = "DELETERULE"
	actionMoveRule   = "MOVERULE"
	actionUpdateRule = "UPDATERULE"
	actionGrant      = "GRANT"
	actionRevoke     = "REVOKE"
)

// Invoker runs one assembled command and returns the exit code plus the
// captured output lines.
type Invoker interface {
	Run(ctx context.Context, cmd *Command) (int, []string)
}

// Ensure Runner implements Invoker.
var _ Invoker = (*Runner)(nil)

/// Backend drives the executable backend: it assembles invocations, runs
// them, parses the captured text, and normalizes failures. Each operation is
// one fresh synchronous round trip.
type Backend struct {
	invoker Invoker
	builder *Builder
}

// New creates a Backend over the executable at path. An empty server name
// targets the primary.
func New(path, server string) *Backend {
	return NewWithInvoker(NewRunner(path), server)
}

// NewWithInvoker creates a Backend over a custom invoker. Tests use this to
// substitute canned process output.
func NewWithInvoker(invoker Invoker, server string) *Backend {
	return &Backend{
		invoker: invoker,
		builder: NewBuilder(server),
	}
}

// run executes the command and normalizes the outcome. The returned lines
// are the full capture; err is nil only on success. checkMarker additionally
// treats a trailing line ending in the failure marker as an error even on
// exit code zero (the add-rule family reports failures that way).
func (b *Backend) run(ctx context.Context, op string, kind domain.Kind, target string, cmd *Command, checkMarker bool) ([]string, error) {
	code, lines := b.invoker.Run(ctx, cmd)

	if code == SpawnFailureCode {
		return lines, &domain.OperationError{
			Op:     op,
			Kind:   kind,
			Target: target,
			Output: lastLine(lines),
			Err:    domain.ErrConnection,
		}
	}
	if code != 0 {
		sentinel := domain.ErrRemoteOperation
		if containsNotFound(lines) {
			sentinel = domain.ErrNotFound
		}
		return lines, &domain.OperationError{
			Op:     op,
			Kind:   kind,
			Target: target,
			Code:   uint32(int32(code)),
			Output: lastLine(lines),
			Err:    sentinel,
		}
	}
	if checkMarker {
		if last := lastLine(lines); strings.HasSuffix(last, FailedMarker) {
			return lines, &domain.OperationError{
				Op:     op,
				Kind:   kind,
				Target: target,
				Output: last,
				Err:    domain.ErrRemoteOperation,
			}
		}
	}
	return lines, nil
}

// lastLine returns the last non-empty output line, verbatim.
func lastLine(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return ""
}

// containsNotFound reports whether any output line is the not-found
// sentinel.
func containsNotFound(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) == NotFoundSentinel {
			return true
		}
	}
	return false
}

// ListEntities lists entities of the kind matching the (possibly wildcard)
// name pattern.
func (b *Backend) ListEntities(ctx context.Context, kind domain.Kind, pattern string) ([]domain.Entity, error) {
	cmd := b.builder.Build(kind.Tag(), []string{pattern, actionDisplay}, nil)
	lines, err := b.run(ctx, "get-entities", kind, pattern, cmd, false)
	if err != nil {
		return nil, err
	}
	return ParseEntities(kind, lines)
}

// ListRules lists the membership rules of parent whose names match the
// pattern.
func (b *Backend) ListRules(ctx context.Context, kind domain.Kind, parent, pattern string) ([]domain.Rule, error) {
	var keyed []Arg
	if pattern != "" && pattern != "*" {
		keyed = append(keyed, Arg{Key: "RULE", Value: pattern})
	}
	cmd := b.builder.Build(kind.Tag(), []string{parent, actionRules}, keyed)
	lines, err := b.run(ctx, "get-rules", kind, parent, cmd, false)
	if err != nil {
		return nil, err
	}
	return ParseRules(kind, lines)
}

// CreateEntity creates an entity with optional description and comment.
func (b *Backend) CreateEntity(ctx context.Context, kind domain.Kind, req domain.CreateEntityRequest) error {
	var keyed []Arg
	if req.Description != "" {
		keyed = append(keyed, Arg{Key: "DESCRIPTION", Value: req.Description})
	}
	if req.Comment != "" {
		keyed = append(keyed, Arg{Key: "COMMENT", Value: req.Comment})
	}
	cmd := b.builder.Build(kind.Tag(), []string{req.Name, actionCreate}, keyed)
	_, err := b.run(ctx, "create-entity", kind, req.Name, cmd, false)
	return err
}

// RemoveEntity removes one entity by exact name.
func (b *Backend) RemoveEntity(ctx context.Context, kind domain.Kind, name string) error {
	cmd := b.builder.Build(kind.Tag(), []string{name, actionDelete}, nil)
	_, err := b.run(ctx, "remove-entity", kind, name, cmd, false)
	return err
}

// RenameEntity renames an entity. Only the name changes.
func (b *Backend) RenameEntity(ctx context.Context, kind domain.Kind, name, newName string) error {
	cmd := b.builder.Build(kind.Tag(), []string{name, actionMove}, []Arg{{Key: "NAME", Value: newName}})
	_, err := b.run(ctx, "rename-entity", kind, name, cmd, false)
	return err
}

// SetComment replaces the entity's free-text comment.
func (b *Backend) SetComment(ctx context.Context, kind domain.Kind, name, text string) error {
	cmd := b.builder.Build(kind.Tag(), []string{name, actionUpdate}, []Arg{{Key: "COMMENT", Value: text}})
	_, err := b.run(ctx, "set-comment", kind, name, cmd, false)
	return err
}

// SetDescription replaces the entity's free-text description.
func (b *Backend) SetDescription(ctx context.Context, kind domain.Kind, name, text string) error {
	cmd := b.builder.Build(kind.Tag(), []string{name, actionUpdate}, []Arg{{Key: "DESCRIPTION", Value: text}})
	_, err := b.run(ctx, "set-description", kind, name, cmd, false)
	return err
}

// AddRule adds a membership rule to parent. The add-rule verb family can
// report failure on exit code zero via the trailing failure marker, so that
// check is enabled here.
func (b *Backend) AddRule(ctx context.Context, kind domain.Kind, parent, name string, opts domain.RuleOptions) error {
	keyed := []Arg{
		{Key: "RULE", Value: name},
		{Key: "TYPE", Value: ruleTypeToken(opts.Type)},
	}
	if opts.Match != "" {
		keyed = append(keyed, Arg{Key: "MATCH", Value: opts.Match})
	}
	if len(opts.MemberTypes) > 0 {
		keyed = append(keyed, Arg{Key: "MEMBERS", Value: strings.Join(opts.MemberTypes, ",")})
	}
	if opts.SearchBase != "" {
		keyed = append(keyed, Arg{Key: "BASE", Value: opts.SearchBase})
	}
	if opts.Description != "" {
		keyed = append(keyed, Arg{Key: "DESCRIPTION", Value: opts.Description})
	}
	if opts.Comment != "" {
		keyed = append(keyed, Arg{Key: "COMMENT", Value: opts.Comment})
	}
	var flags []string
	if opts.Action == domain.RuleExclude {
		flags = append(flags, "EXCLUDE")
	}
	if opts.Recurse {
		flags = append(flags, "RECURSE")
	}
	if opts.SourceOnly {
		flags = append(flags, "SOURCE")
	}
	if opts.TargetOnly {
		flags = append(flags, "TARGET")
	}
	cmd := b.builder.Build(kind.Tag(), []string{parent, actionAddRule}, keyed, flags...)
	_, err := b.run(ctx, "add-rule", kind, parent, cmd, true)
	return err
}

// RemoveRule removes a rule from parent by exact name.
func (b *Backend) RemoveRule(ctx context.Context, kind domain.Kind, parent, name string) error {
	cmd := b.builder.Build(kind.Tag(), []string{parent, actionDeleteRule}, []Arg{{Key: "RULE", Value: name}})
	_, err := b.run(ctx, "remove-rule", kind, parent, cmd, false)
	return err
}

// RenameRule renames a rule; its type and matching attributes are untouched.
func (b *Backend) RenameRule(ctx context.Context, kind domain.Kind, parent, name, newName string) error {
	cmd := b.builder.Build(kind.Tag(), []string{parent, actionMoveRule}, []Arg{
		{Key: "RULE", Value: name},
		{Key: "NAME", Value: newName},
	})
	_, err := b.run(ctx, "rename-rule", kind, parent, cmd, false)
	return err
}

// SetRuleComment replaces a rule's free-text comment.
func (b *Backend) SetRuleComment(ctx context.Context, kind domain.Kind, parent, name, text string) error {
	cmd := b.builder.Build(kind.Tag(), []string{parent, actionUpdateRule}, []Arg{
		{Key: "RULE", Value: name},
		{Key: "COMMENT", Value: text},
	})
	_, err := b.run(ctx, "set-rule-comment", kind, parent, cmd, false)
	return err
}

// Grant delegates the role's permissions over the view to the admin group.
func (b *Backend) Grant(ctx context.Context, d domain.Delegation) error {
	cmd := b.builder.Build(domain.KindAdminGroup.Tag(), []string{d.AdminGroup, actionGrant}, []Arg{
		{Key: "ROLE", Value: d.Role},
		{Key: "AV", Value: d.ScopedView},
	})
	_, err := b.run(ctx, "grant", domain.KindAdminGroup, d.AdminGroup, cmd, false)
	return err
}

// Revoke removes the delegation triple. A triple that does not exist is
// reported as ObjectNotFound, not as a generic remote failure.
func (b *Backend) Revoke(ctx context.Context, d domain.Delegation) error {
	cmd := b.builder.Build(domain.KindAdminGroup.Tag(), []string{d.AdminGroup, actionRevoke}, []Arg{
		{Key: "ROLE", Value: d.Role},
		{Key: "AV", Value: d.ScopedView},
	})
	_, err := b.run(ctx, "revoke", domain.KindAdminGroup, d.AdminGroup, cmd, false)
	return err
}

// ruleTypeToken maps a rule type to its backend keyword.
func ruleTypeToken(t domain.RuleType) string {
	switch t {
	case domain.RuleMemberOfView:
		return "AVMEMBER"
	case domain.RuleDomainScope:
		return "DOMAIN"
	case domain.RuleGroupScope:
		return "GROUP"
	case domain.RuleOUScope:
		return "OU"
	case domain.RuleUserScope:
		return "USER"
	case domain.RuleNestedGroup:
		return "AGMEMBER"
	}
	return ""
}
