package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

// fakeInvoker returns canned output and records the command it was given.
type fakeInvoker struct {
	code  int
	lines []string
	got   *Command
}

func (f *fakeInvoker) Run(ctx context.Context, cmd *Command) (int, []string) {
	f.got = cmd
	return f.code, f.lines
}

func TestCreateEntityCommandShape(t *testing.T) {
	inv := &fakeInvoker{}
	b := NewWithInvoker(inv, "")

	err := b.CreateEntity(context.Background(), domain.KindScopedView, domain.CreateEntityRequest{
		Name:        "Sales",
		Description: "Sales dept",
		Comment:     "Q1 team",
	})
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}

	want := `/NOCR /NOLOGO /MASTER AV Sales CREATE "DESCRIPTION:Sales dept" "COMMENT:Q1 team"`
	if got := inv.got.CommandLine(); got != want {
		t.Errorf("command line = %q, want %q", got, want)
	}
}

func TestRunNonzeroExitIsRemoteOperationError(t *testing.T) {
	inv := &fakeInvoker{code: 2, lines: []string{"The operation could not be completed."}}
	b := NewWithInvoker(inv, "")

	err := b.RemoveEntity(context.Background(), domain.KindAdminGroup, "Finance")
	if !errors.Is(err, domain.ErrRemoteOperation) {
		t.Fatalf("error = %v, want ErrRemoteOperation", err)
	}

	var opErr *domain.OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("error is not an OperationError: %v", err)
	}
	if opErr.Code != 2 {
		t.Errorf("code = %d, want 2", opErr.Code)
	}
	// Backend failure text must survive verbatim.
	if opErr.Output != "The operation could not be completed." {
		t.Errorf("output = %q", opErr.Output)
	}
	if !strings.Contains(opErr.Error(), "00000002") {
		t.Errorf("message %q does not render the code as 8-digit hex", opErr.Error())
	}
}

func TestRunNotFoundSentinelOnNonzeroExit(t *testing.T) {
	inv := &fakeInvoker{code: 1, lines: []string{"Not Found"}}
	b := NewWithInvoker(inv, "")

	err := b.Revoke(context.Background(), domain.Delegation{
		AdminGroup: "Finance", Role: "Reset Passwords", ScopedView: "Sales",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestRunSpawnFailureIsConnectionError(t *testing.T) {
	inv := &fakeInvoker{code: SpawnFailureCode, lines: []string{"fork/exec /x: no such file or directory"}}
	b := NewWithInvoker(inv, "")

	err := b.RemoveEntity(context.Background(), domain.KindRole, "Auditor")
	if !errors.Is(err, domain.ErrConnection) {
		t.Fatalf("error = %v, want ErrConnection", err)
	}
}

func TestAddRuleFailedMarkerOnExitZero(t *testing.T) {
	inv := &fakeInvoker{code: 0, lines: []string{"Adding rule west-users... Failed"}}
	b := NewWithInvoker(inv, "")

	err := b.AddRule(context.Background(), domain.KindScopedView, "Sales", "west-users", domain.RuleOptions{
		Type:  domain.RuleOUScope,
		Match: "OU=West*",
	})
	if !errors.Is(err, domain.ErrRemoteOperation) {
		t.Fatalf("error = %v, want ErrRemoteOperation", err)
	}

	var opErr *domain.OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("error is not an OperationError: %v", err)
	}
	if opErr.Output != "Adding rule west-users... Failed" {
		t.Errorf("output = %q, want the marker line verbatim", opErr.Output)
	}
}

func TestAddRuleCommandShape(t *testing.T) {
	inv := &fakeInvoker{}
	b := NewWithInvoker(inv, "dlg-east-01")

	err := b.AddRule(context.Background(), domain.KindAdminGroup, "Helpdesk", "tier1", domain.RuleOptions{
		Type:        domain.RuleGroupScope,
		Match:       "HD-*",
		MemberTypes: []string{"user", "group"},
		Action:      domain.RuleExclude,
		Recurse:     true,
		SearchBase:  "OU=Support,DC=corp,DC=example,DC=com",
	})
	if err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}

	want := `/NOCR /NOLOGO /SERVER:dlg-east-01 AG Helpdesk ADDRULE RULE:tier1 TYPE:GROUP MATCH:HD-* MEMBERS:user,group BASE:OU=Support,DC=corp,DC=example,DC=com EXCLUDE RECURSE`
	if got := inv.got.CommandLine(); got != want {
		t.Errorf("command line = %q, want %q", got, want)
	}
}

func TestGrantCommandShape(t *testing.T) {
	inv := &fakeInvoker{}
	b := NewWithInvoker(inv, "")

	err := b.Grant(context.Background(), domain.Delegation{
		AdminGroup: "Finance", Role: "Reset Passwords", ScopedView: "Sales",
	})
	if err != nil {
		t.Fatalf("Grant() error = %v", err)
	}

	want := `/NOCR /NOLOGO /MASTER AG Finance GRANT "ROLE:Reset Passwords" AV:Sales`
	if got := inv.got.CommandLine(); got != want {
		t.Errorf("command line = %q, want %q", got, want)
	}
}
