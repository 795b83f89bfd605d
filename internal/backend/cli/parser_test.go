package cli

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

func TestParseEntitiesScopedView(t *testing.T) {
	lines := []string{
		"Sales\tComment:\"Q1 team\"\tDescription:\"Sales dept\"\tType:\"Custom\"",
		"All Objects\tComment:\"\"\tDescription:\"Everything\"\tType:\"Builtin\"",
	}

	got, err := ParseEntities(domain.KindScopedView, lines)
	if err != nil {
		t.Fatalf("ParseEntities() error = %v", err)
	}

	want := []domain.Entity{
		{Kind: domain.KindScopedView, Name: "Sales", Comment: "Q1 team", Description: "Sales dept", Builtin: false},
		{Kind: domain.KindScopedView, Name: "All Objects", Comment: "", Description: "Everything", Builtin: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEntitiesAdminGroupAssigned(t *testing.T) {
	lines := []string{
		"Finance\tComment:\"\"\tDescription:\"\"\tType:\"Custom\"\tAssigned:\"Yes\"",
		"Helpdesk\tComment:\"tier 1\"\tDescription:\"\"\tType:\"Custom\"\tAssigned:\"No\"",
	}

	got, err := ParseEntities(domain.KindAdminGroup, lines)
	if err != nil {
		t.Fatalf("ParseEntities() error = %v", err)
	}

	want := []domain.Entity{
		{Kind: domain.KindAdminGroup, Name: "Finance", Builtin: false, Assigned: true},
		{Kind: domain.KindAdminGroup, Name: "Helpdesk", Comment: "tier 1", Builtin: false, Assigned: false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEntitiesRole(t *testing.T) {
	lines := []string{
		"Reset Passwords\tComment:\"\"\tDescription:\"built in\"\tType:\"Builtin\"\tAssigned:\"Yes\"",
	}

	got, err := ParseEntities(domain.KindRole, lines)
	if err != nil {
		t.Fatalf("ParseEntities() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if !got[0].Builtin || !got[0].Assigned {
		t.Errorf("record = %+v, want builtin and assigned", got[0])
	}
}

func TestParseEntitiesSkipsChatterAndSentinel(t *testing.T) {
	lines := []string{
		"",
		"Not Found",
	}
	got, err := ParseEntities(domain.KindScopedView, lines)
	if err != nil {
		t.Fatalf("ParseEntities() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records, want 0", len(got))
	}
}

func TestParseRules(t *testing.T) {
	lines := []string{
		"ScopedView 'Sales'",
		"  west-users\tDescription:\"users in west OU\"\tComment:\"\"",
		"  east-users\tDescription:\"\"\tComment:\"added 2024\"",
		"ScopedView 'Ops'",
		"  all-servers\tDescription:\"\"\tComment:\"\"",
	}

	got, err := ParseRules(domain.KindScopedView, lines)
	if err != nil {
		t.Fatalf("ParseRules() error = %v", err)
	}

	want := []domain.Rule{
		{Parent: "Sales", ParentKind: domain.KindScopedView, Name: "west-users", Description: "users in west OU"},
		{Parent: "Sales", ParentKind: domain.KindScopedView, Name: "east-users", Comment: "added 2024"},
		{Parent: "Ops", ParentKind: domain.KindScopedView, Name: "all-servers"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRulesNotFoundSentinel(t *testing.T) {
	lines := []string{
		"AdminGroup 'Ghost'",
		"  Not Found",
	}

	_, err := ParseRules(domain.KindAdminGroup, lines)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ParseRules() error = %v, want ErrNotFound", err)
	}

	var opErr *domain.OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("error is not an OperationError: %v", err)
	}
	if opErr.Target != "Ghost" {
		t.Errorf("error target = %q, want %q", opErr.Target, "Ghost")
	}
}

func TestParseRulesDetailBeforeHeader(t *testing.T) {
	lines := []string{
		"  orphan\tDescription:\"\"\tComment:\"\"",
	}
	if _, err := ParseRules(domain.KindScopedView, lines); err == nil {
		t.Error("ParseRules() expected error for detail before header, got nil")
	}
}
