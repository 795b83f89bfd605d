package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

// fakeResultSet is a strict cursor over canned rows. It fails the test if a
// caller reads columns out of order or advances more than once per row.
type fakeResultSet struct {
	t         *testing.T
	rows      [][]any
	lastError uint32

	row     int
	nextCol int
}

func (f *fakeResultSet) Rows() int         { return len(f.rows) }
func (f *fakeResultSet) Columns() int      { return len(f.rows[0]) }
func (f *fakeResultSet) LastError() uint32 { return f.lastError }

func (f *fakeResultSet) Fetch(col int) (any, error) {
	if f.row >= len(f.rows) {
		f.t.Fatalf("Fetch(%d) past final row", col)
	}
	if col < f.nextCol {
		f.t.Fatalf("Fetch(%d) after column %d: cursor reads must be left-to-right", col, f.nextCol-1)
	}
	f.nextCol = col + 1
	return f.rows[f.row][col], nil
}

func (f *fakeResultSet) Advance() error {
	if f.row >= len(f.rows) {
		f.t.Fatal("Advance past final row")
	}
	f.row++
	f.nextCol = 0
	return nil
}

type fakeDispatcher struct {
	result ResultSet
	err    error

	server string
	params *ParameterSet
}

func (f *fakeDispatcher) Submit(_ context.Context, server string, params *ParameterSet) (ResultSet, error) {
	f.server = server
	f.params = params
	return f.result, f.err
}

func TestEnumerateEntitiesFourColumns(t *testing.T) {
	rs := &fakeResultSet{
		t: t,
		rows: [][]any{
			{"Finance", "", "", true},
		},
	}
	d := &fakeDispatcher{result: rs}
	g := New(d, "DS01")

	got, err := g.EnumerateEntities(context.Background(), domain.KindAdminGroup, "Finance", Reporting)
	if err != nil {
		t.Fatalf("EnumerateEntities: %v", err)
	}
	want := []domain.Entity{
		{Kind: domain.KindAdminGroup, Name: "Finance", Builtin: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entities mismatch (-want +got):\n%s", diff)
	}
	if got[0].Assigned {
		t.Error("four-column result must not populate the assigned flag")
	}
	if d.server != "DS01" {
		t.Errorf("dispatched to %q, want DS01", d.server)
	}
}

func TestEnumerateEntitiesFiveColumns(t *testing.T) {
	rs := &fakeResultSet{
		t: t,
		rows: [][]any{
			{"Helpdesk", "Tier 1", "rotates weekly", "False", "True"},
			{"Builtin Admins", "", "", true, false},
		},
	}
	g := New(&fakeDispatcher{result: rs}, "DS01")

	got, err := g.EnumerateEntities(context.Background(), domain.KindRole, "*", Silent)
	if err != nil {
		t.Fatalf("EnumerateEntities: %v", err)
	}
	want := []domain.Entity{
		{Kind: domain.KindRole, Name: "Helpdesk", Description: "Tier 1", Comment: "rotates weekly", Assigned: true},
		{Kind: domain.KindRole, Name: "Builtin Admins", Builtin: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entities mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumerateEntitiesEmptyModes(t *testing.T) {
	t.Run("silent", func(t *testing.T) {
		rs := &fakeResultSet{t: t, rows: nil}
		g := New(&fakeDispatcher{result: rs}, "DS01")
		got, err := g.EnumerateEntities(context.Background(), domain.KindScopedView, "Ghost", Silent)
		if err != nil {
			t.Fatalf("EnumerateEntities: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d entities, want none", len(got))
		}
	})

	t.Run("reporting", func(t *testing.T) {
		rs := &fakeResultSet{t: t, rows: nil}
		g := New(&fakeDispatcher{result: rs}, "DS01")
		_, err := g.EnumerateEntities(context.Background(), domain.KindScopedView, "Ghost", Reporting)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
		var opErr *domain.OperationError
		if !errors.As(err, &opErr) {
			t.Fatalf("got %T, want *domain.OperationError", err)
		}
		if opErr.Target != "Ghost" {
			t.Errorf("target = %q, want Ghost", opErr.Target)
		}
	})
}

func TestEnumerateEntitiesParameters(t *testing.T) {
	rs := &fakeResultSet{t: t, rows: nil}
	d := &fakeDispatcher{result: rs}
	g := New(d, "DS01")

	if _, err := g.EnumerateEntities(context.Background(), domain.KindAdminGroup, "HR (east)*", Silent); err != nil {
		t.Fatalf("EnumerateEntities: %v", err)
	}

	if got := d.params.Operation(); got != OpEnumerateAdminGroups {
		t.Errorf("operation = %q, want %q", got, OpEnumerateAdminGroups)
	}
	container, _ := d.params.Get("Container")
	if container != "AdminGroups" {
		t.Errorf("container = %v, want AdminGroups", container)
	}
	filter, _ := d.params.Get("Filter")
	if filter != `(Name=HR \28east\29*)` {
		t.Errorf("filter = %v, want literal fragments escaped with wildcard intact", filter)
	}
}

func TestSubmitDispatcherFailure(t *testing.T) {
	g := New(&fakeDispatcher{err: errors.New("class not registered")}, "DS01")

	_, err := g.EnumeratePowers(context.Background())
	if !errors.Is(err, domain.ErrConnection) {
		t.Fatalf("got %v, want ErrConnection", err)
	}
	if !strings.Contains(err.Error(), "class not registered") {
		t.Errorf("error %q should carry the dispatcher failure", err)
	}
}

func TestSubmitRemoteStatus(t *testing.T) {
	rs := &fakeResultSet{t: t, rows: nil, lastError: 0x80070005}
	g := New(&fakeDispatcher{result: rs}, "DS01")

	_, err := g.EnumeratePowers(context.Background())
	if !errors.Is(err, domain.ErrRemoteOperation) {
		t.Fatalf("got %v, want ErrRemoteOperation", err)
	}
	var opErr *domain.OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("got %T, want *domain.OperationError", err)
	}
	if opErr.Code != 0x80070005 {
		t.Errorf("code = %08x, want 80070005", opErr.Code)
	}
	if !strings.Contains(err.Error(), "80070005") {
		t.Errorf("error %q should render the code as eight hex digits", err)
	}
}

func TestEnumerateDelegations(t *testing.T) {
	rs := &fakeResultSet{
		t: t,
		rows: [][]any{
			{"Helpdesk Admins", "Reset Passwords", "Sales"},
			{"Helpdesk Admins", "Unlock Accounts", "Sales"},
		},
	}
	d := &fakeDispatcher{result: rs}
	g := New(d, "DS01")

	got, err := g.EnumerateDelegations(context.Background(), "Helpdesk Admins")
	if err != nil {
		t.Fatalf("EnumerateDelegations: %v", err)
	}
	want := []domain.Delegation{
		{AdminGroup: "Helpdesk Admins", Role: "Reset Passwords", ScopedView: "Sales"},
		{AdminGroup: "Helpdesk Admins", Role: "Unlock Accounts", ScopedView: "Sales"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("delegations mismatch (-want +got):\n%s", diff)
	}
	container, _ := d.params.Get("Container")
	if container != "Delegations/Helpdesk Admins" {
		t.Errorf("container = %v", container)
	}
}

func TestEnumerateDelegationsEmpty(t *testing.T) {
	rs := &fakeResultSet{t: t, rows: nil}
	g := New(&fakeDispatcher{result: rs}, "DS01")

	got, err := g.EnumerateDelegations(context.Background(), "Idle Group")
	if err != nil {
		t.Fatalf("EnumerateDelegations: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d delegations, want none", len(got))
	}
}

func TestEnumeratePowers(t *testing.T) {
	rs := &fakeResultSet{
		t: t,
		rows: [][]any{
			{"Reset Password", "Resets a user password"},
			{"Unlock Account", "Clears the lockout flag"},
		},
	}
	g := New(&fakeDispatcher{result: rs}, "DS01")

	got, err := g.EnumeratePowers(context.Background())
	if err != nil {
		t.Fatalf("EnumeratePowers: %v", err)
	}
	want := []domain.Power{
		{Name: "Reset Password", Description: "Resets a user password"},
		{Name: "Unlock Account", Description: "Clears the lockout flag"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("powers mismatch (-want +got):\n%s", diff)
	}
}

func TestEscapeFilterPattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sales", "Sales"},
		{"Sales*", "Sales*"},
		{"S?les*", "S?les*"},
		{"HR (east)", `HR \28east\29`},
		{"a*b(c)*", `a*b\28c\29*`},
		{"*", "*"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := EscapeFilterPattern(tc.in); got != tc.want {
			t.Errorf("EscapeFilterPattern(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapePath(t *testing.T) {
	if got := EscapePath("Smith, Jane"); got != `Smith\, Jane` {
		t.Errorf("EscapePath = %q", got)
	}
}

func TestParameterSetKeysOrdered(t *testing.T) {
	p := NewParameterSet()
	p.SetOperation(OpEnumerateRoles)
	p.SetHints([]string{"Name"})
	p.SetContainer("Roles")
	p.SetFilter("(Name=*)")
	p.SetOperation(OpEnumeratePowers) // overwrite keeps position

	want := []string{"OperationName", "Hints", "Container", "Filter"}
	if diff := cmp.Diff(want, p.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if p.Operation() != OpEnumeratePowers {
		t.Errorf("operation = %q", p.Operation())
	}
}

func TestMaterializeEntitiesStringBooleans(t *testing.T) {
	for _, raw := range []any{"True", "true", true, 1} {
		rs := &fakeResultSet{t: t, rows: [][]any{{"X", "", "", raw}}}
		got, err := MaterializeEntities(rs, domain.KindScopedView, Silent, "X")
		if err != nil {
			t.Fatalf("MaterializeEntities(%v): %v", raw, err)
		}
		if !got[0].Builtin {
			t.Errorf("builtin flag not set for raw value %v (%T)", raw, raw)
		}
	}
	rs := &fakeResultSet{t: t, rows: [][]any{{"X", nil, nil, "False"}}}
	got, err := MaterializeEntities(rs, domain.KindScopedView, Silent, "X")
	if err != nil {
		t.Fatalf("MaterializeEntities: %v", err)
	}
	if got[0].Builtin || got[0].Description != "" || got[0].Comment != "" {
		t.Errorf("unexpected record %+v", got[0])
	}
}

func TestMaterializeEntitiesManyRows(t *testing.T) {
	var rows [][]any
	for i := 0; i < 50; i++ {
		rows = append(rows, []any{fmt.Sprintf("View %02d", i), "", "", false})
	}
	rs := &fakeResultSet{t: t, rows: rows}
	got, err := MaterializeEntities(rs, domain.KindScopedView, Silent, "*")
	if err != nil {
		t.Fatalf("MaterializeEntities: %v", err)
	}
	if len(got) != 50 {
		t.Fatalf("got %d records, want 50", len(got))
	}
	if got[49].Name != "View 49" {
		t.Errorf("last record %+v", got[49])
	}
}
