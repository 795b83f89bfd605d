package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/google/go-cmp/cmp"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

type fakeSearcher struct {
	result *ldap.SearchResult
	err    error

	req *ldap.SearchRequest
}

func (f *fakeSearcher) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	f.req = req
	return f.result, f.err
}

func registrationEntry(name string, keywords ...string) *ldap.Entry {
	return &ldap.Entry{
		DN: "CN=" + name + ",CN=DelegationServers,CN=System,DC=corp,DC=example,DC=com",
		Attributes: []*ldap.EntryAttribute{
			{Name: "name", Values: []string{name}},
			{Name: "keywords", Values: keywords},
		},
	}
}

func newTestResolver(cfg Config, s Searcher, dialErr error) *Resolver {
	return NewWithSearcher(cfg, func(context.Context) (Searcher, func(), error) {
		if dialErr != nil {
			return nil, nil, dialErr
		}
		return s, func() {}, nil
	})
}

func TestDiscoverDecodesRegistrations(t *testing.T) {
	searcher := &fakeSearcher{
		result: &ldap.SearchResult{
			Entries: []*ldap.Entry{
				registrationEntry("DS01",
					"Domain=corp.example.com",
					"Forest=example.com",
					"Site=HQ",
					"Type=Primary",
					"Version=8.1"),
				registrationEntry("DS02",
					"Domain=corp.example.com",
					"Forest=example.com",
					"Site=Branch",
					"Type=Server",
					"Version=8.1"),
			},
		},
	}
	r := newTestResolver(Config{BaseDN: "CN=DelegationServers,CN=System,DC=corp,DC=example,DC=com", LocalSite: "HQ"}, searcher, nil)

	snap, err := r.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []domain.ServerRecord{
		{Name: "DS01", Domain: "corp.example.com", Forest: "example.com", Site: "HQ", Role: domain.ServerPrimary, Version: "8.1"},
		{Name: "DS02", Domain: "corp.example.com", Forest: "example.com", Site: "Branch", Role: domain.ServerSecondary, Version: "8.1"},
	}
	if diff := cmp.Diff(want, snap.Records()); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if searcher.req.BaseDN != "CN=DelegationServers,CN=System,DC=corp,DC=example,DC=com" {
		t.Errorf("searched %q", searcher.req.BaseDN)
	}
	if searcher.req.Scope != ldap.ScopeSingleLevel {
		t.Errorf("scope = %d, want single level", searcher.req.Scope)
	}
}

func TestDiscoverEmptyResultIsError(t *testing.T) {
	r := newTestResolver(Config{BaseDN: "CN=DelegationServers"}, &fakeSearcher{result: &ldap.SearchResult{}}, nil)

	_, err := r.Discover(context.Background())
	if !errors.Is(err, domain.ErrConnection) {
		t.Fatalf("got %v, want ErrConnection", err)
	}
}

func TestDiscoverDialFailure(t *testing.T) {
	r := newTestResolver(Config{}, nil, errors.New("connection refused"))

	_, err := r.Discover(context.Background())
	if !errors.Is(err, domain.ErrConnection) {
		t.Fatalf("got %v, want ErrConnection", err)
	}
}

func TestDiscoverIgnoresMalformedKeywords(t *testing.T) {
	searcher := &fakeSearcher{
		result: &ldap.SearchResult{
			Entries: []*ldap.Entry{
				registrationEntry("DS01", "Type=Primary", "no separator", "Extra=ignored", " site = HQ "),
			},
		},
	}
	r := newTestResolver(Config{}, searcher, nil)

	snap, err := r.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	got := snap.Records()[0]
	if got.Role != domain.ServerPrimary || got.Site != "HQ" {
		t.Errorf("record %+v", got)
	}
}

func newSnapshot(t *testing.T, localSite string, records ...domain.ServerRecord) *Snapshot {
	t.Helper()
	snap, err := NewSnapshot(records, localSite)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return snap
}

func TestSnapshotSelect(t *testing.T) {
	ds01 := domain.ServerRecord{Name: "DS01", Site: "HQ", Role: domain.ServerPrimary}
	ds02 := domain.ServerRecord{Name: "DS02", Site: "Branch", Role: domain.ServerSecondary}
	ds03 := domain.ServerRecord{Name: "DS03", Site: "Branch", Role: domain.ServerSecondary}

	tests := []struct {
		name      string
		localSite string
		policy    domain.SelectionPolicy
		want      []string
	}{
		{"all", "HQ", domain.SelectAll, []string{"DS01", "DS02", "DS03"}},
		{"site match", "Branch", domain.SelectSite, []string{"DS02", "DS03"}},
		{"site case insensitive", "branch", domain.SelectSite, []string{"DS02", "DS03"}},
		{"site fallback to full set", "Remote", domain.SelectSite, []string{"DS01", "DS02", "DS03"}},
		{"primary", "HQ", domain.SelectPrimary, []string{"DS01"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap := newSnapshot(t, tc.localSite, ds01, ds02, ds03)
			got, err := snap.Select(tc.policy)
			if err != nil {
				t.Fatalf("Select(%s): %v", tc.policy, err)
			}
			var names []string
			for _, rec := range got {
				names = append(names, rec.Name)
			}
			if diff := cmp.Diff(tc.want, names); diff != "" {
				t.Errorf("selection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSnapshotPrimaryFaults(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		snap := newSnapshot(t, "", domain.ServerRecord{Name: "DS02", Role: domain.ServerSecondary})
		if _, err := snap.Primary(); err == nil {
			t.Fatal("want error for zero primaries")
		}
	})
	t.Run("several", func(t *testing.T) {
		snap := newSnapshot(t, "",
			domain.ServerRecord{Name: "DS01", Role: domain.ServerPrimary},
			domain.ServerRecord{Name: "DS04", Role: domain.ServerPrimary})
		if _, err := snap.Primary(); err == nil {
			t.Fatal("want error for multiple primaries")
		}
	})
}

func TestSnapshotEmptyIsError(t *testing.T) {
	if _, err := NewSnapshot(nil, "HQ"); !errors.Is(err, domain.ErrConnection) {
		t.Fatalf("got %v, want ErrConnection", err)
	}
}

func TestSnapshotUnknownPolicy(t *testing.T) {
	snap := newSnapshot(t, "", domain.ServerRecord{Name: "DS01", Role: domain.ServerPrimary})
	if _, err := snap.Select("random"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}
