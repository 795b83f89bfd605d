package discovery

import (
	"fmt"
	"strings"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

// Snapshot is an immutable view of one discovery round trip. Servers that
// disappear after discovery are only detected by the next connection
// attempt, not proactively.
type Snapshot struct {
	records   []domain.ServerRecord
	localSite string
}

// NewSnapshot builds a snapshot from discovered records. An empty set is a
// fatal condition at construction time.
func NewSnapshot(records []domain.ServerRecord, localSite string) (*Snapshot, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no delegation servers registered: %w", domain.ErrConnection)
	}
	return &Snapshot{
		records:   append([]domain.ServerRecord(nil), records...),
		localSite: localSite,
	}, nil
}

// Records returns all discovered servers.
func (s *Snapshot) Records() []domain.ServerRecord {
	return append([]domain.ServerRecord(nil), s.records...)
}

// Select returns the servers matching the policy. The primary policy
// requires exactly one primary registration; zero or several is a
// configuration fault.
func (s *Snapshot) Select(policy domain.SelectionPolicy) ([]domain.ServerRecord, error) {
	switch policy {
	case domain.SelectAll:
		return s.Records(), nil
	case domain.SelectSite:
		var matched []domain.ServerRecord
		for _, rec := range s.records {
			if strings.EqualFold(rec.Site, s.localSite) {
				matched = append(matched, rec)
			}
		}
		if len(matched) == 0 {
			return s.Records(), nil
		}
		return matched, nil
	case domain.SelectPrimary:
		primary, err := s.Primary()
		if err != nil {
			return nil, err
		}
		return []domain.ServerRecord{primary}, nil
	default:
		return nil, fmt.Errorf("unknown selection policy %q: %w", policy, domain.ErrValidation)
	}
}

// Primary returns the single primary server. The registration contract
// requires exactly one.
func (s *Snapshot) Primary() (domain.ServerRecord, error) {
	var primaries []domain.ServerRecord
	for _, rec := range s.records {
		if rec.Role == domain.ServerPrimary {
			primaries = append(primaries, rec)
		}
	}
	switch len(primaries) {
	case 1:
		return primaries[0], nil
	case 0:
		return domain.ServerRecord{}, fmt.Errorf("no primary server registered among %d entries", len(s.records))
	default:
		return domain.ServerRecord{}, fmt.Errorf("%d servers registered as primary, want exactly one", len(primaries))
	}
}
