package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

// NotFoundSentinel is the literal line the backend prints in place of a
// record when a requested object does not exist. It appears both in object
// listings and as an indented detail line in rule listings.
const NotFoundSentinel = "Not Found"

// Listing line patterns. These regular expressions ARE the contract with the
// executable backend; changing one without a matching fixture breaks the
// translation layer silently.
var (
	// name<TAB>Comment:"…"<TAB>Description:"…"<TAB>Type:"…"
	entityLine3 = regexp.MustCompile(`^(.+?)\tComment:"(.*)"\tDescription:"(.*)"\tType:"([^"]*)"$`)
	// same, with the trailing Assigned field (AdminGroup and Role)
	entityLine4 = regexp.MustCompile(`^(.+?)\tComment:"(.*)"\tDescription:"(.*)"\tType:"([^"]*)"\tAssigned:"([^"]*)"$`)
	// unindented header opening a rule block: KindLabel 'parent name'
	ruleHeader = regexp.MustCompile(`^(\S+) '(.*)'`)
	// indented detail line: rulename<TAB>Description:"…"<TAB>Comment:"…"
	ruleDetail = regexp.MustCompile(`^[ \t]+(.+?)\tDescription:"(.*)"\tComment:"(.*)"$`)
)

// Field values the backend uses for the builtin and assigned flags.
const (
	typeBuiltin = "Builtin"
	assignedYes = "Yes"
)

// ParseEntities converts an object-listing capture into typed records, one
// line per record. ScopedView lines carry three trailing fields; AdminGroup
// and Role carry four, the fourth being the assigned flag. A sole
// not-found sentinel line yields an empty set, not an error — the caller
// decides whether emptiness means ObjectNotFound.
func ParseEntities(kind domain.Kind, lines []string) ([]domain.Entity, error) {
	pattern := entityLine3
	if kind.HasAssigned() {
		pattern = entityLine4
	}

	var records []domain.Entity
	for _, line := range lines {
		if strings.TrimSpace(line) == "" || strings.TrimSpace(line) == NotFoundSentinel {
			continue
		}
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			// Banners and version-fragile chatter are skipped; only
			// matching lines carry records.
			continue
		}
		rec := domain.Entity{
			Kind:        kind,
			Name:        m[1],
			Comment:     m[2],
			Description: m[3],
			Builtin:     m[4] == typeBuiltin,
		}
		if kind.HasAssigned() {
			rec.Assigned = m[5] == assignedYes
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseRules converts a rule-listing capture into typed records. The layout
// is header/detail: an unindented header line opens a parent block, and each
// indented detail line attaches a rule to the most recently opened parent.
// A detail line equal to the not-found sentinel reports the parent named by
// the preceding header as missing.
func ParseRules(kind domain.Kind, lines []string) ([]domain.Rule, error) {
	var records []domain.Rule
	parent := ""
	sawHeader := false

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indented := line[0] == ' ' || line[0] == '\t'
		if !indented {
			m := ruleHeader.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			parent = m[2]
			sawHeader = true
			continue
		}
		if strings.TrimSpace(line) == NotFoundSentinel {
			if !sawHeader {
				return nil, fmt.Errorf("rule listing: sentinel before any header: %w", domain.ErrNotFound)
			}
			return nil, &domain.OperationError{
				Op:     "get-rules",
				Kind:   kind,
				Target: parent,
				Output: NotFoundSentinel,
				Err:    domain.ErrNotFound,
			}
		}
		m := ruleDetail.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if !sawHeader {
			return nil, fmt.Errorf("rule listing: detail line %q before any header", line)
		}
		records = append(records, domain.Rule{
			Parent:      parent,
			ParentKind:  kind,
			Name:        m[1],
			Description: m[2],
			Comment:     m[3],
		})
	}
	return records, nil
}
