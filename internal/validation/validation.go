// Package validation provides pre-call validation for delegation entity
// names and rule options. Validation always runs before any backend call is
// attempted; a bad name must never reach the command line or a filter
// expression.
package validation

import (
	"fmt"
	"strings"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

// forbiddenChars are rejected in every entity and rule name.
const forbiddenChars = `$#%\`

// wildcardChars are additionally rejected outside wildcard contexts.
const wildcardChars = `?*`

// ValidateName validates an entity or rule name in a non-wildcard context.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if i := strings.IndexAny(name, forbiddenChars); i >= 0 {
		return fmt.Errorf("name contains forbidden character %q", name[i])
	}
	if i := strings.IndexAny(name, wildcardChars); i >= 0 {
		return fmt.Errorf("name contains wildcard character %q", name[i])
	}
	return nil
}

// ValidatePattern validates a name in a wildcard context: ? and * are
// allowed, the forbidden set is not.
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("pattern must not be empty")
	}
	if i := strings.IndexAny(pattern, forbiddenChars); i >= 0 {
		return fmt.Errorf("pattern contains forbidden character %q", pattern[i])
	}
	return nil
}

// IsWildcard reports whether the pattern contains wildcard characters,
// i.e. whether it can match more than one name.
func IsWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, wildcardChars)
}

// memberTypeSet is the allowed set for rule member-type filters.
var memberTypeSet = func() map[string]bool {
	m := make(map[string]bool, len(domain.MemberTypes))
	for _, t := range domain.MemberTypes {
		m[t] = true
	}
	return m
}()

// ValidateRuleOptions validates the type-specific options supplied when a
// rule is created.
func ValidateRuleOptions(opts domain.RuleOptions) error {
	if !opts.Type.Valid() {
		return fmt.Errorf("invalid rule type: %s", opts.Type)
	}
	if opts.Action != "" && opts.Action != domain.RuleInclude && opts.Action != domain.RuleExclude {
		return fmt.Errorf("invalid rule action: %s", opts.Action)
	}
	for _, t := range opts.MemberTypes {
		if !memberTypeSet[t] {
			return fmt.Errorf("invalid member type: %s", t)
		}
	}
	if opts.Match != "" {
		if err := ValidatePattern(opts.Match); err != nil {
			return fmt.Errorf("invalid match pattern: %w", err)
		}
	}
	switch opts.Type {
	case domain.RuleMemberOfView, domain.RuleNestedGroup:
		// These reference another entity by exact name.
		if opts.Match == "" {
			return fmt.Errorf("rule type %s requires a match name", opts.Type)
		}
		if err := ValidateName(opts.Match); err != nil {
			return fmt.Errorf("invalid referenced name: %w", err)
		}
	}
	return nil
}

// ValidateKind validates an entity kind.
func ValidateKind(kind domain.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("invalid entity kind: %s", kind)
	}
	return nil
}
