package validation

import (
	"testing"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"simple name", "Sales", false},
		{"name with space", "Sales West", false},
		{"name with punctuation", "Sales (EMEA)", false},
		{"empty", "", true},
		{"dollar sign", "Sales$", true},
		{"hash", "Sales#1", true},
		{"percent", "100%Sales", true},
		{"backslash", `DOMAIN\Sales`, true},
		{"question mark", "Sales?", true},
		{"asterisk", "Sales*", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"plain name", "Sales", false},
		{"trailing wildcard", "Sales*", false},
		{"single-char wildcard", "Sales-?", false},
		{"match all", "*", false},
		{"empty", "", true},
		{"dollar sign", "Sales$*", true},
		{"backslash", `Sales\*`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePattern(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePattern(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestIsWildcard(t *testing.T) {
	tests := []struct {
		pattern string
		want    bool
	}{
		{"Sales", false},
		{"Sales*", true},
		{"S?les", true},
		{"*", true},
	}

	for _, tt := range tests {
		if got := IsWildcard(tt.pattern); got != tt.want {
			t.Errorf("IsWildcard(%q) = %v, want %v", tt.pattern, got, tt.want)
		}
	}
}

func TestValidateRuleOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    domain.RuleOptions
		wantErr bool
	}{
		{
			"ou scope with match",
			domain.RuleOptions{Type: domain.RuleOUScope, Match: "Accounting*", Recurse: true},
			false,
		},
		{
			"group scope with member types",
			domain.RuleOptions{Type: domain.RuleGroupScope, Match: "Dom*", MemberTypes: []string{"user", "group"}},
			false,
		},
		{
			"member-of-view referencing exact name",
			domain.RuleOptions{Type: domain.RuleMemberOfView, Match: "Sales"},
			false,
		},
		{
			"exclude action",
			domain.RuleOptions{Type: domain.RuleUserScope, Match: "tmp-*", Action: domain.RuleExclude},
			false,
		},
		{
			"unknown type",
			domain.RuleOptions{Type: "bogus"},
			true,
		},
		{
			"unknown action",
			domain.RuleOptions{Type: domain.RuleUserScope, Action: "drop"},
			true,
		},
		{
			"member type outside allowed set",
			domain.RuleOptions{Type: domain.RuleGroupScope, MemberTypes: []string{"printer"}},
			true,
		},
		{
			"forbidden char in match",
			domain.RuleOptions{Type: domain.RuleUserScope, Match: `a\b`},
			true,
		},
		{
			"member-of-view without match",
			domain.RuleOptions{Type: domain.RuleMemberOfView},
			true,
		},
		{
			"member-of-view with wildcard match",
			domain.RuleOptions{Type: domain.RuleMemberOfView, Match: "Sales*"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRuleOptions(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRuleOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateKind(t *testing.T) {
	for _, kind := range []domain.Kind{domain.KindScopedView, domain.KindAdminGroup, domain.KindRole} {
		if err := ValidateKind(kind); err != nil {
			t.Errorf("ValidateKind(%q) unexpected error: %v", kind, err)
		}
	}
	if err := ValidateKind("printer"); err == nil {
		t.Error("ValidateKind(printer) expected error, got nil")
	}
}
