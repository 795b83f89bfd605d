package domain

// RuleType identifies the matching strategy of a membership rule.
// A rule's type is fixed at creation; rename changes only the name.
type RuleType string

const (
	RuleMemberOfView    RuleType = "member-of-view"
	RuleDomainScope     RuleType = "domain"
	RuleGroupScope      RuleType = "group"
	RuleOUScope         RuleType = "organizational-unit"
	RuleUserScope       RuleType = "user"
	RuleNestedGroup     RuleType = "nested-admin-group"
)

// Valid reports whether t names a known rule type.
func (t RuleType) Valid() bool {
	switch t {
	case RuleMemberOfView, RuleDomainScope, RuleGroupScope,
		RuleOUScope, RuleUserScope, RuleNestedGroup:
		return true
	}
	return false
}

// RuleAction selects whether matched objects are included or excluded.
type RuleAction string

const (
	RuleInclude RuleAction = "include"
	RuleExclude RuleAction = "exclude"
)

// MemberTypes are the object classes a scope rule may be restricted to.
var MemberTypes = []string{"user", "group", "computer", "contact", "ou"}

// Rule is a membership rule owned by exactly one ScopedView or AdminGroup.
type Rule struct {
	Parent      string   `json:"parent"`
	ParentKind  Kind     `json:"parent_kind"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Comment     string   `json:"comment"`
	Type        RuleType `json:"type,omitempty"`
}

// RuleOptions carries the type-specific matching attributes supplied when a
// rule is created. Which fields apply depends on the rule type; the rest are
// ignored by the backend.
type RuleOptions struct {
	Type        RuleType   `json:"type"`
	Action      RuleAction `json:"action,omitempty"` // defaults to include
	Match       string     `json:"match,omitempty"`  // wildcard-enabled pattern
	MemberTypes []string   `json:"member_types,omitempty"`
	Recurse     bool       `json:"recurse,omitempty"`
	SourceOnly  bool       `json:"source_only,omitempty"`
	TargetOnly  bool       `json:"target_only,omitempty"`
	SearchBase  string     `json:"search_base,omitempty"` // DN-like path
	Description string     `json:"description,omitempty"`
	Comment     string     `json:"comment,omitempty"`
}

// AddRuleRequest is the request body for adding a rule to an entity.
type AddRuleRequest struct {
	Name    string      `json:"name"`
	Options RuleOptions `json:"options"`
}
