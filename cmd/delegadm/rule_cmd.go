package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

// newRuleCmd builds the membership-rule command family nested under a
// ScopedView or AdminGroup command.
func newRuleCmd(kind domain.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Manage membership rules",
	}

	cmd.AddCommand(newRuleListCmd(kind))
	cmd.AddCommand(newRuleAddCmd(kind))
	cmd.AddCommand(newRuleRemoveCmd(kind))
	cmd.AddCommand(newRuleRenameCmd(kind))
	cmd.AddCommand(newRuleCommentCmd(kind))

	return cmd
}

func newRuleListCmd(kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "list <parent> [pattern]",
		Short: "List the rules of the parent entity",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			pattern := ""
			if len(args) == 2 {
				pattern = args[1]
			}
			rules, err := a.svc.GetRules(cmd.Context(), kind, args[0], pattern)
			if err != nil {
				return err
			}
			return render(cmd, rules, printRuleTable)
		},
	}
}

func newRuleAddCmd(kind domain.Kind) *cobra.Command {
	var (
		ruleType    string
		action      string
		match       string
		memberTypes []string
		recurse     bool
		sourceOnly  bool
		targetOnly  bool
		searchBase  string
		description string
		comment     string
	)

	cmd := &cobra.Command{
		Use:   "add <parent> <name>",
		Short: "Add a rule to the parent entity",
		Long: `Adds a membership rule. The rule type fixes which matching attributes
apply: scope rules take a wildcard match pattern and member types,
organizational-unit rules take a search base, nested rules name another
admin group.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := domain.RuleOptions{
				Type:        domain.RuleType(ruleType),
				Action:      domain.RuleAction(action),
				Match:       match,
				MemberTypes: memberTypes,
				Recurse:     recurse,
				SourceOnly:  sourceOnly,
				TargetOnly:  targetOnly,
				SearchBase:  searchBase,
				Description: description,
				Comment:     comment,
			}
			if err := a.svc.AddRule(cmd.Context(), kind, args[0], args[1], opts); err != nil {
				return err
			}
			fmt.Printf("Added rule %q to %s %q\n", args[1], kind, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&ruleType, "type", "", "Rule type (member-of-view, domain, group, organizational-unit, user, nested-admin-group)")
	cmd.Flags().StringVar(&action, "action", "", "Rule action (include, exclude; default include)")
	cmd.Flags().StringVar(&match, "match", "", "Wildcard pattern the rule matches against")
	cmd.Flags().StringSliceVar(&memberTypes, "member-types", nil, "Object classes the rule is restricted to")
	cmd.Flags().BoolVar(&recurse, "recurse", false, "Match through nested group membership")
	cmd.Flags().BoolVar(&sourceOnly, "source-only", false, "Match the source object only")
	cmd.Flags().BoolVar(&targetOnly, "target-only", false, "Match the target objects only")
	cmd.Flags().StringVar(&searchBase, "search-base", "", "Search base path for organizational-unit rules")
	cmd.Flags().StringVar(&description, "description", "", "Rule description")
	cmd.Flags().StringVar(&comment, "comment", "", "Rule comment")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newRuleRemoveCmd(kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <parent> <name>",
		Short: "Remove a rule from the parent entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.RemoveRule(cmd.Context(), kind, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Removed rule %q from %s %q\n", args[1], kind, args[0])
			return nil
		},
	}
}

func newRuleRenameCmd(kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <parent> <name> <new-name>",
		Short: "Rename a rule; its type and matching attributes are unchanged",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.svc.RenameRule(cmd.Context(), kind, args[0], args[1], args[2])
		},
	}
}

func newRuleCommentCmd(kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <parent> <name> <text>...",
		Short: "Replace a rule's comment",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.svc.SetRuleComment(cmd.Context(), kind, args[0], args[1], joinArgs(args[2:]))
		},
	}
}
