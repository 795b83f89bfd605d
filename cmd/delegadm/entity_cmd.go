package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

// newEntityCmd builds the command family for one entity kind. Roles are
// server-defined: they can be listed and annotated but never created or
// deleted, and carry no membership rules.
func newEntityCmd(use, short string, kind domain.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	cmd.AddCommand(newEntityListCmd(kind))
	cmd.AddCommand(newEntityShowCmd(kind))
	cmd.AddCommand(newEntityRenameCmd(kind))
	cmd.AddCommand(newEntityCommentCmd(kind))
	cmd.AddCommand(newEntityDescribeCmd(kind))
	if kind != domain.KindRole {
		cmd.AddCommand(newEntityCreateCmd(kind))
		cmd.AddCommand(newEntityDeleteCmd(kind))
		cmd.AddCommand(newRuleCmd(kind))
	}

	return cmd
}

func newEntityListCmd(kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "list [pattern]",
		Short: "List entities matching the pattern (default all)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}
			entities, err := a.svc.GetEntities(cmd.Context(), kind, pattern)
			if err != nil {
				return err
			}
			return render(cmd, entities, printEntityTable)
		},
	}
}

func newEntityShowCmd(kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one entity by exact name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			entities, err := a.svc.GetEntities(cmd.Context(), kind, args[0])
			if err != nil {
				return err
			}
			if len(entities) == 0 {
				return fmt.Errorf("%s not found", args[0])
			}
			if outputFormat(cmd) == "json" {
				return printJSON(os.Stdout, entities[0])
			}
			printEntityTable(os.Stdout, entities[:1])
			return nil
		},
	}
}

func newEntityCreateCmd(kind domain.Kind) *cobra.Command {
	var description, comment string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			req := domain.CreateEntityRequest{
				Name:        args[0],
				Description: description,
				Comment:     comment,
			}
			if err := a.svc.CreateEntity(cmd.Context(), kind, req); err != nil {
				return err
			}
			fmt.Printf("Created %s %q\n", kind, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Entity description")
	cmd.Flags().StringVar(&comment, "comment", "", "Entity comment")
	return cmd
}

func newEntityDeleteCmd(kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name-or-pattern>",
		Short: "Delete the entities matching the name or wildcard pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.RemoveEntities(cmd.Context(), kind, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s %q\n", kind, args[0])
			return nil
		},
	}
}

func newEntityRenameCmd(kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename one entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.RenameEntity(cmd.Context(), kind, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Renamed %s %q to %q\n", kind, args[0], args[1])
			return nil
		},
	}
}

func newEntityCommentCmd(kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <name-or-pattern> <text>...",
		Short: "Replace the comment on the matching entities",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.svc.SetComment(cmd.Context(), kind, args[0], joinArgs(args[1:]))
		},
	}
}

func newEntityDescribeCmd(kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <name-or-pattern> <text>...",
		Short: "Replace the description on the matching entities",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.svc.SetDescription(cmd.Context(), kind, args[0], joinArgs(args[1:]))
		},
	}
}
