package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

func newGrantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant <admin-group> <role> <scoped-view>",
		Short: "Delegate a role over a scoped view to an admin group",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			d := domain.Delegation{AdminGroup: args[0], Role: args[1], ScopedView: args[2]}
			if err := a.svc.Grant(cmd.Context(), d); err != nil {
				return err
			}
			fmt.Printf("Granted %q over %q to %q\n", d.Role, d.ScopedView, d.AdminGroup)
			return nil
		},
	}
}

func newRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <admin-group> <role> <scoped-view>",
		Short: "Remove a delegation",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			d := domain.Delegation{AdminGroup: args[0], Role: args[1], ScopedView: args[2]}
			if err := a.svc.Revoke(cmd.Context(), d); err != nil {
				return err
			}
			fmt.Printf("Revoked %q over %q from %q\n", d.Role, d.ScopedView, d.AdminGroup)
			return nil
		},
	}
}

func newDelegationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delegations <admin-group>",
		Short: "List the delegations held by an admin group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			delegations, err := a.svc.GetDelegations(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd, delegations, printDelegationTable)
		},
	}
}

func newPowersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "powers",
		Short: "List the server-defined permission primitives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			powers, err := a.svc.GetPowers(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd, powers, printPowerTable)
		},
	}
}

func newServersCmd() *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:   "servers",
		Short: "Discover registered delegation servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			servers, err := a.svc.GetServers(cmd.Context(), domain.SelectionPolicy(policy))
			if err != nil {
				return err
			}
			return render(cmd, servers, printServerTable)
		},
	}

	cmd.Flags().StringVar(&policy, "policy", string(domain.SelectAll), "Selection policy (primary, site, all)")
	return cmd
}
