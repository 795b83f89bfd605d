package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// logger is initialized once per invocation in the root PersistentPreRun.
var logger *zap.Logger

func execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "delegadm",
		Short: "Directory delegation administration",
		Long: `delegadm manages scoped views, admin groups, roles, membership rules,
and delegations on a directory-delegation server, through the server's
command-line and distributed-object backends.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config := zap.NewProductionConfig()
			if verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("server", "", "Delegation server to target (default: primary)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table, json)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newEntityCmd("view", "Manage scoped views", domain.KindScopedView))
	rootCmd.AddCommand(newEntityCmd("group", "Manage admin groups", domain.KindAdminGroup))
	rootCmd.AddCommand(newEntityCmd("role", "Inspect and annotate roles", domain.KindRole))
	rootCmd.AddCommand(newGrantCmd())
	rootCmd.AddCommand(newRevokeCmd())
	rootCmd.AddCommand(newDelegationsCmd())
	rootCmd.AddCommand(newPowersCmd())
	rootCmd.AddCommand(newServersCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]string{
					"version": version,
					"commit":  commit,
				})
			}
			_, _ = fmt.Fprintf(os.Stdout, "delegadm version %s (commit: %s)\n", version, commit)
			return nil
		},
	}
}
