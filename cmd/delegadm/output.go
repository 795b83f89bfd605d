package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/delegation-tools/delegation-manager/internal/domain"
)

// outputFormat returns the effective output format from the root command's
// persistent flags.
func outputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
}

func printEntityTable(w io.Writer, entities []domain.Entity) {
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tDESCRIPTION\tCOMMENT\tBUILTIN\tASSIGNED")
	for _, e := range entities {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%t\n", e.Name, e.Description, e.Comment, e.Builtin, e.Assigned)
	}
	tw.Flush()
}

func printRuleTable(w io.Writer, rules []domain.Rule) {
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tTYPE\tDESCRIPTION\tCOMMENT")
	for _, r := range rules {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Type, r.Description, r.Comment)
	}
	tw.Flush()
}

func printDelegationTable(w io.Writer, delegations []domain.Delegation) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ADMIN GROUP\tROLE\tSCOPED VIEW")
	for _, d := range delegations {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.AdminGroup, d.Role, d.ScopedView)
	}
	tw.Flush()
}

func printPowerTable(w io.Writer, powers []domain.Power) {
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tDESCRIPTION")
	for _, p := range powers {
		fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Description)
	}
	tw.Flush()
}

func printServerTable(w io.Writer, servers []domain.ServerRecord) {
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tDOMAIN\tSITE\tROLE\tVERSION")
	for _, s := range servers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Name, s.Domain, s.Site, s.Role, s.Version)
	}
	tw.Flush()
}

// render writes the listing in the selected format.
func render[T any](cmd *cobra.Command, items []T, table func(io.Writer, []T)) error {
	if outputFormat(cmd) == "json" {
		return printJSON(os.Stdout, items)
	}
	table(os.Stdout, items)
	return nil
}

// joinArgs collapses trailing free-text arguments into one value, so quoting
// multi-word comments is optional.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
