package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"agents-manager/core/reconcile"
	"agents-manager/core/resource"

	"github.com/spf13/cobra"
)

var (
	statusKind string
	statusEnv  string
)

// statusCmd prints the local state of every manifest entry.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show local sync state without contacting the remote service",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusKind, "kind", "", "Resource kind: agent, tool or test (default: every kind with a manifest)")
	statusCmd.Flags().StringVar(&statusEnv, "env", "", "Only entries of this environment")

	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	flags := targetFlags{kind: statusKind}
	t, err := flags.resolve(a.store)
	if err != nil {
		return err
	}

	for _, kind := range t.kinds {
		report, err := a.engine.Status(kind, statusEnv)
		if err != nil {
			return fmt.Errorf("status %s: %w", kind.Plural(), err)
		}
		if err := writeStatus(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	}
	return nil
}

// writeStatus renders one report as an aligned table.
func writeStatus(out io.Writer, report *reconcile.StatusReport) error {
	fmt.Fprintf(out, "%s (%d)\n", title(report.Kind), len(report.Entries))
	if len(report.Entries) == 0 {
		fmt.Fprintln(out, "  no entries")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tENV\tID\tCONFIG\tSTATE")
	for _, e := range report.Entries {
		name, id := e.Name, e.RemoteID
		if name == "" {
			name = "-"
		}
		if id == "" {
			id = "(not pushed)"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", name, e.Environment, id, e.ConfigPath, e.State)
	}
	return w.Flush()
}

func title(k resource.Kind) string {
	return k.Title() + "s"
}
