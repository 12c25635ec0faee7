package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"agents-manager/core/journal"
	"agents-manager/core/resource"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyKind  string
)

// historyCmd prints the sync journal.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent push, pull and delete steps",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.journal == nil {
			return errors.New("the sync journal is disabled or unavailable (journal.enabled)")
		}

		var kind string
		if historyKind != "" {
			k, err := resource.Parse(historyKind)
			if err != nil {
				return err
			}
			kind = string(k)
		}

		records, err := a.journal.Recent(cmd.Context(), historyLimit, kind)
		if err != nil {
			return err
		}
		return writeHistory(cmd.OutOrStdout(), records)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of records to show")
	historyCmd.Flags().StringVar(&historyKind, "kind", "", "Only this resource kind")

	RootCmd.AddCommand(historyCmd)
}

func writeHistory(out io.Writer, records []journal.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(out, "no history yet")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tKIND\tOPERATION\tACTION\tENV\tID\tCONFIG\tERROR")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt.Local().Format(time.DateTime), r.Kind, r.Operation, r.Action,
			r.Environment, dash(r.RemoteID), dash(r.ConfigPath), dash(r.Error))
	}
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
