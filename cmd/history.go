package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/liyacrafter/viewcheck/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <suite>",
	Short: "List recent stored runs of a suite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := openStore(cmd, a)
		if err != nil {
			return err
		}
		defer st.Close(cmd.Context())

		runs, err := st.Recent(cmd.Context(), args[0], historyLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintf(out, "No stored runs for %q.\n", args[0])
			return nil
		}
		fmt.Fprintln(out, historyTable(runs))
		return nil
	},
}

func historyTable(runs []store.Summary) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			r.GeneratedAt.Local().Format(time.DateTime),
			statusBadge(r.Status),
			strconv.Itoa(r.Total - r.Failed - r.Errored),
			strconv.Itoa(r.Failed),
			strconv.Itoa(r.Errored),
		}
	}
	return renderTable([]string{"GENERATED", "STATUS", "PASSED", "FAILED", "ERRORED"}, rows)
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}
