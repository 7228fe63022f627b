package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liyacrafter/viewcheck/internal/connection"
	"github.com/liyacrafter/viewcheck/internal/viewdata"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List supported backends and their required parameters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), backendTable())
		return nil
	},
}

func backendTable() string {
	var rows [][]string
	for _, b := range connection.Backends() {
		required := strings.Join(connection.RequiredKeys(b), ", ")
		if required == "" {
			required = "-"
		}
		rows = append(rows, []string{
			string(b),
			strings.Join(connection.Aliases(b), ", "),
			required,
			viewdata.DialectFor(b).RenderLimit("SELECT * FROM V", 10),
		})
	}
	return renderTable([]string{"BACKEND", "ALIASES", "REQUIRED", "SAMPLE QUERY"}, rows)
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}
