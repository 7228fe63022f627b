package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liyacrafter/viewcheck/internal/validation"
)

var (
	rowCountFilters     string
	rowCountExpectedCSV string
	rowCountTolerance   int
)

var rowCountCmd = &cobra.Command{
	Use:   "rowcount <connection> <view>",
	Short: "Count view rows, optionally validating against an expected CSV",
	Long: `Without --expected-csv, prints COUNT(1) of the view.
With --expected-csv, fetches the view and compares its row count with the
CSV's, passing when they differ by at most --tolerance.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := a.fetcher(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if rowCountExpectedCSV == "" {
			n, err := f.FetchRowCount(cmd.Context(), args[1], rowCountFilters)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %d\n", titleStyle.Render(args[1]), n)
			return nil
		}

		expected, err := loadExpected(rowCountExpectedCSV, false, false)
		if err != nil {
			return err
		}
		res, err := validation.New(f, a.logger).ValidateRowCount(cmd.Context(), args[1], expected, rowCountFilters, rowCountTolerance)
		if err != nil {
			return err
		}
		printResult(out, args[1]+" row count", res)
		if !res.Success() {
			return errValidationFailed
		}
		return nil
	},
}

func init() {
	rowCountCmd.Flags().StringVar(&rowCountFilters, "filters", "", "raw SQL predicate for the WHERE clause")
	rowCountCmd.Flags().StringVar(&rowCountExpectedCSV, "expected-csv", "", "CSV file holding the expected rows")
	rowCountCmd.Flags().IntVar(&rowCountTolerance, "tolerance", 0, "allowed absolute row count difference")
	rootCmd.AddCommand(rowCountCmd)
}
