package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liyacrafter/viewcheck/internal/dataset"
	"github.com/liyacrafter/viewcheck/internal/validation"
)

var (
	schemaFilters     string
	schemaExpectedCSV string
	schemaColumns     []string
	schemaOrdered     bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema <connection> <view>",
	Short: "Compare a view's columns with the expected columns",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(schemaColumns) == 0 && schemaExpectedCSV == "" {
			return fmt.Errorf("one of --columns or --expected-csv is required")
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := a.fetcher(args[0])
		if err != nil {
			return err
		}

		expected := dataset.Empty(schemaColumns...)
		if len(schemaColumns) == 0 {
			if expected, err = loadExpected(schemaExpectedCSV, false, false); err != nil {
				return err
			}
		}

		res, err := validation.New(f, a.logger).ValidateSchema(cmd.Context(), args[1], expected, schemaFilters, !schemaOrdered)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), args[1]+" schema", res)
		if !res.Success() {
			for _, key := range []string{"missing_in_actual", "extra_in_actual"} {
				if cols := res.MetaStrings(key); len(cols) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %v\n", key, cols)
				}
			}
			return errValidationFailed
		}
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVar(&schemaFilters, "filters", "", "raw SQL predicate for the WHERE clause")
	schemaCmd.Flags().StringVar(&schemaExpectedCSV, "expected-csv", "", "CSV file whose header lists the expected columns")
	schemaCmd.Flags().StringSliceVar(&schemaColumns, "columns", nil, "expected column names")
	schemaCmd.Flags().BoolVar(&schemaOrdered, "ordered", false, "require the same column order")
	rootCmd.AddCommand(schemaCmd)
}
