package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/liyacrafter/viewcheck/internal/compare"
	"github.com/liyacrafter/viewcheck/internal/dataset"
	"github.com/liyacrafter/viewcheck/internal/report"
	"github.com/liyacrafter/viewcheck/internal/validation"
)

var errValidationFailed = errors.New("validation failed")

var (
	compareExpectedCSV      string
	compareSourceConn       string
	compareSourceQuery      string
	compareKeys             []string
	compareValues           []string
	compareFilters          string
	compareLimit            int
	compareNumericTolerance float64
	compareNormalize        bool
	compareNulls            bool
	compareExport           string
)

var compareCmd = &cobra.Command{
	Use:   "compare <connection> <view>",
	Short: "Reconcile a view with expected data on key columns",
	Long: `Fetches the view and joins it with the expected data on --keys, reporting
rows missing on either side and value mismatches per column.

Expected data comes from --expected-csv, or from --source-query run on the
--source connection.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(compareKeys) == 0 {
			return fmt.Errorf("--keys is required")
		}
		fromSource := compareSourceConn != "" || compareSourceQuery != ""
		if fromSource == (compareExpectedCSV != "") {
			return fmt.Errorf("use exactly one of --expected-csv or --source with --source-query")
		}
		if fromSource && (compareSourceConn == "" || compareSourceQuery == "") {
			return fmt.Errorf("--source and --source-query must be given together")
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
		v := validation.New(f, a.logger)
		check := validation.KeyCheck{
			View:             args[1],
			Filters:          compareFilters,
			Limit:            compareLimit,
			KeyColumns:       compareKeys,
			ValueColumns:     compareValues,
			NumericTolerance: compareNumericTolerance,
		}

		var res compare.Result
		if fromSource {
			src, err := a.pool.Get(compareSourceConn)
			if err != nil {
				return err
			}
			data, err := src.Execute(cmd.Context(), compareSourceQuery)
			if err != nil {
				return err
			}
			if compareNormalize {
				data = dataset.NormalizeColumnNames(data)
			}
			if compareNulls {
				data = dataset.StandardizeNulls(data)
			}
			res, err = v.ValidateAgainstSource(cmd.Context(), data, check)
			if err != nil {
				return err
			}
		} else {
			expected, err := loadExpected(compareExpectedCSV, compareNormalize, compareNulls)
			if err != nil {
				return err
			}
			res, err = v.ValidateDataByKeys(cmd.Context(), expected, check)
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		printResult(out, args[1]+" by "+fmt.Sprint(compareKeys), res)

		if compareExport != "" && res.Details().Len() > 0 {
			path := filepath.Join(compareExport, report.DetailsFileName(args[1]))
			if err := dataset.SaveCSV(path, res.Details()); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nDiscrepancies written to %s\n", path)
		}
		if !res.Success() {
			return errValidationFailed
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareExpectedCSV, "expected-csv", "", "CSV file holding the expected rows")
	compareCmd.Flags().StringVar(&compareSourceConn, "source", "", "connection holding the source data")
	compareCmd.Flags().StringVar(&compareSourceQuery, "source-query", "", "query extracting the source data")
	compareCmd.Flags().StringSliceVar(&compareKeys, "keys", nil, "key columns to join on")
	compareCmd.Flags().StringSliceVar(&compareValues, "values", nil, "value columns to compare (default: common non-key columns)")
	compareCmd.Flags().StringVar(&compareFilters, "filters", "", "raw SQL predicate for the view's WHERE clause")
	compareCmd.Flags().IntVar(&compareLimit, "limit", 0, "maximum view rows to fetch (0 = all)")
	compareCmd.Flags().Float64Var(&compareNumericTolerance, "numeric-tolerance", 0, "allowed absolute difference for numeric values")
	compareCmd.Flags().BoolVar(&compareNormalize, "normalize-columns", false, "snake_case the expected column names")
	compareCmd.Flags().BoolVar(&compareNulls, "standardize-nulls", false, "treat NULL/None/NA/NaN/empty text in expected data as null")
	compareCmd.Flags().StringVar(&compareExport, "export", "", "directory to write discrepancy rows as CSV")
	rootCmd.AddCommand(compareCmd)
}
