package cmd

import (
	"github.com/spf13/cobra"
)

var (
	distinctFilters string
	distinctLimit   int
)

var distinctCmd = &cobra.Command{
	Use:   "distinct <connection> <view> <column>",
	Short: "List the distinct values of a view column",
	Args:  cobra.ExactArgs(3),
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
		d, err := f.FetchDistinctValues(cmd.Context(), args[1], args[2], distinctFilters, distinctLimit)
		if err != nil {
			return err
		}
		printDataset(cmd.OutOrStdout(), d)
		return nil
	},
}

func init() {
	distinctCmd.Flags().StringVar(&distinctFilters, "filters", "", "raw SQL predicate for the WHERE clause")
	distinctCmd.Flags().IntVar(&distinctLimit, "limit", 100, "maximum values to return (0 = all)")
	rootCmd.AddCommand(distinctCmd)
}
