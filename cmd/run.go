package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/liyacrafter/viewcheck/internal/lock"
	"github.com/liyacrafter/viewcheck/internal/report"
	"github.com/liyacrafter/viewcheck/internal/store"
	"github.com/liyacrafter/viewcheck/internal/suite"
)

var (
	runReportDir string
	runExport    bool
	runNoStore   bool
)

var runCmd = &cobra.Command{
	Use:   "run <suite.yaml>",
	Short: "Run a validation suite and write its report",
	Long: `Runs every check in the suite in order, then writes JSON and text reports
to the report directory. When results.mongodb_uri is configured the report is
also stored in MongoDB. Exits non-zero unless every check passed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := suite.Load(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		dir := runReportDir
		if dir == "" {
			dir = a.cfg.Results.ReportDir
		}
		l, err := lock.Acquire(filepath.Join(dir, "."+report.SafeName(s.Name)+".lock"))
		if err != nil {
			return err
		}
		defer l.Release()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%d checks)\n", titleStyle.Render(s.Name), len(s.Checks))

		runner := &suite.Runner{
			Resolver: suite.PoolResolver{Pool: a.pool},
			Logger:   a.logger,
			Callback: func(cr suite.CheckResult) {
				fmt.Fprintf(out, "  %s %s %s\n", statusBadge(cr.Status), cr.Name,
					dimStyle.Render(cr.Duration.Round(time.Millisecond).String()))
				if cr.Status != suite.StatusPass {
					fmt.Fprintf(out, "         %s\n", cr.Message())
				}
			},
		}
		result, runErr := runner.Run(cmd.Context(), s)

		rep := report.FromRun(result)
		base := filepath.Join(dir, report.SafeName(s.Name)+"-"+rep.GeneratedAt.Format("20060102-150405"))
		if err := report.WriteJSON(rep, base+".json"); err != nil {
			return err
		}
		if err := report.WriteText(rep, base+".txt"); err != nil {
			return err
		}
		if runExport {
			paths, err := report.ExportDetails(rep, base+"-details")
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintf(out, "  details: %s\n", p)
			}
		}

		if a.cfg.Results.MongoDBURI != "" && !runNoStore {
			if err := saveReport(cmd, a, rep); err != nil {
				a.logger.Error("storing report", "error", err)
				fmt.Fprintf(out, "  %s\n", failStyle.Render("report not stored: "+err.Error()))
			}
		}

		fmt.Fprintf(out, "\n%s %d/%d passed, report: %s.json\n",
			statusBadge(rep.Status), rep.Summary.Passed, rep.Summary.Total, base)

		if runErr != nil {
			return runErr
		}
		if !rep.Passed {
			return errValidationFailed
		}
		return nil
	},
}

func saveReport(cmd *cobra.Command, a *app, rep *report.Report) error {
	st, err := openStore(cmd, a)
	if err != nil {
		return err
	}
	defer st.Close(cmd.Context())
	return st.Save(cmd.Context(), rep)
}

func openStore(cmd *cobra.Command, a *app) (store.Store, error) {
	if a.cfg.Results.MongoDBURI == "" {
		return nil, fmt.Errorf("results.mongodb_uri is not configured")
	}
	return store.NewMongoStore(cmd.Context(), a.cfg.Results.MongoDBURI, a.cfg.Results.Database, a.cfg.Results.Collection)
}

func init() {
	runCmd.Flags().StringVar(&runReportDir, "report-dir", "", "report directory (default: results.report_dir)")
	runCmd.Flags().BoolVar(&runExport, "export-details", false, "write failing checks' discrepancy rows as CSV")
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "do not store the report in MongoDB")
	rootCmd.AddCommand(runCmd)
}
