package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	version  = "dev"
	commit   = "none"
	date     = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "viewcheck",
	Short: "Validate semantic view data against expected results",
	Long: `viewcheck checks semantic views published by the BI platform against
expected data or a source system. Views can live in SQL Server, Snowflake,
Databricks, Oracle, PostgreSQL or DuckDB.`,
	SilenceUsage: true,
}

func Execute() {
	rootCmd.Version = version + " (" + commit + ", " + date + ")"
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.viewcheck/viewcheck.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}
