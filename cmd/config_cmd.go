package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liyacrafter/viewcheck/internal/config"
	"github.com/liyacrafter/viewcheck/internal/connection"
)

var validatePing bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and validate the viewcheck connection configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current config (secrets masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadContext(cmd.Context(), cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Current configuration:")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Connections:")
		for _, name := range cfg.ConnectionNames() {
			conn := cfg.Connections[name]
			fmt.Fprintf(out, "    %s (%s)\n", name, conn.Type)
			for _, key := range sortedKeys(conn.Params) {
				val := conn.Params[key]
				if isSecretKey(key) {
					val = maskSecret(val)
				}
				fmt.Fprintf(out, "      %-18s %s\n", key+":", val)
			}
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Logging:")
		fmt.Fprintf(out, "    Level:          %s\n", cfg.Logging.Level)
		fmt.Fprintf(out, "    Directory:      %s\n", cfg.Logging.Directory)
		fmt.Fprintf(out, "    Retention:      %d days\n", cfg.Logging.RetentionDays)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Results:")
		fmt.Fprintf(out, "    Report Dir:     %s\n", cfg.Results.ReportDir)
		if cfg.Results.MongoDBURI != "" {
			fmt.Fprintf(out, "    MongoDB:        %s\n", maskSecret(cfg.Results.MongoDBURI))
			fmt.Fprintf(out, "    Collection:     %s.%s\n", cfg.Results.Database, cfg.Results.Collection)
		}
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate config file",
	Long: `Loads the config, resolves secrets and checks that every connection has
the parameters its backend requires. With --ping each connection is opened.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadContext(cmd.Context(), cfgFile)
		if err != nil {
			return fmt.Errorf("config invalid: %w", err)
		}

		pool := connection.NewPool(cfg.Specs(), nil)
		defer pool.Close()

		out := cmd.OutOrStdout()
		var errs []string
		for _, name := range pool.Names() {
			m, err := pool.Get(name)
			if err == nil && validatePing {
				err = m.Connect(cmd.Context())
			}
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
				continue
			}
			fmt.Fprintf(out, "  %s %s (%s)\n", passStyle.Render("ok"), name, m.Backend())
		}

		if len(errs) > 0 {
			fmt.Fprintln(out, "Validation errors:")
			for _, e := range errs {
				fmt.Fprintf(out, "  - %s\n", e)
			}
			return fmt.Errorf("%d validation error(s)", len(errs))
		}

		fmt.Fprintf(out, "Config is valid (%d connections).\n", len(cfg.Connections))
		return nil
	},
}

var secretKeyParts = []string{"password", "secret", "token", "connection_string", "dsn"}

func isSecretKey(key string) bool {
	k := strings.ToLower(key)
	for _, part := range secretKeyParts {
		if strings.Contains(k, part) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

func init() {
	configValidateCmd.Flags().BoolVar(&validatePing, "ping", false, "open each connection")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
