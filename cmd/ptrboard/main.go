// Package main provides the CLI entry point for ptrboard.
package main

import (
	"fmt"
	"log/slog"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/ukaji3/ptrboard-go/pkg/config"
)

var (
	configPath   string
	outputPath   string
	outputFormat string
	pretty       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ptrboard",
		Short: "PTR test-report dashboard",
		Long: `ptrboard normalizes PTR test-report workbooks, derives progress
percentages and flow graphs, and serves them to the dashboard UI.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv(config.EnvConfigPath), "Config file path (env: "+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format: table, json")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(sheetsCmd())
	rootCmd.AddCommand(normalizeCmd())
	rootCmd.AddCommand(progressCmd())
	rootCmd.AddCommand(flowCmd())
	rootCmd.AddCommand(overviewCmd())
	rootCmd.AddCommand(usersCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config when given, otherwise starts from defaults,
// then applies environment overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	return logger
}
