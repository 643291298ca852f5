package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"CurveScout/internal/di"
	"CurveScout/pkg/config"
	"CurveScout/pkg/server"
)

var (
	configPath    string
	runDate       string
	runOut        string
	runDataDir    string
	useClickHouse bool
)

var rootCmd = &cobra.Command{
	Use:   "curvescout",
	Short: "Weekly signal generation and scoring engine for energy futures",
	Long: `CurveScout scores weekly indicator snapshots of energy futures curves
across several detection strategies, ranks the resulting signals, and
publishes the top candidates per strategy and direction.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and queue workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := initApp()
		if err != nil {
			return err
		}
		return app.Serve()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one scoring run and exit",
	Long: `Execute a single scoring run against the snapshot store. Without
--date the newest snapshot date is scored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var target time.Time
		if runDate != "" {
			var err error
			target, err = time.Parse("2006-01-02", runDate)
			if err != nil {
				return fmt.Errorf("invalid --date %q (want YYYY-MM-DD): %w", runDate, err)
			}
		}
		app, err := initApp()
		if err != nil {
			return err
		}
		return app.RunOnce(context.Background(), target, runOut)
	},
}

func initApp() (*server.App, error) {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if runDataDir != "" {
		cfg.Data.Source = "csv"
		cfg.Data.CSVDir = runDataDir
	}
	if useClickHouse {
		cfg.Data.Source = "clickhouse"
	}
	app, err := di.InitializeApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("app initialization failed: %w", err)
	}
	return app, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")
	runCmd.Flags().StringVar(&runDate, "date", "", "data date to score (YYYY-MM-DD), defaults to newest")
	runCmd.Flags().StringVar(&runOut, "out", "", "write the run result JSON to this file")
	runCmd.Flags().StringVar(&runDataDir, "data-dir", "", "score CSV snapshots from this directory instead of the configured source")
	runCmd.Flags().BoolVar(&useClickHouse, "clickhouse", false, "score snapshots from the configured ClickHouse table")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
