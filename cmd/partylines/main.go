package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/partylines/analysis/internal/metrics"
	"github.com/partylines/analysis/pkg/config"
	appLogger "github.com/partylines/analysis/pkg/logger"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "partylines",
		Short:         "Classify political text by party with a bag-of-words Naive Bayes model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file (default ./config.yaml)")

	rootCmd.AddCommand(
		RunCmd(),
		NormalizeCmd(),
		InspectCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and starts logging and metrics. Callers must
// defer appLogger.Sync.
func setup() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	metrics.Init()
	return cfg, nil
}
