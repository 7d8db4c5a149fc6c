package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/partylines/analysis/internal/bayes"
	"github.com/partylines/analysis/internal/evaluation"
	"github.com/partylines/analysis/internal/ingestion"
	"github.com/partylines/analysis/internal/metrics"
	"github.com/partylines/analysis/internal/pipeline"
	"github.com/partylines/analysis/internal/storage/sqlite"
	"github.com/partylines/analysis/pkg/config"
	appLogger "github.com/partylines/analysis/pkg/logger"
	"github.com/partylines/analysis/pkg/retry"
)

func RunCmd() *cobra.Command {
	var (
		cutoff     int
		sampleSize int
		seed       int64
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train on convention speeches and evaluate on candidate tweets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			defer appLogger.Sync()

			flags := cmd.Flags()
			if flags.Changed("cutoff") {
				cfg.Vocabulary.Cutoff = cutoff
			}
			if flags.Changed("sample") {
				cfg.Evaluation.SampleSize = sampleSize
			}
			if flags.Changed("seed") {
				cfg.Evaluation.Seed = seed
			}
			if flags.Changed("db") {
				cfg.SQLite.Path = dbPath
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runAnalysis(ctx, cfg)
		},
	}

	cmd.Flags().IntVar(&cutoff, "cutoff", 0, "keep tokens seen more than this many times in training")
	cmd.Flags().IntVar(&sampleSize, "sample", 0, "number of evaluation records to print as spot checks")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for spot check sampling")
	cmd.Flags().StringVar(&dbPath, "db", "", "path to the SQLite database")

	return cmd
}

func runAnalysis(ctx context.Context, cfg *config.Config) error {
	db, err := sqlite.NewClient(cfg.SQLite.Path, retryConfig(cfg.Retry))
	if err != nil {
		return err
	}
	defer db.Close()

	training, err := db.LoadRecords(ctx, cfg.Sources.Training.Query)
	if err != nil {
		return fmt.Errorf("failed to load training records: %w", err)
	}
	evalRecords, err := db.LoadRecords(ctx, cfg.Sources.Evaluation.Query)
	if err != nil {
		return fmt.Errorf("failed to load evaluation records: %w", err)
	}

	normalizer, err := ingestion.NewNormalizer(ingestion.Options{Retain: cfg.Normalizer.Retain})
	if err != nil {
		return err
	}
	cleaner := ingestion.NewCleaner(escapes(cfg.Cleaning.Escapes))

	engine := pipeline.NewEngine(normalizer, cleaner, nil, pipeline.Options{
		Cutoff:              cfg.Vocabulary.Cutoff,
		SampleSize:          cfg.Evaluation.SampleSize,
		Seed:                cfg.Evaluation.Seed,
		InformativeFeatures: cfg.Evaluation.InformativeFeatures,
	})

	result, err := engine.Run(ctx, training, evalRecords)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s: %d training documents, %d evaluation documents, vocabulary of %d tokens\n\n",
		result.RunID, result.TrainingDocuments, result.EvaluationDocuments, result.VocabularySize)
	fmt.Print(evaluation.GenerateReport(result.Report))

	if len(result.Informative) > 0 {
		fmt.Println("\nMost informative features:")
		fmt.Println(informativeTable(result.Informative))
	}
	if len(result.SpotChecks) > 0 {
		fmt.Println("\nSpot checks:")
		fmt.Println(spotCheckTable(result.SpotChecks))
	}

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return err
		}
		appLogger.Info("Metrics written", zap.String("path", cfg.Metrics.Textfile))
	}

	return nil
}

func retryConfig(rc config.RetryConfig) retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = rc.MaxAttempts
	cfg.InitialDelay = time.Duration(rc.InitialDelayMs) * time.Millisecond
	cfg.Logger = appLogger.Named("retry")
	return cfg
}

func escapes(in []config.EscapeConfig) []ingestion.Escape {
	out := make([]ingestion.Escape, 0, len(in))
	for _, e := range in {
		out = append(out, ingestion.Escape{From: e.From, To: e.To})
	}
	return out
}

func informativeTable(features []bayes.InformativeFeature) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("token", "favored", "ratio")
	for _, f := range features {
		t.Row(f.Token, f.Favored.String()+" : "+f.Disfavored.String(), fmt.Sprintf("%.1f : 1", f.Ratio))
	}
	return t.String()
}

func spotCheckTable(predictions []pipeline.Prediction) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "truth", "predicted", "tokens")
	for i, p := range predictions {
		t.Row(strconv.Itoa(i+1), p.Truth.String(), p.Predicted.String(), truncate(strings.Join(p.Tokens, " "), 80))
	}
	return t.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
