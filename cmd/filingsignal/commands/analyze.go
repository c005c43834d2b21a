package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborquant/filingsignal/pkg/config"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Extract features from a filing text file",
	Long: `Runs the feature extraction stage on a local filing and prints the
resulting feature record as JSON.

The record holds sentiment scores, extracted entities, key phrases, and
the document embedding. No database or network access is required.

Example:
  go run ./cmd/filingsignal analyze filing.txt --ticker AAPL
  go run ./cmd/filingsignal analyze filing.txt --ticker AAPL --type 10-Q --date 2024-06-03`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeTicker string
	analyzeID     string
	analyzeType   string
	analyzeDate   string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Flags
	analyzeCmd.Flags().StringVar(&analyzeTicker, "ticker", "", "ticker symbol (required)")
	analyzeCmd.Flags().StringVar(&analyzeID, "id", "", "document ID (default: file name)")
	analyzeCmd.Flags().StringVar(&analyzeType, "type", "10-K", "filing type (10-K|10-Q|8-K)")
	analyzeCmd.Flags().StringVar(&analyzeDate, "date", "", "filing date (YYYY-MM-DD, default: today)")

	analyzeCmd.MarkFlagRequired("ticker")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	scfg, err := loadStrategy()
	if err != nil {
		return err
	}

	p, err := newPipeline(scfg, log)
	if err != nil {
		return err
	}

	doc, err := documentFromFile(args[0], analyzeID, analyzeTicker, analyzeType, analyzeDate)
	if err != nil {
		return err
	}

	rec, err := p.Analyze(context.Background(), doc)
	if err != nil {
		return fmt.Errorf("analyze filing: %w", err)
	}

	return PrintJSON(rec)
}
