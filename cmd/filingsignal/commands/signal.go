package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborquant/filingsignal/pkg/config"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// signalCmd represents the signal command
var signalCmd = &cobra.Command{
	Use:   "signal [file]",
	Short: "Generate a trading signal from a filing text file",
	Long: `Runs the full signal pipeline on a local filing: feature extraction,
ensemble scoring, and the buy/hold/sell decision.

Fundamental and technical scores come from the deterministic built-in
providers, so the same file always produces the same signal.

Example:
  go run ./cmd/filingsignal signal filing.txt --ticker AAPL
  go run ./cmd/filingsignal signal filing.txt --ticker AAPL --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSignal,
}

var (
	signalTicker string
	signalID     string
	signalType   string
	signalDate   string
	signalJSON   bool
)

func init() {
	rootCmd.AddCommand(signalCmd)

	// Flags
	signalCmd.Flags().StringVar(&signalTicker, "ticker", "", "ticker symbol (required)")
	signalCmd.Flags().StringVar(&signalID, "id", "", "document ID (default: file name)")
	signalCmd.Flags().StringVar(&signalType, "type", "10-K", "filing type (10-K|10-Q|8-K)")
	signalCmd.Flags().StringVar(&signalDate, "date", "", "filing date (YYYY-MM-DD, default: today)")
	signalCmd.Flags().BoolVar(&signalJSON, "json", false, "print the raw signal JSON")

	signalCmd.MarkFlagRequired("ticker")
}

func runSignal(cmd *cobra.Command, args []string) error {
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

	doc, err := documentFromFile(args[0], signalID, signalTicker, signalType, signalDate)
	if err != nil {
		return err
	}

	sig, err := p.GenerateSignal(context.Background(), doc)
	if err != nil {
		return fmt.Errorf("generate signal: %w", err)
	}

	if signalJSON {
		return PrintJSON(sig)
	}

	PrintHeader("Signal")
	PrintSignal(sig)
	fmt.Println("───────────────────────────────────────────────────────────")
	return nil
}
