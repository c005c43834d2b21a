package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harborquant/filingsignal/internal/backtest"
	"github.com/harborquant/filingsignal/internal/calendar"
	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/internal/store"
	"github.com/harborquant/filingsignal/pkg/config"
	"github.com/harborquant/filingsignal/pkg/database"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Buffered backtesting",
	Long: `Simulates a signal stream against historical prices.

Execution is delayed by the strategy's buffer to rule out look-ahead:
a signal observed on day T executes at the close of T plus the buffer
in trading days. Prices come from the database.

Example:
  go run ./cmd/filingsignal backtest run --signals signals.json --from 2024-01-02 --to 2024-06-28`,
}

var (
	backtestRunCmd = &cobra.Command{
		Use:   "run",
		Short: "Run a backtest",
		Long: `Runs a backtest over the given period.

Flags:
  --signals   JSON file with the signal stream (required)
  --from      start date (YYYY-MM-DD, required)
  --to        end date (YYYY-MM-DD, default: today)
  --output    write the full result JSON to a file

Example:
  go run ./cmd/filingsignal backtest run --signals signals.json --from 2024-01-02 --to 2024-06-28
  go run ./cmd/filingsignal backtest run --signals signals.json --from 2024-01-02 --strategy strategy.yaml`,
		RunE: runBacktest,
	}

	// Flags
	backtestSignals string
	backtestFrom    string
	backtestTo      string
	backtestOutput  string
)

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.AddCommand(backtestRunCmd)

	// Flags
	backtestRunCmd.Flags().StringVar(&backtestSignals, "signals", "", "signal stream JSON file (required)")
	backtestRunCmd.Flags().StringVar(&backtestFrom, "from", "", "start date (YYYY-MM-DD, required)")
	backtestRunCmd.Flags().StringVar(&backtestTo, "to", "", "end date (YYYY-MM-DD, default: today)")
	backtestRunCmd.Flags().StringVar(&backtestOutput, "output", "", "result JSON output file")

	backtestRunCmd.MarkFlagRequired("signals")
	backtestRunCmd.MarkFlagRequired("from")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	scfg, err := loadStrategy()
	if err != nil {
		return err
	}

	// 2. Parse period
	from, err := time.Parse("2006-01-02", backtestFrom)
	if err != nil {
		return fmt.Errorf("invalid --from date %q (want YYYY-MM-DD)", backtestFrom)
	}
	to := time.Now().UTC().Truncate(24 * time.Hour)
	if backtestTo != "" {
		to, err = time.Parse("2006-01-02", backtestTo)
		if err != nil {
			return fmt.Errorf("invalid --to date %q (want YYYY-MM-DD)", backtestTo)
		}
	}

	// 3. Load signal stream
	signals, err := loadSignals(backtestSignals)
	if err != nil {
		return err
	}

	// 4. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	// 5. Create engine
	prices := store.NewPriceRepository(db.Pool)
	engine := backtest.NewEngine(prices, calendar.New(), log)

	runCfg := backtest.Config{
		BufferDays:     scfg.Backtest.BufferDays,
		InitialCapital: scfg.Backtest.InitialCapital,
		PositionWeight: scfg.Backtest.PositionWeight,
		Slippage:       scfg.Backtest.Slippage,
		RiskFreeRate:   scfg.Backtest.RiskFreeRate,
		StartDate:      from,
		EndDate:        to,
	}

	// 6. Run
	fmt.Printf("Running backtest: %d signals, %s ~ %s\n",
		len(signals), from.Format("2006-01-02"), to.Format("2006-01-02"))

	result, err := engine.Run(context.Background(), signals, runCfg)
	if err != nil {
		return fmt.Errorf("run backtest: %w", err)
	}

	PrintHeader("Backtest Result")
	PrintBacktestSummary(result)

	// 7. Optional JSON output
	if backtestOutput != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		if err := os.WriteFile(backtestOutput, data, 0o644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		fmt.Printf("Result written to %s\n", backtestOutput)
	}

	return nil
}

// loadSignals reads a signal stream from a JSON array file.
func loadSignals(path string) ([]*contracts.Signal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signals: %w", err)
	}

	var signals []*contracts.Signal
	if err := json.Unmarshal(data, &signals); err != nil {
		return nil, fmt.Errorf("parse signals: %w", err)
	}
	if len(signals) == 0 {
		return nil, fmt.Errorf("signal file %s is empty", path)
	}

	return signals, nil
}
