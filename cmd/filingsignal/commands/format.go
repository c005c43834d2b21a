package commands

import (
	"encoding/json"
	"fmt"

	"github.com/harborquant/filingsignal/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a formatted section header
func PrintHeader(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", title)
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintSignal prints a one-line signal summary
func PrintSignal(sig *contracts.Signal) {
	fmt.Printf("  %-8s %s  %-4s  confidence %.0f%%\n",
		sig.Ticker,
		sig.Timestamp.Format("2006-01-02"),
		sig.Decision,
		sig.Confidence,
	)
	for _, reason := range sig.Reasoning {
		fmt.Printf("           - %s\n", reason)
	}
}

// PrintBacktestSummary prints the headline metrics of a run
func PrintBacktestSummary(result *contracts.BacktestResult) {
	fmt.Printf("  Period      : %s ~ %s\n",
		result.StartDate.Format("2006-01-02"),
		result.EndDate.Format("2006-01-02"),
	)
	fmt.Printf("  Capital     : %.2f -> %.2f\n", result.InitialCapital, result.FinalEquity)
	fmt.Printf("  Sharpe      : %.4f\n", result.SharpeRatio)
	fmt.Printf("  Max Drawdown: %.2f%%\n", result.MaxDrawdown*100)
	fmt.Printf("  Win Rate    : %.1f%%\n", result.WinRate*100)
	fmt.Printf("  Alpha       : %.4f\n", result.Alpha)
	fmt.Printf("  Trades      : %d (%d unexecuted)\n", result.TradeCount(), result.Unexecuted)

	if result.Partial {
		fmt.Println("  ⚠️  Partial result: the run was cancelled before the end date")
	}
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintJSON pretty-prints any value as indented JSON
func PrintJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
