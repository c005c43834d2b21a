package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/internal/ingest"
	"github.com/harborquant/filingsignal/internal/store"
	"github.com/harborquant/filingsignal/pkg/config"
	"github.com/harborquant/filingsignal/pkg/database"
	"github.com/harborquant/filingsignal/pkg/httputil"
	"github.com/harborquant/filingsignal/pkg/logger"
	"github.com/harborquant/filingsignal/pkg/redis"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [ticker]",
	Short: "Ingest filings from EDGAR into the database",
	Long: `Fetches recent filings for a ticker from the EDGAR full-text archive
and stores them in the database.

Requests respect the EDGAR rate limit. When Redis is enabled the limit
is shared across all running processes.

Example:
  go run ./cmd/filingsignal ingest AAPL
  go run ./cmd/filingsignal ingest AAPL --type 10-Q --count 10
  go run ./cmd/filingsignal ingest AAPL --url https://www.sec.gov/Archives/edgar/data/.../filing.htm`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var (
	ingestType  string
	ingestCount int
	ingestURL   string
)

func init() {
	rootCmd.AddCommand(ingestCmd)

	// Flags
	ingestCmd.Flags().StringVar(&ingestType, "type", "10-K", "filing type (10-K|10-Q|8-K)")
	ingestCmd.Flags().IntVar(&ingestCount, "count", 5, "number of recent filings to fetch")
	ingestCmd.Flags().StringVar(&ingestURL, "url", "", "ingest a single filing document URL instead of the recent list")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ticker := strings.ToUpper(args[0])

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	// 2. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	// 3. Create HTTP client with the shared EDGAR rate limit
	httpClient := httputil.New(cfg, log)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	if redisClient.Enabled() {
		limiter := redis.NewRateLimiter(redisClient, "filingsignal")
		httpClient = httpClient.WithRateLimiter(limiter, redis.EDGARRateLimit)
	}

	// 4. Create ingestor
	edgarClient := ingest.NewEDGARClient(cfg, httpClient, log)
	filings := store.NewFilingRepository(db.Pool)
	ingestor := ingest.NewIngestor(edgarClient, filings, log)

	ctx := context.Background()

	// 5. Single-URL mode
	if ingestURL != "" {
		doc, err := ingestor.IngestURL(ctx, ticker, ingestURL)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", ingestURL, err)
		}
		fmt.Printf("✅ Stored filing %s (%s, %s)\n", doc.ID, doc.FilingType, doc.FilingDate.Format("2006-01-02"))
		return nil
	}

	// 6. Recent-filings mode
	ft := contracts.FilingType(ingestType)
	if !ft.Valid() {
		return fmt.Errorf("invalid filing type %q (want 10-K, 10-Q, or 8-K)", ingestType)
	}

	stored, err := ingestor.IngestTicker(ctx, ticker, ft, ingestCount)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", ticker, err)
	}

	fmt.Printf("✅ Stored %d %s filings for %s\n", stored, ft, ticker)
	return nil
}
