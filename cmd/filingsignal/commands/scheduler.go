package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harborquant/filingsignal/internal/ingest"
	"github.com/harborquant/filingsignal/internal/scheduler"
	"github.com/harborquant/filingsignal/internal/scheduler/jobs"
	"github.com/harborquant/filingsignal/internal/store"
	"github.com/harborquant/filingsignal/pkg/config"
	"github.com/harborquant/filingsignal/pkg/database"
	"github.com/harborquant/filingsignal/pkg/httputil"
	"github.com/harborquant/filingsignal/pkg/logger"
	"github.com/harborquant/filingsignal/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage scheduled jobs",
	Long: `Starts the scheduler daemon or manages its jobs.

Registered jobs:
- filing_ingestion: weekdays at 18:00 (fetch new EDGAR filings)
- price_sync: weekdays at 17:00 (sync daily close prices)

Subcommands:
  start   - start the scheduler daemon
  list    - list registered jobs
  run     - run a job immediately
  status  - show job execution statistics

Example:
  go run ./cmd/filingsignal scheduler start
  go run ./cmd/filingsignal scheduler run filing_ingestion`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		Long: `Starts the scheduler and schedules all registered jobs.

The scheduler can be stopped with Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job execution statistics",
		RunE:  showStatus,
	}

	// Flags
	schedulerTickers string
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)

	// Flags
	schedulerCmd.PersistentFlags().StringVar(&schedulerTickers, "tickers", "AAPL,MSFT,GOOGL", "comma-separated tickers to track")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== filingsignal Scheduler ===")

	// Initialize dependencies
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	// Start scheduler
	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	fmt.Println("Job started (running in background)")
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	stats := sched.GetJobStats()

	fmt.Println("Job Statistics:")
	fmt.Println()

	for jobName, stat := range stats {
		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)

		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}

		fmt.Println()
	}

	return nil
}

func initScheduler() (*scheduler.Scheduler, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Create HTTP client with the shared EDGAR rate limit
	httpClient := httputil.New(cfg, log)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	if redisClient.Enabled() {
		limiter := redis.NewRateLimiter(redisClient, "filingsignal")
		httpClient = httpClient.WithRateLimiter(limiter, redis.EDGARRateLimit)
	}

	// 5. Create clients and repositories
	edgarClient := ingest.NewEDGARClient(cfg, httpClient, log)
	stooqClient := ingest.NewStooqClient(httpClient, "", log)
	filings := store.NewFilingRepository(db.Pool)
	prices := store.NewPriceRepository(db.Pool)

	ingestor := ingest.NewIngestor(edgarClient, filings, log)

	tickers := strings.Split(schedulerTickers, ",")
	for i := range tickers {
		tickers[i] = strings.ToUpper(strings.TrimSpace(tickers[i]))
	}

	// 6. Create scheduler and register jobs
	sched := scheduler.New(log)

	if err := sched.AddJob(jobs.NewFilingIngestionJob(ingestor, tickers, log)); err != nil {
		return nil, fmt.Errorf("register filing_ingestion: %w", err)
	}
	if err := sched.AddJob(jobs.NewPriceSyncJob(stooqClient, prices, tickers, log)); err != nil {
		return nil, fmt.Errorf("register price_sync: %w", err)
	}

	return sched, nil
}
