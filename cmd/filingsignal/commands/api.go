package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harborquant/filingsignal/internal/api"
	"github.com/harborquant/filingsignal/internal/api/handlers"
	"github.com/harborquant/filingsignal/internal/backtest"
	"github.com/harborquant/filingsignal/internal/calendar"
	"github.com/harborquant/filingsignal/internal/pipeline"
	"github.com/harborquant/filingsignal/internal/store"
	"github.com/harborquant/filingsignal/pkg/config"
	"github.com/harborquant/filingsignal/pkg/database"
	"github.com/harborquant/filingsignal/pkg/logger"
	"github.com/harborquant/filingsignal/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                   - Health check
  POST /api/v1/analyze           - Extract features from a filing
  POST /api/v1/signals           - Generate signals for a filing batch
  POST /api/v1/backtests         - Run a backtest
  GET  /api/v1/backtests/stream  - Run a backtest over WebSocket with live equity

Example:
  go run ./cmd/filingsignal api
  go run ./cmd/filingsignal api --port 8090`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default: PORT env)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== filingsignal API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Load strategy
	scfg, err := loadStrategy()
	if err != nil {
		return err
	}

	// 4. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 5. Connect to Redis (no-op client when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	// 6. Create pipeline with persistence and caching
	filings := store.NewFilingRepository(db.Pool)
	cache := redis.NewCache(redisClient, "filingsignal")

	p, err := newPipeline(scfg, log,
		pipeline.WithRepository(filings),
		pipeline.WithCache(cache),
	)
	if err != nil {
		return err
	}

	// 7. Create backtest engine
	prices := store.NewPriceRepository(db.Pool)
	engine := backtest.NewEngine(prices, calendar.New(), log)

	// 8. Create router
	router := api.NewRouter(
		handlers.NewAnalyzeHandler(p, log),
		handlers.NewSignalHandler(p, log),
		handlers.NewBacktestHandler(engine, log),
		log,
	)

	// 9. Create server
	server := api.New(cfg, log, router)

	// 10. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/v1/analyze")
	fmt.Println("  POST /api/v1/signals")
	fmt.Println("  POST /api/v1/backtests")
	fmt.Println("  GET  /api/v1/backtests/stream")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
