package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/harborquant/filingsignal/pkg/config"
	"github.com/harborquant/filingsignal/pkg/httputil"
	"github.com/harborquant/filingsignal/pkg/logger"
)

func exampleConfig() *config.Config {
	return &config.Config{
		Env:      "production",
		LogLevel: "info",
		EDGAR: config.EDGARConfig{
			UserAgent:      "filingsignal admin@example.com",
			RequestsPerSec: 8,
		},
	}
}

// Example_basic demonstrates basic HTTP client usage.
func Example_basic() {
	cfg := exampleConfig()
	log := logger.New(cfg)

	client := httputil.New(cfg, log)

	ctx := context.Background()
	resp, err := client.Get(ctx, "https://www.sec.gov/cgi-bin/browse-edgar?action=getcompany")
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Printf("Status: %d\n", resp.StatusCode)
}

// Example_withRetry demonstrates retry configuration.
func Example_withRetry() {
	cfg := exampleConfig()
	log := logger.New(cfg)

	client := httputil.New(cfg, log).
		WithRetry(5, 2*time.Second)

	ctx := context.Background()
	resp, err := client.Get(ctx, "https://www.sec.gov/Archives/edgar/data/")
	if err != nil {
		fmt.Printf("Request failed after retries: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Println("Request succeeded")
}

// Example_timeout demonstrates custom timeout.
func Example_timeout() {
	cfg := exampleConfig()
	log := logger.New(cfg)

	client := httputil.NewWithTimeout(cfg, log, 5*time.Second)

	ctx := context.Background()
	resp, err := client.Get(ctx, "https://www.sec.gov/Archives/edgar/data/")
	if err != nil {
		fmt.Printf("Request timeout: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Println("Request completed within timeout")
}
