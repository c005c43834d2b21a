package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/pkg/httputil"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// DefaultStooqBaseURL is the public Stooq endpoint for daily CSV bars.
const DefaultStooqBaseURL = "https://stooq.com"

// StooqClient fetches daily close bars from the Stooq CSV download
// endpoint. Rows the source cannot price come back as "N/D" and are
// skipped rather than stored as zeros.
type StooqClient struct {
	httpClient *httputil.Client
	baseURL    string
	logger     *logger.Logger
}

// NewStooqClient creates a Stooq price client. An empty baseURL falls back
// to the public endpoint.
func NewStooqClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *StooqClient {
	if baseURL == "" {
		baseURL = DefaultStooqBaseURL
	}
	return &StooqClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     log,
	}
}

// FetchDaily fetches daily bars for a ticker over [from, to].
func (c *StooqClient) FetchDaily(ctx context.Context, ticker string, from, to time.Time) ([]*contracts.DailyPrice, error) {
	url := fmt.Sprintf("%s/q/d/l/?s=%s.us&d1=%s&d2=%s&i=d",
		c.baseURL,
		strings.ToLower(ticker),
		from.Format("20060102"),
		to.Format("20060102"),
	)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch daily prices for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch daily prices for %s: unexpected status %d", ticker, resp.StatusCode)
	}

	prices, err := parseDailyCSV(resp.Body, ticker)
	if err != nil {
		return nil, fmt.Errorf("parse daily prices for %s: %w", ticker, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(prices),
	}).Debug("Fetched daily prices")

	return prices, nil
}

// parseDailyCSV reads the Stooq layout: Date,Open,High,Low,Close,Volume.
func parseDailyCSV(r io.Reader, ticker string) ([]*contracts.DailyPrice, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var prices []*contracts.DailyPrice
	for i, row := range records {
		if i == 0 || len(row) < 6 {
			continue // header or malformed row
		}

		date, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			continue
		}

		closePrice, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			continue // "N/D" rows
		}

		volume, err := strconv.ParseInt(row[5], 10, 64)
		if err != nil {
			volume = 0
		}

		prices = append(prices, &contracts.DailyPrice{
			Ticker: ticker,
			Date:   date,
			Close:  closePrice,
			Volume: volume,
		})
	}

	return prices, nil
}
