// Package ingest fetches filings from SEC EDGAR and normalizes them into
// documents the feature pipeline can score.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/pkg/config"
	"github.com/harborquant/filingsignal/pkg/httputil"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// EDGARClient fetches filings from SEC EDGAR. Implements
// contracts.DocumentSource.
type EDGARClient struct {
	httpClient *httputil.Client
	baseURL    string
	logger     *logger.Logger
}

// FilingRef points at one filing in an EDGAR index listing.
type FilingRef struct {
	AccessionID string
	FilingType  contracts.FilingType
	FilingDate  time.Time
	DocumentURL string
}

var (
	accessionRe  = regexp.MustCompile(`\d{10}-\d{2}-\d{6}`)
	filingTypeRe = regexp.MustCompile(`\b(10-K|10-Q|8-K)\b`)
	filedDateRe  = regexp.MustCompile(`FILED AS OF DATE:\s*(\d{8})`)
)

// NewEDGARClient creates an EDGAR client.
func NewEDGARClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *EDGARClient {
	return &EDGARClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.EDGAR.BaseURL, "/"),
		logger:     log,
	}
}

// Fetch downloads a filing document and strips it down to plain text.
// The accession number in the URL becomes the document ID.
func (c *EDGARClient) Fetch(ctx context.Context, docURL string) (*contracts.Document, error) {
	resp, err := c.httpClient.Get(ctx, docURL)
	if err != nil {
		return nil, fmt.Errorf("fetch filing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("fetch filing: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read filing body: %w", err)
	}
	raw := string(body)

	text, err := extractText(raw)
	if err != nil {
		return nil, fmt.Errorf("parse filing HTML: %w", err)
	}

	doc := &contracts.Document{
		ID:         accessionRe.FindString(docURL),
		Ticker:     tickerFromURL(docURL),
		FilingType: detectFilingType(raw),
		FilingDate: detectFilingDate(raw),
		RawText:    text,
	}
	if doc.ID == "" {
		doc.ID = docURL
	}

	c.logger.WithFields(map[string]interface{}{
		"document_id": doc.ID,
		"filing_type": doc.FilingType,
		"text_bytes":  len(doc.RawText),
	}).Debug("Fetched filing")

	return doc, nil
}

// RecentFilings lists recent filings of a type for a ticker from the EDGAR
// browse index.
func (c *EDGARClient) RecentFilings(ctx context.Context, ticker string, filingType contracts.FilingType, count int) ([]FilingRef, error) {
	if count <= 0 {
		count = 10
	}

	indexURL := fmt.Sprintf(
		"%s/cgi-bin/browse-edgar?action=getcompany&company=%s&type=%s&dateb=&owner=include&count=%d",
		c.baseURL, url.QueryEscape(ticker), url.QueryEscape(string(filingType)), count,
	)

	resp, err := c.httpClient.Get(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch filing index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("fetch filing index: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse filing index: %w", err)
	}

	var refs []FilingRef
	doc.Find("table.tableFile2 tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		ft := contracts.FilingType(strings.TrimSpace(cells.Eq(0).Text()))
		if !ft.Valid() {
			return
		}

		href, _ := cells.Eq(1).Find("a").First().Attr("href")
		dateText := strings.TrimSpace(cells.Eq(3).Text())
		filingDate, err := time.Parse("2006-01-02", dateText)
		if err != nil {
			return
		}

		refs = append(refs, FilingRef{
			AccessionID: accessionRe.FindString(href),
			FilingType:  ft,
			FilingDate:  filingDate,
			DocumentURL: c.baseURL + href,
		})
	})

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"type":   filingType,
		"count":  len(refs),
	}).Debug("Listed recent filings")

	return refs, nil
}

// extractText strips markup from a filing and returns whitespace-normalized
// plain text. Script and style bodies are discarded entirely.
func extractText(raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", err
	}

	doc.Find("script, style").Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}

	return strings.Join(strings.Fields(text), " "), nil
}

// detectFilingType finds the first recognized form type in the raw filing.
func detectFilingType(raw string) contracts.FilingType {
	return contracts.FilingType(filingTypeRe.FindString(raw))
}

// detectFilingDate reads the SGML filing-date header, falling back to the
// current date when the header is absent.
func detectFilingDate(raw string) time.Time {
	if m := filedDateRe.FindStringSubmatch(raw); m != nil {
		if d, err := time.Parse("20060102", m[1]); err == nil {
			return d
		}
	}
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// tickerFromURL pulls an explicit ticker query parameter when the caller
// included one. EDGAR archive paths do not carry tickers.
func tickerFromURL(docURL string) string {
	u, err := url.Parse(docURL)
	if err != nil {
		return ""
	}
	return strings.ToUpper(u.Query().Get("ticker"))
}
