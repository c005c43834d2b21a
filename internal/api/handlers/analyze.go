package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/internal/pipeline"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// AnalyzeHandler handles document analysis endpoints.
type AnalyzeHandler struct {
	pipeline *pipeline.Pipeline
	logger   *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(p *pipeline.Pipeline, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		pipeline: p,
		logger:   log,
	}
}

// AnalyzeRequest carries one filing to analyze.
type AnalyzeRequest struct {
	ID         string `json:"id"`
	Ticker     string `json:"ticker"`
	FilingType string `json:"filing_type"`
	FilingDate string `json:"filing_date"` // YYYY-MM-DD, optional
	RawText    string `json:"raw_text"`
}

// Analyze extracts the feature record for a submitted filing.
// POST /api/v1/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, errMsg := req.toDocument()
	if errMsg != "" {
		respondError(w, http.StatusBadRequest, errMsg)
		return
	}

	rec, err := h.pipeline.Analyze(ctx, doc)
	if err != nil {
		h.logger.WithError(err).Error("Analysis failed")
		respondError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// toDocument validates the request and converts it to a document. Returns
// a non-empty message on validation failure.
func (req AnalyzeRequest) toDocument() (*contracts.Document, string) {
	if req.ID == "" {
		return nil, "id is required"
	}
	if req.Ticker == "" {
		return nil, "ticker is required"
	}
	ft := contracts.FilingType(req.FilingType)
	if !ft.Valid() {
		return nil, "filing_type must be one of 10-K, 10-Q, 8-K"
	}
	if req.RawText == "" {
		return nil, "raw_text is required"
	}

	filingDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.FilingDate != "" {
		d, err := time.Parse("2006-01-02", req.FilingDate)
		if err != nil {
			return nil, "filing_date must be YYYY-MM-DD"
		}
		filingDate = d
	}

	return &contracts.Document{
		ID:         req.ID,
		Ticker:     req.Ticker,
		FilingType: ft,
		FilingDate: filingDate,
		RawText:    req.RawText,
	}, ""
}
