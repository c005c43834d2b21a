package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/internal/pipeline"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// SignalHandler handles signal generation endpoints.
type SignalHandler struct {
	pipeline *pipeline.Pipeline
	logger   *logger.Logger
}

// NewSignalHandler creates a new signal handler.
func NewSignalHandler(p *pipeline.Pipeline, log *logger.Logger) *SignalHandler {
	return &SignalHandler{
		pipeline: p,
		logger:   log,
	}
}

// SignalRequest carries a batch of filings to turn into signals.
type SignalRequest struct {
	Documents []AnalyzeRequest `json:"documents"`
	Workers   int              `json:"workers"`
}

// SignalResponse is the generated signal batch.
type SignalResponse struct {
	Signals []*contracts.Signal `json:"signals"`
}

// Generate produces signals for a batch of filings, in request order.
// POST /api/v1/signals
func (h *SignalHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SignalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Documents) == 0 {
		respondError(w, http.StatusBadRequest, "documents must not be empty")
		return
	}
	if req.Workers <= 0 {
		req.Workers = 4
	}

	docs := make([]*contracts.Document, 0, len(req.Documents))
	for i, dr := range req.Documents {
		doc, errMsg := dr.toDocument()
		if errMsg != "" {
			h.logger.WithFields(map[string]interface{}{
				"index": i,
				"error": errMsg,
			}).Warn("Rejected signal request document")
			respondError(w, http.StatusBadRequest, errMsg)
			return
		}
		docs = append(docs, doc)
	}

	signals, err := h.pipeline.GenerateSignals(ctx, docs, req.Workers)
	if err != nil {
		h.logger.WithError(err).Error("Signal generation failed")
		respondError(w, http.StatusInternalServerError, "Signal generation failed")
		return
	}

	respondJSON(w, http.StatusOK, SignalResponse{Signals: signals})
}
