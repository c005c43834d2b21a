package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/harborquant/filingsignal/internal/backtest"
	"github.com/harborquant/filingsignal/internal/contracts"
	"github.com/harborquant/filingsignal/pkg/logger"
)

// BacktestHandler handles backtest endpoints.
type BacktestHandler struct {
	engine   *backtest.Engine
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewBacktestHandler creates a new backtest handler.
func NewBacktestHandler(engine *backtest.Engine, log *logger.Logger) *BacktestHandler {
	return &BacktestHandler{
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: log,
	}
}

// BacktestRequest carries a signal stream and run parameters.
type BacktestRequest struct {
	Signals []*contracts.Signal `json:"signals"`
	Config  BacktestConfig      `json:"config"`
}

// BacktestConfig is the wire form of the run parameters.
type BacktestConfig struct {
	BufferDays     int     `json:"buffer_days"`
	InitialCapital float64 `json:"initial_capital"`
	PositionWeight float64 `json:"position_weight"`
	Slippage       float64 `json:"slippage"`
	StartDate      string  `json:"start_date"` // YYYY-MM-DD
	EndDate        string  `json:"end_date"`   // YYYY-MM-DD
	RiskFreeRate   float64 `json:"risk_free_rate"`
}

// toEngineConfig parses the wire config. Returns a non-empty message on
// validation failure; deeper validation happens inside the engine.
func (c BacktestConfig) toEngineConfig() (backtest.Config, string) {
	start, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return backtest.Config{}, "start_date must be YYYY-MM-DD"
	}
	end, err := time.Parse("2006-01-02", c.EndDate)
	if err != nil {
		return backtest.Config{}, "end_date must be YYYY-MM-DD"
	}

	return backtest.Config{
		BufferDays:     c.BufferDays,
		InitialCapital: c.InitialCapital,
		PositionWeight: c.PositionWeight,
		Slippage:       c.Slippage,
		StartDate:      start,
		EndDate:        end,
		RiskFreeRate:   c.RiskFreeRate,
	}, ""
}

// Run executes a backtest and returns the full result.
// POST /api/v1/backtests
func (h *BacktestHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Signals) == 0 {
		respondError(w, http.StatusBadRequest, "signals must not be empty")
		return
	}

	cfg, errMsg := req.Config.toEngineConfig()
	if errMsg != "" {
		respondError(w, http.StatusBadRequest, errMsg)
		return
	}

	result, err := h.engine.Run(ctx, req.Signals, cfg)
	if err != nil {
		var verr backtest.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.logger.WithError(err).Error("Backtest failed")
		respondError(w, http.StatusInternalServerError, "Backtest failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// StreamMessage is one frame of the backtest progress stream.
type StreamMessage struct {
	Type   string                    `json:"type"` // "equity", "result", "error"
	Equity *contracts.EquityPoint    `json:"equity,omitempty"`
	Result *contracts.BacktestResult `json:"result,omitempty"`
	Error  string                    `json:"error,omitempty"`
}

// Stream upgrades to WebSocket, reads one backtest request, and streams
// daily equity points followed by the final result.
// GET /api/v1/backtests/stream
func (h *BacktestHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	var req BacktestRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.writeStreamError(conn, "invalid backtest request")
		return
	}
	if len(req.Signals) == 0 {
		h.writeStreamError(conn, "signals must not be empty")
		return
	}

	cfg, errMsg := req.Config.toEngineConfig()
	if errMsg != "" {
		h.writeStreamError(conn, errMsg)
		return
	}

	// Stream each daily mark as it is computed. The engine calls this
	// synchronously, so a slow client backpressures the run.
	var writeErr error
	cfg.Progress = func(point contracts.EquityPoint) {
		if writeErr != nil {
			return
		}
		writeErr = conn.WriteJSON(StreamMessage{Type: "equity", Equity: &point})
	}

	result, err := h.engine.Run(r.Context(), req.Signals, cfg)
	if err != nil {
		h.writeStreamError(conn, err.Error())
		return
	}
	if writeErr != nil {
		h.logger.WithError(writeErr).Warn("Backtest stream client dropped")
		return
	}

	if err := conn.WriteJSON(StreamMessage{Type: "result", Result: result}); err != nil {
		h.logger.WithError(err).Warn("Failed to write backtest result frame")
	}
}

func (h *BacktestHandler) writeStreamError(conn *websocket.Conn, msg string) {
	if err := conn.WriteJSON(StreamMessage{Type: "error", Error: msg}); err != nil {
		h.logger.WithError(err).Warn("Failed to write stream error frame")
	}
}
