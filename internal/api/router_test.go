package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborquant/filingsignal/internal/api/handlers"
	"github.com/harborquant/filingsignal/internal/backtest"
	"github.com/harborquant/filingsignal/internal/calendar"
	"github.com/harborquant/filingsignal/internal/classifier"
	"github.com/harborquant/filingsignal/internal/embedding"
	"github.com/harborquant/filingsignal/internal/features"
	"github.com/harborquant/filingsignal/internal/lexicon"
	"github.com/harborquant/filingsignal/internal/pipeline"
	"github.com/harborquant/filingsignal/internal/scores"
	"github.com/harborquant/filingsignal/pkg/logger"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	log := logger.NewNop()
	extractor := features.NewExtractor(lexicon.Default(), embedding.NewHashProvider(16), false, log)
	p := pipeline.New(extractor, classifier.NewDefault(log), scores.Fixed(0.5), scores.Fixed(0.5), log)
	engine := backtest.NewEngine(nil, calendar.New(), log)

	return NewRouter(
		handlers.NewAnalyzeHandler(p, log),
		handlers.NewSignalHandler(p, log),
		handlers.NewBacktestHandler(engine, log),
		log,
	)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "filingsignal-api", body["service"])
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyze", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
