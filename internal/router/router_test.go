package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/exam-countdown/internal/alert"
	"github.com/stemsi/exam-countdown/internal/broadcast"
	"github.com/stemsi/exam-countdown/internal/catalog"
	"github.com/stemsi/exam-countdown/internal/config"
	"github.com/stemsi/exam-countdown/internal/countdown"
	"github.com/stemsi/exam-countdown/internal/handler"
	"github.com/stemsi/exam-countdown/internal/service"
	"github.com/stemsi/exam-countdown/internal/validator"
)

func setup(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	validator.Setup()

	cat := catalog.Default()
	alerts := alert.NewDispatcher(alert.NopPlayer{}, alert.Config{}, zerolog.Nop())
	svc := service.NewSessionService(cat, broadcast.NewHub(), alerts, service.SessionConfig{
		Clock:    countdown.NewFakeClock(time.Date(2025, time.June, 10, 8, 0, 0, 0, time.UTC)),
		Location: time.UTC,
	}, zerolog.Nop())
	t.Cleanup(svc.Shutdown)

	engine, limiter := SetupRouter(&Handlers{
		Catalog: handler.NewCatalogHandler(cat),
		Session: handler.NewSessionHandler(svc, zerolog.Nop()),
		WS:      handler.NewWSHandler(svc, zerolog.Nop(), cfg.AllowedOrigins),
		System:  handler.NewSystemHandler(svc, zerolog.Nop()),
	}, cfg)
	t.Cleanup(limiter.Stop)
	return engine
}

func testConfig() *config.Config {
	return &config.Config{GinMode: "test", SessionRateLimit: 2}
}

func TestHealthCarriesRequestID(t *testing.T) {
	r := setup(t, testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), `"request_id":"req-123"`)
}

func TestCatalogRouteIsCacheable(t *testing.T) {
	r := setup(t, testConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/boards/Cambridge/subjects", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=300", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Body.String(), `"code":"0580"`)
}

func TestSessionMutationsAreRateLimited(t *testing.T) {
	r := setup(t, testConfig())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/session", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNotFound, http.StatusNotFound, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "reads are not limited")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestStartSessionThroughRouter(t *testing.T) {
	r := setup(t, testConfig())

	body := `{"board":"Edexcel","subject":{"code":"WMA11"},"date":"2025-06-10","start_time":"13:30","end_time":"15:00"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/session", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"venue":"91829"`)
	assert.Contains(t, w.Body.String(), `"time_range":"1:30 P.M. - 3:00 P.M."`)
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigins = []string{"https://display.school.example"}
	r := setup(t, cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/session", nil)
	req.Header.Set("Origin", "https://display.school.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://display.school.example", w.Header().Get("Access-Control-Allow-Origin"))
}
