package integration

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lusogate/internal/api"
	"lusogate/internal/config"
	"lusogate/internal/guard"
	"lusogate/internal/i18n"
	"lusogate/internal/models"
	"lusogate/internal/observability"
	"lusogate/internal/parser"
	"lusogate/internal/ratelimit"
	"lusogate/internal/schema"
	"lusogate/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests that run the whole stack, from a configuration file to
// persisted submissions.

const configTemplate = `
server:
  port: 8080
  host: localhost
rate_limit:
  enabled: true
  window: 1m
  classes:
    read: 100
    write: 10
    messaging: 2
counter_store:
  type: memory
storage:
  type: sqlite
  database:
    dsn: "%DSN%"
validation:
  default_language: en
metrics:
  enabled: false
`

const message = `{"content":"Bom dia, a festa é no sábado!","conversationId":"0b5c2b9e-8f0c-4a57-9f55-2f1d8f3e6a10","receiverId":"6f1e7c52-1c6b-4b8e-9d0a-3c7a2e5b9d41"}`

type stack struct {
	server *httptest.Server
	store  storage.Storage
	cfg    *models.Config
}

func newStack(t *testing.T) *stack {
	t.Helper()

	dir := t.TempDir()
	dsn := filepath.Join(dir, "submissions.db")
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(strings.ReplaceAll(configTemplate, "%DSN%", dsn)), 0o644))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	counters, err := observability.NewInstrumentedStore(
		ratelimit.NewMemoryStore(cfg.RateLimit.CleanupInterval, cfg.RateLimit.IdleTimeout))
	require.NoError(t, err)
	t.Cleanup(func() { counters.Close() })

	inner, err := storage.NewFactory().Create(cfg.Storage)
	require.NoError(t, err)
	store, err := observability.NewInstrumentedStorage(inner)
	require.NoError(t, err)

	catalog, err := i18n.New(cfg.Validation.DefaultLanguage)
	require.NoError(t, err)
	validator, err := schema.New(cfg.Validation, catalog)
	require.NoError(t, err)
	metrics, err := observability.NewGuardMetrics()
	require.NoError(t, err)

	g := guard.New(ratelimit.NewLimiter(counters), cfg.RateLimit, parser.New(cfg.Validation), validator, catalog,
		guard.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		guard.WithRecorder(metrics),
	)
	eps, err := api.NewEndpoints(cfg.Validation)
	require.NoError(t, err)

	handlers := api.NewHandlers(store, api.WithCounterStore(counters))
	server := httptest.NewServer(api.SetupRoutes(handlers, g, eps, cfg))
	t.Cleanup(server.Close)

	return &stack{server: server, store: store, cfg: cfg}
}

func (s *stack) post(t *testing.T, path, lang, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestIntegration_MessagingFlow(t *testing.T) {
	s := newStack(t)

	// Step 1: the messaging budget accepts two messages
	var ids []string
	for range 2 {
		resp := s.post(t, "/api/v1/messages", "", message)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		created := decode[models.SubmissionResponse](t, resp)
		assert.Equal(t, models.KindMessage, created.Kind)
		ids = append(ids, created.ID)
	}

	// Step 2: the third is refused in the caller's language
	resp := s.post(t, "/api/v1/messages", "pt-PT,pt;q=0.9", message)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	limited := decode[models.RateLimitErrorResponse](t, resp)
	assert.Equal(t, models.ErrorCodeRateLimitExceeded, limited.Error)
	assert.Equal(t, "Demasiados pedidos, tente novamente mais tarde", limited.Message)

	// Step 3: other rate classes are unaffected
	listResp, err := http.Get(s.server.URL + "/api/v1/submissions?kind=message")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	list := decode[models.ListSubmissionsResponse](t, listResp)
	assert.Equal(t, 2, list.TotalCount)

	// Step 4: submissions survive a storage restart
	require.NoError(t, s.store.Close())
	reopened, err := storage.NewFactory().Create(s.cfg.Storage)
	require.NoError(t, err)
	defer reopened.Close()

	for _, id := range ids {
		sub, err := reopened.GetSubmission(context.Background(), id)
		require.NoError(t, err)
		assert.JSONEq(t, message, string(sub.Payload))
	}
}

func TestIntegration_RejectionsAreNotStored(t *testing.T) {
	s := newStack(t)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed JSON",
			path:       "/api/v1/messages",
			body:       `{"content":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   models.ErrorCodeParse,
		},
		{
			name:       "schema failure",
			path:       "/api/v1/messages",
			body:       `{"content":"Olá","conversationId":"not-a-uuid","receiverId":"6f1e7c52-1c6b-4b8e-9d0a-3c7a2e5b9d41"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   models.ErrorCodeValidation,
		},
		{
			name:       "missing consent",
			path:       "/api/v1/signup",
			body:       `{"firstName":"João","email":"joao@example.pt","password":"Lusitano#2024","confirmPassword":"Lusitano#2024","gdprConsent":false}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   models.ErrorCodeDomainCheck,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.post(t, tt.path, "", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decode[models.ValidationErrorResponse](t, resp)
			assert.Equal(t, tt.wantCode, body.Error)
		})
	}

	subs, err := s.store.ListSubmissions(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestIntegration_Health(t *testing.T) {
	s := newStack(t)

	resp, err := http.Get(s.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[models.HealthCheckResponse](t, resp)
	assert.Equal(t, "healthy", health.Status)
	assert.Contains(t, health.Components, "storage")
	assert.Contains(t, health.Components, "rate_limiter")
}
