package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/clockworkapp/clockwork-server/internal/auth"
	"github.com/clockworkapp/clockwork-server/internal/service"
	"github.com/clockworkapp/clockwork-server/internal/store"
	"github.com/clockworkapp/clockwork-server/internal/validation"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details"`
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api          humatest.TestAPI
	tokenService *auth.TokenService
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "clockwork-api-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")

	logger := slog.New(slog.DiscardHandler)

	st, err := store.New(dbPath, logger)
	require.NoError(t, err)

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(authKey, 15*time.Minute)
	require.NoError(t, err)

	v := validation.New()

	services := &Services{
		Auth:    service.NewAuthService(st, tokenService, v, logger),
		Timer:   service.NewTimerService(st, v, logger),
		Records: service.NewRecordService(st, v, logger),
		Stats:   service.NewStatsService(st, logger),
	}

	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig("Clockwork API Test", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		api:             api,
		logger:          logger,
		authRateLimiter: NewRateLimiter(100, time.Minute, 50),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerTimerRoutes()
	s.registerRecordRoutes()
	s.registerStatsRoutes()

	t.Cleanup(func() {
		s.Close()
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return &testServer{
		Server:       s,
		api:          humatest.Wrap(t, api),
		tokenService: tokenService,
	}
}

// createTestUser runs initial setup and returns the access token and user ID.
func (ts *testServer) createTestUser(t *testing.T) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "admin@test.com",
		"password":     "TestPassword123!",
		"display_name": "Test Admin",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Setup failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	claims, err := ts.tokenService.VerifyAccessToken(envelope.Data.AccessToken)
	require.NoError(t, err)

	return envelope.Data.AccessToken, claims.UserID
}

// createTestRecord creates a completed record over the API and returns it.
func (ts *testServer) createTestRecord(t *testing.T, token string, body map[string]any) RecordResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/records", body, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, "Create record failed: %s", resp.Body.String())

	var envelope testEnvelope[RecordResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	return envelope.Data
}

func recordBody(project, date, start, end string) map[string]any {
	return map[string]any{
		"project_name": project,
		"date":         date,
		"start_time":   start,
		"end_time":     end,
	}
}
