//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tenxcards/flashcards-backend/internal/adapter/postgres"
	flashcardrepo "github.com/tenxcards/flashcards-backend/internal/adapter/postgres/flashcard"
	generationrepo "github.com/tenxcards/flashcards-backend/internal/adapter/postgres/generation"
	"github.com/tenxcards/flashcards-backend/internal/adapter/postgres/testhelper"
	tokenrepo "github.com/tenxcards/flashcards-backend/internal/adapter/postgres/token"
	userrepo "github.com/tenxcards/flashcards-backend/internal/adapter/postgres/user"
	jwtauth "github.com/tenxcards/flashcards-backend/internal/auth"
	"github.com/tenxcards/flashcards-backend/internal/config"
	authsvc "github.com/tenxcards/flashcards-backend/internal/service/auth"
	flashcardsvc "github.com/tenxcards/flashcards-backend/internal/service/flashcard"
	"github.com/tenxcards/flashcards-backend/internal/transport/middleware"
	"github.com/tenxcards/flashcards-backend/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	jwt    *jwtauth.JWTManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ---------------------------------------------------------------------------
// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
// ---------------------------------------------------------------------------

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	// 1. Get pool from testcontainers-backed helper.
	pool := testhelper.SetupTestDB(t)

	// 2. Infrastructure.
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	// 3. Repositories.
	userRepo := userrepo.New(pool)
	tokenRepo := tokenrepo.New(pool)
	generationRepo := generationrepo.New(pool)
	flashcardRepo := flashcardrepo.New(pool)

	// 4. JWT manager with a test secret (>= 32 chars).
	jwtSecret := "test-secret-at-least-32-chars-long!!"
	jwtMgr := jwtauth.NewJWTManager(jwtSecret, "test-issuer", 15*time.Minute)

	authCfg := config.AuthConfig{
		JWTSecret:        jwtSecret,
		JWTIssuer:        "test-issuer",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  720 * time.Hour,
		AccessCookieTTL:  168 * time.Hour,
		RefreshCookieTTL: 720 * time.Hour,
		PasswordHashCost: 4,
	}

	// 5. Services.
	authService := authsvc.NewService(logger, userRepo, tokenRepo, jwtMgr, authCfg)
	flashcardService := flashcardsvc.NewService(logger, generationRepo, flashcardRepo, txm)

	// 6. Handlers.
	authHandler := rest.NewAuthHandler(authService, authCfg, logger)
	flashcardHandler := rest.NewFlashcardHandler(flashcardService, logger)
	healthHandler := rest.NewHealthHandler(pool, "test-version")

	// 7. Rate limiter, generous enough to never interfere with tests.
	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)
	authLimit := limiter.Limit(1000)

	// 8. Mux.
	mux := http.NewServeMux()
	mux.Handle("POST /auth/register", authLimit(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /auth/login", authLimit(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /auth/refresh", authLimit(http.HandlerFunc(authHandler.Refresh)))
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/session", authHandler.Session)
	mux.HandleFunc("POST /flashcards", flashcardHandler.Create)
	mux.HandleFunc("GET /flashcards", flashcardHandler.List)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.HandleFunc("GET /ready", healthHandler.Ready)

	// 9. Middleware chain.
	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.CORS(config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type",
			AllowCredentials: true,
			MaxAge:           86400,
		}),
		middleware.Auth(logger, authService),
	)(mux)

	// 10. httptest server.
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		jwt:    jwtMgr,
	}
}

// ---------------------------------------------------------------------------
// restRequest sends a JSON request with an optional bearer token.
// ---------------------------------------------------------------------------

func restRequest(t *testing.T, ts *testServer, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

// decodeBody decodes a JSON response body into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

// ---------------------------------------------------------------------------
// createTestUserWithID seeds a user directly into the DB and returns a valid
// JWT access token plus the user's UUID (needed for DB verification).
// ---------------------------------------------------------------------------

func createTestUserWithID(t *testing.T, ts *testServer) (string, uuid.UUID) {
	t.Helper()

	u := testhelper.SeedUser(t, ts.Pool)

	tok, err := ts.jwt.GenerateAccessToken(u.ID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	return tok, u.ID
}
