package app

import (
	"log/slog"
	"net/http"

	"github.com/tenxcards/flashcards-backend/internal/config"
	"github.com/tenxcards/flashcards-backend/internal/service/auth"
	"github.com/tenxcards/flashcards-backend/internal/transport/middleware"
	"github.com/tenxcards/flashcards-backend/internal/transport/rest"
)

// routerDeps bundles everything NewRouter needs to assemble the HTTP surface.
type routerDeps struct {
	logger    *slog.Logger
	cfg       *config.Config
	auth      *rest.AuthHandler
	flashcard *rest.FlashcardHandler
	health    *rest.HealthHandler
	validator *auth.Service
	limiter   *middleware.RateLimiter
}

// NewRouter builds the route table and wraps it in the shared middleware
// chain. Identity resolution is global and never rejects; each handler
// decides whether an anonymous caller is acceptable.
func NewRouter(deps routerDeps) http.Handler {
	mux := http.NewServeMux()

	// Credential endpoints get per-IP rate limiting on top of the shared chain.
	authLimit := deps.limiter.Limit(deps.cfg.Rate.AuthPerMinute)
	mux.Handle("POST /auth/register", authLimit(http.HandlerFunc(deps.auth.Register)))
	mux.Handle("POST /auth/login", authLimit(http.HandlerFunc(deps.auth.Login)))
	mux.Handle("POST /auth/refresh", authLimit(http.HandlerFunc(deps.auth.Refresh)))
	mux.HandleFunc("POST /auth/logout", deps.auth.Logout)
	mux.HandleFunc("GET /auth/session", deps.auth.Session)

	mux.HandleFunc("POST /flashcards", deps.flashcard.Create)
	mux.HandleFunc("GET /flashcards", deps.flashcard.List)

	mux.HandleFunc("GET /health", deps.health.Health)
	mux.HandleFunc("GET /live", deps.health.Live)
	mux.HandleFunc("GET /ready", deps.health.Ready)

	return middleware.Chain(
		middleware.RequestID,
		middleware.Logger(deps.logger),
		middleware.Recovery(deps.logger),
		middleware.CORS(deps.cfg.CORS),
		middleware.Auth(deps.logger, deps.validator),
	)(mux)
}
