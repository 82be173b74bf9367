// Package app wires configuration, storage, services and transport together
// and runs the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tenxcards/flashcards-backend/internal/adapter/postgres"
	flashcardrepo "github.com/tenxcards/flashcards-backend/internal/adapter/postgres/flashcard"
	generationrepo "github.com/tenxcards/flashcards-backend/internal/adapter/postgres/generation"
	tokenrepo "github.com/tenxcards/flashcards-backend/internal/adapter/postgres/token"
	userrepo "github.com/tenxcards/flashcards-backend/internal/adapter/postgres/user"
	jwtauth "github.com/tenxcards/flashcards-backend/internal/auth"
	"github.com/tenxcards/flashcards-backend/internal/config"
	authsvc "github.com/tenxcards/flashcards-backend/internal/service/auth"
	flashcardsvc "github.com/tenxcards/flashcards-backend/internal/service/flashcard"
	"github.com/tenxcards/flashcards-backend/internal/transport/middleware"
	"github.com/tenxcards/flashcards-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires services and handlers, and serves HTTP until the
// context is cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	users := userrepo.New(pool)
	tokens := tokenrepo.New(pool)
	generations := generationrepo.New(pool)
	flashcards := flashcardrepo.New(pool)

	jwtManager := jwtauth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	authService := authsvc.NewService(logger, users, tokens, jwtManager, cfg.Auth)
	flashcardService := flashcardsvc.NewService(logger, generations, flashcards, txManager)

	limiter := middleware.NewRateLimiter(cfg.Rate.CleanupInterval)
	defer limiter.Stop()

	router := NewRouter(routerDeps{
		logger:    logger,
		cfg:       cfg,
		auth:      rest.NewAuthHandler(authService, cfg.Auth, logger),
		flashcard: rest.NewFlashcardHandler(flashcardService, logger),
		health:    rest.NewHealthHandler(pool, BuildVersion()),
		validator: authService,
		limiter:   limiter,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("stopped")
	return nil
}
