// Package server sets up the HTTP server, router, and the dependency graph.
//
// This package is the "composition root": every dependency is built and
// wired here, in one place, rather than scattered across the codebase.
//
// DEPENDENCY FLOW:
//
//	config.Config → store (sqlite | postgres) ─┐
//	              → PasswordService ───────────┤
//	              → TokenService ──────────────┼→ AccountService → AccountHandler → routes
//	              → Publisher (kafka | nop) ───┘
//
// Each layer only receives what it needs: the service gets the repository
// interface, the handler gets the service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/accounts/internal/auth"
	"github.com/sakif/accounts/internal/config"
	"github.com/sakif/accounts/internal/events"
	"github.com/sakif/accounts/internal/handler"
	"github.com/sakif/accounts/internal/middleware"
	"github.com/sakif/accounts/internal/repository"
	"github.com/sakif/accounts/internal/repository/postgres"
	sqliteRepo "github.com/sakif/accounts/internal/repository/sqlite"
	"github.com/sakif/accounts/internal/service"
)

// store is what the server needs from a backend: the repository plus a
// health probe. Both sqlite.DB and postgres.DB satisfy it.
type store interface {
	repository.UserRepository
	Ping(ctx context.Context) error
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the store and the event publisher. Both are closed during
// shutdown, after in-flight requests have finished.
type Server struct {
	router    *chi.Mux
	config    config.Config
	logger    *slog.Logger
	store     store
	publisher events.Publisher
}

// New creates a Server from the given config.
//
// WIRING ORDER:
//  1. Open the store (runs migrations)
//  2. Build the password hasher and token service
//  3. Build the event publisher
//  4. Build the account service and handlers
//  5. Mount the route table
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	// === 1. STORE ===
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// === 2. AUTH ===
	passwords := auth.NewPasswordServiceWithCost(cfg.BcryptCost)
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("server: creating token service: %w", err)
	}

	// === 3. EVENTS ===
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.EventsEnabled() {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("server: creating event publisher: %w", err)
		}
		publisher = kp
		logger.Info("publishing account events",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.String("topic", cfg.KafkaTopic),
		)
	}

	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		logger:    logger,
		store:     st,
		publisher: publisher,
	}

	// === 4 + 5. SERVICE, HANDLERS, ROUTES ===
	accounts := service.NewAccountService(st, passwords, tokens, publisher, logger)
	s.setupRoutes(accounts, tokens)

	return s, nil
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqliteRepo.New(ctx, cfg.DBPath, logger)
		if err != nil {
			return nil, fmt.Errorf("server: opening sqlite database: %w", err)
		}
		return db, nil
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, fmt.Errorf("server: opening postgres database: %w", err)
		}
		return db, nil
	}
	return nil, fmt.Errorf("server: unsupported database driver %q", cfg.DBDriver)
}

// setupRoutes configures middleware and mounts the route table.
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns a unique ID to each request (for tracing)
// 2. RealIP: extracts the real client IP from proxy headers
// 3. Logger: logs each request with timing info and the request ID
// 4. Recoverer: catches panics and returns 500 instead of crashing
func (s *Server) setupRoutes(accounts *service.AccountService, tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	routes := handler.Routes(
		handler.NewAccountHandler(accounts, s.logger),
		handler.NewHealthHandler(s.store, s.logger),
	)
	handler.Mount(s.router, routes, tokens)
}

// Handler exposes the router, for tests and for embedding in another server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the publisher and the store.
func (s *Server) Close() error {
	return errors.Join(s.publisher.Close(), s.store.Close())
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (SHUTDOWN_TIMEOUT)
//  3. Flush the event publisher and close the store
func (s *Server) Start() error {
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.Error("closing resources", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
