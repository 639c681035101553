// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: the entire dependency chain is assembled
// here — database → repositories → services → handlers — and wired to
// routes. Each layer only receives what it needs: services get repository
// interfaces, handlers get service interfaces, and nothing below the handler
// layer ever sees HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/sroche/yogabook/internal/auth"
	"github.com/sroche/yogabook/internal/config"
	"github.com/sroche/yogabook/internal/handler"
	"github.com/sroche/yogabook/internal/middleware"
	sqliteRepo "github.com/sroche/yogabook/internal/repository/sqlite"
	"github.com/sroche/yogabook/internal/service"
)

// Server represents the HTTP server and its owned resources. The database
// connection belongs to the server and is closed during shutdown.
type Server struct {
	router  *chi.Mux
	config  *config.Config
	logger  *slog.Logger
	db      *sqliteRepo.DB
	handler http.Handler
}

// New creates a Server with the given config, wiring the full dependency
// graph.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	// CORS wraps the whole router so preflight requests short-circuit
	// before auth.
	s.handler = cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(s.router)

	return s, nil
}

// setupRoutes configures middleware, builds services and handlers, and maps
// the route table.
//
// Route protection: Authenticate runs on every /api request and only
// resolves the principal; RequireAuth guards everything except /api/auth.
// The whole API is authenticated — register and login are the only ways in.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWT.Secret, s.config.JWT.TTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	userService := service.NewUserService(s.db, s.logger)
	teacherService := service.NewTeacherService(s.db, s.logger)
	sessionService := service.NewSessionService(s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	teacherHandler := handler.NewTeacherHandler(teacherService, s.logger)
	sessionHandler := handler.NewSessionHandler(sessionService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.Authenticate(tokens, s.db))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)

			r.Get("/user/{id}", userHandler.HandleGet)
			r.Delete("/user/{id}", userHandler.HandleDelete)

			r.Get("/teacher", teacherHandler.HandleList)
			r.Get("/teacher/{id}", teacherHandler.HandleGet)

			r.Get("/session", sessionHandler.HandleList)
			r.Post("/session", sessionHandler.HandleCreate)
			r.Get("/session/{id}", sessionHandler.HandleGet)
			r.Put("/session/{id}", sessionHandler.HandleUpdate)
			r.Delete("/session/{id}", sessionHandler.HandleDelete)
			r.Post("/session/{id}/participate/{userId}", sessionHandler.HandleParticipate)
			r.Delete("/session/{id}/participate/{userId}", sessionHandler.HandleUnparticipate)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests within
// the configured timeout, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.handler,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("database", s.config.Database.Path),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
