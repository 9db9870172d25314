package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/bootstrap"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/config"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/middleware"
)

// Server holds the state for the HTTP server.
type Server struct {
	config  *config.Config
	handler http.Handler
	infra   *bootstrap.Infrastructure
	deps    *bootstrap.Dependencies
	logger  zerolog.Logger
	http    *http.Server

	// stops the notification hub
	stopHub context.CancelFunc
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	infra, err := bootstrap.SetupInfrastructure(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup infrastructure: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, infra, lgr)
	if err != nil {
		infra.Close(context.Background())
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router := bootstrap.SetupRouter(cfg, deps, lgr)

	return &Server{
		config:  cfg,
		handler: middleware.NewCORS(cfg.Server.AllowedOrigins).Handler(router),
		infra:   infra,
		deps:    deps,
		logger:  lgr,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	hubCtx, stopHub := context.WithCancel(context.Background())
	s.stopHub = stopHub
	go s.deps.Hub.Run(hubCtx)

	if s.deps.Scheduler != nil {
		s.deps.Scheduler.Start()
	}

	// WriteTimeout stays zero: WebSocket connections are long lived and
	// manage their own deadlines
	s.http = &http.Server{
		Addr:              ":" + s.config.Server.Port,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Channel to listen for errors starting the server
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive either a server error or an OS signal
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			_ = s.Shutdown(context.Background())
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	shutdownError := false

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownError = true
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	if s.deps != nil && s.deps.Scheduler != nil {
		s.deps.Scheduler.Stop()
	}

	// closes every WebSocket send channel
	if s.stopHub != nil {
		s.stopHub()
	}

	if s.infra != nil {
		s.logger.Info().Msg("Closing database connections...")
		s.infra.Close(ctx)
		s.logger.Info().Msg("Database connections closed.")
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownError {
		return errors.New("server shutdown completed with errors")
	}
	return nil
}
