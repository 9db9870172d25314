package main

import (
	"os"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/logger"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/server"
)

// @title NextStep API
// @version 1.0
// @description Career platform API for students: courses, XP and levels, achievements, portfolios and talent search

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// blocks until shutdown
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
