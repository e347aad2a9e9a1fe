package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/envaudit/envaudit/cmd/envaudit/commands"
	"github.com/envaudit/envaudit/pkg/telemetry"
	"github.com/rs/zerolog/log"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	// Setup structured logging
	logger, err := telemetry.NewLogger(telemetry.LoggingConfigFromEnv())
	if err != nil {
		log.Error().Err(err).Msg("Failed to configure logging")
		os.Exit(1)
	}
	log.Logger = logger.Unwrap()

	// Create context that cancels on interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling so a long scan can be interrupted cleanly
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received interrupt signal, shutting down...")
		cancel()
	}()

	// Execute root command
	if err := commands.Execute(ctx, Version, Commit, BuildDate); err != nil {
		log.Error().Err(err).Msg("Command execution failed")
		os.Exit(1)
	}
}
