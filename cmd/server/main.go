package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/roomwarden/internal/api"
	"github.com/mcoot/roomwarden/internal/config"
	"github.com/mcoot/roomwarden/internal/factory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Create application factory
	app, err := factory.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		Loop:          app.Loop,
		Clock:         app.Clock,
		Stream:        app.Stream,
		Sim:           app.Room,
		SimulationAPI: cfg.SimulationAPI,
		Version:       factory.Version,
		StartedAt:     app.StartedAt,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the moderator and the server in goroutines
	appErr := make(chan error, 1)
	go func() {
		appErr <- app.Run(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("room", cfg.RoomName),
		slog.Bool("simulation_api", cfg.SimulationAPI),
	)

	// Wait for shutdown or error
	exitCode := 0
	appDone := false
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	case err := <-appErr:
		appDone = true
		// The process supervisor restarts us when the room dies
		if errors.Is(err, factory.ErrRoomUnresponsive) {
			logger.Error("room unresponsive, exiting")
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	stop()
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		exitCode = 1
	}
	if !appDone {
		<-appErr
	}
	if err := app.Close(); err != nil {
		logger.Warn("close error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
