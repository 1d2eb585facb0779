package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/config"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/factory"
)

func main() {
	configPath := flag.String("config", os.Getenv("SEATING_CONFIG"), "Path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := cfg.Logging.NewLogger()
	slog.SetDefault(logger)

	// Create application factory
	app, err := factory.New(cfg, factory.Options{Logger: logger})
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		SessionManager:   app.SessionManager,
		DirectoryService: app.DirectoryService,
		ViewStateService: app.ViewStateService,
		HubManager:       app.HubManager,
		MetricsHandler:   app.MetricsHandler,
		APIToken:         cfg.Server.APIToken,
		APITokenHash:     cfg.Server.APITokenHash,
	})

	// Create server
	server := api.NewServer(apiRouter, cfg.Server, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	// Pending arrangements are saved before exit
	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	if err := app.Close(closeCtx); err != nil {
		logger.Error("failed to save sessions on shutdown", slog.String("error", err.Error()))
		exitCode = 1
	}
	cancel()

	logger.Info("server stopped")
	stop()
	os.Exit(exitCode)
}
