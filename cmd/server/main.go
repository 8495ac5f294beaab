package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1282saa/work-con/config"
	"github.com/1282saa/work-con/internal/api"
	"github.com/1282saa/work-con/internal/assets"
	"github.com/1282saa/work-con/internal/events"
	"github.com/1282saa/work-con/internal/store"
	"github.com/1282saa/work-con/internal/upstream"
	"github.com/1282saa/work-con/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.NewLogger("server")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	// Initialize the status store from its JSON file
	statusStore := store.NewFileStore(cfg.Store.StatusFile, logger)
	logger.LogInfo("Status store ready (%d articles tracked)", statusStore.Len())

	// Event log backing the live-update stream
	eventLog := events.NewLog(events.DefaultCapacity)

	// Upstream clients
	newsClient := upstream.NewNewsClient(cfg.News.APIKey)

	var generator api.ContentGenerator
	if g := upstream.NewGenerator(cfg.OpenAI.APIKey); g != nil {
		generator = g
		logger.LogInfo("Content generator enabled")
	} else {
		logger.LogInfo("OPENAI_API_KEY not set, generation endpoints disabled")
	}

	// Frontend build resolver
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("Failed to resolve working directory: %v", err)
	}
	resolver := assets.NewResolver(cwd, logger)
	if !cfg.IsProduction() || cfg.DebugMode {
		for root, files := range resolver.ListFiles() {
			logger.LogDebug("Static root %s serves %d files", root, len(files))
		}
	}

	handler := api.NewHandler(statusStore, eventLog, newsClient, generator, resolver, logger, cfg.GetPollInterval())
	server := api.NewServer(cfg.Server.Port, handler, cfg.IsProduction(), cfg.DebugMode)

	// Start the API server
	go func() {
		logger.LogInfo("Starting API server on port %d", cfg.Server.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start API server: %v", err)
		}
	}()

	// Wait for shutdown
	waitForShutdown(server, logger)
}

func waitForShutdown(server *api.Server, logger *utils.Logger) {
	// Handle system signals for shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.LogInfo("Shutting down...")

	// Graceful server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.LogError("Error shutting down server: %v", err)
	}
	logger.LogInfo("Server shut down gracefully")
}
