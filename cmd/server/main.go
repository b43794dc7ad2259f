package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iconidentify/vidrelay/internal/api"
	"github.com/iconidentify/vidrelay/internal/api/handler"
	"github.com/iconidentify/vidrelay/internal/config"
	"github.com/iconidentify/vidrelay/internal/extractor"
	"github.com/iconidentify/vidrelay/internal/relay"
	"github.com/iconidentify/vidrelay/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("vidrelay %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting vidrelay",
		"version", Version,
		"build_time", BuildTime,
	)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize dependencies
	extractClient := &http.Client{Timeout: cfg.Fetch.Timeout}
	youtubeExtractor := extractor.NewYouTube(extractClient)
	instagramExtractor := extractor.NewInstagram(extractClient, cfg.Fetch.UserAgent)
	streamRelay := relay.New(cfg.Fetch, logger)

	// Initialize services
	youtubeSvc := service.NewYouTubeService(youtubeExtractor, streamRelay, logger)
	instagramSvc := service.NewInstagramService(instagramExtractor, streamRelay, logger)

	// Initialize handlers
	youtubeHandler := handler.NewYouTubeHandler(youtubeSvc, logger)
	instagramHandler := handler.NewInstagramHandler(instagramSvc, logger)
	healthHandler := handler.NewHealthHandler("vidrelay is running")

	// Setup router
	router := api.NewRouter(youtubeHandler, instagramHandler, healthHandler, cfg.Server.APIKey, logger)

	// Setup HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Graceful shutdown; in-flight relays get a chance to finish
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
