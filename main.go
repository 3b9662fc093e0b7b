// main.go
package main

import (
	"TUI_channel_analytics/infrastructure/cache"
	"TUI_channel_analytics/infrastructure/config"
	"TUI_channel_analytics/infrastructure/logger"
	"TUI_channel_analytics/infrastructure/provider"
	"TUI_channel_analytics/internal/core/domain"
	"TUI_channel_analytics/internal/core/usecases"
	"TUI_channel_analytics/internal/handler/server"
	"TUI_channel_analytics/internal/handler/tui"
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if err := run(os.LookupEnv, runProgram); err != nil {
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", cfgErr)
			fmt.Fprintf(os.Stderr, "Set api_key and channel_id in %s or YOUTUBE_API_KEY / YOUTUBE_CHANNEL_ID.\n", config.DefaultSecretsFile)
		} else {
			fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		}
		os.Exit(1)
	}
}

func runProgram(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// run wires the application and blocks until the TUI exits. Deferred cleanup
// always runs because main only exits after run has returned.
func run(lookup config.LookupFunc, program func(tea.Model) error) error {
	cfg, err := config.Load(lookup)
	if err != nil {
		return err
	}

	// Initialize Logger
	appLogger, err := logger.NewFileLogger(cfg.LogDir, "channel_analytics")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()
	appLogger.Info("Application starting...")

	// Initialize Services
	videoCache := cache.NewVideoCache(context.Background(), cache.Options{
		Size:     cfg.CacheSize,
		TTL:      cfg.CacheTTL,
		RedisURL: cfg.RedisURL,
	}, appLogger)
	defer func() {
		if err := videoCache.Close(); err != nil {
			appLogger.Error("Failed to close video cache", err)
		}
	}()

	youtubeProvider := provider.NewYoutubeProvider(provider.Options{
		APIKey:            cfg.APIKey,
		Timeout:           cfg.HTTPTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, appLogger)
	analyticsUseCase := usecases.NewAnalyticsUseCase(youtubeProvider, videoCache, appLogger)

	newDashboardServer := func(source server.ReportSource) server.DashboardServer {
		return server.NewDashboardServer(source, appLogger)
	}

	// Create the initial TUI model
	initialModel := tui.NewAppModel(analyticsUseCase, newDashboardServer, appLogger, tui.Options{
		ChannelID:     cfg.ChannelID,
		MaxResults:    cfg.MaxResults,
		DashboardAddr: cfg.DashboardAddr,
	})

	// Start Bubble Tea program
	if err := program(initialModel); err != nil {
		appLogger.Error("Error running TUI program", err)
		return fmt.Errorf("error running TUI program: %w", err)
	}

	hits, misses := videoCache.Stats()
	appLogger.Info(fmt.Sprintf("Application finished. cache hits=%d misses=%d", hits, misses))
	return nil
}
