package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/exam-countdown/internal/alert"
	"github.com/stemsi/exam-countdown/internal/broadcast"
	"github.com/stemsi/exam-countdown/internal/catalog"
	"github.com/stemsi/exam-countdown/internal/config"
	"github.com/stemsi/exam-countdown/internal/handler"
	"github.com/stemsi/exam-countdown/internal/logger"
	"github.com/stemsi/exam-countdown/internal/router"
	"github.com/stemsi/exam-countdown/internal/service"
	"github.com/stemsi/exam-countdown/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Dur("tick_interval", cfg.TickInterval).
		Msg("Starting exam countdown server")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Load Catalog ──────────────────────────────────────────────────
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("Failed to load catalog")
	}
	log.Info().Int("boards", len(cat.Boards())).Msg("Catalog loaded")

	// ─── Audio Alerts ──────────────────────────────────────────────────
	var player alert.Player = alert.NopPlayer{}
	if cfg.AlertCommand != "" {
		cmdPlayer, err := alert.NewCommandPlayer(cfg.AlertCommand)
		if err != nil {
			log.Warn().Err(err).Str("command", cfg.AlertCommand).Msg("Audio alerts disabled")
		} else {
			player = cmdPlayer
		}
	}
	alerts := alert.NewDispatcher(player, alert.Config{
		WarningSound: cfg.AlertWarningSound,
		EndedSound:   cfg.AlertEndedSound,
		Timeout:      cfg.AlertTimeout,
	}, log)

	// ─── Initialize Services ──────────────────────────────────────────
	hub := broadcast.NewHub()
	sessionService := service.NewSessionService(cat, hub, alerts, service.SessionConfig{
		TickInterval: cfg.TickInterval,
	}, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Catalog: handler.NewCatalogHandler(cat),
		Session: handler.NewSessionHandler(sessionService, log),
		WS:      handler.NewWSHandler(sessionService, log, cfg.AllowedOrigins),
		System:  handler.NewSystemHandler(sessionService, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r, sessionLimiter := router.SetupRouter(handlers, cfg)
	defer sessionLimiter.Stop()

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop the countdown and close display streams so that SSE and
	// WebSocket handlers return before the server drains.
	sessionService.Shutdown()

	// 2. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
