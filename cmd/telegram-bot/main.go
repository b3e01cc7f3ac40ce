package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-grocer/internal/app"
	"meal-grocer/internal/config"
	"meal-grocer/internal/logging"
	"meal-grocer/internal/telegram"

	"github.com/rs/zerolog/log"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	if err := cfg.RequireTelegram(); err != nil {
		log.Fatal().Err(err).Msg("Telegram bot is not configured")
	}

	// 2. Database, repositories and the shopping list generator
	application, err := app.Bootstrap(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	// 3. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, application)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram Bot")
	}

	mux := http.NewServeMux()
	bot.RegisterHandlers(mux)

	// 4. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("Telegram Bot Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
