package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	clts "tradebridge/clients"
	"tradebridge/config"
	"tradebridge/internal/app"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.LoadWithFile()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}
	if result := cfg.Validate(); !result.Valid {
		logger.Fatal("invalid config", zap.Any("errors", result.Errors))
	}
	logger.Info("starting tradebridge",
		zap.Bool("isProd", cfg.IsProd),
		zap.String("apiBase", cfg.API.BaseURL),
		zap.String("channel", cfg.Channel.WebsocketURL),
	)

	clients := clts.NewClients(logger, cfg)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	runner := app.NewRunner(clients, cfg)
	if err := runner.Run(ctx); err != nil {
		logger.Fatal("runner failed", zap.Error(err))
	}
}
