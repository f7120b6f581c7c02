package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/exp/slog"

	"babytracker/internal/app/server"
	"babytracker/internal/app/server/config"
	"babytracker/internal/utils/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка конфигурации", slog.Any("error", err))
		os.Exit(1)
	}
	log := logger.NewLevel(cfg.Env, cfg.Logger.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app, err := server.New(ctx, cfg, log)
	if err != nil {
		log.Error("Не удалось запустить сервер", slog.Any("error", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("Сервер завершился с ошибкой", slog.Any("error", err))
		os.Exit(1)
	}
}
