package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nofx-ai/tradebot/bot/app"
	"github.com/nofx-ai/tradebot/core/config"
	"github.com/nofx-ai/tradebot/core/logger"
	"log/slog"
)

func main() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.New(cfg).Run(ctx); err != nil {
		logger.L.LogAttrs(context.Background(), slog.LevelError, "bot stopped",
			slog.String("err", err.Error()),
		)
		os.Exit(1)
	}
}
