package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/termrooms/internal/cli"
	"github.com/dmitrijs2005/termrooms/internal/config"
	"github.com/dmitrijs2005/termrooms/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
