package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"walletapp/internal/app"
	"walletapp/internal/config"
)

const (
	envDev   = "dev"
	envProd  = "prod"
	envLocal = "local"
)

func main() {
	cfg := config.MustLoad()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.Info("Starting http", "env", cfg.Server.Env)

	application := app.New(log, cfg)

	go application.HTTPServer.MustRun()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	sign := <-stop

	log.Info("Application stopped", slog.String("signal", sign.String()))

	err := application.HTTPServer.Stop(context.Background())
	if err != nil {
		return
	}
}
