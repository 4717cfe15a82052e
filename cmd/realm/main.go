package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pixil98/go-realm/cmd/realm/command"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the JSON or YAML config file")
	flag.Parse()

	cfg, err := command.LoadConfig(*configPath)
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	level, err := cfg.Level()
	if err != nil {
		slog.Error("parsing log level", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	workers, cleanup, err := command.BuildWorkers(cfg)
	if err != nil {
		slog.Error("creating application", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = command.Run(ctx, workers)
	stop()

	if cerr := cleanup(); cerr != nil {
		slog.Warn("releasing resources", "error", cerr)
	}
	if err != nil {
		slog.Error("running application", "error", err)
		os.Exit(1)
	}

	slog.Info("exiting")
}
