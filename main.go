package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/metadatax/mediainfobot/pkg/config"
	"github.com/metadatax/mediainfobot/pkg/server"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("Failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.Infof("Starting MediaInfo Bot %s on %s", cfg.Version, cfg.Address)

	if err := server.Launch(ctx, cfg); err != nil {
		logrus.Fatalf("Bot exited with an error: %v", err)
	}
}
