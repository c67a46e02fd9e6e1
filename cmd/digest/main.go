package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Philanthropists/newsletter-digest/internal/auth"
	"github.com/Philanthropists/newsletter-digest/internal/config"
	"github.com/Philanthropists/newsletter-digest/internal/logger"
	"github.com/Philanthropists/newsletter-digest/internal/pipeline"
)

var GitCommit string

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Configure(cfg.LogLevel); err != nil {
		return err
	}
	pipeline.PrintVersion(GitCommit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = pipeline.Run(ctx, cfg, &auth.LoopbackGranter{}, os.Stdout)
	return err
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
