package main

import (
	"context"

	"github.com/Philanthropists/newsletter-digest/internal/auth"
	"github.com/Philanthropists/newsletter-digest/internal/config"
	"github.com/Philanthropists/newsletter-digest/internal/logger"
	"github.com/Philanthropists/newsletter-digest/internal/pipeline"
	"github.com/aws/aws-lambda-go/lambda"
)

var GitCommit string

func HandleRequest(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Configure(cfg.LogLevel); err != nil {
		return err
	}
	pipeline.PrintVersion(GitCommit)

	// nobody can answer a consent screen from a scheduled invocation
	_, err = pipeline.Run(ctx, cfg, auth.NoInteractiveGranter{}, nil)
	return err
}

func main() {
	lambda.Start(HandleRequest)
}
