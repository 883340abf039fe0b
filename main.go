package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"surveykit/app"
	"surveykit/internal"
	"surveykit/internal/config"
)

func main() {
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := app.NewSurveyService(appConfig, logger).Run(ctx)
	if err != nil {
		logger.Error("Run failed: %v", err)
		logger.Sync()
		stop()
		os.Exit(1)
	}

	logger.Info("✅ Wrote %s (%d charts, %d skipped open questions)", result.Workbook, len(result.Charts), len(result.Skipped))
	if result.Archive != "" {
		logger.Info("📦 Archive: %s", result.Archive)
	}
}
