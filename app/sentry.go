package app

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"alfredoramos.mx/site-builder/utils"
	"github.com/getsentry/sentry-go"
)

func SetupSentry() {
	dsn := os.Getenv("SENTRY_DSN")

	if len(dsn) < 1 {
		slog.Warn("Sentry DSN not specified. Errors will only be logged.")
		return
	}

	isDebug := utils.IsDebug()
	env := "production"

	if isDebug {
		env = "development"
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Debug:            isDebug,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
		ServerName:       os.Getenv("APP_NAME"),
		Environment:      env,
	}); err != nil {
		slog.Error(fmt.Sprintf("Sentry initialization failed: %v", err))
	}
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}
