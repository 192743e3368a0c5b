package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/kirillkom/hadith-assistant/internal/bootstrap"
	"github.com/kirillkom/hadith-assistant/internal/config"
	"github.com/kirillkom/hadith-assistant/internal/core/ports"
	"github.com/kirillkom/hadith-assistant/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "hadith-cli", cfg.LogLevel))

	open := func(ctx context.Context) (ports.QuestionAnswerer, func(), error) {
		app, err := bootstrap.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return app.AskUC, app.Close, nil
	}
	if err := newRootCmd(open).Execute(); err != nil {
		os.Exit(1)
	}
}
