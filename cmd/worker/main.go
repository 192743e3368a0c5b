package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirillkom/hadith-assistant/internal/config"
	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/queue/nats"
	"github.com/kirillkom/hadith-assistant/internal/observability/logging"
)

// The worker drains the answer history subject into the structured log so
// answers can be audited without the API process.
func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("hadith-worker", cfg.LogLevel))
	if cfg.NATSURL == "" {
		log.Fatalf("NATS_URL is required for the history worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		log.Fatalf("worker connect error: %v", err)
	}
	defer recorder.Close()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = recorder.SubscribeAnswers(ctx, func(_ context.Context, rec domain.AnswerRecord) error {
		slog.Info("answer_recorded",
			"answer_id", rec.ID,
			"record_id", rec.RecordID,
			"provenance", rec.Provenance,
			"question", rec.Question,
			"created_at", rec.CreatedAt,
		)
		return nil
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
