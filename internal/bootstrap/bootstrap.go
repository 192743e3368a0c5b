package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/hadith-assistant/internal/config"
	"github.com/kirillkom/hadith-assistant/internal/core/ports"
	"github.com/kirillkom/hadith-assistant/internal/core/usecase"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/queue/nats"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/repository/sqlite"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/resilience"
)

type App struct {
	Config config.Config

	AskUC    *usecase.AskUseCase
	Executor *resilience.Executor

	closeFns []func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}
	ok := false
	defer func() {
		if !ok {
			app.Close()
		}
	}()

	fileMessages, err := config.LoadMessages(cfg.MessagesFile)
	if err != nil {
		return nil, err
	}
	messages := usecase.Messages{
		Greeting:       fileMessages.Greeting,
		Clarify:        fileMessages.Clarify,
		NoSource:       fileMessages.NoSource,
		LocalTemplate:  fileMessages.LocalTemplate,
		ComposedHeader: fileMessages.ComposedHeader,
		ComposedFooter: fileMessages.ComposedFooter,
		AILabel:        fileMessages.AILabel,
	}.WithDefaults()

	db, store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	app.closeFns = append(app.closeFns, func() { _ = db.Close() })

	app.Executor = resilience.NewExecutor(resilience.Config{
		BreakerEnabled:      cfg.ProviderBreakerEnabled,
		BreakerMinRequests:  uint32(max(cfg.ProviderBreakerMinRequests, 0)),
		BreakerFailureRatio: cfg.ProviderBreakerFailureRatio,
		BreakerOpenTimeout:  time.Duration(cfg.ProviderBreakerOpenSeconds) * time.Second,
	})

	providers := newProviderSet(cfg, app.Executor)
	embedders := make([]ports.QueryEmbedder, 0, len(cfg.EmbeddingProviders))
	for _, kind := range cfg.EmbeddingProviders {
		embedder, err := providers.embedder(ctx, kind)
		if err != nil {
			return nil, err
		}
		embedders = append(embedders, embedder)
	}
	primary, err := providers.answerProvider(ctx, cfg.PrimaryProvider)
	if err != nil {
		return nil, fmt.Errorf("primary provider: %w", err)
	}
	fallback, err := providers.answerProvider(ctx, cfg.FallbackProvider)
	if err != nil {
		return nil, fmt.Errorf("fallback provider: %w", err)
	}

	retriever := usecase.NewRetrieveUseCase(store, usecase.NewEmbeddingChain(embedders...), usecase.RetrieveOptions{
		DefaultTopK:      cfg.RAGTopK,
		LexicalScanLimit: cfg.RAGLexicalScanLimit,
	})
	orchestrator := usecase.NewOrchestrator(usecase.NewHeuristicAnswerer(messages), primary, fallback, usecase.OrchestratorOptions{
		SystemPrompt:    fileMessages.SystemPrompt,
		Messages:        messages,
		ProviderTimeout: time.Duration(cfg.ProviderTimeoutSeconds) * time.Second,
	})
	app.AskUC = usecase.NewAskUseCase(retriever, orchestrator, messages, cfg.RAGTopK)

	if cfg.NATSURL != "" {
		recorder, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{ResilienceExecutor: app.Executor})
		if err != nil {
			return nil, fmt.Errorf("init answer history: %w", err)
		}
		app.closeFns = append(app.closeFns, recorder.Close)
		app.AskUC.WithRecorder(recorder)
	}

	slog.Info("bootstrap_ready",
		"db_driver", cfg.DBDriver,
		"primary_provider", cfg.PrimaryProvider,
		"fallback_provider", cfg.FallbackProvider,
		"embedding_providers", cfg.EmbeddingProviders,
		"answer_history", cfg.NATSURL != "",
	)
	ok = true
	return app, nil
}

// BreakerStates reports provider circuit breakers for health and metrics.
func (a *App) BreakerStates() map[string]string {
	if a.Executor == nil {
		return map[string]string{}
	}
	return a.Executor.States()
}

func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
	a.closeFns = nil
}

func openStore(cfg config.Config) (*sql.DB, ports.RecordStore, error) {
	switch cfg.DBDriver {
	case "postgres", "":
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		store, err := postgres.NewRecordRepository(db, cfg.RecordTable)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return db, store, nil
	case "sqlite":
		db, err := sqlite.OpenDB(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		store, err := sqlite.NewRecordRepository(db, cfg.RecordTable)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return db, store, nil
	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
