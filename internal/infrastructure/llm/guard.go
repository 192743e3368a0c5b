package llm

import (
	"context"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/core/ports"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/resilience"
)

// GuardedProvider runs an answer provider behind a circuit breaker named
// "provider.<name>.generate". An open breaker surfaces as a transport failure
// so the orchestrator moves on to the next stage.
type GuardedProvider struct {
	inner    ports.AnswerProvider
	executor *resilience.Executor
}

func GuardProvider(inner ports.AnswerProvider, executor *resilience.Executor) ports.AnswerProvider {
	if inner == nil {
		return nil
	}
	return &GuardedProvider{inner: inner, executor: executor}
}

func (g *GuardedProvider) Name() string {
	return g.inner.Name()
}

func (g *GuardedProvider) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	text, err := resilience.Call(ctx, g.executor, "provider."+g.inner.Name()+".generate",
		func(ctx context.Context) (string, error) {
			return g.inner.Generate(ctx, req)
		},
		ClassifyProviderError,
	)
	return text, AsProviderError(g.inner.Name(), err)
}

type GuardedEmbedder struct {
	inner    ports.QueryEmbedder
	executor *resilience.Executor
}

func GuardEmbedder(inner ports.QueryEmbedder, executor *resilience.Executor) ports.QueryEmbedder {
	if inner == nil {
		return nil
	}
	return &GuardedEmbedder{inner: inner, executor: executor}
}

func (g *GuardedEmbedder) Name() string {
	return g.inner.Name()
}

func (g *GuardedEmbedder) Model() string {
	return g.inner.Model()
}

func (g *GuardedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vec, err := resilience.Call(ctx, g.executor, "provider."+g.inner.Name()+".embed",
		func(ctx context.Context) ([]float32, error) {
			return g.inner.EmbedQuery(ctx, text)
		},
		ClassifyProviderError,
	)
	return vec, AsProviderError(g.inner.Name(), err)
}
