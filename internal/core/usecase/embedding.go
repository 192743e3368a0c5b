package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/core/ports"
)

// EmbeddingChain asks each configured embedder in order and returns the first
// usable vector. It never fails; an unavailable result makes retrieval skip the
// vector tier.
type EmbeddingChain struct {
	embedders []ports.QueryEmbedder
}

func NewEmbeddingChain(embedders ...ports.QueryEmbedder) *EmbeddingChain {
	out := make([]ports.QueryEmbedder, 0, len(embedders))
	for _, e := range embedders {
		if e != nil {
			out = append(out, e)
		}
	}
	return &EmbeddingChain{embedders: out}
}

// ModelTag identifies the vector space of an embedder, e.g. "openai:text-embedding-3-small".
func ModelTag(e ports.QueryEmbedder) string {
	return e.Name() + ":" + e.Model()
}

func (c *EmbeddingChain) Embed(ctx context.Context, text string) (domain.Embedding, bool) {
	if c == nil || strings.TrimSpace(text) == "" {
		return domain.Embedding{}, false
	}

	stages := make([]stage[domain.Embedding], 0, len(c.embedders))
	for _, e := range c.embedders {
		stages = append(stages, stage[domain.Embedding]{
			name: e.Name(),
			run: func(ctx context.Context) (domain.Embedding, bool) {
				vec, err := e.EmbedQuery(ctx, text)
				if err != nil {
					logProviderFailure("embedding_provider_failed", e.Name(), err)
					return domain.Embedding{}, false
				}
				if len(vec) == 0 {
					slog.Warn("embedding_provider_failed",
						"provider", e.Name(),
						"kind", domain.ProviderBadResponse,
						"error", "empty vector",
					)
					return domain.Embedding{}, false
				}
				return domain.Embedding{Vector: vec, Model: ModelTag(e)}, true
			},
		})
	}

	embedding, _, ok := runStages(ctx, stages)
	return embedding, ok
}

func logProviderFailure(event, provider string, err error) {
	kind := domain.ProviderErrorKindOf(err)
	if kind == domain.ProviderUnconfigured {
		slog.Debug(event, "provider", provider, "kind", kind, "error", err)
		return
	}
	slog.Warn(event, "provider", provider, "kind", kind, "error", err)
}
