package bootstrap

import (
	"context"
	"fmt"

	"github.com/kirillkom/hadith-assistant/internal/config"
	"github.com/kirillkom/hadith-assistant/internal/core/ports"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/llm"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/llm/gemini"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/llm/httpjson"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/llm/openai"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/resilience"
)

// providerSet builds each vendor client at most once so a vendor used for
// both embeddings and answers shares one client.
type providerSet struct {
	cfg      config.Config
	executor *resilience.Executor

	openai *openai.Client
	gemini *gemini.Client
	ollama *ollama.Client
	http   *httpjson.Client
}

func newProviderSet(cfg config.Config, executor *resilience.Executor) *providerSet {
	return &providerSet{cfg: cfg, executor: executor}
}

// answerProvider returns nil for "none" or an empty kind; the orchestrator
// treats that slot as unconfigured.
func (p *providerSet) answerProvider(ctx context.Context, kind string) (ports.AnswerProvider, error) {
	switch kind {
	case "", "none":
		return nil, nil
	case "openai":
		return llm.GuardProvider(p.openAI(), p.executor), nil
	case "gemini":
		client, err := p.geminiClient(ctx)
		if err != nil {
			return nil, err
		}
		return llm.GuardProvider(client, p.executor), nil
	case "ollama":
		return llm.GuardProvider(p.ollamaClient(), p.executor), nil
	case "http":
		if p.http == nil {
			p.http = httpjson.New(p.cfg.AnswerEndpointURL, p.cfg.AnswerEndpointToken)
		}
		return llm.GuardProvider(p.http, p.executor), nil
	default:
		return nil, fmt.Errorf("unknown answer provider %q", kind)
	}
}

func (p *providerSet) embedder(ctx context.Context, kind string) (ports.QueryEmbedder, error) {
	switch kind {
	case "openai":
		return llm.GuardEmbedder(p.openAI(), p.executor), nil
	case "gemini":
		client, err := p.geminiClient(ctx)
		if err != nil {
			return nil, err
		}
		return llm.GuardEmbedder(client, p.executor), nil
	case "ollama":
		return llm.GuardEmbedder(p.ollamaClient(), p.executor), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", kind)
	}
}

func (p *providerSet) openAI() *openai.Client {
	if p.openai == nil {
		p.openai = openai.New(openai.Options{
			APIKey:     p.cfg.OpenAIAPIKey,
			BaseURL:    p.cfg.OpenAIBaseURL,
			ChatModel:  p.cfg.OpenAIChatModel,
			EmbedModel: p.cfg.OpenAIEmbedModel,
		})
	}
	return p.openai
}

func (p *providerSet) geminiClient(ctx context.Context) (*gemini.Client, error) {
	if p.gemini == nil {
		client, err := gemini.New(ctx, gemini.Options{
			APIKey:     p.cfg.GeminiAPIKey,
			Model:      p.cfg.GeminiModel,
			EmbedModel: p.cfg.GeminiEmbedModel,
		})
		if err != nil {
			return nil, err
		}
		p.gemini = client
	}
	return p.gemini, nil
}

func (p *providerSet) ollamaClient() *ollama.Client {
	if p.ollama == nil {
		p.ollama = ollama.New(p.cfg.OllamaURL, p.cfg.OllamaGenModel, p.cfg.OllamaEmbedModel)
	}
	return p.ollama
}
