package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/llm"
)

const providerName = "ollama"

// Client talks to a local Ollama server. It serves both as a query embedder
// and as an answer provider.
type Client struct {
	baseURL    string
	genModel   string
	embedModel string
	httpClient *http.Client
}

func New(baseURL, genModel, embedModel string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		genModel:   genModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) Name() string {
	return providerName
}

func (c *Client) Model() string {
	return c.embedModel
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if c.baseURL == "" {
		return nil, llm.Unconfigured(providerName, "base url")
	}

	request := map[string]any{
		"model": c.embedModel,
		"input": []string{text},
	}
	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := c.postJSON(ctx, "/api/embed", request, &response, "embed"); err != nil {
		return nil, llm.AsProviderError(providerName, err)
	}
	if len(response.Embeddings) == 0 || len(response.Embeddings[0]) == 0 {
		return nil, llm.BadResponse(providerName, llm.ErrMalformedResponse)
	}
	return response.Embeddings[0], nil
}

func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if c.baseURL == "" {
		return "", llm.Unconfigured(providerName, "base url")
	}

	reqBody := map[string]any{
		"model":  c.genModel,
		"system": req.SystemPrompt,
		"prompt": llm.UserPrompt(req),
		"stream": false,
	}
	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", llm.AsProviderError(providerName, err)
	}
	return strings.TrimSpace(response.Response), nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any, operation string) error {
	return llm.PostJSON(ctx, c.httpClient, c.baseURL+path, nil, payload, out, providerName, operation)
}
