package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/llm"
)

const providerName = "gemini"

type Options struct {
	APIKey     string
	Model      string
	EmbedModel string
	// BaseURL overrides the Gemini API endpoint; used against test servers.
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	client     *genai.Client
	model      string
	embedModel string
}

// New builds a Gemini client. A blank API key yields a client whose calls all
// report the provider as unconfigured.
func New(ctx context.Context, opts Options) (*Client, error) {
	out := &Client{model: opts.Model, embedModel: opts.EmbedModel}
	if strings.TrimSpace(opts.APIKey) == "" {
		return out, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	out.client = client
	return out, nil
}

func (c *Client) Name() string {
	return providerName
}

func (c *Client) Model() string {
	return c.embedModel
}

func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if c.client == nil {
		return "", llm.Unconfigured(providerName, "api key")
	}

	var cfg *genai.GenerateContentConfig
	if strings.TrimSpace(req.SystemPrompt) != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}},
		}
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, []*genai.Content{
		{Parts: []*genai.Part{{Text: llm.UserPrompt(req)}}, Role: "user"},
	}, cfg)
	if err != nil {
		return "", classify("generate", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", llm.BadResponse(providerName, errors.New("no candidates"))
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if c.client == nil {
		return nil, llm.Unconfigured(providerName, "api key")
	}

	resp, err := c.client.Models.EmbedContent(ctx, c.embedModel, []*genai.Content{
		{Parts: []*genai.Part{{Text: text}}, Role: "user"},
	}, nil)
	if err != nil {
		return nil, classify("embed", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		return nil, llm.BadResponse(providerName, llm.ErrMalformedResponse)
	}
	return resp.Embeddings[0].Values, nil
}

// classify maps genai status errors onto llm.HTTPStatusError so that client
// errors read as bad responses and only throttling or 5xx as transport.
func classify(operation string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return llm.AsProviderError(providerName, statusError(operation, apiErr))
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return llm.AsProviderError(providerName, statusError(operation, *apiErrPtr))
	}
	return llm.AsProviderError(providerName, err)
}

func statusError(operation string, apiErr genai.APIError) *llm.HTTPStatusError {
	status := apiErr.Status
	if status == "" {
		status = http.StatusText(apiErr.Code)
	}
	return &llm.HTTPStatusError{
		Provider:   providerName,
		Operation:  operation,
		StatusCode: apiErr.Code,
		Status:     status,
		Body:       apiErr.Message,
	}
}
