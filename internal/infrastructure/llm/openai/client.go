package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/core/vector"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/llm"
)

const providerName = "openai"

type Options struct {
	APIKey     string
	BaseURL    string
	ChatModel  string
	EmbedModel string
	HTTPClient *http.Client
}

// Client covers chat completions and query embeddings against OpenAI or any
// OpenAI-compatible endpoint. Without an API key every call reports the
// provider as unconfigured.
type Client struct {
	client     *openai.Client
	chatModel  string
	embedModel string
}

func New(opts Options) *Client {
	out := &Client{chatModel: opts.ChatModel, embedModel: opts.EmbedModel}
	if strings.TrimSpace(opts.APIKey) == "" {
		return out
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	clientOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := openai.NewClient(clientOpts...)
	out.client = &client
	return out
}

func (c *Client) Name() string {
	return providerName
}

func (c *Client) Model() string {
	return c.embedModel
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if c.client == nil {
		return nil, llm.Unconfigured(providerName, "api key")
	}

	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:          c.embedModel,
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, llm.BadResponse(providerName, llm.ErrMalformedResponse)
	}

	return vector.FromFloat64(resp.Data[0].Embedding), nil
}

func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if c.client == nil {
		return "", llm.Unconfigured(providerName, "api key")
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(llm.UserPrompt(req)),
		},
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", llm.BadResponse(providerName, errors.New("no choices"))
	}
	if refusal := resp.Choices[0].Message.Refusal; refusal != "" {
		return "", llm.BadResponse(providerName, errors.New("refused: "+refusal))
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return llm.AsProviderError(providerName, &llm.HTTPStatusError{
			Provider:   providerName,
			Operation:  "api",
			StatusCode: apiErr.StatusCode,
			Status:     http.StatusText(apiErr.StatusCode),
			Body:       apiErr.Message,
		})
	}
	return llm.AsProviderError(providerName, err)
}
