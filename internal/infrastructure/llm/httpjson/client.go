// Package httpjson calls a self-hosted answer endpoint that takes
// {"question","context"} and replies with {"answer"}.
package httpjson

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/infrastructure/llm"
)

const providerName = "http"

type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

func New(url, token string) *Client {
	return &Client{
		url:        strings.TrimSpace(url),
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Name() string {
	return providerName
}

func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if c.url == "" {
		return "", llm.Unconfigured(providerName, "endpoint url")
	}

	var headers map[string]string
	if c.token != "" {
		headers = map[string]string{"Authorization": "Bearer " + c.token}
	}
	payload := map[string]string{
		"question": req.Question,
		"context":  req.Context,
	}
	var response struct {
		Answer *string `json:"answer"`
	}
	if err := llm.PostJSON(ctx, c.httpClient, c.url, headers, payload, &response, providerName, "generate"); err != nil {
		return "", llm.AsProviderError(providerName, err)
	}
	if response.Answer == nil {
		return "", llm.BadResponse(providerName, llm.ErrMalformedResponse)
	}
	return strings.TrimSpace(*response.Answer), nil
}
