// Package mcpadapter exposes the question answering pipeline as MCP tools.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/core/ports"
)

const (
	toolAsk    = "ask_hadith"
	toolSearch = "search_hadith"
)

type Tools struct {
	answerer    ports.QuestionAnswerer
	defaultTopK int
}

func NewTools(answerer ports.QuestionAnswerer, defaultTopK int) *Tools {
	return &Tools{answerer: answerer, defaultTopK: defaultTopK}
}

// NewServer registers ask_hadith and search_hadith on a fresh MCP server.
func NewServer(tools *Tools, version string) *server.MCPServer {
	s := server.NewMCPServer("hadith-assistant", version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool(toolAsk,
		mcp.WithDescription("Answer a question about hadiths with cited sources."),
		mcp.WithString("question", mcp.Required(), mcp.Description("The question, in Turkish or English.")),
	), tools.Ask)

	s.AddTool(mcp.NewTool(toolSearch,
		mcp.WithDescription("Search hadith records and return the ranked matches."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text.")),
		mcp.WithNumber("top_k", mcp.Description("Maximum number of records to return.")),
	), tools.Search)

	return s
}

func (t *Tools) Ask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	answer, err := t.answerer.Answer(ctx, question)
	if err != nil {
		slog.Warn("mcp_tool_failed", "tool", toolAsk, "error", err)
		return mcp.NewToolResultError(toolErrorMessage(err)), nil
	}
	return mcp.NewToolResultText(formatAnswer(answer)), nil
}

func (t *Tools) Search(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	topK := req.GetInt("top_k", t.defaultTopK)

	candidates, err := t.answerer.Search(ctx, query, topK)
	if err != nil {
		slog.Warn("mcp_tool_failed", "tool", toolSearch, "error", err)
		return mcp.NewToolResultError(toolErrorMessage(err)), nil
	}

	type hit struct {
		ID        string  `json:"id"`
		Reference string  `json:"reference"`
		Text      string  `json:"text"`
		Score     float64 `json:"score"`
		Tier      string  `json:"tier"`
	}
	hits := make([]hit, 0, len(candidates))
	for _, c := range candidates {
		hits = append(hits, hit{
			ID:        c.Record.ID,
			Reference: c.Record.FullReference(),
			Text:      c.Record.PrimaryText,
			Score:     c.Score,
			Tier:      string(c.Tier),
		})
	}
	payload, err := json.Marshal(hits)
	if err != nil {
		return nil, fmt.Errorf("marshal search hits: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// formatAnswer renders the answer followed by a "Kaynaklar" list.
func formatAnswer(answer *domain.Answer) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(answer.Text))
	if len(answer.Sources) == 0 {
		return b.String()
	}
	b.WriteString("\n\nKaynaklar:")
	for _, src := range answer.Sources {
		b.WriteString("\n- ")
		b.WriteString(src.Label)
	}
	return b.String()
}

func toolErrorMessage(err error) string {
	if domain.IsKind(err, domain.ErrInvalidInput) {
		return err.Error()
	}
	return "internal error"
}
