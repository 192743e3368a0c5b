package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/hadith-assistant/internal/adapters/mcp"
	"github.com/kirillkom/hadith-assistant/internal/bootstrap"
	"github.com/kirillkom/hadith-assistant/internal/config"
	"github.com/kirillkom/hadith-assistant/internal/observability/logging"
)

var version = "dev"

func main() {
	cfg := config.Load()
	// stdout belongs to the MCP protocol.
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "hadith-mcp", cfg.LogLevel))
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	srv := mcpadapter.NewServer(mcpadapter.NewTools(app.AskUC, cfg.RAGTopK), version)
	slog.Info("mcp_stdio_started", "version", version)
	if err := server.ServeStdio(srv); err != nil {
		slog.Error("mcp_stdio_failed", "error", err)
	}
}
