// Command capitalagent asks a Gemini model, through its OpenAI-compatible
// endpoint, for information about a country's capital and prints the
// structured answer.
//
// Configuration comes from the environment (and an optional .env file);
// GEMINI_API_KEY is required. Logs go to stderr, the record to stdout.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/leofalp/capitalagent/core/client"
	"github.com/leofalp/capitalagent/core/client/middleware"
	"github.com/leofalp/capitalagent/internal/capital"
	"github.com/leofalp/capitalagent/internal/config"
	"github.com/leofalp/capitalagent/providers/ai/openai"
	slogobs "github.com/leofalp/capitalagent/providers/observability/slog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slogobs.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat == config.LogFormatJSON)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Capital agent failed", "error", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	provider := openai.New().
		WithAPIKey(cfg.APIKey).
		WithBaseURL(cfg.BaseURL).
		WithHttpClient(&http.Client{Timeout: cfg.HTTPTimeout})

	opts := []func(*client.ClientOptions){client.WithObserver(slogobs.New(logger))}
	// request/reply dumps only when debugging
	switch {
	case cfg.LogLevel <= slogobs.LevelTrace:
		opts = append(opts, client.WithMiddleware(middleware.NewLoggingMiddleware(logger, middleware.LogLevelVerbose)))
	case cfg.LogLevel <= slog.LevelDebug:
		opts = append(opts, client.WithMiddleware(middleware.NewLoggingMiddleware(logger, middleware.LogLevelStandard)))
	}

	capitalAgent, err := capital.NewAgent(provider, cfg.Agent, opts...)
	if err != nil {
		return fmt.Errorf("building agent: %w", err)
	}

	result, err := capitalAgent.Run(ctx, cfg.Query)
	if err != nil {
		return err
	}

	fmt.Print(capital.Format(result.FinalOutput))
	return nil
}
