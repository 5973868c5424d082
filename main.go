// go_research: web research MCP server.
//
// Exposes one MCP tool, crew_research: searches the web with Linkup, feeds the
// results to a local Ollama model and returns a five-section report.
// Runs over the stdio transport; logs go to stderr.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go_research/internal/engine"
	"github.com/anatolykoptev/go_research/internal/researchserver"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "dev"

func main() {
	loadDotenv(".env")
	initLogger(env.Str("LOG_LEVEL", "info"))

	cfg := loadConfig()
	if cfg.LinkupAPIKey == "" {
		slog.Warn("LINKUP_API_KEY is not set; crew_research will return a configuration error")
	}
	if strings.EqualFold(cfg.LLMBackend, "openai") && (cfg.LLMAPIBase == "" || cfg.LLMModel == "") {
		slog.Warn("LLM_API_BASE or LLM_MODEL not set; openai backend falls back to Ollama /v1",
			slog.String("ollama_url", cfg.OllamaURL),
			slog.String("model", cfg.OllamaModel),
		)
	}

	slog.Info("starting crew_research",
		slog.String("version", version),
		slog.String("backend", cfg.LLMBackend),
		slog.String("ollama_url", cfg.OllamaURL),
		slog.String("model", cfg.OllamaModel),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    researchserver.ToolName,
		Version: version,
	}, nil)

	researchserver.RegisterTools(server, engine.NewResearcherFromConfig(cfg))
	slog.Info("tools registered", slog.Int("count", 1))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		slog.Error("server failed", slog.Any("error", err))
	}
	engine.LogMetrics()
}

func loadConfig() engine.Config {
	return engine.Config{
		LinkupAPIKey:    env.Str("LINKUP_API_KEY", ""),
		LinkupURL:       env.Str("LINKUP_API_URL", engine.DefaultLinkupURL),
		SearchDepth:     env.Str("LINKUP_DEPTH", engine.DefaultSearchDepth),
		SearchTimeout:   env.Duration("LINKUP_TIMEOUT", engine.DefaultSearchTimeout),
		MaxSearchChars:  env.Int("MAX_SEARCH_CHARS", engine.DefaultMaxSearchChars),
		OllamaURL:       env.Str("OLLAMA_URL", engine.DefaultOllamaURL),
		OllamaModel:     env.Str("OLLAMA_MODEL", engine.DefaultOllamaModel),
		GenerateTimeout: env.Duration("GENERATE_TIMEOUT", engine.DefaultGenerateTimeout),
		LLMBackend:      env.Str("LLM_BACKEND", "ollama"),
		LLMAPIBase:      env.Str("LLM_API_BASE", ""),
		LLMAPIKey:       env.Str("LLM_API_KEY", ""),
		LLMModel:        env.Str("LLM_MODEL", ""),
		LLMTemperature:  env.Float("LLM_TEMPERATURE", 0.2),
		LLMMaxTokens:    env.Int("LLM_MAX_TOKENS", 4096),
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
}

// loadDotenv loads variables from path without overriding the process environment.
// A missing file is not an error.
func loadDotenv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load env file", slog.String("path", path), slog.Any("error", err))
	}
}

// initLogger routes slog to stderr; stdout carries the MCP stream.
// Unknown levels fall back to info.
func initLogger(level string) {
	if strings.EqualFold(level, "warning") {
		level = "warn"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
