package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// EmptyResponseNotice replaces model output that is empty after cleanup.
const EmptyResponseNotice = "Response generated but appears empty"

// Generator turns a prompt into report text. Failures come back as text, never as errors.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
}

// GenerateOptions is the sampling configuration sent with every Ollama request.
type GenerateOptions struct {
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"top_p"`
	TopK          int      `json:"top_k"`
	RepeatPenalty float64  `json:"repeat_penalty"`
	NumCtx        int      `json:"num_ctx"`
	NumPredict    int      `json:"num_predict"`
	NumThread     int      `json:"num_thread"`
	Stop          []string `json:"stop"`
}

// DefaultGenerateOptions favours complete, low-variance reports over speed.
var DefaultGenerateOptions = GenerateOptions{
	Temperature:   0.2,
	TopP:          0.8,
	TopK:          40,
	RepeatPenalty: 1.1,
	NumCtx:        8192,
	NumPredict:    4096,
	NumThread:     -1,
	Stop:          []string{},
}

type ollamaGenerateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options GenerateOptions `json:"options"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// StatusError is returned for any non-200 response from an upstream API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP Error %d", e.StatusCode)
}

// OllamaClient calls the native Ollama /api/generate endpoint, non-streamed.
type OllamaClient struct {
	baseURL string
	model   string
	timeout time.Duration
	options GenerateOptions
	client  *http.Client
}

// NewOllamaClient builds a client from the Ollama fields of cfg.
func NewOllamaClient(cfg Config) *OllamaClient {
	cfg = cfg.withDefaults()
	return &OllamaClient{
		baseURL: strings.TrimRight(cfg.OllamaURL, "/"),
		model:   cfg.OllamaModel,
		timeout: cfg.GenerateTimeout,
		options: DefaultGenerateOptions,
		client:  cfg.HTTPClient,
	}
}

// Generate sends prompt to Ollama and returns the cleaned completion.
// Transport failures yield "Generation error: ...", non-200 statuses "HTTP Error N".
func (c *OllamaClient) Generate(ctx context.Context, prompt string) string {
	text, err := c.complete(ctx, prompt)
	if err != nil {
		return generationErrorText(err)
	}
	return finalizeCompletion(text)
}

func (c *OllamaClient) complete(ctx context.Context, prompt string) (string, error) {
	metrics.LLMCalls.Add(1)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: c.options,
	})
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.LLMErrors.Add(1)
		slog.Warn("ollama: non-200 response", slog.Int("status", resp.StatusCode), slog.String("body", TruncateRunes(string(data), 200, "...")))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var out ollamaGenerateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		metrics.LLMErrors.Add(1)
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Response, nil
}

// ChatClient generates through an OpenAI-compatible endpoint via go-kit/llm.
type ChatClient struct {
	client *llm.Client
}

// NewChatClient builds a ChatClient from the LLM* fields of cfg.
// An empty base URL or model falls back to Ollama's OpenAI-compatible /v1 endpoint
// and the configured Ollama model.
func NewChatClient(cfg Config) *ChatClient {
	cfg = cfg.withDefaults()
	if cfg.LLMAPIBase == "" {
		cfg.LLMAPIBase = strings.TrimRight(cfg.OllamaURL, "/") + "/v1"
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = cfg.OllamaModel
	}
	httpClient := &http.Client{
		Timeout:   cfg.GenerateTimeout,
		Transport: cfg.HTTPClient.Transport,
	}
	return &ChatClient{
		client: llm.NewClient(cfg.LLMAPIBase, cfg.LLMAPIKey, cfg.LLMModel,
			llm.WithMaxTokens(cfg.LLMMaxTokens),
			llm.WithTemperature(cfg.LLMTemperature),
			llm.WithHTTPClient(httpClient),
		),
	}
}

// Generate sends prompt as a single user message and returns the cleaned reply.
func (c *ChatClient) Generate(ctx context.Context, prompt string) string {
	metrics.LLMCalls.Add(1)
	resp, err := c.client.Complete(ctx, "", prompt)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return generationErrorText(err)
	}
	return finalizeCompletion(resp)
}

// NewGenerator picks the generation backend named by cfg.LLMBackend.
func NewGenerator(cfg Config) Generator {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMBackend)) {
	case "openai":
		return NewChatClient(cfg)
	default:
		return NewOllamaClient(cfg)
	}
}

func finalizeCompletion(text string) string {
	text = StripThinking(text)
	if text == "" {
		return EmptyResponseNotice
	}
	return text
}

func generationErrorText(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Error()
	}
	return "Generation error: " + err.Error()
}
