package engine

import (
	"net/http"
	"time"
)

// Defaults mirror the values main falls back to when the environment is empty.
const (
	DefaultOllamaURL       = "http://localhost:11434"
	DefaultOllamaModel     = "qwen3:1.7b"
	DefaultLinkupURL       = "https://api.linkup.so/v1"
	DefaultSearchDepth     = "standard"
	DefaultMaxSearchChars  = 8000
	DefaultGenerateTimeout = 180 * time.Second
	DefaultSearchTimeout   = 30 * time.Second
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LinkupAPIKey   string
	LinkupURL      string
	SearchDepth    string
	SearchTimeout  time.Duration
	MaxSearchChars int

	OllamaURL       string
	OllamaModel     string
	GenerateTimeout time.Duration

	LLMBackend     string // "ollama" (default) or "openai"
	LLMAPIBase     string
	LLMAPIKey      string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int

	HTTPClient *http.Client // optional; timeouts are applied per request
}

// withDefaults fills zero values so constructors never see an unusable config.
func (c Config) withDefaults() Config {
	if c.LinkupURL == "" {
		c.LinkupURL = DefaultLinkupURL
	}
	if c.SearchDepth == "" {
		c.SearchDepth = DefaultSearchDepth
	}
	if c.SearchTimeout <= 0 {
		c.SearchTimeout = DefaultSearchTimeout
	}
	if c.MaxSearchChars <= 0 {
		c.MaxSearchChars = DefaultMaxSearchChars
	}
	if c.OllamaURL == "" {
		c.OllamaURL = DefaultOllamaURL
	}
	if c.OllamaModel == "" {
		c.OllamaModel = DefaultOllamaModel
	}
	if c.GenerateTimeout <= 0 {
		c.GenerateTimeout = DefaultGenerateTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	return c
}
