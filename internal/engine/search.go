package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// SearchErrorPrefix marks failed searches; the orchestrator detects failure by substring.
const SearchErrorPrefix = "Search error:"

// Searcher runs a web search and returns its serialized results.
// Failures come back as text containing SearchErrorPrefix.
type Searcher interface {
	Search(ctx context.Context, query string) string
}

// SearchResult is one entry of a Linkup "searchResults" response.
type SearchResult struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type linkupSearchRequest struct {
	Query      string `json:"q"`
	Depth      string `json:"depth"`
	OutputType string `json:"outputType"`
}

type linkupSearchResponse struct {
	Results []SearchResult `json:"results"`
}

// LinkupClient queries the Linkup search API.
type LinkupClient struct {
	apiKey   string
	baseURL  string
	depth    string
	timeout  time.Duration
	maxChars int
	client   *http.Client
}

// NewLinkupClient builds a client from the Linkup fields of cfg.
func NewLinkupClient(cfg Config) *LinkupClient {
	cfg = cfg.withDefaults()
	return &LinkupClient{
		apiKey:   cfg.LinkupAPIKey,
		baseURL:  strings.TrimRight(cfg.LinkupURL, "/"),
		depth:    cfg.SearchDepth,
		timeout:  cfg.SearchTimeout,
		maxChars: cfg.MaxSearchChars,
		client:   cfg.HTTPClient,
	}
}

// Search runs a single "standard" depth search and returns the serialized
// results, truncated to the configured character budget.
func (c *LinkupClient) Search(ctx context.Context, query string) string {
	results, err := c.search(ctx, query)
	if err != nil {
		metrics.SearchErrors.Add(1)
		slog.Warn("linkup: search failed", slog.String("query", query), slog.Any("error", err))
		return fmt.Sprintf("%s %v", SearchErrorPrefix, err)
	}
	slog.Debug("linkup: search results", slog.Int("count", len(results)))
	return TruncateRunes(FormatSearchResults(results), c.maxChars, "")
}

func (c *LinkupClient) search(ctx context.Context, query string) ([]SearchResult, error) {
	metrics.SearchRequests.Add(1)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(linkupSearchRequest{
		Query:      query,
		Depth:      c.depth,
		OutputType: "searchResults",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("linkup API error %d: %s", resp.StatusCode, TruncateRunes(string(data), 200, "..."))
	}

	var out linkupSearchResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Results, nil
}

// FormatSearchResults serializes results as numbered blocks for the LLM prompt.
func FormatSearchResults(results []SearchResult) string {
	if len(results) == 0 {
		return "No results found."
	}
	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "[%d] %s\nURL: %s\n", i+1, r.Name, r.URL)
		if r.Content != "" {
			fmt.Fprintf(&sb, "Content: %s\n", r.Content)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
