package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// User-facing messages returned by Research instead of errors.
const (
	MissingKeyMessage   = "❌ Please set your LINKUP_API_KEY environment variable"
	SearchFailedPrefix  = "❌ Search failed: "
	ResearchErrorPrefix = "❌ Research error: "
)

// Researcher sequences search, prompt assembly and generation for one query.
type Researcher struct {
	apiKey    string
	searcher  Searcher
	generator Generator
}

// NewResearcher wires a Researcher with explicit collaborators.
// apiKey gates every request: without it no network call is made.
func NewResearcher(apiKey string, searcher Searcher, generator Generator) *Researcher {
	return &Researcher{apiKey: apiKey, searcher: searcher, generator: generator}
}

// NewResearcherFromConfig builds the Linkup searcher and the configured generator.
func NewResearcherFromConfig(cfg Config) *Researcher {
	return NewResearcher(cfg.LinkupAPIKey, NewLinkupClient(cfg), NewGenerator(cfg))
}

// Research returns a five-section report for query, or a descriptive
// message when configuration, search or generation fails. It never panics.
func (r *Researcher) Research(ctx context.Context, query string) (report string) {
	defer func() {
		if rec := recover(); rec != nil {
			report = fmt.Sprintf("%s%v", ResearchErrorPrefix, rec)
			slog.Error("research: failed", slog.String("query", query), slog.Any("panic", rec))
		}
	}()

	metrics.ResearchRequests.Add(1)
	slog.Info("research: started", slog.String("query", query))

	if r.apiKey == "" {
		slog.Warn("research: LINKUP_API_KEY not configured")
		return MissingKeyMessage
	}

	slog.Info("research: searching web")
	start := time.Now()
	results := r.search(ctx, query)
	warnIfSlow("search", start)
	if strings.Contains(results, SearchErrorPrefix) {
		return SearchFailedPrefix + results
	}

	slog.Info("research: analyzing and generating response")
	prompt := BuildResearchPrompt(query, results)
	start = time.Now()
	report = r.generator.Generate(ctx, prompt)
	warnIfSlow("generate", start)

	slog.Info("research: complete", slog.Int("chars", len(report)))
	return report
}

// search converts a panicking searcher into a search error so it aborts
// the request the same way a failed HTTP call does.
func (r *Researcher) search(ctx context.Context, query string) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = fmt.Sprintf("%s %v", SearchErrorPrefix, rec)
		}
	}()
	return r.searcher.Search(ctx, query)
}
