package engine

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	ResearchRequests atomic.Int64
	SearchRequests   atomic.Int64
	SearchErrors     atomic.Int64
	LLMCalls         atomic.Int64
	LLMErrors        atomic.Int64
}

// slowOperation is the threshold above which warnIfSlow logs a warning.
var slowOperation = 30 * time.Second

var metricKeys = []string{
	"research_requests",
	"search_requests", "search_errors",
	"llm_calls", "llm_errors",
}

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"research_requests": metrics.ResearchRequests.Load(),
		"search_requests":   metrics.SearchRequests.Load(),
		"search_errors":     metrics.SearchErrors.Load(),
		"llm_calls":         metrics.LLMCalls.Load(),
		"llm_errors":        metrics.LLMErrors.Load(),
	}
}

// LogMetrics writes the current counters as a single structured log line.
func LogMetrics() {
	m := GetMetrics()
	attrs := make([]any, 0, len(metricKeys))
	for _, k := range metricKeys {
		attrs = append(attrs, slog.Int64(k, m[k]))
	}
	slog.Info("metrics", attrs...)
}

// warnIfSlow logs a warning when the operation started at start ran past slowOperation.
func warnIfSlow(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowOperation {
		slog.Warn("slow operation", slog.String("op", op), slog.Duration("elapsed", elapsed))
	}
}
