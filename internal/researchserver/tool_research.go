package researchserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ResearchInput is the crew_research argument object.
type ResearchInput struct {
	Query string `json:"query" jsonschema:"The research query or question"`
}

func registerCrewResearch(server *mcp.Server, r Researcher) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: "Run optimized research system for given user query. Fast and detailed. Searches the web and returns a report with Summary, Key Findings, Detailed Analysis, Conclusion and Sources sections.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ResearchInput) (*mcp.CallToolResult, any, error) {
		report := r.Research(ctx, input.Query)
		slog.Debug("crew_research: done", slog.Int("chars", len(report)))

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: report}},
		}, nil, nil
	})
}
