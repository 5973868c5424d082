// Package researchserver exposes the research pipeline as MCP tools.
package researchserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolName is the single tool this server registers.
const ToolName = "crew_research"

// Researcher produces a report for a query. Failures are reported in the text.
type Researcher interface {
	Research(ctx context.Context, query string) string
}

// RegisterTools registers crew_research on the given MCP server.
func RegisterTools(server *mcp.Server, r Researcher) {
	registerCrewResearch(server, r)
}
