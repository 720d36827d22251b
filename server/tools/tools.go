package tools

import (
	"context"

	mcp "github.com/metoro-io/mcp-golang"
)

// RegisterAllTools - Register all tools with the server
func RegisterAllTools(ctx context.Context, mcpServer *mcp.Server, a Analyzer) error {
	if err := RegisterAnalyzeTool(ctx, mcpServer, a); err != nil {
		return err
	}

	return nil
}
