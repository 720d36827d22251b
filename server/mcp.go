package server

import (
	"context"

	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
	"go.uber.org/zap"

	ierrors "github.com/cnosuke/tag-audit/internal/errors"
	"github.com/cnosuke/tag-audit/server/tools"
)

// RunMCP serves the analyzer as an MCP tool over stdio until ctx is done.
func RunMCP(ctx context.Context, a Analyzer, name, version, revision string) error {
	versionString := version
	if revision != "" && revision != "xxx" {
		versionString = versionString + " (" + revision + ")"
	}
	zap.S().Infow("starting MCP server", "name", name, "version", versionString)

	mcpServer := mcp.NewServer(stdio.NewStdioServerTransport())

	zap.S().Debugw("registering tools")
	if err := tools.RegisterAllTools(ctx, mcpServer, a); err != nil {
		zap.S().Errorw("failed to register tools", "error", err)
		return err
	}

	if err := mcpServer.Serve(); err != nil {
		zap.S().Errorw("failed to start server", "error", err)
		return ierrors.Wrap(err, "failed to start server")
	}

	<-ctx.Done()
	zap.S().Infow("server shutting down")
	return nil
}
