package bundler

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/ptdbuild/kit"
)

// RegisterMCP registers bundler tools on an MCP server.
func (b *Bundler) RegisterMCP(srv *mcp.Server) {
	b.registerBuildTool(srv)
	b.registerInputsTool(srv)
	b.registerConfigTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// logged records every tool call: debug on success, warn on failure.
func logged(logger *slog.Logger, tool string) kit.Middleware {
	return func(next kit.Endpoint) kit.Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			log := logger.With("tool", tool)
			if id := kit.GetBuildID(ctx); id != "" {
				log = log.With("build_id", id)
			}
			resp, err := next(ctx, req)
			if err != nil {
				log.Warn("bundler: mcp tool failed", "error", err)
			} else {
				log.Debug("bundler: mcp tool")
			}
			return resp, err
		}
	}
}

func (b *Bundler) mcpStack(tool string, extra ...kit.Middleware) kit.Middleware {
	mws := append([]kit.Middleware{kit.WithTransportTag(kit.TransportMCP)}, extra...)
	return kit.Chain(append(mws, logged(b.logger, tool))...)
}

// --- build ---

func (b *Bundler) registerBuildTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "ptdbuild_build",
		Description: "Build the deploy bundle: merge referenced scripts, rewrite the entry HTML, copy assets.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return b.Build(ctx)
	}

	kit.RegisterMCPTool(srv, tool, b.mcpStack(tool.Name, kit.WithBuildIDTag(b.NewBuildID))(endpoint), kit.NoArgs)
}

// --- inputs ---

func (b *Bundler) registerInputsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "ptdbuild_inputs",
		Description: "List every file the build reads (entry HTML, scripts, assets).",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		inputs, err := b.Inputs(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"inputs": inputs}, nil
	}

	kit.RegisterMCPTool(srv, tool, b.mcpStack(tool.Name)(endpoint), kit.NoArgs)
}

// --- config ---

func (b *Bundler) registerConfigTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "ptdbuild_config",
		Description: "Show the effective build configuration.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		return b.Config(), nil
	}

	kit.RegisterMCPTool(srv, tool, b.mcpStack(tool.Name)(endpoint), kit.NoArgs)
}
