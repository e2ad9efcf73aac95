package pdftext

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP registers the three extraction operations as MCP tools.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	registerTool(srv, &mcp.Tool{
		Name:        "pdf_extract_text",
		Description: "Extract the full text of a PDF file as a single string.",
		InputSchema: pathInputSchema,
	}, func(ctx context.Context, path string) (any, error) {
		text, err := p.ExtractText(ctx, path)
		if err != nil {
			return nil, err
		}
		return map[string]any{"text": text}, nil
	})

	registerTool(srv, &mcp.Tool{
		Name:        "pdf_extract_pages",
		Description: "Extract PDF text page by page with per-page character counts.",
		InputSchema: pathInputSchema,
	}, func(ctx context.Context, path string) (any, error) {
		pages, err := p.ExtractPages(ctx, path)
		if err != nil {
			return nil, err
		}
		return map[string]any{"pages": pages}, nil
	})

	registerTool(srv, &mcp.Tool{
		Name:        "pdf_extract_metadata",
		Description: "Extract file and document-info metadata from a PDF (works on encrypted files).",
		InputSchema: pathInputSchema,
	}, func(ctx context.Context, path string) (any, error) {
		return p.ExtractMetadata(ctx, path)
	})
}

var pathInputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"path": map[string]any{"type": "string", "description": "PDF file path"},
	},
	"required": []string{"path"},
}

// registerTool wires a path-taking endpoint as an MCP tool, decoding
// arguments and marshalling the response as a JSON text block.
func registerTool(srv *mcp.Server, tool *mcp.Tool, endpoint func(context.Context, string) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Path string `json:"path"`
		}
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("invalid arguments: %w", err))
			return &res, nil
		}

		resp, err := endpoint(ctx, args.Path)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}
