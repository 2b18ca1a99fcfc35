package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) complexityRules(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	rules, err := h.ds.ComplexityRules(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, rules)
}

func (h *handlers) catalogSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sum, err := h.ds.CatalogSummary(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, sum)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
