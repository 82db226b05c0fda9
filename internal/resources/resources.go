// Package resources implements MCP resource handlers for the health
// data source.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (health://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/healthmetrics/healthmcp/internal/healthdata"
	"github.com/healthmetrics/healthmcp/internal/loader"
	"github.com/mark3labs/mcp-go/mcp"
)

// Resource URIs.
const (
	StatusURI  = "health://source/status"
	ProfileURI = "health://profile"
)

const recentLoads = 5

// Source is what the resource handlers read from.
type Source interface {
	Dataset(ctx context.Context) (*healthdata.Dataset, error)
	Status(ctx context.Context, limit int) (*loader.Status, error)
}

// Handler manages health resource endpoints.
type Handler struct {
	source Source
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(source Source) *Handler {
	return &Handler{source: source}
}

// StatusResource returns the MCP resource definition for the data
// source status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		StatusURI,
		"Health Data Source Status",
		mcp.WithResourceDescription("Workbook metadata, load state, record counts and recent load attempts"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatus returns the data source status as JSON. It never loads
// the dataset.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	st, err := h.source.Status(ctx, recentLoads)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, st)
}

// ProfileResource returns the MCP resource definition for the user
// profile.
func (h *Handler) ProfileResource() mcp.Resource {
	return mcp.NewResource(
		ProfileURI,
		"User Profile",
		mcp.WithResourceDescription("The user profile and goals from the health workbook"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleProfile returns the loaded profile as JSON, loading the
// dataset on first use.
func (h *Handler) HandleProfile(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ds, err := h.source.Dataset(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, ds.Profile)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
