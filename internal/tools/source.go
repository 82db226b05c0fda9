package tools

import (
	"context"
	"fmt"

	"github.com/healthmetrics/healthmcp/internal/loader"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	defaultRecentLoads = 5
	maxRecentLoads     = 50
)

// DataSourceInfoTool handles the get_data_source_info MCP tool. It
// reports on the workbook without loading it.
type DataSourceInfoTool struct {
	status StatusSource
}

// NewDataSourceInfoTool creates a DataSourceInfoTool.
func NewDataSourceInfoTool(status StatusSource) *DataSourceInfoTool {
	return &DataSourceInfoTool{status: status}
}

// Definition returns the MCP tool definition for get_data_source_info.
func (t *DataSourceInfoTool) Definition() mcp.Tool {
	return mcp.NewTool("get_data_source_info",
		mcp.WithTitleAnnotation("Get Data Source Info"),
		mcp.WithDescription("Describe the health workbook: file name, last-modified time and size, "+
			"whether it is loaded, record counts per category, and recent load attempts. "+
			"Does not load the workbook."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Number of recent load attempts to include (1-%d)", maxRecentLoads)),
			mcp.Min(1),
			mcp.Max(maxRecentLoads),
			mcp.DefaultNumber(defaultRecentLoads),
		),
		mcp.WithOutputSchema[loader.Status](),
	)
}

// Handle processes the get_data_source_info tool call.
func (t *DataSourceInfoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := intArg(req, "limit", defaultRecentLoads)
	if limit < 1 || limit > maxRecentLoads {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: limit must be between 1 and %d", maxRecentLoads)), nil
	}

	st, err := t.status.Status(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get data source info: %v", err)), nil
	}
	return structuredResult(st)
}
