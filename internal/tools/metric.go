package tools

import (
	"context"

	"github.com/healthmetrics/healthmcp/internal/healthdata"
	"github.com/mark3labs/mcp-go/mcp"
)

type metricHistoryResult struct {
	Days          int                      `json:"days"`
	MetricName    string                   `json:"metricName"`
	MetricHistory []healthdata.MetricPoint `json:"metricHistory"`
}

// MetricHistoryTool handles the get_metric_history MCP tool.
type MetricHistoryTool struct {
	source DatasetSource
}

// NewMetricHistoryTool creates a MetricHistoryTool.
func NewMetricHistoryTool(source DatasetSource) *MetricHistoryTool {
	return &MetricHistoryTool{source: source}
}

// Definition returns the MCP tool definition for get_metric_history.
func (t *MetricHistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("get_metric_history",
		mcp.WithTitleAnnotation("Get Metric History"),
		mcp.WithDescription("Get the daily values of one metric over the most recent calendar days, "+
			"counting back from today. Days without a value are skipped."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("metricName",
			mcp.Required(),
			mcp.Description(metricDesc),
			mcp.Enum(metricNames()...),
		),
		mcp.WithNumber("days",
			mcp.Description(daysDesc+", default 30"),
			mcp.Min(1),
			mcp.Max(730),
			mcp.DefaultNumber(healthdata.DefaultHistoryDays),
		),
		mcp.WithOutputSchema[metricHistoryResult](),
	)
}

// Handle processes the get_metric_history tool call.
func (t *MetricHistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args metricHistoryArgs
	if err := bindArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	days := healthdata.DefaultHistoryDays
	if args.Days != nil {
		days = *args.Days
	}

	ds, err := t.source.Dataset(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	points, err := ds.MetricHistory(healthdata.MetricName(args.MetricName), days)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return structuredResult(metricHistoryResult{
		Days:          days,
		MetricName:    args.MetricName,
		MetricHistory: points,
	})
}

type metricRangeResult struct {
	MetricName    string                   `json:"metricName"`
	StartDate     string                   `json:"startDate"`
	EndDate       string                   `json:"endDate"`
	MetricHistory []healthdata.MetricPoint `json:"metricHistory"`
}

// MetricRangeTool handles the get_metric_range MCP tool.
type MetricRangeTool struct {
	source DatasetSource
}

// NewMetricRangeTool creates a MetricRangeTool.
func NewMetricRangeTool(source DatasetSource) *MetricRangeTool {
	return &MetricRangeTool{source: source}
}

// Definition returns the MCP tool definition for get_metric_range.
func (t *MetricRangeTool) Definition() mcp.Tool {
	return mcp.NewTool("get_metric_range",
		mcp.WithTitleAnnotation("Get Metric Range"),
		mcp.WithDescription("Get every recorded value of one metric within a date range (inclusive)."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("metricName",
			mcp.Required(),
			mcp.Description(metricDesc),
			mcp.Enum(metricNames()...),
		),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description(startDateDesc),
			mcp.Pattern(datePattern),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description(endDateDesc),
			mcp.Pattern(datePattern),
		),
		mcp.WithOutputSchema[metricRangeResult](),
	)
}

// Handle processes the get_metric_range tool call.
func (t *MetricRangeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args metricRangeArgs
	if err := bindArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ds, err := t.source.Dataset(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	points, err := ds.MetricRange(healthdata.MetricName(args.MetricName), args.StartDate, args.EndDate)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return structuredResult(metricRangeResult{
		MetricName:    args.MetricName,
		StartDate:     args.StartDate,
		EndDate:       args.EndDate,
		MetricHistory: points,
	})
}
