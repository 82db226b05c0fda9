package tools

import (
	"context"

	"github.com/healthmetrics/healthmcp/internal/healthdata"
	"github.com/mark3labs/mcp-go/mcp"
)

type dailyMetricsResult struct {
	Date string `json:"date"`
	healthdata.DailyMetrics
}

// DailyMetricsTool handles the get_daily_metrics MCP tool.
type DailyMetricsTool struct {
	source DatasetSource
}

// NewDailyMetricsTool creates a DailyMetricsTool.
func NewDailyMetricsTool(source DatasetSource) *DailyMetricsTool {
	return &DailyMetricsTool{source: source}
}

// Definition returns the MCP tool definition for get_daily_metrics.
func (t *DailyMetricsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_daily_metrics",
		mcp.WithTitleAnnotation("Get Daily Metrics"),
		mcp.WithDescription("Get complete health data for a specific day. "+
			"Returns the activity, sleep, heart and nutrition records for the date; "+
			"categories with no record that day are omitted."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description(dateDesc),
			mcp.Pattern(datePattern),
		),
		mcp.WithOutputSchema[dailyMetricsResult](),
	)
}

// Handle processes the get_daily_metrics tool call.
func (t *DailyMetricsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args dateArgs
	if err := bindArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ds, err := t.source.Dataset(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	metrics, err := ds.DailyMetrics(args.Date)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return structuredResult(dailyMetricsResult{Date: args.Date, DailyMetrics: metrics})
}

type dateRangeResult struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	healthdata.Bundle
}

// DateRangeMetricsTool handles the get_date_range_metrics MCP tool.
type DateRangeMetricsTool struct {
	source DatasetSource
}

// NewDateRangeMetricsTool creates a DateRangeMetricsTool.
func NewDateRangeMetricsTool(source DatasetSource) *DateRangeMetricsTool {
	return &DateRangeMetricsTool{source: source}
}

// Definition returns the MCP tool definition for get_date_range_metrics.
func (t *DateRangeMetricsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_date_range_metrics",
		mcp.WithTitleAnnotation("Get Date Range Metrics"),
		mcp.WithDescription("Get health data for a specific date range (inclusive). "+
			"Fails if any of the four categories has no records in the range."),
		mcp.WithReadOnlyHintAnnotation(true),
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
		mcp.WithOutputSchema[dateRangeResult](),
	)
}

// Handle processes the get_date_range_metrics tool call.
func (t *DateRangeMetricsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args dateRangeArgs
	if err := bindArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ds, err := t.source.Dataset(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	bundle, err := ds.DateRange(args.StartDate, args.EndDate)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return structuredResult(dateRangeResult{
		StartDate: args.StartDate,
		EndDate:   args.EndDate,
		Bundle:    bundle,
	})
}
