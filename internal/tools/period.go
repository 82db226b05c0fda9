package tools

import (
	"context"

	"github.com/healthmetrics/healthmcp/internal/healthdata"
	"github.com/mark3labs/mcp-go/mcp"
)

type weeklyResult struct {
	Weeks int `json:"weeks"`
	healthdata.Bundle
}

type monthlyResult struct {
	Months int `json:"months"`
	healthdata.Bundle
}

type seasonalResult struct {
	Season string `json:"season"`
	healthdata.Bundle
}

// WeeklyDataTool handles the get_weekly_data MCP tool.
type WeeklyDataTool struct {
	source DatasetSource
}

// NewWeeklyDataTool creates a WeeklyDataTool.
func NewWeeklyDataTool(source DatasetSource) *WeeklyDataTool {
	return &WeeklyDataTool{source: source}
}

// Definition returns the MCP tool definition for get_weekly_data.
func (t *WeeklyDataTool) Definition() mcp.Tool {
	return mcp.NewTool("get_weekly_data",
		mcp.WithTitleAnnotation("Get Weekly Data"),
		mcp.WithDescription("Get the most recent weeks of data (7 entries per week) for all four categories."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("weeks",
			mcp.Required(),
			mcp.Description("Number of weeks to retrieve (1-104)"),
			mcp.Min(1),
			mcp.Max(104),
		),
		mcp.WithOutputSchema[weeklyResult](),
	)
}

// Handle processes the get_weekly_data tool call.
func (t *WeeklyDataTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args weeksArgs
	if err := bindArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ds, err := t.source.Dataset(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	bundle, err := ds.Weekly(*args.Weeks)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return structuredResult(weeklyResult{Weeks: *args.Weeks, Bundle: bundle})
}

// MonthlyDataTool handles the get_monthly_data MCP tool.
type MonthlyDataTool struct {
	source DatasetSource
}

// NewMonthlyDataTool creates a MonthlyDataTool.
func NewMonthlyDataTool(source DatasetSource) *MonthlyDataTool {
	return &MonthlyDataTool{source: source}
}

// Definition returns the MCP tool definition for get_monthly_data.
func (t *MonthlyDataTool) Definition() mcp.Tool {
	return mcp.NewTool("get_monthly_data",
		mcp.WithTitleAnnotation("Get Monthly Data"),
		mcp.WithDescription("Get the most recent months of data (30 entries per month) for all four categories."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("months",
			mcp.Required(),
			mcp.Description("Number of months to retrieve (1-24)"),
			mcp.Min(1),
			mcp.Max(24),
		),
		mcp.WithOutputSchema[monthlyResult](),
	)
}

// Handle processes the get_monthly_data tool call.
func (t *MonthlyDataTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args monthsArgs
	if err := bindArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ds, err := t.source.Dataset(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	bundle, err := ds.Monthly(*args.Months)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return structuredResult(monthlyResult{Months: *args.Months, Bundle: bundle})
}

// SeasonalDataTool handles the get_seasonal_data MCP tool.
type SeasonalDataTool struct {
	source DatasetSource
}

// NewSeasonalDataTool creates a SeasonalDataTool.
func NewSeasonalDataTool(source DatasetSource) *SeasonalDataTool {
	return &SeasonalDataTool{source: source}
}

// Definition returns the MCP tool definition for get_seasonal_data.
func (t *SeasonalDataTool) Definition() mcp.Tool {
	return mcp.NewTool("get_seasonal_data",
		mcp.WithTitleAnnotation("Get Seasonal Data"),
		mcp.WithDescription("Get every record from the months of a season, across all years. "+
			"winter = Dec-Feb, spring = Mar-May, summer = Jun-Aug, fall = Sep-Nov."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("season",
			mcp.Required(),
			mcp.Description("Season to retrieve data for"),
			mcp.Enum(seasonNames()...),
		),
		mcp.WithOutputSchema[seasonalResult](),
	)
}

// Handle processes the get_seasonal_data tool call.
func (t *SeasonalDataTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args seasonArgs
	if err := bindArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ds, err := t.source.Dataset(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	bundle, err := ds.Seasonal(healthdata.Season(args.Season))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return structuredResult(seasonalResult{Season: args.Season, Bundle: bundle})
}
