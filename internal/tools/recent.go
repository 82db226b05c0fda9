package tools

import (
	"context"

	"github.com/healthmetrics/healthmcp/internal/healthdata"
	"github.com/mark3labs/mcp-go/mcp"
)

type activityResult struct {
	Days     int                        `json:"days"`
	Activity []healthdata.DailyActivity `json:"activity"`
}

type sleepResult struct {
	Days  int                      `json:"days"`
	Sleep []healthdata.SleepRecord `json:"sleep"`
}

type heartResult struct {
	Days  int                      `json:"days"`
	Heart []healthdata.HeartRecord `json:"heart"`
}

type nutritionResult struct {
	Days      int                          `json:"days"`
	Nutrition []healthdata.NutritionRecord `json:"nutrition"`
}

// RecentTool serves the most recent records of one kind. The four
// per-kind tools differ only in name, wording and result shape.
type RecentTool struct {
	source      DatasetSource
	name        string
	title       string
	description string
	schema      mcp.ToolOption
	query       func(ds *healthdata.Dataset, days int) (any, error)
}

// NewActivityDataTool creates the get_activity_data tool.
func NewActivityDataTool(source DatasetSource) *RecentTool {
	return &RecentTool{
		source:      source,
		name:        "get_activity_data",
		title:       "Get Activity Data",
		description: "Get recent activity data (steps, active minutes, calories, distance, workouts) for a specific number of days",
		schema:      mcp.WithOutputSchema[activityResult](),
		query: func(ds *healthdata.Dataset, days int) (any, error) {
			recs, err := ds.RecentActivity(days)
			return activityResult{Days: days, Activity: recs}, err
		},
	}
}

// NewSleepDataTool creates the get_sleep_data tool.
func NewSleepDataTool(source DatasetSource) *RecentTool {
	return &RecentTool{
		source:      source,
		name:        "get_sleep_data",
		title:       "Get Sleep Data",
		description: "Get recent sleep data (duration, stages, efficiency, quality) for a specific number of days",
		schema:      mcp.WithOutputSchema[sleepResult](),
		query: func(ds *healthdata.Dataset, days int) (any, error) {
			recs, err := ds.RecentSleep(days)
			return sleepResult{Days: days, Sleep: recs}, err
		},
	}
}

// NewHeartDataTool creates the get_heart_data tool.
func NewHeartDataTool(source DatasetSource) *RecentTool {
	return &RecentTool{
		source:      source,
		name:        "get_heart_data",
		title:       "Get Heart Data",
		description: "Get recent cardiovascular and recovery data for a specific number of days",
		schema:      mcp.WithOutputSchema[heartResult](),
		query: func(ds *healthdata.Dataset, days int) (any, error) {
			recs, err := ds.RecentHeart(days)
			return heartResult{Days: days, Heart: recs}, err
		},
	}
}

// NewNutritionDataTool creates the get_nutrition_data tool.
func NewNutritionDataTool(source DatasetSource) *RecentTool {
	return &RecentTool{
		source:      source,
		name:        "get_nutrition_data",
		title:       "Get Nutrition Data",
		description: "Get recent nutritional intake data for a specific number of days",
		schema:      mcp.WithOutputSchema[nutritionResult](),
		query: func(ds *healthdata.Dataset, days int) (any, error) {
			recs, err := ds.RecentNutrition(days)
			return nutritionResult{Days: days, Nutrition: recs}, err
		},
	}
}

// Definition returns the MCP tool definition.
func (t *RecentTool) Definition() mcp.Tool {
	return mcp.NewTool(t.name,
		mcp.WithTitleAnnotation(t.title),
		mcp.WithDescription(t.description+". If fewer days are recorded, all of them are returned."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("days",
			mcp.Required(),
			mcp.Description(daysDesc),
			mcp.Min(1),
			mcp.Max(730),
		),
		t.schema,
	)
}

// Handle processes the tool call.
func (t *RecentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args daysArgs
	if err := bindArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ds, err := t.source.Dataset(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := t.query(ds, *args.Days)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return structuredResult(payload)
}
