package prompts

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
)

// WeeklyReviewPrompt handles the weekly-review MCP prompt.
type WeeklyReviewPrompt struct{}

// NewWeeklyReviewPrompt creates a WeeklyReviewPrompt.
func NewWeeklyReviewPrompt() *WeeklyReviewPrompt {
	return &WeeklyReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *WeeklyReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("weekly-review",
		mcp.WithPromptDescription(
			"Review recent weeks of health data and the trend of steps and sleep.",
		),
		mcp.WithArgument("weeks",
			mcp.ArgumentDescription("Number of weeks to review (1-104). Default: 1"),
		),
	)
}

// Handle processes the weekly-review prompt request.
func (p *WeeklyReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	weeks := 1
	if args := req.Params.Arguments; args != nil {
		if w, ok := args["weeks"]; ok && w != "" {
			n, err := strconv.Atoi(w)
			if err != nil || n < 1 || n > 104 {
				return nil, fmt.Errorf("weeks must be a whole number between 1 and 104, got %q", w)
			}
			weeks = n
		}
	}
	days := weeks * 7

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Weekly review (%d week(s))", weeks),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Review my last %d week(s) of health data.\n\n"+
						"Please:\n"+
						"1. Run `get_weekly_data` with weeks=%d\n"+
						"2. Run `get_metric_history` with metricName='steps' and days=%d\n"+
						"3. Run `get_metric_history` with metricName='total_hours' and days=%d\n"+
						"4. Summarize averages and best/worst days for activity, sleep, recovery and nutrition\n"+
						"5. Describe the trend in steps and sleep, and call out any streaks or gaps",
					weeks, weeks, days, days,
				)),
			},
		},
	}, nil
}
