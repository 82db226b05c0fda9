// Package prompts implements MCP prompt handlers for common health
// questions.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

var timeNow = time.Now

// DailyCheckinPrompt handles the daily-checkin MCP prompt.
// It asks the AI to summarize one day against the user's goals.
type DailyCheckinPrompt struct{}

// NewDailyCheckinPrompt creates a DailyCheckinPrompt.
func NewDailyCheckinPrompt() *DailyCheckinPrompt {
	return &DailyCheckinPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *DailyCheckinPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("daily-checkin",
		mcp.WithPromptDescription(
			"Review one day of health data: activity, sleep, recovery and nutrition, "+
				"compared against your profile goals.",
		),
		mcp.WithArgument("date",
			mcp.ArgumentDescription("Day to review in YYYY-MM-DD format. Default: today"),
		),
	)
}

// Handle processes the daily-checkin prompt request.
func (p *DailyCheckinPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	date := timeNow().UTC().Format("2006-01-02")
	if args := req.Params.Arguments; args != nil {
		if d, ok := args["date"]; ok && d != "" {
			date = d
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Daily check-in for %s", date),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Give me a health check-in for %s.\n\n"+
						"Please:\n"+
						"1. Run `get_daily_metrics` with date='%s'\n"+
						"2. Run `get_user_profile` (ask me for my user ID if you don't know it) to get my targets\n"+
						"3. Compare steps, sleep hours and water intake against my targets\n"+
						"4. Point out anything unusual in resting heart rate, HRV or recovery score\n"+
						"5. Finish with one concrete suggestion for tomorrow\n\n"+
						"If a category has no data for that day, say so instead of guessing.",
					date, date,
				)),
			},
		},
	}, nil
}
