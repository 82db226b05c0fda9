package prompts

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptReq(args map[string]string) mcp.GetPromptRequest {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = args
	return req
}

func promptText(t *testing.T, r *mcp.GetPromptResult) string {
	t.Helper()
	if len(r.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(r.Messages))
	}
	tc, ok := r.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", r.Messages[0].Content)
	}
	return tc.Text
}

func TestDailyCheckinPrompt_Definition(t *testing.T) {
	def := NewDailyCheckinPrompt().Definition()
	if def.Name != "daily-checkin" {
		t.Errorf("name = %q", def.Name)
	}
	if len(def.Arguments) != 1 || def.Arguments[0].Name != "date" {
		t.Errorf("arguments = %+v", def.Arguments)
	}
}

func TestDailyCheckinPrompt_ExplicitDate(t *testing.T) {
	r, err := NewDailyCheckinPrompt().Handle(context.Background(), promptReq(map[string]string{"date": "2024-01-15"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := promptText(t, r)
	if !strings.Contains(text, "get_daily_metrics` with date='2024-01-15'") {
		t.Errorf("prompt does not call get_daily_metrics for the date:\n%s", text)
	}
	if r.Messages[0].Role != mcp.RoleUser {
		t.Errorf("role = %s, want user", r.Messages[0].Role)
	}
}

func TestDailyCheckinPrompt_DefaultsToToday(t *testing.T) {
	orig := timeNow
	timeNow = func() time.Time { return time.Date(2024, 3, 9, 22, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNow = orig })

	r, err := NewDailyCheckinPrompt().Handle(context.Background(), promptReq(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(r.Description, "2024-03-09") {
		t.Errorf("description = %q", r.Description)
	}
}

func TestWeeklyReviewPrompt(t *testing.T) {
	r, err := NewWeeklyReviewPrompt().Handle(context.Background(), promptReq(map[string]string{"weeks": "2"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := promptText(t, r)
	for _, want := range []string{"weeks=2", "metricName='steps' and days=14", "metricName='total_hours'"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt missing %q:\n%s", want, text)
		}
	}
}

func TestWeeklyReviewPrompt_DefaultAndInvalid(t *testing.T) {
	r, err := NewWeeklyReviewPrompt().Handle(context.Background(), promptReq(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(promptText(t, r), "weeks=1") {
		t.Error("default should be one week")
	}

	for _, bad := range []string{"0", "105", "two"} {
		if _, err := NewWeeklyReviewPrompt().Handle(context.Background(), promptReq(map[string]string{"weeks": bad})); err == nil {
			t.Errorf("weeks=%q: expected error", bad)
		}
	}
}
