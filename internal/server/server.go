// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the concrete acquirer, parser,
// journal and loader, and injects them into the tools, prompts and
// resources that depend on abstractions. No query logic lives here.
package server

import (
	"context"
	"fmt"

	"github.com/healthmetrics/healthmcp/internal/config"
	"github.com/healthmetrics/healthmcp/internal/drive"
	"github.com/healthmetrics/healthmcp/internal/journal"
	"github.com/healthmetrics/healthmcp/internal/loader"
	"github.com/healthmetrics/healthmcp/internal/logger"
	"github.com/healthmetrics/healthmcp/internal/observability"
	"github.com/healthmetrics/healthmcp/internal/prompts"
	"github.com/healthmetrics/healthmcp/internal/resources"
	"github.com/healthmetrics/healthmcp/internal/spreadsheet"
	"github.com/healthmetrics/healthmcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

const serverName = "healthmcp"

// App is the fully wired server. The CLI uses Registry and Loader
// directly; the transports serve MCP.
type App struct {
	MCP      *server.MCPServer
	Registry *tools.Registry
	Loader   *loader.Loader

	log *logger.Logger
}

// New builds the Drive client from cfg and assembles the App around it.
//
// The returned cleanup function closes the load journal and must be
// called on shutdown. It is always non-nil.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, func(), error) {
	client, err := drive.New(ctx, drive.Config{
		FileID:          cfg.Drive.FileID,
		CredentialsPath: cfg.Drive.CredentialsPath,
		Timeout:         cfg.Drive.Timeout,
	})
	if err != nil {
		return nil, noop, fmt.Errorf("creating drive client: %w", err)
	}
	app, cleanup := Assemble(client, spreadsheet.NewParser(), log)
	return app, cleanup, nil
}

// Assemble wires the loader, tools, prompts and resources around the
// given acquirer and parser. If acquirer also implements
// loader.Inspector, its metadata is reported by the data source tool.
func Assemble(acquirer loader.Acquirer, parser loader.Parser, log *logger.Logger) (*App, func()) {
	opts := []loader.Option{loader.WithLogger(log.With("component", "loader"))}

	// The journal is informational. If it cannot start, loading and
	// querying still work; only the load history is empty.
	cleanup := noop
	store, err := journal.New()
	if err != nil {
		log.Warn("load journal disabled", "error", err)
	} else {
		opts = append(opts, loader.WithJournal(store))
		cleanup = func() {
			if err := store.Close(); err != nil {
				log.Warn("closing load journal", "error", err)
			}
		}
	}

	ld := loader.New(acquirer, parser, opts...)
	registry := tools.NewRegistry(tools.HealthTools(ld, ld)...)

	return &App{
		MCP:      newMCPServer(registry, ld, log),
		Registry: registry,
		Loader:   ld,
		log:      log,
	}, cleanup
}

func newMCPServer(registry *tools.Registry, source resources.Source, log *logger.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	for _, t := range registry.Tools() {
		def := t.Definition()
		s.AddTool(def, instrument(def.Name, t.Handle, log))
	}

	// --- Register prompts ---

	checkin := prompts.NewDailyCheckinPrompt()
	s.AddPrompt(checkin.Definition(), checkin.Handle)

	review := prompts.NewWeeklyReviewPrompt()
	s.AddPrompt(review.Definition(), review.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(source)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)
	s.AddResource(resourceHandler.ProfileResource(), resourceHandler.HandleProfile)

	return s
}

// instrument counts every call of a tool and logs failed ones.
func instrument(name string, next server.ToolHandlerFunc, log *logger.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := next(ctx, req)
		failed := err != nil || (res != nil && res.IsError)
		observability.RecordToolCall(name, failed)
		if failed {
			log.Warn("tool call failed", "tool", name, "error", failureText(res, err))
		}
		return res, err
	}
}

func failureText(res *mcp.CallToolResult, err error) string {
	if err != nil {
		return err.Error()
	}
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// noop is the cleanup returned when there is nothing to close.
func noop() {}

// serverInstructions tells the client what the server offers and how
// to call it.
func serverInstructions() string {
	return `You have access to a personal health-metrics server backed by a
spreadsheet of daily records: activity, sleep, heart recovery and
nutrition, plus a single user profile.

## Picking a tool

- One specific day: get_daily_metrics (date=YYYY-MM-DD).
- An explicit date window across all categories: get_date_range_metrics.
- The most recent N days of one category: get_activity_data,
  get_sleep_data, get_heart_data, get_nutrition_data (days 1-730).
- One metric over time: get_metric_history (last N days from today) or
  get_metric_range (explicit window). Metric names: steps,
  active_minutes, calories_burned, distance_km, total_hours, efficiency,
  resting_hr, hrv, recovery_score, water_ml, calories, protein_g.
- Recent weeks or months across all categories: get_weekly_data (1-104),
  get_monthly_data (1-24, 30 days each).
- A season across all years: get_seasonal_data (winter, spring, summer, fall).
- Profile and goals: get_user_profile (userId). A non-matching id
  returns false, not an error.
- Where the data comes from and when it was loaded: get_data_source_info.

## Notes

- Dates are YYYY-MM-DD. Ranges are inclusive on both ends.
- Multi-category tools fail with "no data" when any one category has no
  records in the window; fall back to the single-category tools.
- Values are returned as recorded. Compute averages or trends yourself.
- The data is loaded once per server process and does not refresh.`
}
