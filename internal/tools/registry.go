package tools

import (
	"context"
	"fmt"

	"github.com/healthmetrics/healthmcp/internal/healthdata"
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool is an MCP tool handler.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Registry holds the tools in registration order.
type Registry struct {
	tools  []Tool
	byName map[string]Tool
}

// NewRegistry creates a Registry from the given tools. A later tool
// with a duplicate name replaces the earlier one in place.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool, len(tools))}
	index := make(map[string]int, len(tools))
	for _, t := range tools {
		name := t.Definition().Name
		if i, dup := index[name]; dup {
			r.tools[i] = t
		} else {
			index[name] = len(r.tools)
			r.tools = append(r.tools, t)
		}
		r.byName[name] = t
	}
	return r
}

// HealthTools returns the twelve query tools followed by the data
// source tool.
func HealthTools(source DatasetSource, status StatusSource) []Tool {
	return []Tool{
		NewDailyMetricsTool(source),
		NewDateRangeMetricsTool(source),
		NewActivityDataTool(source),
		NewSleepDataTool(source),
		NewHeartDataTool(source),
		NewNutritionDataTool(source),
		NewMetricHistoryTool(source),
		NewUserProfileTool(source),
		NewWeeklyDataTool(source),
		NewMonthlyDataTool(source),
		NewSeasonalDataTool(source),
		NewMetricRangeTool(source),
		NewDataSourceInfoTool(status),
	}
}

// Tools returns the registered tools in order.
func (r *Registry) Tools() []Tool {
	return r.tools
}

// Names returns the registered tool names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Definition().Name
	}
	return names
}

// Lookup finds a tool by name. An unregistered name yields an error
// matching healthdata.ErrUnknownOperation.
func (r *Registry) Lookup(name string) (Tool, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", healthdata.ErrUnknownOperation, name)
	}
	return t, nil
}

// Call invokes a tool by name with the given arguments.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return t.Handle(ctx, req)
}
