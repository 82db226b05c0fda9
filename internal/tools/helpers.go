// Package tools implements the MCP tool handlers for health queries.
//
// Each tool is a struct holding its dependencies, with Definition()
// returning the mcp.Tool schema and Handle() serving the call. Every
// failure is returned as a tool error result, never as a Go error.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/healthmetrics/healthmcp/internal/healthdata"
	"github.com/healthmetrics/healthmcp/internal/loader"
	"github.com/mark3labs/mcp-go/mcp"
)

// DatasetSource provides the loaded dataset.
type DatasetSource interface {
	Dataset(ctx context.Context) (*healthdata.Dataset, error)
}

// StatusSource reports the data source state without loading.
type StatusSource interface {
	Status(ctx context.Context, limit int) (*loader.Status, error)
}

// structuredResult returns payload as structured content with its
// indented JSON rendering as text.
func structuredResult(payload any) (*mcp.CallToolResult, error) {
	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultStructured(payload, string(text)), nil
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// Shared parameter descriptions.
const (
	dateDesc      = "Date in YYYY-MM-DD format"
	startDateDesc = "Start date in YYYY-MM-DD format"
	endDateDesc   = "End date in YYYY-MM-DD format"
	daysDesc      = "Number of days to retrieve (1-730)"
	metricDesc    = "Name of the metric to retrieve"
	datePattern   = `^\d{4}-\d{2}-\d{2}$`
)

func metricNames() []string {
	names := make([]string, len(healthdata.QueryableMetrics))
	for i, m := range healthdata.QueryableMetrics {
		names[i] = string(m)
	}
	return names
}

func seasonNames() []string {
	names := make([]string, len(healthdata.Seasons))
	for i, s := range healthdata.Seasons {
		names[i] = string(s)
	}
	return names
}
