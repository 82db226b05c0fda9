package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/healthmetrics/healthmcp/internal/config"
	"github.com/healthmetrics/healthmcp/internal/healthdata"
	"github.com/healthmetrics/healthmcp/internal/logger"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeAcquirer struct{ calls atomic.Int32 }

func (f *fakeAcquirer) Download(ctx context.Context) ([]byte, error) {
	f.calls.Add(1)
	return []byte("workbook"), nil
}

type fakeParser struct{}

func (fakeParser) Parse(data []byte) (*healthdata.Dataset, error) {
	return &healthdata.Dataset{
		Profile:   healthdata.UserProfile{UserID: "USR001", Age: 34},
		Activity:  []healthdata.DailyActivity{{Date: "2024-01-15", Steps: 12000}},
		Sleep:     []healthdata.SleepRecord{{Date: "2024-01-15", TotalHours: 8}},
		Heart:     []healthdata.HeartRecord{{Date: "2024-01-15", RestingHR: 55}},
		Nutrition: []healthdata.NutritionRecord{{Date: "2024-01-15", WaterML: 2500}},
	}, nil
}

func newTestApp(t *testing.T) (*App, *fakeAcquirer) {
	t.Helper()
	acq := &fakeAcquirer{}
	app, cleanup := Assemble(acq, fakeParser{}, logger.NewNop())
	t.Cleanup(cleanup)
	return app, acq
}

// rpc sends one JSON-RPC message to the MCP server and decodes the result.
func rpc(t *testing.T, app *App, method string, params any, result any) {
	t.Helper()
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	resp := app.MCP.HandleMessage(context.Background(), msg)
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Nil(t, envelope.Error, "rpc error: %s", raw)
	require.NoError(t, json.Unmarshal(envelope.Result, result))
}

func TestAssemble_RegistersTools(t *testing.T) {
	app, acq := newTestApp(t)

	var list struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	rpc(t, app, "tools/list", map[string]any{}, &list)

	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, app.Registry.Names(), names)
	assert.Len(t, names, 13)
	assert.Contains(t, names, "get_metric_range")
	assert.Contains(t, names, "get_data_source_info")
	assert.Zero(t, acq.calls.Load(), "listing tools must not load the dataset")
}

func TestAssemble_RegistersPromptsAndResources(t *testing.T) {
	app, _ := newTestApp(t)

	var prompts struct {
		Prompts []struct {
			Name string `json:"name"`
		} `json:"prompts"`
	}
	rpc(t, app, "prompts/list", map[string]any{}, &prompts)
	var promptNames []string
	for _, p := range prompts.Prompts {
		promptNames = append(promptNames, p.Name)
	}
	assert.ElementsMatch(t, []string{"daily-checkin", "weekly-review"}, promptNames)

	var res struct {
		Resources []struct {
			URI string `json:"uri"`
		} `json:"resources"`
	}
	rpc(t, app, "resources/list", map[string]any{}, &res)
	var uris []string
	for _, r := range res.Resources {
		uris = append(uris, r.URI)
	}
	assert.ElementsMatch(t, []string{"health://source/status", "health://profile"}, uris)
}

func TestAssemble_ToolCallLoadsOnce(t *testing.T) {
	app, acq := newTestApp(t)

	for i := 0; i < 3; i++ {
		var result struct {
			IsError bool `json:"isError"`
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		}
		rpc(t, app, "tools/call", map[string]any{
			"name":      "get_daily_metrics",
			"arguments": map[string]any{"date": "2024-01-15"},
		}, &result)
		require.False(t, result.IsError)
		require.NotEmpty(t, result.Content)
		assert.Contains(t, result.Content[0].Text, `"steps": 12000`)
	}
	assert.Equal(t, int32(1), acq.calls.Load())
}

func TestInstrument_LogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	failing := instrument("get_sleep_data", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("no sleep data available"), nil
	}, log)
	ok := instrument("get_heart_data", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("{}"), nil
	}, log)

	res, err := failing(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	_, err = ok(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	entries := logs.FilterMessage("tool call failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "get_sleep_data", fields["tool"])
	assert.Equal(t, "no sleep data available", fields["error"])
}

func TestHTTPHandler_Metrics(t *testing.T) {
	app, _ := newTestApp(t)
	e := app.HTTPHandler(config.Defaults())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, MetricsPath, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthmcp_dataset_last_load_timestamp_seconds")
}

func TestHTTPHandler_CORSPreflight(t *testing.T) {
	app, _ := newTestApp(t)
	e := app.HTTPHandler(config.Defaults())

	req := httptest.NewRequest(http.MethodOptions, "/mcp", nil)
	req.Header.Set("Origin", "https://client.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type,mcp-session-id")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers")), "mcp-session-id")
}

func TestHTTPHandler_Initialize(t *testing.T) {
	app, _ := newTestApp(t)
	e := app.HTTPHandler(config.Defaults())

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"healthmcp"`)
}

func TestHTTPHandler_UnknownPath(t *testing.T) {
	app, _ := newTestApp(t)
	e := app.HTTPHandler(config.Defaults())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/other", strings.NewReader("{}")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
