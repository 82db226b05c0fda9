// healthmcp: personal health metrics over MCP
//
// Serves daily activity, sleep, heart recovery and nutrition records
// from a spreadsheet stored in Google Drive as read-only MCP tools.
//
// Usage:
//
//	healthmcp serve                      # Start the MCP server (stdio or http)
//	healthmcp query <tool> [key=value]   # Run one tool and print its result
//	healthmcp info                       # Show the Drive file metadata
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/healthmetrics/healthmcp/internal/config"
	"github.com/healthmetrics/healthmcp/internal/drive"
	"github.com/healthmetrics/healthmcp/internal/logger"
	"github.com/healthmetrics/healthmcp/internal/server"
	"github.com/mark3labs/mcp-go/mcp"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe()
	case "query":
		err = runQuery(os.Args[2:])
	case "info":
		err = runInfo()
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("healthmcp v%s\n", server.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger every command shares.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, log, nil
}

func runServe() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	// Graceful shutdown on interrupt.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	app, cleanup, err := server.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	if cfg.Server.Transport == config.TransportHTTP {
		return app.ServeHTTP(ctx, cfg)
	}
	// stdio server handles its own signals.
	return app.ServeStdio()
}

func runQuery(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: healthmcp query <tool> [key=value ...] [--reload]")
	}
	name := args[0]

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()
	app, cleanup, err := server.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	tool, err := app.Registry.Lookup(name)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(app.Registry.Names(), ", "))
	}
	toolArgs, reload, err := parseToolArgs(args[1:], tool.Definition().InputSchema)
	if err != nil {
		return err
	}
	if reload {
		if _, err := app.Loader.Reload(ctx); err != nil {
			return err
		}
	}

	res, err := app.Registry.Call(ctx, name, toolArgs)
	if err != nil {
		return err
	}
	text := resultText(res)
	if res.IsError {
		return errors.New(text)
	}
	fmt.Println(text)
	return nil
}

// parseToolArgs turns key=value pairs into tool arguments. Values of
// properties the schema declares as numbers are converted; everything
// else stays a string.
func parseToolArgs(args []string, schema mcp.ToolInputSchema) (map[string]any, bool, error) {
	out := make(map[string]any, len(args))
	reload := false
	for _, a := range args {
		if a == "--reload" {
			reload = true
			continue
		}
		key, value, ok := strings.Cut(a, "=")
		if !ok || key == "" {
			return nil, false, fmt.Errorf("invalid argument %q: expected key=value", a)
		}
		out[key] = value
		if !isNumberProperty(schema, key) {
			continue
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			out[key] = n
		}
	}
	return out, reload, nil
}

func isNumberProperty(schema mcp.ToolInputSchema, key string) bool {
	prop, ok := schema.Properties[key].(map[string]any)
	if !ok {
		return false
	}
	switch prop["type"] {
	case "number", "integer":
		return true
	}
	return false
}

func resultText(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func runInfo() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()
	client, err := drive.New(ctx, drive.Config{
		FileID:          cfg.Drive.FileID,
		CredentialsPath: cfg.Drive.CredentialsPath,
		Timeout:         cfg.Drive.Timeout,
	})
	if err != nil {
		return err
	}
	meta, err := client.Metadata(ctx)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `healthmcp v%s - personal health metrics MCP server

Usage:
  healthmcp serve                               Start the MCP server
  healthmcp query <tool> [key=value ...] [--reload]
                                                Run one tool and print the result
  healthmcp info                                Show the Drive file metadata
  healthmcp version                             Print the version

Environment:
  GOOGLE_DRIVE_FILE_ID      Drive file id of the health workbook (required)
  GOOGLE_CREDENTIALS_PATH   Service-account JSON key file (required)
  MCP_TRANSPORT             stdio (default) or http
  PORT                      HTTP port (default 3000)
  MCP_ENDPOINT_PATH         HTTP endpoint path (default /mcp)
  CORS_ALLOW_ORIGINS        Comma-separated allowed origins (default *)
  DRIVE_TIMEOUT             Timeout per Drive call (default 60s)
  LOG_MODE, LOG_LEVEL       development|production, debug|info|warn|error
  HEALTHMCP_CONFIG          Optional YAML config file

Example MCP config:

  {
    "mcpServers": {
      "health": {
        "command": "healthmcp",
        "args": ["serve"],
        "env": {
          "GOOGLE_DRIVE_FILE_ID": "...",
          "GOOGLE_CREDENTIALS_PATH": "/path/to/key.json"
        }
      }
    }
  }
`, server.Version)
}
