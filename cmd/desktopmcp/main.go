package main

import (
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/desktopmcp/internal/actionlog"
	"github.com/1broseidon/desktopmcp/internal/config"
	"github.com/1broseidon/desktopmcp/internal/platform"
)

// newBackendFn is swapped in tests for a fake desktop.
var newBackendFn = platform.New

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "serve":
		os.Exit(runServe(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "screens":
		os.Exit(runScreens(os.Args[2:]))
	case "screenshot":
		os.Exit(runScreenshot(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: desktopmcp <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve               Start the HTTP API, docs page and MCP endpoint")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  screens             List connected screens")
	fmt.Fprintln(w, "  screenshot          Capture a region of the desktop as WebP")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config path         Print the config file location")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'desktopmcp <command> --help' for command-specific options.")
}

// loadConfig loads path, or the default location when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// openDesktop builds the platform backend and action logger for cfg. The
// returned logger is nil when logging is disabled.
func openDesktop(cfg *config.Config) (platform.Backend, *actionlog.Logger, error) {
	backend := newBackendFn(platform.Options{
		Display:    cfg.Display,
		XAuthority: cfg.XAuthority,
	})

	logCfg := cfg.GetLoggingConfig()
	if !logCfg.Enabled {
		return backend, nil, nil
	}
	logger, err := actionlog.NewLogger(actionlog.LogConfig{
		Enabled:   true,
		Level:     actionlog.ParseLogLevel(logCfg.Level),
		FilePath:  logCfg.File,
		MaxSizeMB: logCfg.MaxSizeMB,
		MaxFiles:  logCfg.MaxFiles,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open action log: %w", err)
	}
	return backend, logger, nil
}
