package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/1broseidon/desktopmcp/internal/httpapi"
	"github.com/1broseidon/desktopmcp/internal/mcp"
)

const shutdownTimeout = 5 * time.Second

var openBrowserFn = openBrowser

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/desktopmcp/config.yaml)")
	addr := fs.String("addr", "", "Listen address host:port (default from config, localhost:8000)")
	noBrowser := fs.Bool("no-browser", false, "Do not open the docs page in a browser")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: desktopmcp serve [--addr HOST:PORT] [--no-browser] [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Serve the HTTP API (/desktop/screens, /desktop/screenshot), the")
		fmt.Fprintln(os.Stderr, "OpenAPI docs (/docs) and the streamable MCP endpoint (/mcp).")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "serve takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Listen = *addr
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	backend, actions, err := openDesktop(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize desktop access: %v", err)
	}
	defer actions.Close()

	mcpServer := mcp.NewServer(cfg, backend, actions)
	handler, err := httpapi.NewHandler(httpapi.Options{
		Backend:            backend,
		Logger:             actions,
		DefaultContextMode: cfg.DefaultContextMode,
		MCP:                mcpServer.HTTPHandler(),
		Log:                logger,
	})
	if err != nil {
		log.Fatalf("Failed to build HTTP handler: %v", err)
	}

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", cfg.Listen, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	docsURL := browserURL(ln.Addr().String()) + httpapi.DocsPath
	logger.Info("desktopmcp listening",
		"addr", ln.Addr().String(),
		"docs", docsURL,
		"context_mode", cfg.DefaultContextMode,
	)

	if cfg.OpenBrowser && !*noBrowser {
		if err := openBrowserFn(docsURL); err != nil {
			logger.Warn("failed to open browser", "url", docsURL, "err", err)
		}
	}

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "err", err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
		return 1
	}
	return 0
}

// browserURL turns a listen address into a URL a local browser can open.
// Wildcard hosts are replaced with localhost.
func browserURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
