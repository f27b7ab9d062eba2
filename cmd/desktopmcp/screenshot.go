package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/1broseidon/desktopmcp/internal/actionlog"
	"github.com/1broseidon/desktopmcp/internal/desktop"
)

func runScreenshot(args []string) int {
	fs := flag.NewFlagSet("screenshot", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/desktopmcp/config.yaml)")
	x := fs.Int("x", 0, "Left edge in virtual desktop coordinates")
	y := fs.Int("y", 0, "Top edge in virtual desktop coordinates")
	width := fs.Int("width", 0, "Region width in pixels (required)")
	height := fs.Int("height", 0, "Region height in pixels (required)")
	mode := fs.String("mode", "", "Context mode: minimal, normal or detailed (default from config)")
	out := fs.String("out", "", "Write the WebP image to this file instead of printing the JSON envelope")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: desktopmcp screenshot --width W --height H [--x X] [--y Y] [--mode MODE] [--out FILE]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Capture a region of the virtual desktop spanning all screens.")
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
		fmt.Fprintln(os.Stderr, "screenshot takes no positional arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *mode == "" {
		*mode = cfg.DefaultContextMode
	}

	backend, logger, err := openDesktop(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Close()

	region := desktop.CaptureRegion{X: *x, Y: *y, Width: *width, Height: *height}
	details := map[string]interface{}{
		"x":            region.X,
		"y":            region.Y,
		"width":        region.Width,
		"height":       region.Height,
		"context_mode": *mode,
	}

	res, err := desktop.Screenshot(context.Background(), backend, region, *mode)
	if err != nil {
		details["error"] = err.Error()
		details["kind"] = desktop.KindOf(err).String()
		logger.Log(actionlog.ActionScreenshot, "cli", details)
		fmt.Fprintln(os.Stderr, err)
		if desktop.KindOf(err) == desktop.KindInvalidInput {
			return 2
		}
		return 1
	}
	details["out_width"] = res.Width
	details["out_height"] = res.Height
	details["bytes"] = len(res.Image)
	logger.Log(actionlog.ActionScreenshot, "cli", details)

	if *out == "" {
		enc := json.NewEncoder(os.Stdout)
		if err := enc.Encode(res); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if err := os.WriteFile(*out, res.Image, 0644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%dx%d, %s, %d bytes)\n", *out, res.Width, res.Height, res.Mode, len(res.Image))
	return 0
}
