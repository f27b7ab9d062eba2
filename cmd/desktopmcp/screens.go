package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/1broseidon/desktopmcp/internal/actionlog"
	"github.com/1broseidon/desktopmcp/internal/desktop"
)

var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func runScreens(args []string) int {
	fs := flag.NewFlagSet("screens", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/desktopmcp/config.yaml)")
	asJSON := fs.Bool("json", false, "Print JSON (default when stdout is not a terminal)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: desktopmcp screens [--json] [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List connected screens with their position in virtual desktop")
		fmt.Fprintln(os.Stderr, "coordinates, resolution and physical size.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "screens takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	backend, logger, err := openDesktop(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Close()

	screens, err := desktop.ListScreens(context.Background(), backend)
	if err != nil {
		logger.Log(actionlog.ActionScreens, "cli", map[string]interface{}{"error": err.Error()})
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger.Log(actionlog.ActionScreens, "cli", map[string]interface{}{"count": len(screens)})

	if *asJSON || !stdoutIsTerminal() {
		if err := writeScreensJSON(os.Stdout, screens); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	writeScreensTable(os.Stdout, screens)
	return 0
}

func writeScreensJSON(w io.Writer, screens []desktop.ScreenInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(screens)
}

func writeScreensTable(w io.Writer, screens []desktop.ScreenInfo) {
	if len(screens) == 0 {
		fmt.Fprintln(w, "no screens detected")
		return
	}
	fmt.Fprintf(w, "%-3s %-12s %-14s %-12s %-12s %s\n", "#", "NAME", "POSITION", "SIZE", "PHYSICAL", "PRIMARY")
	for i, s := range screens {
		physical := "-"
		if s.WidthMM > 0 && s.HeightMM > 0 {
			physical = fmt.Sprintf("%dx%dmm", s.WidthMM, s.HeightMM)
		}
		primary := ""
		if s.IsPrimary {
			primary = "*"
		}
		fmt.Fprintf(w, "%-3d %-12s %-14s %-12s %-12s %s\n",
			i,
			s.Name,
			fmt.Sprintf("%d,%d", s.X, s.Y),
			fmt.Sprintf("%dx%d", s.Width, s.Height),
			physical,
			primary,
		)
	}
}
