// cmd/patchwork/main.go
//
// This is the entry point for the Patchwork CLI.
// When you run `patchwork` from any directory, this is what executes.
//
// Flow:
// 1. Handle the validate-set subcommand if asked
// 2. Initialize .patchwork in the project directory
// 3. Launch the TUI

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kingrea/patchwork/internal/config"
	"github.com/kingrea/patchwork/internal/logging"
	"github.com/kingrea/patchwork/internal/tui"
)

func main() {
	if handleValidateSetCommand() {
		return
	}

	projectDir := flag.String("project", "", "path to the project directory (defaults to cwd)")
	variant := flag.String("variant", "", "default variant to store in config.yaml (basic or full)")
	seed := flag.Int64("seed", 0, "shuffle seed (0 keeps the configured seed)")
	flag.Parse()

	project := *projectDir
	if project == "" {
		var err error
		project, err = os.Getwd()
		if err != nil {
			die("determine working directory: %v", err)
		}
	}
	project, err := filepath.Abs(project)
	if err != nil {
		die("resolve project dir: %v", err)
	}

	if err := config.InitProjectDir(project); err != nil {
		die("Error initializing .patchwork directory: %v", err)
	}
	logger, err := logging.New(project)
	if err != nil {
		die("open log: %v", err)
	}
	defer logger.Close()

	if *variant != "" {
		cfg, err := config.NewConfig(project)
		if err != nil {
			die("load config: %v", err)
		}
		if err := cfg.SetVariant(*variant); err != nil {
			die("set variant: %v", err)
		}
	}

	var opts []tui.AppOption
	if *seed != 0 {
		opts = append(opts, tui.WithSeed(*seed))
	}
	app, err := tui.NewApp(project, opts...)
	if err != nil {
		logger.Printf("start: %v", err)
		die("Error starting TUI: %v", err)
	}

	// tea.NewProgram creates a new bubbletea application
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(), // Use alternate screen buffer (like vim does)
	)

	// Run blocks until the user quits
	if _, err := p.Run(); err != nil {
		logger.Printf("tui: %v", err)
		die("Error running TUI: %v", err)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
