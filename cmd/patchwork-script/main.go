// cmd/patchwork-script/main.go
//
// Replays a YAML list of decisions against a fresh game and prints the
// outcome. Useful for reproducing a game from a seed or checking scoring.

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kingrea/patchwork/internal/config"
	"github.com/kingrea/patchwork/internal/engine"
	"github.com/kingrea/patchwork/internal/game"
	"github.com/kingrea/patchwork/internal/logbook"
	"github.com/kingrea/patchwork/plugins"
)

func main() {
	scriptPath := flag.String("script", "", "path to the YAML decisions file")
	projectDir := flag.String("project", "", "project directory whose config and patch sets to use (optional)")
	seed := flag.Int64("seed", 0, "shuffle seed override")
	autoFinish := flag.Bool("finish", false, "after the script ends, fill in the remaining turns with the first legal move so the game can be scored")
	flag.Parse()

	if strings.TrimSpace(*scriptPath) == "" {
		die("--script is required")
	}
	script, err := LoadScript(*scriptPath)
	if err != nil {
		die("%v", err)
	}
	if *seed != 0 {
		script.Seed = *seed
	}

	setup := game.Setup{Config: config.DefaultGameConfig()}
	if *projectDir != "" {
		project, err := filepath.Abs(*projectDir)
		if err != nil {
			die("resolve project dir: %v", err)
		}
		if err := config.InitProjectDir(project); err != nil {
			die("init .patchwork: %v", err)
		}
		cfg, err := config.NewConfig(project)
		if err != nil {
			die("load config: %v", err)
		}
		catalog, err := plugins.Discover(cfg)
		if err != nil {
			die("load plugins: %v", err)
		}
		book, err := logbook.New(cfg.JournalPath())
		if err != nil {
			die("open journal: %v", err)
		}
		setup = game.Setup{Config: cfg.Game, Catalog: catalog, Journal: book}
	}
	setup.Config = script.Apply(setup.Config)
	if setup.Config.Seed == 0 {
		die("a seed is required to replay decisions (set seed in the script or pass --seed)")
	}

	g, err := game.New(setup)
	if err != nil {
		die("start game: %v", err)
	}
	if err := replay(g, script.Decisions, os.Stdout); err != nil {
		report(g, os.Stdout)
		die("%v", err)
	}
	if *autoFinish && g.Phase() != engine.PhaseGameOver {
		if err := finish(g, os.Stdout); err != nil {
			die("%v", err)
		}
	}
	report(g, os.Stdout)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
