package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kingrea/patchwork/internal/config"
	"github.com/kingrea/patchwork/internal/engine"
	"github.com/kingrea/patchwork/internal/logbook"
	"github.com/kingrea/patchwork/internal/player"
	"github.com/kingrea/patchwork/internal/timetrack"
)

func TestNewFullGameFromDefaults(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.Seed = 11
	g, err := New(Setup{Config: cfg})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if g.Seed != 11 || g.SetID != config.VariantFull {
		t.Fatalf("seed=%d set=%s", g.Seed, g.SetID)
	}
	if g.Circle().Size() != 33 || g.Track().Remaining(timetrack.SpecialPatch) != 5 {
		t.Fatalf("unexpected full setup: circle=%d", g.Circle().Size())
	}
	if g.Phase() != engine.PhaseAwaitDecision || g.Current().ID() != 1 {
		t.Fatalf("phase=%s current=%d", g.Phase(), g.Current().ID())
	}
	for _, p := range g.Players() {
		if p.Buttons() != 5 || p.Position() != 0 {
			t.Fatalf("unexpected starting player %s", p)
		}
	}
}

func TestSameSeedSameCircle(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.Seed = 99
	a, err := New(Setup{Config: cfg})
	if err != nil {
		t.Fatalf("game a: %v", err)
	}
	b, err := New(Setup{Config: cfg})
	if err != nil {
		t.Fatalf("game b: %v", err)
	}
	pa, pb := a.Circle().Patches(), b.Circle().Patches()
	for i := range pa {
		if pa[i].ID != pb[i].ID {
			t.Fatalf("layouts differ at %d", i)
		}
	}
	if a.Circle().Cursor() != b.Circle().Cursor() {
		t.Fatalf("cursors differ")
	}
}

func TestZeroSeedUsesClock(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.Variant = config.VariantBasic
	now := time.Unix(0, 1234)
	g, err := New(Setup{Config: cfg, Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if g.Seed != 1234 || g.Circle().Size() != 40 {
		t.Fatalf("seed=%d circle=%d", g.Seed, g.Circle().Size())
	}
}

func TestUnsetScoringUsesDefaults(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.Seed = 4
	cfg.Scoring = config.ScoringConfig{}
	g, err := New(Setup{Config: cfg})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := g.Settings().Scoring; got != player.DefaultScoring() {
		t.Fatalf("scoring = %+v, want defaults", got)
	}
	cfg.Scoring = config.ScoringConfig{EmptySquarePenalty: 1}
	if g, err = New(Setup{Config: cfg}); err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := g.Settings().Scoring; got.EmptySquarePenalty != 1 || got.SpecialTileBonus != 0 {
		t.Fatalf("explicit scoring not kept: %+v", got)
	}
}

func TestUnknownPatchSet(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.PatchSet = "nope"
	if _, err := New(Setup{Config: cfg}); err == nil {
		t.Fatalf("expected unknown set error")
	}
}

func TestFromConfigUsesProjectSetAndJournal(t *testing.T) {
	root := t.TempDir()
	if err := config.InitProjectDir(root); err != nil {
		t.Fatalf("init: %v", err)
	}
	set := "id: pair\nversion: 1\npatches:\n  - id: a\n    price: 1\n    time: 1\n    shape: ['#']\n  - id: b\n    price: 1\n    time: 2\n    shape: ['##']\n"
	if err := os.WriteFile(filepath.Join(root, config.PatchworkDir, "patches", "pair.yaml"), []byte(set), 0o644); err != nil {
		t.Fatalf("write set: %v", err)
	}
	cfg, err := config.NewConfig(root)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Game.PatchSet = "pair"
	cfg.Game.Seed = 5
	book, err := logbook.New(cfg.JournalPath())
	if err != nil {
		t.Fatalf("logbook: %v", err)
	}
	g, err := FromConfig(cfg, book)
	if err != nil {
		t.Fatalf("from config: %v", err)
	}
	if g.Circle().Size() != 2 || g.SetID != "pair" {
		t.Fatalf("circle=%d set=%s", g.Circle().Size(), g.SetID)
	}
	if err := g.Pass(1); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if _, total := book.Tail(1); total < 2 {
		t.Fatalf("journal has %d lines, want game start and pass", total)
	}
}
