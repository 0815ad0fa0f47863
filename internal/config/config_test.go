package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	projectDir := t.TempDir()
	dir := filepath.Join(projectDir, PatchworkDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(strings.TrimSpace(body)), 0o644); err != nil {
		t.Fatal(err)
	}
	return projectDir
}

func TestNewConfigDefaultsWhenMissing(t *testing.T) {
	c, err := NewConfig(t.TempDir())
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Game.Version != 1 || c.Variant() != VariantFull {
		t.Fatalf("unexpected defaults: %+v", c.Game)
	}
	if len(c.Game.Players) != 2 || c.Game.Players[1].Name != "Player 2" || c.Game.Players[0].Buttons != 5 {
		t.Fatalf("unexpected players: %+v", c.Game.Players)
	}
	if c.Game.Scoring.EmptySquarePenalty != 2 || c.Game.Scoring.SpecialTileBonus != 7 {
		t.Fatalf("unexpected scoring: %+v", c.Game.Scoring)
	}
	if c.Game.TurnOrder.TieBreak != TieBreakFixed {
		t.Fatalf("tie break = %q", c.Game.TurnOrder.TieBreak)
	}
}

func TestNewConfigParsesYaml(t *testing.T) {
	projectDir := writeConfig(t, `
version: 1
variant: " Basic "
seed: 42
players:
  - name: Ada
    buttons: 7
  - name: Bob
scoring:
  empty_square_penalty: 1
  special_tile_bonus: 0
  special_patch_value: 2
turn_order:
  tie_break: Last-Arrived
patch_set: tiny
`)
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	g := c.Game
	if g.Variant != VariantBasic || g.Seed != 42 || g.PatchSet != "tiny" {
		t.Fatalf("unexpected game config: %+v", g)
	}
	if g.Players[0].Name != "Ada" || g.Players[0].Buttons != 7 || g.Players[1].Buttons != 5 {
		t.Fatalf("unexpected players: %+v", g.Players)
	}
	if g.Scoring != (ScoringConfig{EmptySquarePenalty: 1, SpecialTileBonus: 0, SpecialPatchValue: 2}) {
		t.Fatalf("explicit scoring overridden: %+v", g.Scoring)
	}
	if g.TurnOrder.TieBreak != TieBreakLastArrived {
		t.Fatalf("tie break = %q", g.TurnOrder.TieBreak)
	}
}

func TestNewConfigValidation(t *testing.T) {
	cases := map[string]string{
		"variant": "variant: huge",
		"players": "players:\n  - name: a\n  - name: b\n  - name: c",
		"buttons": "players:\n  - buttons: -1\n  - buttons: 5",
		"tie":     "turn_order:\n  tie_break: coin",
		"scoring": "scoring:\n  empty_square_penalty: -2",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewConfig(writeConfig(t, body)); err == nil {
				t.Fatalf("expected validation error but got none")
			}
		})
	}
}

func TestInitProjectDirWritesDefaultConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitProjectDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, sub := range []string{"logs", "patches"} {
		if info, err := os.Stat(filepath.Join(projectDir, PatchworkDir, sub)); err != nil || !info.IsDir() {
			t.Fatalf("missing %s dir: %v", sub, err)
		}
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("load default config: %v", err)
	}
	if c.Variant() != VariantFull || c.Game.Players[0].Name != "Player 1" {
		t.Fatalf("default file decoded to %+v", c.Game)
	}
}

func TestSetVariantPersists(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitProjectDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.SetVariant("BASIC"); err != nil {
		t.Fatalf("set variant: %v", err)
	}
	if err := c.SetVariant("mini"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
	reloaded, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Variant() != VariantBasic {
		t.Fatalf("variant = %q, want basic", reloaded.Variant())
	}
	if reloaded.Game.Scoring.SpecialTileBonus != 7 {
		t.Fatalf("scoring lost on save: %+v", reloaded.Game.Scoring)
	}
}
