// internal/config/config.go
//
// This package handles configuration and the .patchwork directory structure.
// Every project that plays Patchwork gets a .patchwork/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// PatchworkDir is the name of the directory we create in each project
	PatchworkDir = ".patchwork"

	VariantBasic = "basic"
	VariantFull  = "full"

	TieBreakFixed       = "fixed"
	TieBreakLastArrived = "last-arrived"

	defaultStartingButtons = 5
)

const defaultProjectConfigYAML = `# patchwork project configuration
version: 1

# basic: 40 square patches, buttons only on the time track.
# full: the 33 patch catalog and special patch spaces.
variant: full

# 0 picks a new shuffle on every launch.
seed: 0

players:
  - name: Player 1
    buttons: 5
  - name: Player 2
    buttons: 5

scoring:
  empty_square_penalty: 2
  special_tile_bonus: 7
  special_patch_value: 0

turn_order:
  # fixed: player 1 plays first on a shared square.
  # last-arrived: the token that arrived last plays first.
  tie_break: fixed

# Optional custom patch set loaded from .patchwork/patches/.
# patch_set: my-set
`

// PlayerConfig declares one seat.
type PlayerConfig struct {
	Name    string `yaml:"name"`
	Buttons int    `yaml:"buttons"`
}

// ScoringConfig holds the end-of-game constants.
type ScoringConfig struct {
	EmptySquarePenalty int `yaml:"empty_square_penalty"`
	SpecialTileBonus   int `yaml:"special_tile_bonus"`
	SpecialPatchValue  int `yaml:"special_patch_value"`
}

// TurnOrderConfig captures how ties on the time track are resolved.
type TurnOrderConfig struct {
	TieBreak string `yaml:"tie_break"`
}

// GameConfig models .patchwork/config.yaml.
type GameConfig struct {
	Version   int             `yaml:"version"`
	Variant   string          `yaml:"variant"`
	Seed      int64           `yaml:"seed"`
	Players   []PlayerConfig  `yaml:"players"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	TurnOrder TurnOrderConfig `yaml:"turn_order"`
	PatchSet  string          `yaml:"patch_set,omitempty"`

	scoringSet bool
}

// Config holds the runtime configuration for a project.
type Config struct {
	// ProjectDir is the directory where the user ran `patchwork` from
	ProjectDir string

	// PatchworkProjectDir is ProjectDir/.patchwork
	PatchworkProjectDir string

	Game GameConfig
}

// InitProjectDir creates the .patchwork directory structure in the given
// project directory.
//
// Structure created:
// .patchwork/
// ├── config.yaml
// ├── logs/         <- process log and game journal
// └── patches/      <- custom patch sets (YAML or Go scripts)
func InitProjectDir(projectDir string) error {
	root := filepath.Join(projectDir, PatchworkDir)
	dirs := []string{
		filepath.Join(root, "logs"),
		filepath.Join(root, "patches"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	return ensureProjectConfig(filepath.Join(root, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:          projectDir,
		PatchworkProjectDir: filepath.Join(projectDir, PatchworkDir),
		Game:                DefaultGameConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.PatchworkProjectDir, "logs")
}

// PatchesDir returns the directory scanned for custom patch sets
func (c *Config) PatchesDir() string {
	return filepath.Join(c.PatchworkProjectDir, "patches")
}

// JournalPath returns the game journal written by the engine.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "game.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.PatchworkProjectDir, "config.yaml")
}

func (c *Config) Variant() string { return c.Game.Variant }

// SetVariant updates the variant and persists it to .patchwork/config.yaml.
func (c *Config) SetVariant(variant string) error {
	variant = normalizeName(variant)
	if variant != VariantBasic && variant != VariantFull {
		return fmt.Errorf("config: unknown variant %q", variant)
	}
	c.Game.Variant = variant
	return c.saveProjectConfig()
}

// SetSeed updates the shuffle seed and persists it.
func (c *Config) SetSeed(seed int64) error {
	c.Game.Seed = seed
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	parsed, err := ParseGameConfig(data)
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.Game = parsed
	return nil
}

// ParseGameConfig decodes, defaults and validates a config document.
func ParseGameConfig(data []byte) (GameConfig, error) {
	var parsed GameConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return GameConfig{}, err
	}
	var probe struct {
		Scoring *yaml.Node `yaml:"scoring"`
	}
	if err := yaml.Unmarshal(data, &probe); err == nil && probe.Scoring != nil {
		parsed.scoringSet = true
	}
	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return GameConfig{}, err
	}
	return parsed, nil
}

// DefaultGameConfig returns the configuration used when no file exists.
func DefaultGameConfig() GameConfig {
	gc := GameConfig{}
	gc.applyDefaults()
	gc.normalize()
	return gc
}

func (gc *GameConfig) applyDefaults() {
	if gc.Version == 0 {
		gc.Version = 1
	}
	if strings.TrimSpace(gc.Variant) == "" {
		gc.Variant = VariantFull
	}
	for len(gc.Players) < 2 {
		gc.Players = append(gc.Players, PlayerConfig{})
	}
	for i := range gc.Players {
		if gc.Players[i].Buttons == 0 {
			gc.Players[i].Buttons = defaultStartingButtons
		}
	}
	if !gc.scoringSet {
		gc.Scoring = ScoringConfig{EmptySquarePenalty: 2, SpecialTileBonus: 7}
		gc.scoringSet = true
	}
	if strings.TrimSpace(gc.TurnOrder.TieBreak) == "" {
		gc.TurnOrder.TieBreak = TieBreakFixed
	}
}

func (gc *GameConfig) normalize() {
	gc.Variant = normalizeName(gc.Variant)
	gc.TurnOrder.TieBreak = normalizeName(gc.TurnOrder.TieBreak)
	gc.PatchSet = strings.TrimSpace(gc.PatchSet)
	for i := range gc.Players {
		gc.Players[i].Name = strings.TrimSpace(gc.Players[i].Name)
		if gc.Players[i].Name == "" {
			gc.Players[i].Name = fmt.Sprintf("Player %d", i+1)
		}
	}
}

func (gc *GameConfig) validate() error {
	if gc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	switch gc.Variant {
	case VariantBasic, VariantFull:
	default:
		return fmt.Errorf("variant must be '%s' or '%s'", VariantBasic, VariantFull)
	}
	if len(gc.Players) != 2 {
		return fmt.Errorf("exactly two players are required, got %d", len(gc.Players))
	}
	for i, p := range gc.Players {
		if p.Buttons < 0 {
			return fmt.Errorf("players[%d]: buttons cannot be negative", i)
		}
	}
	if gc.Scoring.EmptySquarePenalty < 0 || gc.Scoring.SpecialTileBonus < 0 || gc.Scoring.SpecialPatchValue < 0 {
		return fmt.Errorf("scoring values cannot be negative")
	}
	switch gc.TurnOrder.TieBreak {
	case TieBreakFixed, TieBreakLastArrived:
	default:
		return fmt.Errorf("turn_order.tie_break must be '%s' or '%s'", TieBreakFixed, TieBreakLastArrived)
	}
	return nil
}

func normalizeName(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Game.applyDefaults()
	c.Game.normalize()
	if err := c.Game.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.PatchworkProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure patchwork dir: %w", err)
	}
	data, err := yaml.Marshal(c.Game)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
