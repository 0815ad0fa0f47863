// Package game wires a ready-to-play engine from project configuration.
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/kingrea/patchwork/internal/circle"
	"github.com/kingrea/patchwork/internal/config"
	"github.com/kingrea/patchwork/internal/engine"
	"github.com/kingrea/patchwork/internal/player"
	"github.com/kingrea/patchwork/internal/timetrack"
	"github.com/kingrea/patchwork/plugins"
)

// Setup is everything needed to start a game.
type Setup struct {
	Config  config.GameConfig
	Catalog *plugins.Catalog
	Journal engine.Journal
	// Now seeds the shuffle when Config.Seed is 0.
	Now func() time.Time
}

// Game is a running session and the seed that shuffled it.
type Game struct {
	*engine.Engine
	Seed   int64
	SetID  string
	Config config.GameConfig
}

// New builds the track, circle, players and engine described by s.
func New(s Setup, opts ...engine.Option) (*Game, error) {
	cfg := s.Config
	if len(cfg.Players) != 2 {
		return nil, fmt.Errorf("game: exactly two players are required, got %d", len(cfg.Players))
	}
	variant, err := timetrack.ParseVariant(cfg.Variant)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	tieBreak, err := engine.ParseTieBreak(cfg.TurnOrder.TieBreak)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	catalog := s.Catalog
	if catalog == nil {
		if catalog, err = plugins.NewCatalog(); err != nil {
			return nil, err
		}
	}
	setID := cfg.PatchSet
	if setID == "" {
		setID = string(variant)
	}
	entry, ok := catalog.Lookup(setID)
	if !ok {
		return nil, fmt.Errorf("game: unknown patch set %q (available: %v)", setID, catalog.IDs())
	}

	seed := cfg.Seed
	if seed == 0 {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		seed = now().UnixNano()
	}
	pool, err := circle.FromSet(entry.Set, rand.New(rand.NewSource(seed)), entry.StartAfterSmallest)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	track, err := timetrack.New(variant)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	var seats [2]*player.Player
	for i, pc := range cfg.Players {
		p, err := player.New(player.Options{
			ID:       i + 1,
			Name:     pc.Name,
			Buttons:  pc.Buttons,
			First:    i == 0,
			TrackEnd: track.End(),
		})
		if err != nil {
			return nil, fmt.Errorf("game: %w", err)
		}
		seats[i] = p
	}

	settings := engine.Settings{Scoring: scoringFrom(cfg.Scoring), TieBreak: tieBreak}
	all := []engine.Option{engine.WithSettings(settings)}
	if s.Journal != nil {
		all = append(all, engine.WithJournal(s.Journal))
	}
	all = append(all, opts...)
	eng, err := engine.New(seats[0], seats[1], track, pool, all...)
	if err != nil {
		return nil, err
	}
	return &Game{Engine: eng, Seed: seed, SetID: setID, Config: cfg}, nil
}

// scoringFrom treats an all-zero scoring block as unset.
func scoringFrom(sc config.ScoringConfig) player.Scoring {
	if sc == (config.ScoringConfig{}) {
		return player.DefaultScoring()
	}
	return player.Scoring{
		EmptySquarePenalty: sc.EmptySquarePenalty,
		SpecialTileBonus:   sc.SpecialTileBonus,
		SpecialPatchValue:  sc.SpecialPatchValue,
	}
}

// FromConfig builds a game for a loaded project, discovering custom patch
// sets under .patchwork/patches.
func FromConfig(cfg *config.Config, journal engine.Journal, opts ...engine.Option) (*Game, error) {
	if cfg == nil {
		return nil, fmt.Errorf("game: config is required")
	}
	catalog, err := plugins.Discover(cfg)
	if err != nil {
		return nil, err
	}
	return New(Setup{Config: cfg.Game, Catalog: catalog, Journal: journal}, opts...)
}
