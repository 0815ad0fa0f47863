package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kingrea/patchwork/internal/config"
	"github.com/kingrea/patchwork/internal/engine"
	"github.com/kingrea/patchwork/internal/game"
	"github.com/kingrea/patchwork/internal/patch"
	"gopkg.in/yaml.v3"
)

const (
	actionBuy     = "buy"
	actionPass    = "pass"
	actionSpecial = "special"
)

// Script is a recorded game: the setup overrides and the decisions to replay.
type Script struct {
	Seed      int64      `yaml:"seed"`
	Variant   string     `yaml:"variant"`
	PatchSet  string     `yaml:"patch_set"`
	Decisions []Decision `yaml:"decisions"`
}

// Decision is one player input. Player 0 means whoever is expected to act.
// A buy selects the offer by Offset unless Patch names a patch id.
type Decision struct {
	Action      string            `yaml:"action"`
	Player      int               `yaml:"player"`
	Offset      int               `yaml:"offset"`
	Patch       string            `yaml:"patch"`
	Orientation patch.Orientation `yaml:"orientation"`
	Anchor      patch.Point       `yaml:"anchor"`
}

// ParseScript decodes a script, rejecting unknown fields.
func ParseScript(data []byte) (Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Script{}, fmt.Errorf("script: decode: %w", err)
	}
	for i, d := range s.Decisions {
		switch strings.ToLower(strings.TrimSpace(d.Action)) {
		case actionBuy, actionPass, actionSpecial:
			s.Decisions[i].Action = strings.ToLower(strings.TrimSpace(d.Action))
		default:
			return Script{}, fmt.Errorf("script: decision %d: unknown action %q", i+1, d.Action)
		}
	}
	return s, nil
}

// LoadScript reads a script file.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("script: read %s: %w", path, err)
	}
	return ParseScript(data)
}

// Apply overlays the script's setup on a game configuration.
func (s Script) Apply(cfg config.GameConfig) config.GameConfig {
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if v := strings.TrimSpace(s.Variant); v != "" {
		cfg.Variant = v
	}
	if id := strings.TrimSpace(s.PatchSet); id != "" {
		cfg.PatchSet = id
	}
	return cfg
}

// replay feeds every decision to the game and stops at the first rejection.
func replay(g *game.Game, decisions []Decision, out io.Writer) error {
	for i, d := range decisions {
		if g.Phase() == engine.PhaseGameOver {
			return fmt.Errorf("script: decision %d: the game is already over", i+1)
		}
		actor := d.Player
		if actor == 0 {
			actor = g.Current().ID()
		}
		if err := apply(g, actor, d); err != nil {
			return fmt.Errorf("script: decision %d (%s): %w", i+1, d.Action, err)
		}
		fmt.Fprintf(out, "%3d. player %d %s -> %s\n", i+1, actor, describe(d), g.Phase())
	}
	return nil
}

func apply(g *game.Game, actor int, d Decision) error {
	switch d.Action {
	case actionPass:
		return g.Pass(actor)
	case actionSpecial:
		return g.PlaceSpecialPatch(actor, d.Anchor)
	case actionBuy:
		buy := engine.Purchase{PlayerID: actor, Offset: d.Offset, Orientation: d.Orientation, Anchor: d.Anchor}
		if d.Patch != "" {
			found := false
			for _, o := range g.Offer() {
				if o.Patch.ID == d.Patch {
					buy.Offset = o.Offset
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("patch %s is not offered", d.Patch)
			}
		}
		return g.Buy(buy)
	}
	return fmt.Errorf("unknown action %q", d.Action)
}

func describe(d Decision) string {
	switch d.Action {
	case actionBuy:
		target := fmt.Sprintf("offer %d", d.Offset+1)
		if d.Patch != "" {
			target = d.Patch
		}
		return fmt.Sprintf("buys %s at %s", target, d.Anchor)
	case actionSpecial:
		return fmt.Sprintf("sews a special patch at %s", d.Anchor)
	}
	return "passes"
}

// finish completes a truncated replay so it can be scored. It takes the first
// affordable offer that fits, otherwise a pass, for whichever seat is due.
// Special patches go in the first empty cell. There is no lookahead.
func finish(g *game.Game, out io.Writer) error {
	for g.Phase() != engine.PhaseGameOver {
		cur := g.Current()
		board := cur.Board()
		switch g.Phase() {
		case engine.PhaseAwaitSpecialPatch:
			_, at, ok := board.FirstFit(patch.Special())
			if !ok {
				return fmt.Errorf("script: no room for a special patch")
			}
			if err := g.PlaceSpecialPatch(cur.ID(), at); err != nil {
				return err
			}
			fmt.Fprintf(out, "  auto: player %d sews a special patch at %s\n", cur.ID(), at)
		case engine.PhaseAwaitDecision:
			bought := false
			for _, o := range g.Offer() {
				if !o.Affordable || !o.Placeable {
					continue
				}
				shape, at, ok := board.FirstFit(o.Patch)
				if !ok {
					continue
				}
				if err := g.Buy(engine.Purchase{PlayerID: cur.ID(), Patch: &shape, Anchor: at}); err != nil {
					return err
				}
				fmt.Fprintf(out, "  auto: player %d buys %s at %s\n", cur.ID(), o.Patch.ID, at)
				bought = true
				break
			}
			if !bought {
				if err := g.Pass(cur.ID()); err != nil {
					return err
				}
				fmt.Fprintf(out, "  auto: player %d passes\n", cur.ID())
			}
		default:
			return fmt.Errorf("script: unexpected phase %s", g.Phase())
		}
	}
	return nil
}

func report(g *game.Game, out io.Writer) {
	if g.Phase() != engine.PhaseGameOver {
		snap := g.Snapshot()
		fmt.Fprintf(out, "game %s paused at turn %d (%s)\n", snap.GameID, snap.Turn, snap.Phase)
		for _, p := range snap.Players {
			fmt.Fprintf(out, "  %-12s time %2d  buttons %3d  empty %2d\n", p.Name, p.Position, p.Buttons, p.EmptySquares)
		}
		return
	}
	res, err := g.Result()
	if err != nil {
		fmt.Fprintf(out, "result: %v\n", err)
		return
	}
	fmt.Fprintf(out, "game %s over after %d turns (seed %d, set %s)\n", g.ID(), g.Turn(), g.Seed, g.SetID)
	for _, s := range res.Scores {
		fmt.Fprintf(out, "  %-12s %4d\n", s.Name, s.Score)
	}
	if res.Winner == 0 {
		fmt.Fprintln(out, "  draw")
		return
	}
	fmt.Fprintf(out, "  winner: %s\n", g.Player(res.Winner).Name())
}
