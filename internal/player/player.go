// Package player holds per-player state: buttons, time track position, quilt
// board and the one-time bonuses.
package player

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kingrea/patchwork/internal/patch"
	"github.com/kingrea/patchwork/internal/quilt"
	"github.com/kingrea/patchwork/internal/timetrack"
)

const (
	// StartingButtons is the default purse.
	StartingButtons = 5
)

var (
	// ErrInsufficientFunds reports a purchase the player cannot pay for.
	ErrInsufficientFunds = errors.New("player: insufficient funds")
	// ErrAlreadyGranted reports a second grant of a one-time bonus.
	ErrAlreadyGranted = errors.New("player: bonus already granted")
)

// Scoring holds the end-of-game constants.
type Scoring struct {
	EmptySquarePenalty int
	SpecialTileBonus   int
	SpecialPatchValue  int
}

// DefaultScoring returns the standard constants.
func DefaultScoring() Scoring {
	return Scoring{EmptySquarePenalty: 2, SpecialTileBonus: 7}
}

// Options configures New. Zero values pick sensible defaults except ID.
type Options struct {
	ID       int
	Name     string
	Buttons  int
	Position int
	Board    *quilt.Board
	First    bool
	TrackEnd int
}

// Player is mutated only by the engine.
type Player struct {
	id             int
	name           string
	buttons        int
	position       int
	end            int
	board          *quilt.Board
	first          bool
	specialTile    bool
	specialPatches int
	finished       bool
}

// New validates opts and builds a player.
func New(opts Options) (*Player, error) {
	if opts.ID != 1 && opts.ID != 2 {
		return nil, fmt.Errorf("player: unknown id %d", opts.ID)
	}
	if opts.Buttons < 0 {
		return nil, fmt.Errorf("player %d: buttons cannot be negative", opts.ID)
	}
	end := opts.TrackEnd
	if end == 0 {
		end = timetrack.End
	}
	if end < 0 {
		return nil, fmt.Errorf("player %d: track end %d is negative", opts.ID, end)
	}
	if opts.Position < 0 || opts.Position > end {
		return nil, fmt.Errorf("player %d: position %d out of range [0,%d]", opts.ID, opts.Position, end)
	}
	board := opts.Board
	if board == nil {
		board = quilt.New()
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = fmt.Sprintf("Player %d", opts.ID)
	}
	return &Player{
		id:       opts.ID,
		name:     name,
		buttons:  opts.Buttons,
		position: opts.Position,
		end:      end,
		board:    board,
		first:    opts.First,
		finished: opts.Position == end,
	}, nil
}

func (p *Player) ID() int { return p.id }
func (p *Player) Name() string { return p.name }
func (p *Player) Buttons() int { return p.buttons }
func (p *Player) Position() int { return p.position }

// End is the last square of the track this player moves on.
func (p *Player) End() int { return p.end }
func (p *Player) Board() *quilt.Board { return p.board }
func (p *Player) First() bool { return p.first }
func (p *Player) HasSpecialTile() bool { return p.specialTile }
func (p *Player) SpecialPatches() int { return p.specialPatches }
func (p *Player) Finished() bool { return p.finished }

func (p *Player) String() string {
	return fmt.Sprintf("%s (#%d) buttons=%d position=%d", p.name, p.id, p.buttons, p.position)
}

// CanAfford reports whether the player can pay for pp.
func (p *Player) CanAfford(pp patch.Patch) bool {
	return p.buttons >= pp.Price
}

// Destination returns where paying for pp would move the player.
func (p *Player) Destination(pp patch.Patch) int {
	return p.clamp(p.position + pp.Time)
}

// MovePlayer pays for pp and advances by its time cost, clamped at the end
// of the track. Nothing changes when the player cannot pay.
func (p *Player) MovePlayer(pp patch.Patch) error {
	if !p.CanAfford(pp) {
		return fmt.Errorf("%w: %s costs %d, %s has %d", ErrInsufficientFunds, pp.ID, pp.Price, p.name, p.buttons)
	}
	p.buttons -= pp.Price
	p.setPosition(p.Destination(pp))
	return nil
}

// SkipTarget returns where passing would move the player: one past the
// opponent, or the end of the track when the opponent is finished.
func (p *Player) SkipTarget(opponent *Player) int {
	if opponent.Finished() {
		return p.end
	}
	return p.clamp(opponent.Position() + 1)
}

// SkipSelectionUpdateLocation passes the turn: the player moves to SkipTarget
// and earns one button per square advanced. It returns the squares advanced.
func (p *Player) SkipSelectionUpdateLocation(opponent *Player) (int, error) {
	if opponent == nil || opponent == p {
		return 0, fmt.Errorf("player %d: pass needs an opponent", p.id)
	}
	if opponent.Position() < p.position {
		return 0, fmt.Errorf("player %d: cannot pass while ahead of player %d", p.id, opponent.ID())
	}
	target := p.SkipTarget(opponent)
	advanced := target - p.position
	p.buttons += advanced
	p.setPosition(target)
	return advanced, nil
}

// UpdateLocation moves the player by delta squares.
func (p *Player) UpdateLocation(delta int) error {
	if delta < 0 {
		return fmt.Errorf("player %d: cannot move backward by %d", p.id, -delta)
	}
	p.setPosition(p.clamp(p.position + delta))
	return nil
}

// UpdateButton adds delta buttons. The purse never goes negative.
func (p *Player) UpdateButton(delta int) error {
	if p.buttons+delta < 0 {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, p.name, p.buttons, -delta)
	}
	p.buttons += delta
	return nil
}

// TakeSpecialPatch records a special patch earned on the time track.
func (p *Player) TakeSpecialPatch() {
	p.specialPatches++
}

// TakeSpecialTile grants the 7x7 bonus tile.
func (p *Player) TakeSpecialTile() error {
	if p.specialTile {
		return fmt.Errorf("%w: %s already holds the special tile", ErrAlreadyGranted, p.name)
	}
	p.specialTile = true
	return nil
}

// FinishPlayer marks the player as done.
func (p *Player) FinishPlayer() {
	p.finished = true
}

// Score computes the final score with s.
func (p *Player) Score(s Scoring) int {
	score := p.buttons - s.EmptySquarePenalty*p.board.EmptySquare()
	if p.specialTile {
		score += s.SpecialTileBonus
	}
	return score + s.SpecialPatchValue*p.specialPatches
}

func (p *Player) clamp(position int) int {
	if position > p.end {
		return p.end
	}
	return position
}

func (p *Player) setPosition(position int) {
	p.position = position
	if p.position == p.end {
		p.finished = true
	}
}
