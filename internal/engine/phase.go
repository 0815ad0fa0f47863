package engine

import (
	"fmt"
	"strings"

	"github.com/kingrea/patchwork/internal/player"
)

// Phase enumerates the turn state machine.
type Phase string

const (
	PhaseSelectTurnOwner       Phase = "select-turn-owner"
	PhaseOfferTrio             Phase = "offer-trio"
	PhaseAwaitDecision         Phase = "await-decision"
	PhaseApplyPurchaseAndPlace Phase = "apply-purchase-and-place"
	PhaseApplyPass             Phase = "apply-pass"
	PhaseResolveCrossing       Phase = "resolve-crossing"
	PhaseAwaitSpecialPatch     Phase = "await-special-patch"
	PhaseCheckBonus            Phase = "check-bonus"
	PhaseCheckEnd              Phase = "check-end"
	PhaseGameOver              Phase = "game-over"
)

// Resting reports whether the engine waits for outside input in this phase.
func (p Phase) Resting() bool {
	switch p {
	case PhaseAwaitDecision, PhaseAwaitSpecialPatch, PhaseGameOver:
		return true
	default:
		return false
	}
}

// TieBreak picks the turn owner when both tokens share a square.
type TieBreak string

const (
	// TieBreakFixed favours the first player.
	TieBreakFixed TieBreak = "fixed"
	// TieBreakLastArrived favours the token that reached the square last.
	TieBreakLastArrived TieBreak = "last-arrived"
)

// ParseTieBreak normalizes a configured tie-break name.
func ParseTieBreak(raw string) (TieBreak, error) {
	switch TieBreak(strings.ToLower(strings.TrimSpace(raw))) {
	case "", TieBreakFixed:
		return TieBreakFixed, nil
	case TieBreakLastArrived:
		return TieBreakLastArrived, nil
	default:
		return "", fmt.Errorf("engine: unknown tie-break %q", raw)
	}
}

// Settings carries the rule constants.
type Settings struct {
	Scoring  player.Scoring
	TieBreak TieBreak
}

// DefaultSettings returns standard scoring with the fixed tie-break.
func DefaultSettings() Settings {
	return Settings{Scoring: player.DefaultScoring(), TieBreak: TieBreakFixed}
}

func (s Settings) validate() error {
	if s.Scoring.EmptySquarePenalty < 0 {
		return fmt.Errorf("engine: empty square penalty cannot be negative")
	}
	if s.Scoring.SpecialTileBonus < 0 || s.Scoring.SpecialPatchValue < 0 {
		return fmt.Errorf("engine: bonus values cannot be negative")
	}
	if _, err := ParseTieBreak(string(s.TieBreak)); err != nil {
		return err
	}
	return nil
}
