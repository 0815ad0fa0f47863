package engine

import (
	"fmt"

	"github.com/kingrea/patchwork/internal/circle"
	"github.com/kingrea/patchwork/internal/player"
	"github.com/kingrea/patchwork/internal/quilt"
	"github.com/kingrea/patchwork/internal/timetrack"
)

// ID returns the game session id.
func (e *Engine) ID() string { return e.id }

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Turn returns the number of turns started so far.
func (e *Engine) Turn() int { return e.turn }

func (e *Engine) Settings() Settings { return e.settings }

// Current returns the player expected to act, or nil once the game is over.
func (e *Engine) Current() *player.Player {
	if e.phase == PhaseGameOver {
		return nil
	}
	return e.players[e.current]
}

// Player returns the player with id, or nil. Callers must treat it as read-only.
func (e *Engine) Player(id int) *player.Player {
	for _, p := range e.players {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

// Players returns both players ordered by id.
func (e *Engine) Players() []*player.Player {
	return []*player.Player{e.players[0], e.players[1]}
}

func (e *Engine) Track() *timetrack.Track { return e.track }

func (e *Engine) Circle() *circle.Circle { return e.circle }

// Offer returns the patches offered to the current player.
func (e *Engine) Offer() []Offer {
	if e.phase != PhaseAwaitDecision {
		return nil
	}
	return append([]Offer(nil), e.offer...)
}

// PendingSpecialPatches returns how many special patches await placement.
func (e *Engine) PendingSpecialPatches() int { return e.pendingSpecial }

// SpecialTileHolder returns the id of the player holding the 7x7 tile.
func (e *Engine) SpecialTileHolder() (int, bool) {
	return e.tileHolder, e.tileHolder != 0
}

// FinishOrder returns player ids in the order they reached the end.
func (e *Engine) FinishOrder() []int {
	out := make([]int, len(e.finishOrder))
	for i, idx := range e.finishOrder {
		out[i] = e.players[idx].ID()
	}
	return out
}

// History returns every recorded phase change.
func (e *Engine) History() []Transition {
	return append([]Transition(nil), e.history...)
}

// Score is one player's final tally.
type Score struct {
	PlayerID int
	Name     string
	Score    int
}

// Result is the outcome of a finished game. Winner is 0 on a draw.
type Result struct {
	Scores []Score
	Winner int
}

// Score returns a player's final score once the game is over.
func (e *Engine) Score(playerID int) (int, error) {
	if e.phase != PhaseGameOver {
		return 0, fmt.Errorf("%w: scores are final only after the game ends", ErrInvalidTransition)
	}
	p := e.Player(playerID)
	if p == nil {
		return 0, fmt.Errorf("engine: unknown player %d", playerID)
	}
	return p.Score(e.settings.Scoring), nil
}

// Result scores both players once the game is over.
func (e *Engine) Result() (Result, error) {
	if e.phase != PhaseGameOver {
		return Result{}, fmt.Errorf("%w: game is still running", ErrInvalidTransition)
	}
	var res Result
	for _, p := range e.players {
		res.Scores = append(res.Scores, Score{PlayerID: p.ID(), Name: p.Name(), Score: p.Score(e.settings.Scoring)})
	}
	switch a, b := res.Scores[0], res.Scores[1]; {
	case a.Score > b.Score:
		res.Winner = a.PlayerID
	case b.Score > a.Score:
		res.Winner = b.PlayerID
	}
	return res, nil
}

// PlayerView is a read-only copy of one player's state.
type PlayerView struct {
	ID             int
	Name           string
	Buttons        int
	Position       int
	Finished       bool
	SpecialTile    bool
	SpecialPatches int
	EmptySquares   int
	Income         int
	SevenBySeven   bool
	Grid           [quilt.Size][quilt.Size]bool
}

// Snapshot is a copy of the whole game state for front ends.
type Snapshot struct {
	GameID                string
	Turn                  int
	Phase                 Phase
	CurrentID             int
	Players               []PlayerView
	Track                 []timetrack.Element
	Offer                 []Offer
	CircleSize            int
	PendingSpecialPatches int
	SpecialTileHolder     int
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		GameID:                e.id,
		Turn:                  e.turn,
		Phase:                 e.phase,
		Track:                 e.track.Path(),
		Offer:                 e.Offer(),
		CircleSize:            e.circle.Size(),
		PendingSpecialPatches: e.pendingSpecial,
		SpecialTileHolder:     e.tileHolder,
	}
	if cur := e.Current(); cur != nil {
		snap.CurrentID = cur.ID()
	}
	for _, p := range e.players {
		board := p.Board()
		snap.Players = append(snap.Players, PlayerView{
			ID:             p.ID(),
			Name:           p.Name(),
			Buttons:        p.Buttons(),
			Position:       p.Position(),
			Finished:       p.Finished(),
			SpecialTile:    p.HasSpecialTile(),
			SpecialPatches: p.SpecialPatches(),
			EmptySquares:   board.EmptySquare(),
			Income:         board.Buttons(),
			SevenBySeven:   board.HasSevenBySevenSquare(),
			Grid:           board.Grid(),
		})
	}
	return snap
}
