package player

import (
	"errors"
	"testing"

	"github.com/kingrea/patchwork/internal/patch"
	"github.com/kingrea/patchwork/internal/timetrack"
)

func newPlayer(t *testing.T, id, buttons, position int) *Player {
	t.Helper()
	p, err := New(Options{ID: id, Buttons: buttons, Position: position})
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	return p
}

func dot(price, time int) patch.Patch {
	return patch.Patch{ID: "dot", Shape: patch.MustParseShape("#"), Price: price, Time: time}
}

func TestNewValidates(t *testing.T) {
	cases := []Options{
		{ID: 3},
		{ID: 1, Buttons: -1},
		{ID: 1, Position: timetrack.End + 1},
	}
	for _, opts := range cases {
		if _, err := New(opts); err == nil {
			t.Fatalf("New(%+v) succeeded", opts)
		}
	}
	p := newPlayer(t, 2, StartingButtons, 0)
	if p.Name() != "Player 2" || p.Board() == nil || p.Finished() {
		t.Fatalf("unexpected defaults: %s", p)
	}
}

func TestMovePlayer(t *testing.T) {
	p := newPlayer(t, 1, 5, 0)
	if err := p.MovePlayer(dot(2, 1)); err != nil {
		t.Fatalf("move: %v", err)
	}
	if p.Buttons() != 3 || p.Position() != 1 {
		t.Fatalf("buttons=%d position=%d, want 3/1", p.Buttons(), p.Position())
	}
	err := p.MovePlayer(dot(4, 1))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if p.Buttons() != 3 || p.Position() != 1 {
		t.Fatalf("failed move mutated player: %s", p)
	}
}

func TestMovePlayerClampsAndFinishes(t *testing.T) {
	p := newPlayer(t, 1, 5, timetrack.End-2)
	if err := p.MovePlayer(dot(0, 6)); err != nil {
		t.Fatalf("move: %v", err)
	}
	if p.Position() != timetrack.End || !p.Finished() {
		t.Fatalf("position=%d finished=%v", p.Position(), p.Finished())
	}
}

func TestSkipSelection(t *testing.T) {
	cases := []struct {
		name         string
		own, opp     int
		oppFinished  bool
		wantPosition int
		wantGain     int
	}{
		{"behind", 2, 5, false, 6, 4},
		{"tied", 7, 7, false, 8, 1},
		{"opponent finished", 40, timetrack.End, true, timetrack.End, timetrack.End - 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newPlayer(t, 1, 5, tc.own)
			opp := newPlayer(t, 2, 5, tc.opp)
			if tc.oppFinished && !opp.Finished() {
				t.Fatalf("opponent at end must be finished")
			}
			gain, err := p.SkipSelectionUpdateLocation(opp)
			if err != nil {
				t.Fatalf("skip: %v", err)
			}
			if p.Position() != tc.wantPosition || gain != tc.wantGain || p.Buttons() != 5+tc.wantGain {
				t.Fatalf("position=%d gain=%d buttons=%d", p.Position(), gain, p.Buttons())
			}
		})
	}
}

func TestSkipWhileAheadFails(t *testing.T) {
	p := newPlayer(t, 1, 5, 9)
	opp := newPlayer(t, 2, 5, 3)
	if _, err := p.SkipSelectionUpdateLocation(opp); err == nil {
		t.Fatalf("expected error")
	}
	if p.Position() != 9 || p.Buttons() != 5 {
		t.Fatalf("failed skip mutated player")
	}
}

func TestUpdateMutators(t *testing.T) {
	p := newPlayer(t, 1, 2, 0)
	if err := p.UpdateButton(-3); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("debt allowed: %v", err)
	}
	if err := p.UpdateButton(4); err != nil || p.Buttons() != 6 {
		t.Fatalf("update button: %v, %d", err, p.Buttons())
	}
	if err := p.UpdateLocation(-1); err == nil {
		t.Fatalf("backward move allowed")
	}
	if err := p.UpdateLocation(100); err != nil || !p.Finished() {
		t.Fatalf("update location: %v finished=%v", err, p.Finished())
	}
}

func TestSpecialTileIsOneTime(t *testing.T) {
	p := newPlayer(t, 1, 5, 0)
	if err := p.TakeSpecialTile(); err != nil {
		t.Fatalf("first grant: %v", err)
	}
	if err := p.TakeSpecialTile(); !errors.Is(err, ErrAlreadyGranted) {
		t.Fatalf("second grant: %v", err)
	}
	if p.Buttons() != 5 {
		t.Fatalf("tile must not pay buttons immediately")
	}
}

func TestScore(t *testing.T) {
	p := newPlayer(t, 1, 10, 0)
	if err := p.Board().PlacePatch(patch.Patch{ID: "sq", Shape: patch.MustParseShape("###", "###", "###")}, patch.Point{}); err != nil {
		t.Fatalf("place: %v", err)
	}
	want := 10 - 2*72
	if got := p.Score(DefaultScoring()); got != want {
		t.Fatalf("score = %d, want %d", got, want)
	}
	if err := p.TakeSpecialTile(); err != nil {
		t.Fatalf("tile: %v", err)
	}
	p.TakeSpecialPatch()
	s := Scoring{EmptySquarePenalty: 2, SpecialTileBonus: 7, SpecialPatchValue: 3}
	if got := p.Score(s); got != want+7+3 {
		t.Fatalf("score = %d, want %d", got, want+10)
	}
	if p.Score(s) != p.Score(s) {
		t.Fatalf("score is not reproducible")
	}
}
