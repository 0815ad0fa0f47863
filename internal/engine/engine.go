package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/patchwork/internal/circle"
	"github.com/kingrea/patchwork/internal/patch"
	"github.com/kingrea/patchwork/internal/player"
	"github.com/kingrea/patchwork/internal/quilt"
	"github.com/kingrea/patchwork/internal/timetrack"
)

// ErrInvalidTransition reports a decision submitted out of turn, by a finished
// player or in the wrong phase.
var ErrInvalidTransition = errors.New("engine: invalid transition")

// Journal receives one line per applied outcome. *logbook.Logbook satisfies it.
type Journal interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

type nopJournal struct{}

func (nopJournal) Info(string, ...any) {}
func (nopJournal) Warn(string, ...any) {}

// Engine owns the shared circle and track and drives both players.
type Engine struct {
	id       string
	players  [2]*player.Player
	first    int
	track    *timetrack.Track
	circle   *circle.Circle
	settings Settings
	journal  Journal
	clock    func() time.Time
	stepping bool

	phase          Phase
	current        int
	turn           int
	offer          []Offer
	pending        action
	lastArrived    int
	tileHolder     int
	pendingSpecial int
	finishOrder    []int
	history        []Transition
}

// Option customizes the engine instance.
type Option func(*Engine)

// WithJournal records outcomes to j.
func WithJournal(j Journal) Option {
	return func(e *Engine) {
		if j != nil {
			e.journal = j
		}
	}
}

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithGameID replaces the generated session id.
func WithGameID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.id = id
		}
	}
}

// WithSettings replaces the rule constants.
func WithSettings(s Settings) Option {
	return func(e *Engine) {
		e.settings = s
	}
}

// WithStepping stops the engine on every transient phase so callers drive
// transitions one at a time with Advance.
func WithStepping() Option {
	return func(e *Engine) {
		e.stepping = true
	}
}

// Transition is one recorded phase change.
type Transition struct {
	Turn     int
	PlayerID int
	From     Phase
	To       Phase
	Note     string
	At       time.Time
}

// Offer is one purchasable patch with hints for the current player.
type Offer struct {
	Offset     int
	Patch      patch.Patch
	Affordable bool
	Placeable  bool
}

// Purchase is a buy-and-place decision. When Patch is set it selects the
// offered patch by identity and its shape is used as given; otherwise Offset
// selects it. Orientation is applied on top of either.
type Purchase struct {
	PlayerID    int
	Offset      int
	Patch       *patch.Patch
	Orientation patch.Orientation
	Anchor      patch.Point
}

type action struct {
	offset   int
	oriented patch.Patch
	anchor   patch.Point
	from     int
	to       int
}

// New wires the engine to both players and the shared pools. Players are
// ordered by id; the one flagged First wins fixed tie-breaks.
func New(p1, p2 *player.Player, track *timetrack.Track, pool *circle.Circle, opts ...Option) (*Engine, error) {
	if p1 == nil || p2 == nil {
		return nil, fmt.Errorf("engine: two players are required")
	}
	if track == nil {
		return nil, fmt.Errorf("engine: time track is required")
	}
	if pool == nil {
		return nil, fmt.Errorf("engine: patch circle is required")
	}
	if p1.ID() == p2.ID() {
		return nil, fmt.Errorf("engine: players share id %d", p1.ID())
	}
	if p1.ID() > p2.ID() {
		p1, p2 = p2, p1
	}
	if p1.Board() == p2.Board() {
		return nil, fmt.Errorf("engine: players cannot share a quilt board")
	}
	for _, p := range []*player.Player{p1, p2} {
		if p.End() != track.End() {
			return nil, fmt.Errorf("engine: %s ends at square %d but the track ends at %d", p.Name(), p.End(), track.End())
		}
	}
	e := &Engine{
		id:          uuid.NewString(),
		players:     [2]*player.Player{p1, p2},
		track:       track,
		circle:      pool,
		settings:    DefaultSettings(),
		journal:     nopJournal{},
		clock:       time.Now,
		lastArrived: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	tieBreak, err := ParseTieBreak(string(e.settings.TieBreak))
	if err != nil {
		return nil, err
	}
	e.settings.TieBreak = tieBreak
	if err := e.settings.validate(); err != nil {
		return nil, err
	}
	if p2.First() && !p1.First() {
		e.first = 1
	}
	for idx, p := range e.players {
		if p.Finished() {
			e.finishOrder = append(e.finishOrder, idx)
		}
	}
	e.phase = PhaseSelectTurnOwner
	e.journal.Info("game %s: %s vs %s, %d patches in the circle", e.id, p1.Name(), p2.Name(), pool.Size())
	if err := e.run(); err != nil {
		return nil, err
	}
	return e, nil
}

// Buy validates a purchase in full and applies it.
func (e *Engine) Buy(p Purchase) error {
	actor, err := e.actor(p.PlayerID, PhaseAwaitDecision, "buy")
	if err != nil {
		return e.reject(err)
	}
	offset := p.Offset
	var chosen patch.Patch
	if p.Patch != nil {
		if offset, err = e.circle.OffsetOf(*p.Patch); err != nil {
			return e.reject(fmt.Errorf("engine: buy: %w", err))
		}
		chosen = *p.Patch
	} else {
		if chosen, err = e.circle.Peek(offset); err != nil {
			return e.reject(fmt.Errorf("engine: buy: %w", err))
		}
	}
	oriented := chosen.Oriented(p.Orientation)
	if !actor.CanAfford(oriented) {
		return e.reject(fmt.Errorf("engine: buy %s: %w: costs %d, %s has %d",
			oriented.ID, player.ErrInsufficientFunds, oriented.Price, actor.Name(), actor.Buttons()))
	}
	if !actor.Board().CanPlacePatch(oriented, p.Anchor) {
		return e.reject(fmt.Errorf("engine: buy %s at %s: %w", oriented.ID, p.Anchor, quilt.ErrIllegalPlacement))
	}
	e.pending = action{offset: offset, oriented: oriented, anchor: p.Anchor, from: actor.Position()}
	e.enter(PhaseApplyPurchaseAndPlace, fmt.Sprintf("%s at %s", oriented.ID, p.Anchor))
	return e.run()
}

// Pass skips the purchase: the player moves just past the opponent and earns
// a button per square advanced.
func (e *Engine) Pass(playerID int) error {
	actor, err := e.actor(playerID, PhaseAwaitDecision, "pass")
	if err != nil {
		return e.reject(err)
	}
	e.pending = action{from: actor.Position()}
	e.enter(PhaseApplyPass, "")
	return e.run()
}

// PlaceSpecialPatch sews a pending special patch on the current player's board.
func (e *Engine) PlaceSpecialPatch(playerID int, anchor patch.Point) error {
	actor, err := e.actor(playerID, PhaseAwaitSpecialPatch, "place special patch")
	if err != nil {
		return e.reject(err)
	}
	if err := actor.Board().PlacePatch(patch.Special(), anchor); err != nil {
		return e.reject(fmt.Errorf("engine: special patch: %w", err))
	}
	actor.TakeSpecialPatch()
	e.pendingSpecial--
	e.journal.Info("%s sews a special patch at %s", actor.Name(), anchor)
	e.afterCrossing(actor)
	return e.run()
}

// Advance performs one transient transition. It only has work to do when the
// engine was built WithStepping.
func (e *Engine) Advance() (Phase, error) {
	if e.phase.Resting() {
		return e.phase, fmt.Errorf("%w: %s waits for input", ErrInvalidTransition, e.phase)
	}
	err := e.step()
	return e.phase, err
}

func (e *Engine) run() error {
	if e.stepping {
		return nil
	}
	for !e.phase.Resting() {
		if err := e.step(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) step() error {
	switch e.phase {
	case PhaseSelectTurnOwner:
		idx, ok := e.selectTurnOwner()
		if !ok {
			e.enter(PhaseCheckEnd, "no player can act")
			return nil
		}
		e.current = idx
		e.turn++
		e.enter(PhaseOfferTrio, "")
	case PhaseOfferTrio:
		e.offer = e.buildOffer()
		e.enter(PhaseAwaitDecision, fmt.Sprintf("%d patches offered", len(e.offer)))
	case PhaseApplyPurchaseAndPlace:
		if err := e.applyPurchase(); err != nil {
			return err
		}
		e.enter(PhaseResolveCrossing, "")
	case PhaseApplyPass:
		if err := e.applyPass(); err != nil {
			return err
		}
		e.enter(PhaseResolveCrossing, "")
	case PhaseResolveCrossing:
		if err := e.resolveCrossing(); err != nil {
			return err
		}
		e.afterCrossing(e.players[e.current])
	case PhaseCheckBonus:
		e.checkBonus()
		e.enter(PhaseCheckEnd, "")
	case PhaseCheckEnd:
		if e.players[0].Finished() && e.players[1].Finished() {
			e.enter(PhaseGameOver, "")
			e.logResult()
			return nil
		}
		e.enter(PhaseSelectTurnOwner, "")
	default:
		return fmt.Errorf("%w: no transition from %s", ErrInvalidTransition, e.phase)
	}
	return nil
}

func (e *Engine) applyPurchase() error {
	actor := e.players[e.current]
	bought, err := e.circle.ChoosePatch(e.pending.offset)
	if err != nil {
		return fmt.Errorf("engine: apply purchase: %w", err)
	}
	if err := actor.Board().PlacePatch(e.pending.oriented, e.pending.anchor); err != nil {
		return fmt.Errorf("engine: apply purchase: %w", err)
	}
	if err := actor.MovePlayer(bought); err != nil {
		return fmt.Errorf("engine: apply purchase: %w", err)
	}
	e.pending.to = actor.Position()
	e.journal.Info("turn %d: %s buys %s for %d buttons and %d time, sewn at %s",
		e.turn, actor.Name(), bought.ID, bought.Price, bought.Time, e.pending.anchor)
	e.arrived(e.current)
	return nil
}

func (e *Engine) applyPass() error {
	actor := e.players[e.current]
	gained, err := actor.SkipSelectionUpdateLocation(e.players[1-e.current])
	if err != nil {
		return fmt.Errorf("engine: apply pass: %w", err)
	}
	e.pending.to = actor.Position()
	e.journal.Info("turn %d: %s passes to %d and earns %d buttons", e.turn, actor.Name(), e.pending.to, gained)
	e.arrived(e.current)
	return nil
}

func (e *Engine) resolveCrossing() error {
	actor := e.players[e.current]
	crossing, err := e.track.ElementCrossed(e.pending.from, e.pending.to)
	if err != nil {
		return fmt.Errorf("engine: resolve crossing: %w", err)
	}
	if crossing.Buttons > 0 {
		income := actor.Board().Buttons() * crossing.Buttons
		if err := actor.UpdateButton(income); err != nil {
			return fmt.Errorf("engine: resolve crossing: %w", err)
		}
		e.journal.Info("%s crosses %d button space(s) and collects %d", actor.Name(), crossing.Buttons, income)
	}
	if crossing.SpecialPatches > 0 {
		e.pendingSpecial += crossing.SpecialPatches
		e.journal.Info("%s earns %d special patch(es)", actor.Name(), crossing.SpecialPatches)
	}
	return nil
}

// afterCrossing rests on AwaitSpecialPatch while a special patch can still be
// sewn, forfeiting the rest when the board has no room.
func (e *Engine) afterCrossing(actor *player.Player) {
	if e.pendingSpecial > 0 {
		if actor.Board().FitsAnywhere(patch.Special()) {
			e.enter(PhaseAwaitSpecialPatch, fmt.Sprintf("%d special patch(es) to place", e.pendingSpecial))
			return
		}
		e.journal.Warn("%s forfeits %d special patch(es): no empty square", actor.Name(), e.pendingSpecial)
		e.pendingSpecial = 0
	}
	e.enter(PhaseCheckBonus, "")
}

func (e *Engine) checkBonus() {
	if e.tileHolder != 0 {
		return
	}
	actor := e.players[e.current]
	if !actor.Board().HasSevenBySevenSquare() {
		return
	}
	if err := actor.TakeSpecialTile(); err != nil {
		return
	}
	e.tileHolder = actor.ID()
	e.journal.Info("%s completes a 7x7 square and takes the special tile", actor.Name())
}

func (e *Engine) arrived(idx int) {
	actor, other := e.players[idx], e.players[1-idx]
	if actor.Position() == other.Position() {
		e.lastArrived = idx
	}
	if actor.Finished() && !e.hasFinished(idx) {
		e.finishOrder = append(e.finishOrder, idx)
		e.journal.Info("%s reaches the end of the time track", actor.Name())
	}
}

func (e *Engine) hasFinished(idx int) bool {
	for _, f := range e.finishOrder {
		if f == idx {
			return true
		}
	}
	return false
}

func (e *Engine) selectTurnOwner() (int, bool) {
	a, b := e.players[0], e.players[1]
	switch {
	case a.Finished() && b.Finished():
		return -1, false
	case a.Finished():
		return 1, true
	case b.Finished():
		return 0, true
	case a.Position() < b.Position():
		return 0, true
	case b.Position() < a.Position():
		return 1, true
	}
	if e.settings.TieBreak == TieBreakLastArrived && e.lastArrived >= 0 {
		return e.lastArrived, true
	}
	return e.first, true
}

func (e *Engine) buildOffer() []Offer {
	actor := e.players[e.current]
	trio := e.circle.Trio()
	out := make([]Offer, len(trio))
	for i, p := range trio {
		out[i] = Offer{
			Offset:     i,
			Patch:      p,
			Affordable: actor.CanAfford(p),
			Placeable:  actor.Board().FitsAnywhere(p),
		}
	}
	return out
}

func (e *Engine) actor(playerID int, want Phase, verb string) (*player.Player, error) {
	if e.phase != want {
		return nil, fmt.Errorf("%w: cannot %s during %s", ErrInvalidTransition, verb, e.phase)
	}
	p := e.Player(playerID)
	if p == nil {
		return nil, fmt.Errorf("%w: unknown player %d", ErrInvalidTransition, playerID)
	}
	// a finished player may still owe a special patch placement
	if p.Finished() && want == PhaseAwaitDecision {
		return nil, fmt.Errorf("%w: %s has finished", ErrInvalidTransition, p.Name())
	}
	if p != e.players[e.current] {
		return nil, fmt.Errorf("%w: it is %s's turn", ErrInvalidTransition, e.players[e.current].Name())
	}
	return p, nil
}

func (e *Engine) reject(err error) error {
	e.journal.Warn("rejected: %v", err)
	return err
}

func (e *Engine) enter(next Phase, note string) {
	e.history = append(e.history, Transition{
		Turn:     e.turn,
		PlayerID: e.players[e.current].ID(),
		From:     e.phase,
		To:       next,
		Note:     note,
		At:       e.clock(),
	})
	e.phase = next
}

func (e *Engine) logResult() {
	res, err := e.Result()
	if err != nil {
		return
	}
	for _, s := range res.Scores {
		e.journal.Info("final score %s: %d", s.Name, s.Score)
	}
	if res.Winner == 0 {
		e.journal.Info("game %s ends in a draw", e.id)
		return
	}
	e.journal.Info("game %s won by %s", e.id, e.Player(res.Winner).Name())
}
