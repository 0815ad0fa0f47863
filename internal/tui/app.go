// internal/tui/app.go
//
// This is the terminal front end for Patchwork.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: the App struct holding the menu and the running game
// 2. Update: key presses become engine decisions
// 3. View: the engine snapshot rendered with lipgloss
//
// The engine owns every rule. The App only tracks what the player is
// pointing at (offer, orientation, anchor) before submitting a decision.

package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kingrea/patchwork/internal/circle"
	"github.com/kingrea/patchwork/internal/config"
	"github.com/kingrea/patchwork/internal/engine"
	"github.com/kingrea/patchwork/internal/game"
	"github.com/kingrea/patchwork/internal/logbook"
	"github.com/kingrea/patchwork/internal/patch"
	"github.com/kingrea/patchwork/internal/quilt"
	"github.com/kingrea/patchwork/internal/timetrack"
	"github.com/kingrea/patchwork/plugins"
)

// appState represents which "screen" we're on
type appState int

const (
	stateMainMenu appState = iota // Variant and patch set picker
	statePlaying                  // A game waiting for decisions
	stateGameOver                 // Final scores
)

const (
	actionPlay = "play"
	actionExit = "exit"
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithSeed fixes the shuffle seed for every game started from the menu.
func WithSeed(seed int64) AppOption {
	return func(a *App) {
		a.seed = seed
	}
}

// WithCatalog replaces patch set discovery.
func WithCatalog(catalog *plugins.Catalog) AppOption {
	return func(a *App) {
		if catalog != nil {
			a.catalog = catalog
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	config  *config.Config
	logbook *logbook.Logbook
	catalog *plugins.Catalog
	seed    int64

	game *game.Game

	// Pending decision
	selected    int
	orientation patch.Orientation
	anchor      patch.Point

	// UI components
	mainMenu  list.Model
	statusMsg string
	err       error
	width     int
	height    int
}

// menuItem implements list.Item for the main menu.
type menuItem struct {
	title       string
	description string
	action      string
	setID       string
	variant     string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.description }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates a new application instance for an initialized project.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	book, err := logbook.New(cfg.JournalPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	app := &App{
		state:   stateMainMenu,
		config:  cfg,
		logbook: book,
		seed:    cfg.Game.Seed,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if app.catalog == nil {
		if app.catalog, err = plugins.Discover(cfg); err != nil {
			return nil, err
		}
	}
	app.mainMenu = app.buildMainMenu()
	return app, nil
}

func (a *App) buildMainMenu() list.Model {
	items := []list.Item{
		menuItem{title: "Basic game", description: "Empty time track, the reduced patch circle", action: actionPlay, variant: config.VariantBasic, setID: config.VariantBasic},
		menuItem{title: "Full game", description: "Button income, special patches and the 7x7 tile", action: actionPlay, variant: config.VariantFull, setID: config.VariantFull},
	}
	for _, id := range a.catalog.IDs() {
		if id == config.VariantBasic || id == config.VariantFull {
			continue
		}
		entry, _ := a.catalog.Lookup(id)
		name := entry.Set.Name
		if name == "" {
			name = id
		}
		items = append(items, menuItem{
			title:       name,
			description: fmt.Sprintf("%d patches · %s", len(entry.Set.Patches), filepath.Base(entry.Source)),
			action:      actionPlay,
			variant:     a.config.Variant(),
			setID:       id,
		})
	}
	items = append(items, menuItem{title: "Exit", description: "Leave Patchwork", action: actionExit})

	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "PATCHWORK"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	return menu
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update handles all incoming messages and returns the updated model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(20, msg.Width-4), max(10, msg.Height-6))
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state != stateMainMenu {
				a.logInfo("game abandoned")
			}
			return a, tea.Quit
		}
		switch a.state {
		case stateMainMenu:
			if msg.String() == "enter" {
				return a.handleMainMenuSelection()
			}
		case statePlaying:
			return a.handleGameKey(msg)
		case stateGameOver:
			switch msg.String() {
			case "enter", "esc":
				a.backToMenu("")
				return a, nil
			}
			return a, nil
		}
	}

	if a.state == stateMainMenu {
		var cmd tea.Cmd
		a.mainMenu, cmd = a.mainMenu.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleMainMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	switch item.action {
	case actionExit:
		return a, tea.Quit
	case actionPlay:
		a.startGame(item)
	}
	return a, nil
}

func (a *App) startGame(item menuItem) {
	cfg := a.config.Game
	cfg.Variant = item.variant
	cfg.PatchSet = item.setID
	cfg.Seed = a.seed
	g, err := game.New(game.Setup{Config: cfg, Catalog: a.catalog, Journal: a.logbook})
	if err != nil {
		a.err = err
		a.logError("start %s: %v", item.setID, err)
		return
	}
	a.game = g
	a.err = nil
	a.state = statePlaying
	a.statusMsg = fmt.Sprintf("%s · seed %d", item.title, g.Seed)
	a.resetSelection()
}

func (a *App) handleGameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "esc":
		a.logInfo("game %s left at turn %d", a.game.ID(), a.game.Turn())
		a.backToMenu("Game abandoned")
	case "1", "2", "3":
		a.selectOffer(int(key[0] - '1'))
	case "tab":
		if n := len(a.game.Offer()); n > 0 {
			a.selectOffer((a.selected + 1) % n)
		}
	case "r":
		a.orientation.Rotation = (a.orientation.Rotation + 1) % 4
		a.clampAnchor()
	case "m":
		a.orientation.Mirrored = !a.orientation.Mirrored
	case "up", "k":
		a.moveAnchor(0, -1)
	case "down", "j":
		a.moveAnchor(0, 1)
	case "left", "h":
		a.moveAnchor(-1, 0)
	case "right", "l":
		a.moveAnchor(1, 0)
	case "enter", " ":
		a.submitPlacement()
	case "p":
		a.submitPass()
	}
	return a, nil
}

func (a *App) selectOffer(idx int) {
	if idx < 0 || idx >= len(a.game.Offer()) {
		return
	}
	a.selected = idx
	a.orientation = patch.Orientation{}
	a.clampAnchor()
}

func (a *App) moveAnchor(dx, dy int) {
	a.anchor.X += dx
	a.anchor.Y += dy
	a.clampAnchor()
}

// clampAnchor keeps the preview inside the board.
func (a *App) clampAnchor() {
	p, ok := a.preview()
	if !ok {
		return
	}
	a.anchor.X = min(max(0, a.anchor.X), quilt.Size-p.Width())
	a.anchor.Y = min(max(0, a.anchor.Y), quilt.Size-p.Height())
}

// preview returns the patch being positioned, if any.
func (a *App) preview() (patch.Patch, bool) {
	if a.game == nil {
		return patch.Patch{}, false
	}
	switch a.game.Phase() {
	case engine.PhaseAwaitSpecialPatch:
		return patch.Special(), true
	case engine.PhaseAwaitDecision:
		offer := a.game.Offer()
		if a.selected >= len(offer) {
			return patch.Patch{}, false
		}
		return offer[a.selected].Patch.Oriented(a.orientation), true
	}
	return patch.Patch{}, false
}

func (a *App) submitPlacement() {
	cur := a.game.Current()
	if cur == nil {
		return
	}
	var err error
	switch a.game.Phase() {
	case engine.PhaseAwaitSpecialPatch:
		err = a.game.PlaceSpecialPatch(cur.ID(), a.anchor)
		if err == nil {
			a.statusMsg = fmt.Sprintf("%s sewed a special patch at %s", cur.Name(), a.anchor)
		}
	case engine.PhaseAwaitDecision:
		offer := a.game.Offer()
		if a.selected >= len(offer) {
			return
		}
		bought := offer[a.selected].Patch
		err = a.game.Buy(engine.Purchase{
			PlayerID:    cur.ID(),
			Offset:      offer[a.selected].Offset,
			Orientation: a.orientation,
			Anchor:      a.anchor,
		})
		if err == nil {
			a.statusMsg = fmt.Sprintf("%s bought %s", cur.Name(), bought.ID)
		}
	}
	a.afterDecision(err)
}

func (a *App) submitPass() {
	cur := a.game.Current()
	if cur == nil || a.game.Phase() != engine.PhaseAwaitDecision {
		return
	}
	from, purse := cur.Position(), cur.Buttons()
	err := a.game.Pass(cur.ID())
	if err == nil {
		// the purse change includes income from button spaces crossed
		a.statusMsg = fmt.Sprintf("%s passed %d square(s), purse %+d", cur.Name(), cur.Position()-from, cur.Buttons()-purse)
	}
	a.afterDecision(err)
}

func (a *App) afterDecision(err error) {
	if err != nil {
		a.err = err
		return
	}
	a.err = nil
	if a.game.Phase() == engine.PhaseGameOver {
		a.state = stateGameOver
		return
	}
	a.resetSelection()
}

func (a *App) resetSelection() {
	a.selected = 0
	a.orientation = patch.Orientation{}
	a.anchor = patch.Point{}
	for i, o := range a.game.Offer() {
		if o.Affordable && o.Placeable {
			a.selected = i
			break
		}
	}
}

func (a *App) backToMenu(status string) {
	a.state = stateMainMenu
	a.game = nil
	a.err = nil
	a.statusMsg = status
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

var (
	accent     = lipgloss.Color("#5B8DEF")
	muted      = lipgloss.Color("#888888")
	border     = lipgloss.Color("#444444")
	legal      = lipgloss.Color("#7BD88F")
	illegal    = lipgloss.Color("#FF6B6B")
	patchTones = []lipgloss.Color{"#E5C07B", "#C678DD", "#56B6C2", "#D19A66", "#98C379", "#61AFEF", "#E06C75"}
)

// View renders the current state to a string.
func (a *App) View() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(illegal).
		MarginBottom(1).
		Render("▦ PATCHWORK")
	var content string
	switch a.state {
	case stateMainMenu:
		content = a.mainMenu.View()
	case statePlaying:
		content = a.renderGame()
	case stateGameOver:
		content = a.renderResult()
	}
	parts := []string{header, content}
	if status := a.renderStatus(); status != "" {
		parts = append(parts, status)
	}
	if panel := a.renderLogPanel(); panel != "" {
		parts = append(parts, panel)
	}
	parts = append(parts, a.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) renderGame() string {
	snap := a.game.Snapshot()
	boards := make([]string, 0, len(snap.Players))
	for _, pv := range snap.Players {
		boards = append(boards, a.renderPlayer(pv, pv.ID == snap.CurrentID))
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, append(boards, a.renderTrack(snap))...)
	return lipgloss.JoinVertical(lipgloss.Left, top, a.renderOffer(snap))
}

func (a *App) renderPlayer(pv engine.PlayerView, active bool) string {
	title := pv.Name
	if active {
		title = "▶ " + title
	}
	head := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(title)
	stats := fmt.Sprintf("buttons %d · income %d · time %d/%d\nempty %d", pv.Buttons, pv.Income, pv.Position, timetrack.End, pv.EmptySquares)
	if pv.SpecialTile {
		stats += " · 7x7 tile"
	}
	if pv.SpecialPatches > 0 {
		stats += fmt.Sprintf(" · %d special", pv.SpecialPatches)
	}
	if pv.Finished {
		stats += " · finished"
	}
	grid := a.renderBoard(pv, active)
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	if active {
		style = style.BorderForeground(accent)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, head, grid, lipgloss.NewStyle().Foreground(muted).Render(stats)))
}

func (a *App) renderBoard(pv engine.PlayerView, active bool) string {
	overlay := map[patch.Point]bool{}
	fits := false
	if active {
		if p, ok := a.preview(); ok {
			placed := patch.Placed{Patch: p, Anchor: a.anchor}
			fits = a.game.Player(pv.ID).Board().CanPlacePatch(p, a.anchor)
			for _, c := range placed.Cells() {
				overlay[c] = true
			}
		}
	}
	board := a.game.Player(pv.ID).Board()
	var b strings.Builder
	for y := 0; y < quilt.Size; y++ {
		for x := 0; x < quilt.Size; x++ {
			cell := lipgloss.NewStyle().Foreground(border).Render("··")
			if pv.Grid[y][x] {
				tone := patchTones[0]
				if idx, ok := ownerIndex(board, x, y); ok {
					tone = patchTones[idx%len(patchTones)]
				}
				cell = lipgloss.NewStyle().Foreground(tone).Render("██")
			}
			if overlay[patch.Point{X: x, Y: y}] {
				color := legal
				if !fits {
					color = illegal
				}
				cell = lipgloss.NewStyle().Foreground(color).Render("▓▓")
			}
			b.WriteString(cell)
		}
		if y < quilt.Size-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func ownerIndex(board *quilt.Board, x, y int) (int, bool) {
	owner, ok := board.Owner(x, y)
	if !ok {
		return 0, false
	}
	for i, p := range board.Placed() {
		if p.Equal(owner) {
			return i, true
		}
	}
	return 0, false
}

func (a *App) renderTrack(snap engine.Snapshot) string {
	var cells [timetrack.LayoutHeight][timetrack.LayoutWidth]string
	for pos, el := range snap.Track {
		c, err := timetrack.CoordOf(pos)
		if err != nil {
			continue
		}
		mark := lipgloss.NewStyle().Foreground(border).Render("· ")
		switch el {
		case timetrack.Button:
			mark = lipgloss.NewStyle().Foreground(accent).Render("o ")
		case timetrack.SpecialPatch:
			mark = lipgloss.NewStyle().Foreground(legal).Render("■ ")
		}
		var here []string
		for _, pv := range snap.Players {
			if pv.Position == pos {
				here = append(here, fmt.Sprint(pv.ID))
			}
		}
		if len(here) > 0 {
			mark = lipgloss.NewStyle().Bold(true).Foreground(illegal).Render(fmt.Sprintf("%-2s", strings.Join(here, "")))
		}
		cells[c.Y][c.X] = mark
	}
	rows := make([]string, 0, timetrack.LayoutHeight)
	for _, row := range cells {
		rows = append(rows, strings.Join(row[:], ""))
	}
	head := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(fmt.Sprintf("TIME · turn %d", snap.Turn))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(head + "\n" + strings.Join(rows, "\n"))
}

func (a *App) renderOffer(snap engine.Snapshot) string {
	if snap.Phase == engine.PhaseAwaitSpecialPatch {
		return lipgloss.NewStyle().Foreground(legal).Render(
			fmt.Sprintf("Place %d special patch(es): move with arrows, enter to sew", snap.PendingSpecialPatches))
	}
	cards := make([]string, 0, circle.OfferSize)
	for i, o := range snap.Offer {
		shape := o.Patch
		if i == a.selected {
			shape = o.Patch.Oriented(a.orientation)
		}
		label := fmt.Sprintf("%d) %s\n%d¢ %dt +%d", i+1, o.Patch.ID, o.Patch.Price, o.Patch.Time, o.Patch.Income)
		style := lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(border).
			Padding(0, 1)
		if i == a.selected {
			style = style.BorderForeground(accent).Bold(true)
		}
		if !o.Affordable || !o.Placeable {
			style = style.Foreground(muted)
		}
		cards = append(cards, style.Render(label+"\n"+shape.Shape.String()))
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(fmt.Sprintf("OFFER · %d left in the circle", snap.CircleSize))
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
}

func (a *App) renderResult() string {
	res, err := a.game.Result()
	if err != nil {
		return err.Error()
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(accent).Render("GAME OVER")}
	for _, s := range res.Scores {
		lines = append(lines, fmt.Sprintf("%-12s %4d", s.Name, s.Score))
	}
	if res.Winner == 0 {
		lines = append(lines, "Draw")
	} else {
		lines = append(lines, fmt.Sprintf("%s wins", a.game.Player(res.Winner).Name()))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderStatus() string {
	if a.err != nil {
		msg := a.err.Error()
		switch {
		case errors.Is(a.err, quilt.ErrIllegalPlacement):
			msg = "That patch does not fit there"
		case errors.Is(a.err, engine.ErrInvalidTransition):
			msg = "Not now: " + msg
		}
		return lipgloss.NewStyle().Foreground(illegal).Render(msg)
	}
	if a.statusMsg == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(legal).Render(a.statusMsg)
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil || a.state == stateMainMenu {
		return ""
	}
	lines, _ := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(accent).
		Render(fmt.Sprintf("LOG · %s", filepath.Base(a.logbook.Path())))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) renderHelp() string {
	var help string
	switch a.state {
	case stateMainMenu:
		help = "enter: start · q: quit"
	case statePlaying:
		help = "1-3/tab: pick · r: rotate · m: mirror · arrows/hjkl: move · enter: sew · p: pass · esc: menu · q: quit"
	case stateGameOver:
		help = "enter: back to menu · q: quit"
	}
	return lipgloss.NewStyle().Foreground(muted).MarginTop(1).Render(help)
}
