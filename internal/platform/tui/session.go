package tui

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/registry"
	"github.com/vovakirdan/tui-platformer/internal/storage"
)

// SessionConfig describes what a session offers.
type SessionConfig struct {
	GameID  string   // registry id of the game to play
	Levels  []string // levels listed by the menu
	Options []Option // applied to every game model
}

type sessionMode int

const (
	modeMenu sessionMode = iota
	modeScoreboard
	modeGame
)

// SessionModel manages the full session flow: menu -> game -> menu, with
// the scoreboard reachable from the menu. It is the top-level model for
// SSH sessions.
type SessionModel struct {
	store     *storage.Store
	config    core.RuntimeConfig
	session   SessionConfig
	mode      sessionMode
	menu      MenuModel
	board     ScoreboardModel
	gameModel *Model
	quitting  bool
	err       error
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, sc SessionConfig) SessionModel {
	return SessionModel{
		store:   store,
		config:  cfg,
		session: sc,
		menu:    NewMenuModel(sc.Levels, store, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.mode {
	case modeGame:
		return m.updateGame(msg)
	case modeScoreboard:
		return m.updateScoreboard(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode. The menu's own quit
// command is dropped when it hands over to another screen.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.board = NewScoreboardModel(m.store, m.session.Levels, m.config.ScreenW, m.config.ScreenH)
		m.mode = modeScoreboard
		return m, m.board.Init()

	case m.menu.Selected() != nil:
		game, err := registry.Create(m.session.GameID)
		if err != nil {
			m.err = err
			m.quitting = true
			return m, tea.Quit
		}
		opts := append(slices.Clone(m.session.Options), WithStartLevel(m.menu.Selected().Level))
		gameModel := NewModel(game, m.store, m.config, opts...)
		m.gameModel = &gameModel
		m.mode = modeGame
		return m, m.gameModel.Init()
	}

	return m, cmd
}

// updateScoreboard handles updates while the scoreboard is shown.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.board.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.board = board
	}

	switch {
	case m.board.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.board.IsGoingBack():
		return m.backToMenu()
	}
	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.gameModel = &gameModel
	}

	switch {
	case m.gameModel.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.gameModel.BackToMenu():
		m.gameModel = nil
		return m.backToMenu()
	}
	return m, cmd
}

// backToMenu rebuilds the menu so best scores are current.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.mode = modeMenu
	m.menu = NewMenuModel(m.session.Levels, m.store, m.config)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.mode {
	case modeGame:
		return m.gameModel.View()
	case modeScoreboard:
		return m.board.View()
	}
	return m.menu.View()
}

// Err returns the error that ended the session, if any.
func (m SessionModel) Err() error {
	return m.err
}
