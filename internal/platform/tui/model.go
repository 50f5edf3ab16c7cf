package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/registry"
	"github.com/vovakirdan/tui-platformer/internal/storage"
)

// maxNameLen caps names entered in the score prompt.
const maxNameLen = 16

// Option customises a Model.
type Option func(*Model)

// WithTableDir writes completed-level scores to high_scores_<level> files
// in dir as well as to the database.
func WithTableDir(dir string) Option {
	return func(m *Model) { m.tableDir = dir }
}

// WithPlayerName sets the name offered by the score prompt.
func WithPlayerName(name string) Option {
	return func(m *Model) {
		if name = sanitizeName(name); name != "" {
			m.player = name
		}
	}
}

// WithLogger sets the logger for score saving and game events.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithStartLevel makes the model jump to a level right after the first
// reset. The game must implement registry.LevelLoader.
func WithStartLevel(id string) Option {
	return func(m *Model) { m.startLevel = id }
}

// WithScreenshotDir sets where ctrl+s screenshots are written.
func WithScreenshotDir(dir string) Option {
	return func(m *Model) { m.screenshotDir = dir }
}

// Model is the Bubble Tea model running one game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keys       KeyMap
	help       help.Model
	logger     *log.Logger

	runID         uuid.UUID // groups every score saved during this model's lifetime
	player        string
	tableDir      string
	startLevel    string
	screenshotDir string

	// score prompt
	prompt    textinput.Model
	prompting bool
	pending   core.Event
	status    string

	quitting   bool
	backToMenu bool
	exitOnBack bool // no menu to go back to
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...Option) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 100
	}

	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = maxNameLen
	ti.Width = maxNameLen + 2

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameRows(cfg.ScreenH)),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		logger:     log.New(io.Discard),
		runID:      uuid.New(),
		player:     "player",
		prompt:     ti,
	}
	m.help.Width = cfg.ScreenW
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// gameRows leaves the bottom row for the help bar.
func gameRows(h int) int {
	return max(1, h-1)
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	if m.startLevel != "" {
		if ll, ok := m.game.(registry.LevelLoader); ok {
			if err := ll.LoadLevel(m.startLevel); err != nil {
				m.logger.Error("cannot load start level", "level", m.startLevel, "err", err)
			}
		} else {
			m.logger.Warn("game has no levels", "game", m.game.ID())
		}
	}
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompting {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	if m.prompting {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	switch action := m.keys.Action(msg); action {
	case core.ActionNone:
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused || m.gameState.Finished {
			m.backToMenu = true
			if m.exitOnBack {
				return m, tea.Quit
			}
		}
	default:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleResize resizes the screen. The game keeps running; the camera
// adapts to the new size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameRows(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks. Completing a level with a score
// opens the name prompt; the game is held while it is open.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.prompting {
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}
	for _, ev := range result.Events {
		m.logger.Debug("game event", "kind", ev.Kind, "level", ev.Level, "next", ev.Next, "score", ev.Score)
		if ev.Kind == core.EventLevelComplete && ev.Score > 0 && m.recording() && !m.prompting {
			cmds = append(cmds, m.openPrompt(ev))
		}
	}
	return m, tea.Batch(cmds...)
}

// recording reports whether completed levels are saved anywhere.
func (m Model) recording() bool {
	return m.store != nil || m.tableDir != ""
}

func (m *Model) openPrompt(ev core.Event) tea.Cmd {
	m.pending = ev
	m.prompting = true
	m.prompt.SetValue(m.player)
	m.prompt.CursorEnd()
	return tea.Batch(m.prompt.Focus(), textinput.Blink)
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
	m.pending = core.Event{}
}

// handlePromptKey edits the name; enter saves and esc skips.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter:
		ev := m.pending
		name := sanitizeName(m.prompt.Value())
		if name == "" {
			name = m.player
		}
		if err := m.saveScore(ev, name); err != nil {
			m.logger.Error("cannot save score", "level", ev.Level, "err", err)
			m.status = "Could not save score: " + err.Error()
		} else {
			m.player = name
			m.status = fmt.Sprintf("Saved %d for %s on %s", ev.Score, name, ev.Level)
		}
		m.closePrompt()
		return m, nil
	case tea.KeyEsc:
		m.status = "Score not saved"
		m.closePrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// saveScore records a completed level in the database and the level's
// name:score table file.
func (m Model) saveScore(ev core.Event, name string) error {
	var errs []error
	if m.store != nil {
		if _, err := m.store.SaveScore(ev.Level, name, ev.Score, m.runID); err != nil {
			errs = append(errs, err)
		}
	}
	if m.tableDir != "" {
		if err := storage.RecordTableScore(m.tableDir, ev.Level, name, ev.Score); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	m.logger.Info("score saved", "level", ev.Level, "player", name, "score", ev.Score, "run", m.runID)
	return nil
}

// sanitizeName drops characters that would break a name:score line.
func sanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == ':' || unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > maxNameLen {
		name = string(r[:maxNameLen])
	}
	return name
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	dir := m.screenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			m.logger.Warn("cannot save screenshot", "err", err)
			return
		}
		dir = filepath.Join(home, ".platformer", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.status = "Screenshot saved to " + path
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.prompting {
		return lipgloss.Place(m.config.ScreenW, m.config.ScreenH, lipgloss.Center, lipgloss.Center, m.promptView())
	}

	m.screen.Clear()
	m.game.Render(m.screen)

	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = statusStyle.Render(m.status)
	}
	return RenderScreen(m.screen) + "\n" + footer
}

var (
	promptBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("229")).
			Padding(1, 3)
	promptTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229"))
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func (m Model) promptView() string {
	var b strings.Builder
	b.WriteString(promptTitleStyle.Render("LEVEL COMPLETE"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s  score %d\n\n", m.pending.Level, m.pending.Score)
	b.WriteString("Name for the high-score table:\n")
	b.WriteString(m.prompt.View())
	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render("enter save • esc skip"))
	return promptBoxStyle.Render(b.String())
}

// State returns the game state seen on the last tick.
func (m Model) State() core.GameState {
	return m.gameState
}

// Prompting reports whether the score prompt is open.
func (m Model) Prompting() bool {
	return m.prompting
}

// Status returns the last status message.
func (m Model) Status() string {
	return m.status
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...Option) error {
	model := NewModel(game, store, cfg, opts...)
	model.exitOnBack = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
