// Package platformer implements a side-scrolling platformer on top of the
// physics world: levels built from text layouts, a player, enemies, blocks
// with triggers and collectibles.
package platformer

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/registry"
)

// GameID is the registry id of the platformer.
const GameID = "platformer"

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// levelDir overrides the configured level directory
var levelDir string

var defaultLogger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// SetLevelDir sets a directory whose level files take precedence over the
// built-in ones.
func SetLevelDir(dir string) {
	levelDir = dir
}

// SetLogger sets the logger used by games created afterwards.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	defaultLogger = l
}

// LoadConfig loads the configuration a game created with New plays with,
// honouring SetConfigPath, SetDifficultyPreset and SetLevelDir. On error
// the defaults are returned with the error.
func LoadConfig() (config.PlatformerConfig, error) {
	cfg, err := config.LoadPlatformer(configPath)
	if err != nil {
		cfg = config.DefaultPlatformerConfig()
	}
	config.ApplyPlatformerPreset(&cfg, difficultyPreset)
	if levelDir != "" {
		cfg.Levels.Dir = levelDir
	}
	return cfg, err
}

// SourceFor returns the built-in levels, overlaid by cfg.Levels.Dir when set.
func SourceFor(cfg config.PlatformerConfig) LevelSource {
	src := EmbeddedLevels()
	if dir := cfg.Levels.Dir; dir != "" {
		src = Overlay(DirLevels(dir), src)
	}
	return src
}

// Option customises a game created with NewWithConfig.
type Option func(*Game)

// WithLevels makes the game read layouts from src.
func WithLevels(src LevelSource) Option {
	return func(g *Game) { g.levels = src }
}

// WithLogger sets the game logger.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// WithBuilder replaces the token builder.
func WithBuilder(b *Builder) Option {
	return func(g *Game) { g.builder = b }
}

// Game implements the platformer game logic.
type Game struct {
	// Configuration
	runtime    core.RuntimeConfig
	cfg        config.PlatformerConfig
	configured bool // cfg was supplied by the caller
	rules      Rules
	difficulty *config.DifficultyManager

	levels  LevelSource
	builder *Builder
	logger  *log.Logger
	rng     *rand.Rand

	// Game state
	player   *Player
	level    *Level
	current  string
	tick     uint64
	paused   bool
	lost     bool
	finished bool
	fault    error // level that could not be loaded

	events []core.Event
}

// New creates a platformer that loads its configuration on Reset.
func New() *Game {
	return &Game{}
}

// NewWithConfig creates a platformer using cfg as is.
func NewWithConfig(cfg config.PlatformerConfig, opts ...Option) *Game {
	g := &Game{cfg: cfg, configured: true}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Platformer"
}

// Reset starts a new game at the configured start level.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	if g.logger == nil {
		g.logger = defaultLogger
	}

	if !g.configured {
		cfg, err := LoadConfig()
		if err != nil {
			g.logger.Warn("using default config", "err", err)
		}
		g.cfg = cfg
		g.levels = nil
	}
	if g.levels == nil {
		g.levels = SourceFor(g.cfg)
	}
	if g.builder == nil {
		g.builder = NewBuilder()
	}

	g.rules = RulesFrom(g.cfg)
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
	g.rng = rand.New(rand.NewSource(runtime.Seed))

	g.player = NewPlayer(g.cfg.Player.CharacterName(), g.cfg.Player.MaxHealth)
	g.level = nil
	g.current = ""
	g.tick = 0
	g.paused = false
	g.lost = false
	g.finished = false
	g.fault = nil
	g.events = nil

	if err := g.LoadLevel(g.cfg.Levels.Start); err != nil {
		g.fail(err)
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.events = nil

	if in.Has(core.ActionRestart) {
		if err := g.RestartLevel(); err != nil {
			g.fail(err)
		}
		return g.result()
	}
	if g.over() {
		return g.result()
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return g.result()
	}

	g.tick++
	g.applyInput(in)
	g.level.FireChance = g.difficulty.FireChance(g.rules.CloudFireChance, g.player.Score(), g.tick)
	if err := g.level.Step(); err != nil {
		g.logger.Error("level step failed", "level", g.current, "err", err)
	}
	g.settle()
	return g.result()
}

func (g *Game) applyInput(in core.InputFrame) {
	p, r := g.player, g.rules
	if in.Has(core.ActionJump) {
		p.Jump(r.JumpSpeed)
	}
	left, right := in.Has(core.ActionLeft), in.Has(core.ActionRight)
	switch {
	case left && !right:
		p.Move(-r.WalkSpeed, r.MaxVelocity)
	case right && !left:
		p.Move(r.WalkSpeed, r.MaxVelocity)
	}
	if in.Has(core.ActionDuck) {
		g.level.Descend()
	}
}

// settle applies what the tick left pending: a loss or a level change.
func (g *Game) settle() {
	lv := g.level
	if lv.State.Lost() {
		g.lost = true
		g.logger.Info("player lost", "level", lv.ID, "score", g.player.Score(), "tick", g.tick)
		g.emit(core.EventLost, "")
		return
	}

	t, ok := lv.State.PendingTransition()
	if !ok {
		return
	}
	switch t.Kind {
	case TransitionGoal:
		g.emit(core.EventLevelComplete, t.Target)
		if t.Target == config.EndLevel {
			g.finished = true
			g.logger.Info("game finished", "score", g.player.Score())
			g.emit(core.EventGameFinished, "")
			return
		}
	case TransitionTunnel:
		g.player.ChangeHealth(t.Heal)
	}

	from := lv.ID
	if err := g.LoadLevel(t.Target); err != nil {
		g.fail(err)
		return
	}
	g.logger.Info("level changed", "from", from, "to", t.Target, "via", t.Kind)
	g.events = append(g.events, core.Event{
		Kind:  core.EventLevelChanged,
		Level: from,
		Next:  t.Target,
		Score: g.player.Score(),
	})
}

func (g *Game) emit(kind core.EventKind, next string) {
	g.events = append(g.events, core.Event{
		Kind:  kind,
		Level: g.current,
		Next:  next,
		Score: g.player.Score(),
	})
}

func (g *Game) fail(err error) {
	g.fault = err
	g.logger.Error("level unavailable", "err", err)
}

func (g *Game) over() bool {
	return g.lost || g.finished || g.fault != nil || g.level == nil
}

func (g *Game) result() core.StepResult {
	return core.StepResult{State: g.State(), Events: g.events}
}

// LoadLevel replaces the current level with a fresh build of id. Loading
// the end marker finishes the game. On error the current level is kept.
func (g *Game) LoadLevel(id string) error {
	if id == config.EndLevel {
		g.finished = true
		return nil
	}
	layout, err := g.levels.Layout(id)
	if err != nil {
		return err
	}

	if g.level != nil {
		g.level.World.Remove(g.player.Body())
	}
	lv, err := g.builder.Build(id, layout, g.player, g.rules, g.rng, g.logger)
	if err != nil {
		if g.level != nil {
			g.level.World.Add(g.player.Body())
		}
		return fmt.Errorf("platformer: load %s: %w", id, err)
	}
	g.level = lv
	g.current = id
	g.fault = nil
	return nil
}

// RestartLevel rebuilds the current level with the player at full health.
// After a loss the score is cleared if the configuration asks for it.
func (g *Game) RestartLevel() error {
	if g.player == nil {
		return fmt.Errorf("platformer: restart before reset")
	}
	if g.lost && g.cfg.Player.ResetScoreOnDeath {
		g.player.ResetScore()
	}
	g.player.SetInvincible(false)
	g.player.Heal()
	g.lost = false
	g.finished = false
	g.paused = false

	id := g.current
	if id == "" {
		id = g.cfg.Levels.Start
	}
	return g.LoadLevel(id)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	s := core.GameState{
		GameOver: g.lost || g.fault != nil,
		Finished: g.finished,
		Paused:   g.paused,
		Level:    g.current,
		Tick:     g.tick,
	}
	if g.player != nil {
		s.Score = g.player.Score()
		s.Health = g.player.Health()
		s.MaxHealth = g.player.MaxHealth()
	}
	return s
}

// Level returns the level being played.
func (g *Game) Level() *Level {
	return g.level
}

// Player returns the player.
func (g *Game) Player() *Player {
	return g.player
}

// Config returns the configuration in use.
func (g *Game) Config() config.PlatformerConfig {
	return g.cfg
}

// Levels returns the level source in use.
func (g *Game) Levels() LevelSource {
	return g.levels
}

// Err returns the error that stopped the game, if any.
func (g *Game) Err() error {
	return g.fault
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}
