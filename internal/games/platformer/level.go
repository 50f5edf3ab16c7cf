package platformer

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/physics"
)

// Tuning shared by every level.
const (
	StompSpeed     = 150 // upward speed after landing on a mob
	KnockbackSpeed = 100 // lateral speed after a side hit from a mob
	BounceSpeed    = 250 // upward speed from a bounce block
	cloudDeadZone  = 4   // cloud stops turning when this close to the player
)

// Rules are the immutable parameters a level is built with.
type Rules struct {
	Gravity     core.Vec
	WalkSpeed   float64
	JumpSpeed   float64
	MaxVelocity float64
	Friction    float64
	Mass        float64   // 0 keeps the default player mass
	Spawn       *core.Vec // nil spawns one cell from the top-left corner
	TunnelHeal  int

	CloudFireChance   float64
	CloudFireCooldown int

	Targets map[string]config.LevelTarget
}

// RulesFrom derives level rules from a validated configuration.
func RulesFrom(cfg config.PlatformerConfig) Rules {
	r := Rules{
		Gravity:           core.Vec{X: cfg.World.Gravity.X, Y: cfg.World.Gravity.Y},
		WalkSpeed:         cfg.Player.WalkSpeed,
		JumpSpeed:         cfg.Player.JumpSpeed,
		MaxVelocity:       cfg.Player.MaxVelocity,
		Friction:          cfg.Player.Friction,
		Mass:              cfg.Player.Mass,
		TunnelHeal:        cfg.Player.TunnelHeal,
		CloudFireChance:   cfg.Mobs.CloudFireChance,
		CloudFireCooldown: cfg.Mobs.CloudFireCooldown,
		Targets:           cfg.Levels.Goals,
	}
	if s := cfg.Player.Spawn; s != nil {
		r.Spawn = &core.Vec{X: s.X, Y: s.Y}
	}
	return r
}

// DefaultRules returns the rules of the default configuration.
func DefaultRules() Rules {
	return RulesFrom(config.DefaultPlatformerConfig())
}

// Level is one built level: its physics world, the player placed in it and
// the transient level state handlers act on.
type Level struct {
	ID     string
	World  *physics.World[*Level]
	Player *Player
	State  LevelState
	Rules  Rules

	Width  float64 // pixels
	Height float64

	// FireChance is the per-tick probability that a cooled-down cloud
	// drops a fireball.
	FireChance float64

	rng    *rand.Rand
	logger *log.Logger
	tick   uint64
}

func newLevel(id string, width, height float64, player *Player, rules Rules, rng *rand.Rand, logger *log.Logger) *Level {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	wcfg := physics.DefaultConfig()
	wcfg.Gravity = rules.Gravity
	wcfg.Width = width
	wcfg.Height = height
	wcfg.Margin = 12 * CellSize
	wcfg.Logger = logger

	lv := &Level{
		ID:         id,
		World:      physics.NewWorld[*Level](wcfg),
		Player:     player,
		Rules:      rules,
		Width:      width,
		Height:     height,
		FireChance: rules.CloudFireChance,
		rng:        rng,
		logger:     logger,
	}
	lv.State.Level = id
	if t, ok := rules.Targets[id]; ok {
		lv.State.Goal = t.Goal
		lv.State.Tunnel = t.Tunnel
	}
	return lv
}

// Tick returns the number of steps the level has run.
func (lv *Level) Tick() uint64 {
	return lv.tick
}

// Place puts a thing at (x, y) and adds it to the world.
func (lv *Level) Place(t Thing, x, y float64) {
	t.Body().SetPosition(x, y)
	lv.World.Add(t.Body())
}

// Remove takes a thing out of the world. It returns false if the thing
// was not in the world.
func (lv *Level) Remove(t Thing) bool {
	return lv.World.Remove(t.Body())
}

// SpawnItem places a new item at (x, y).
func (lv *Level) SpawnItem(kind ItemKind, value int, x, y float64) *Item {
	it := NewItem(kind, value)
	lv.Place(it, x, y)
	return it
}

// SpawnMob places a new mob at (x, y).
func (lv *Level) SpawnMob(kind MobKind, x, y float64) *Mob {
	m := NewMob(kind)
	lv.Place(m, x, y)
	return m
}

// Things returns everything in the world in creation order.
func (lv *Level) Things() []Thing {
	bodies := lv.World.Bodies()
	out := make([]Thing, 0, len(bodies))
	for _, b := range bodies {
		if t := thingOf(b); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// Mobs returns the live mobs in creation order.
func (lv *Level) Mobs() []*Mob {
	var out []*Mob
	for _, b := range lv.World.Bodies() {
		if m := mobOf(b); m != nil {
			out = append(out, m)
		}
	}
	return out
}

// Blocks returns the blocks in the world in creation order.
func (lv *Level) Blocks() []*Block {
	var out []*Block
	for _, b := range lv.World.Bodies() {
		if bl := blockOf(b); bl != nil {
			out = append(out, bl)
		}
	}
	return out
}

// Items returns the uncollected items in creation order.
func (lv *Level) Items() []*Item {
	var out []*Item
	for _, b := range lv.World.Bodies() {
		if it := itemOf(b); it != nil {
			out = append(out, it)
		}
	}
	return out
}

// Step runs one tick of the level: mob behaviour, one physics step, then
// the invincibility and switch timers and the fall-out check.
func (lv *Level) Step() error {
	lv.tick++
	lv.stepMobs()
	if err := lv.World.Step(lv); err != nil {
		return err
	}
	lv.Player.tickInvincibility()
	lv.tickSwitch()
	lv.cull()
	return nil
}

func (lv *Level) stepMobs() {
	px := lv.Player.Body().Bounds().Center().X
	for _, m := range lv.Mobs() {
		if m.kind == MobCloud {
			lv.stepCloud(m, px)
		}
		m.walk()
	}
}

// stepCloud turns a cloud towards the player and sometimes drops a fireball.
func (lv *Level) stepCloud(m *Mob, px float64) {
	box := m.body.Bounds()
	dx := px - box.Center().X
	if dx > cloudDeadZone || dx < -cloudDeadZone {
		m.face(dx)
	}

	if m.cooldown > 0 {
		m.cooldown--
		return
	}
	if lv.rng.Float64() >= lv.FireChance {
		return
	}
	spec := mobSpecs[MobFireball]
	lv.SpawnMob(MobFireball, box.Center().X-spec.w/2, box.Bottom()+1)
	m.cooldown = lv.Rules.CloudFireCooldown
}

// openSwitch opens a switch window centred on the block. A window that is
// already open is left untouched.
func (lv *Level) openSwitch(b *Block) bool {
	w := &lv.State.Switch
	if w.Open {
		return false
	}
	*w = SwitchWindow{
		Open:     true,
		Origin:   b.body.Bounds().Center(),
		OpenedAt: lv.tick,
		pending:  true,
	}
	lv.logger.Debug("switch pressed", "level", lv.ID, "x", w.Origin.X, "y", w.Origin.Y, "tick", lv.tick)
	return true
}

// tickSwitch advances an open switch window. Blocks are removed on the
// first pass and restored once the window has run for SwitchTicks passes.
func (lv *Level) tickSwitch() {
	w := &lv.State.Switch
	if !w.Open {
		return
	}
	w.Ticks++

	if w.pending {
		w.pending = false
		for _, body := range lv.World.ThingsInRange(w.Origin.X, w.Origin.Y, SwitchRadius) {
			if bl := blockOf(body); bl != nil && bl.Switchable() {
				lv.Remove(bl)
				w.removed = append(w.removed, bl)
			}
		}
	}

	if w.Ticks > SwitchTicks {
		for _, bl := range w.removed {
			lv.World.Add(bl.body)
		}
		lv.State.Switch = SwitchWindow{}
	}
}

// cull drops mobs and items that fell out of the level and ends the game
// when the player does.
func (lv *Level) cull() {
	limit := lv.Height + 2*CellSize
	for _, m := range lv.Mobs() {
		if m.body.Position().Y > limit {
			lv.Remove(m)
		}
	}
	if lv.Player.Body().Position().Y > lv.Height {
		if lv.State.MarkLost() {
			lv.Player.ChangeHealth(-lv.Player.Health())
		}
	}
}

// advance requests the level's goal.
func (lv *Level) advance() {
	if lv.State.Goal == "" {
		lv.logger.Warn("no goal configured", "level", lv.ID)
		return
	}
	lv.State.RequestTransition(Transition{Kind: TransitionGoal, Target: lv.State.Goal})
}

// Descend requests the level's tunnel target if the player stands on a
// tunnel. It returns whether a transition was queued.
func (lv *Level) Descend() bool {
	if !lv.State.TunnelEligible {
		return false
	}
	if lv.State.Tunnel == "" {
		lv.logger.Warn("no tunnel target configured", "level", lv.ID)
		return false
	}
	lv.State.TunnelEligible = false
	return lv.State.RequestTransition(Transition{
		Kind:   TransitionTunnel,
		Target: lv.State.Tunnel,
		Heal:   lv.Rules.TunnelHeal,
	})
}

// drawValue returns a uniformly drawn value in [lo, hi].
func (lv *Level) drawValue(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + lv.rng.Intn(hi-lo+1)
}
