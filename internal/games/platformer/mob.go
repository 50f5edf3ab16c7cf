package platformer

import (
	"github.com/vovakirdan/tui-platformer/internal/physics"
)

// MobKind identifies an enemy type.
type MobKind string

const (
	MobMushroom MobKind = "mushroom"
	MobCloud    MobKind = "cloud"
	MobFireball MobKind = "fireball"
)

// Reaction selects how a mob behaves on contact.
type Reaction uint8

const (
	// ReactionWalker mobs turn around on lateral contact.
	ReactionWalker Reaction = iota
	// ReactionProjectile mobs are destroyed by whatever they touch.
	ReactionProjectile
)

type mobSpec struct {
	w, h     float64
	tempo    float64
	reaction Reaction
	gravity  float64
}

var mobSpecs = map[MobKind]mobSpec{
	MobMushroom: {w: 16, h: 16, tempo: 20, reaction: ReactionWalker, gravity: 1},
	MobCloud:    {w: 16, h: 16, tempo: 40, reaction: ReactionWalker, gravity: 0},
	MobFireball: {w: 8, h: 8, tempo: 0, reaction: ReactionProjectile, gravity: 1},
}

// Mob is an enemy. Its tempo is the signed lateral speed; the sign is the
// facing and the magnitude never changes.
type Mob struct {
	kind     MobKind
	reaction Reaction
	tempo    float64
	body     *physics.Body

	cooldown int // ticks until a cloud may drop another fireball
}

// NewMob creates a mob of the given kind. Unknown kinds get a stationary
// 16x16 walker.
func NewMob(kind MobKind) *Mob {
	spec, ok := mobSpecs[kind]
	if !ok {
		spec = mobSpec{w: CellSize, h: CellSize, reaction: ReactionWalker, gravity: 1}
	}
	body := physics.NewBody(physics.CategoryMob, 0, 0, spec.w, spec.h)
	body.GravityScale = spec.gravity
	m := &Mob{
		kind:     kind,
		reaction: spec.reaction,
		tempo:    spec.tempo,
		body:     body,
	}
	body.Owner = m
	return m
}

func (m *Mob) Body() *physics.Body { return m.body }
func (m *Mob) Kind() MobKind       { return m.kind }
func (m *Mob) Tempo() float64      { return m.tempo }

// Projectile reports whether the mob uses the projectile reaction.
func (m *Mob) Projectile() bool {
	return m.reaction == ReactionProjectile
}

// ReverseTempo flips the mob's facing.
func (m *Mob) ReverseTempo() {
	m.tempo = -m.tempo
}

// face turns the mob towards the given horizontal direction.
func (m *Mob) face(dir float64) {
	if dir*m.tempo < 0 {
		m.ReverseTempo()
	}
}

// walk applies the tempo to the body's lateral velocity.
func (m *Mob) walk() {
	v := m.body.Velocity()
	if m.body.GravityScale == 0 {
		v.Y = 0
	}
	m.body.SetVelocity(m.tempo, v.Y)
}
