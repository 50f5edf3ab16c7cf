package platformer

import (
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/physics"
)

// InvincibilityTicks is how long a star keeps the player invincible.
const InvincibilityTicks = 450

// PlayerSize is the player's width and height in pixels.
const PlayerSize = CellSize

// Player is the character controlled by input. It is the only entity that
// survives a level rebuild.
type Player struct {
	name string
	body *physics.Body

	score     int
	health    int
	maxHealth int

	invincible bool
	invTicks   int
	invHealth  int // health when invincibility started

	jumping bool

	onLost func()
}

// NewPlayer creates a player with full health.
func NewPlayer(name string, maxHealth int) *Player {
	body := physics.NewBody(physics.CategoryPlayer, 0, 0, PlayerSize, PlayerSize)
	body.Persistent = true
	p := &Player{
		name:      name,
		body:      body,
		health:    maxHealth,
		maxHealth: maxHealth,
	}
	body.Owner = p
	return p
}

func (p *Player) Body() *physics.Body { return p.body }
func (p *Player) Name() string        { return p.name }
func (p *Player) Score() int          { return p.score }
func (p *Player) Health() int         { return p.health }
func (p *Player) MaxHealth() int      { return p.maxHealth }
func (p *Player) Invincible() bool    { return p.invincible }
func (p *Player) Jumping() bool       { return p.jumping }

// InvincibilityLeft returns the ticks left before invincibility expires.
func (p *Player) InvincibilityLeft() int {
	if !p.invincible {
		return 0
	}
	return InvincibilityTicks - p.invTicks
}

// OnLost installs the hook called whenever health reaches zero outside
// invincibility. The hook is responsible for firing only once per life.
func (p *Player) OnLost(fn func()) {
	p.onLost = fn
}

// ChangeHealth adds delta to health, clamped to [0, max].
func (p *Player) ChangeHealth(delta int) {
	p.health = core.Clamp(p.health+delta, 0, p.maxHealth)
	if p.health == 0 && !p.invincible && p.onLost != nil {
		p.onLost()
	}
}

// Heal restores full health.
func (p *Player) Heal() {
	p.ChangeHealth(p.maxHealth - p.health)
}

// ChangeScore adds delta to the score. Negative deltas are ignored.
func (p *Player) ChangeScore(delta int) {
	if delta > 0 {
		p.score += delta
	}
}

// ResetScore sets the score back to zero.
func (p *Player) ResetScore() {
	p.score = 0
}

// SetInvincible starts or cancels invincibility. Starting it snapshots the
// current health and restarts the timer, also while already invincible.
func (p *Player) SetInvincible(on bool) {
	if !on {
		p.invincible = false
		p.invTicks = 0
		return
	}
	p.invHealth = p.health
	p.invincible = true
	p.invTicks = 0
}

// tickInvincibility advances the invincibility timer by one tick. When the
// window ends every health change made during it is reversed.
func (p *Player) tickInvincibility() {
	if !p.invincible {
		return
	}
	p.invTicks++
	if p.invTicks <= InvincibilityTicks {
		return
	}
	p.invincible = false
	p.invTicks = 0
	p.ChangeHealth(p.invHealth - p.health)
}

// SetJumping sets the jump lock.
func (p *Player) SetJumping(jumping bool) {
	p.jumping = jumping
}

// Jump launches the player upwards unless already airborne from a jump.
func (p *Player) Jump(speed float64) {
	if !p.jumping {
		v := p.body.Velocity()
		p.body.SetVelocity(v.X, -speed)
	}
	p.jumping = true
}

// Move sets the lateral velocity, capped at maxVelocity.
func (p *Player) Move(vx, maxVelocity float64) {
	v := p.body.Velocity()
	p.body.SetVelocity(core.ClampF(vx, -maxVelocity, maxVelocity), v.Y)
}

// place puts the player at (x, y) at rest.
func (p *Player) place(x, y float64) {
	p.body.SetPosition(x, y)
	p.body.SetVelocity(0, 0)
}
