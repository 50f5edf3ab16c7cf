// Package physics implements the fixed-step rigid-body world used by the
// platformer: rectangular bodies, gravity, a resolv-backed broad phase,
// AABB contacts and a deterministic collision-handler dispatcher.
package physics

import (
	"github.com/solarlune/resolv"

	"github.com/vovakirdan/tui-platformer/internal/core"
)

// Category classifies a body for collision dispatch.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryPlayer
	CategoryItem
	CategoryBlock
	CategoryMob
	CategoryBoundary
)

// String returns the category name. It doubles as the resolv object tag.
func (c Category) String() string {
	switch c {
	case CategoryPlayer:
		return "player"
	case CategoryItem:
		return "item"
	case CategoryBlock:
		return "block"
	case CategoryMob:
		return "mob"
	case CategoryBoundary:
		return "boundary"
	default:
		return "none"
	}
}

// Body is an axis-aligned rectangle attached to a World.
// Position is the top-left corner in world pixels; Y grows downwards.
type Body struct {
	Category Category

	// Static bodies never move and are not affected by gravity.
	Static bool

	// Mass splits positional correction between two dynamic bodies.
	Mass float64

	// GravityScale multiplies world gravity (0 for hovering bodies).
	GravityScale float64

	// Friction is the horizontal deceleration in pixels per second squared
	// applied while the body is supported.
	Friction float64

	// Persistent bodies are never dropped when a handler faults.
	Persistent bool

	// Owner points back to the game entity that owns this body.
	Owner any

	id        uint64
	pos       core.Vec
	prev      core.Vec
	size      core.Vec
	vel       core.Vec
	supported bool

	obj *resolv.Object
	idx *index
}

// NewBody creates a dynamic body with unit mass and full gravity.
func NewBody(category Category, x, y, w, h float64) *Body {
	return &Body{
		Category:     category,
		Mass:         1,
		GravityScale: 1,
		pos:          core.Vec{X: x, Y: y},
		prev:         core.Vec{X: x, Y: y},
		size:         core.Vec{X: w, Y: h},
	}
}

// NewStaticBody creates a body that never moves.
func NewStaticBody(category Category, x, y, w, h float64) *Body {
	b := NewBody(category, x, y, w, h)
	b.Static = true
	b.GravityScale = 0
	return b
}

// ID returns the creation-order id assigned when the body was first added
// to a world. Zero means the body has never been added.
func (b *Body) ID() uint64 {
	return b.id
}

// Position returns the top-left corner.
func (b *Body) Position() core.Vec {
	return b.pos
}

// SetPosition teleports the body to (x, y) and refreshes its broad-phase
// cells. The body is no longer considered supported.
func (b *Body) SetPosition(x, y float64) {
	b.pos = core.Vec{X: x, Y: y}
	b.prev = b.pos
	b.supported = false
	b.sync()
}

// Size returns the body's width and height.
func (b *Body) Size() core.Vec {
	return b.size
}

// Velocity returns the body's velocity in pixels per second.
func (b *Body) Velocity() core.Vec {
	return b.vel
}

// SetVelocity replaces the body's velocity.
func (b *Body) SetVelocity(vx, vy float64) {
	b.vel = core.Vec{X: vx, Y: vy}
}

// Bounds returns the body's bounding box.
func (b *Body) Bounds() core.Box {
	return core.Box{X: b.pos.X, Y: b.pos.Y, W: b.size.X, H: b.size.Y}
}

// Supported reports whether the body rested on an accepted contact
// during the last step.
func (b *Body) Supported() bool {
	return b.supported
}

// InWorld reports whether the body is currently attached to a world.
func (b *Body) InWorld() bool {
	return b.obj != nil
}

func (b *Body) prevBounds() core.Box {
	return core.Box{X: b.prev.X, Y: b.prev.Y, W: b.size.X, H: b.size.Y}
}

func (b *Body) inverseMass() float64 {
	if b.Static || b.Mass <= 0 {
		return 0
	}
	return 1 / b.Mass
}

// sync copies the body position into its resolv object.
func (b *Body) sync() {
	if b.obj == nil {
		return
	}
	b.obj.X = b.pos.X + b.idx.origin
	b.obj.Y = b.pos.Y + b.idx.origin
	b.obj.Update()
}
