package physics

import "github.com/vovakirdan/tui-platformer/internal/core"

// contactEpsilon is the distance under which two edges count as touching.
const contactEpsilon = 1e-6

// Direction is the side of the second body on which the first body sits.
type Direction uint8

const (
	DirNone Direction = iota
	DirAbove
	DirBelow
	DirLeft
	DirRight
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirAbove:
		return "Above"
	case DirBelow:
		return "Below"
	case DirLeft:
		return "Left"
	case DirRight:
		return "Right"
	default:
		return "None"
	}
}

// Lateral reports whether the direction is Left or Right.
func (d Direction) Lateral() bool {
	return d == DirLeft || d == DirRight
}

// Vertical reports whether the direction is Above or Below.
func (d Direction) Vertical() bool {
	return d == DirAbove || d == DirBelow
}

// Classify returns where a sits relative to b, using the axis of minimum
// penetration of the two boxes. Equal penetration on both axes resolves to
// the vertical axis, so a corner hit counts as landing on (or bumping) b
// rather than walking into it.
func Classify(a, b core.Box) Direction {
	ox, oy := a.Overlap(b)
	if oy <= ox {
		if a.Center().Y <= b.Center().Y {
			return DirAbove
		}
		return DirBelow
	}
	if a.Center().X <= b.Center().X {
		return DirLeft
	}
	return DirRight
}

// touching reports whether two boxes overlap or share an edge.
// Boxes meeting only at a corner do not touch.
func touching(a, b core.Box) bool {
	ox, oy := a.Overlap(b)
	if ox < -contactEpsilon || oy < -contactEpsilon {
		return false
	}
	return ox > contactEpsilon || oy > contactEpsilon
}

// Result tells the world whether to apply a physical response to a contact.
type Result uint8

const (
	// Accept applies normal collision response.
	Accept Result = iota
	// Ignore lets the bodies pass through each other until they separate.
	Ignore
)

// String returns the result name.
func (r Result) String() string {
	if r == Ignore {
		return "Ignore"
	}
	return "Accept"
}

// Arbiter describes a contact at the moment it begins.
type Arbiter struct {
	// Direction is where the handler's first body sits relative to the second.
	Direction Direction
	// Overlap is the penetration depth on each axis.
	Overlap core.Vec
	// Tick is the world step the contact began in.
	Tick uint64
}

type pairKey struct {
	lo, hi uint64
}

func keyOf(a, b *Body) pairKey {
	if a.id < b.id {
		return pairKey{lo: a.id, hi: b.id}
	}
	return pairKey{lo: b.id, hi: a.id}
}

// contact is an ongoing touch between two bodies, ordered as the handler
// expects them.
type contact struct {
	a, b   *Body
	order  int
	result Result
}

func (c *contact) key() pairKey {
	return keyOf(c.a, c.b)
}

func (c *contact) involves(b *Body) bool {
	return c.a == b || c.b == b
}
