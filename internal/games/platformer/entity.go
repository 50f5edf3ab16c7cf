package platformer

import "github.com/vovakirdan/tui-platformer/internal/physics"

// CellSize is the size of one layout cell in pixels.
const CellSize = 16

// Thing is anything placed in a level.
type Thing interface {
	Body() *physics.Body
}

// Inert is the fallback for layout tokens no table knows. It is a solid
// cell with no behaviour.
type Inert struct {
	token rune
	body  *physics.Body
}

// NewInert creates an inert cell remembering the token it was built from.
func NewInert(token rune) *Inert {
	e := &Inert{
		token: token,
		body:  physics.NewStaticBody(physics.CategoryNone, 0, 0, CellSize, CellSize),
	}
	e.body.Owner = e
	return e
}

func (e *Inert) Body() *physics.Body { return e.body }
func (e *Inert) Token() rune         { return e.token }

func thingOf(b *physics.Body) Thing {
	if t, ok := b.Owner.(Thing); ok {
		return t
	}
	return nil
}

func playerOf(b *physics.Body) *Player {
	p, _ := b.Owner.(*Player)
	return p
}

func mobOf(b *physics.Body) *Mob {
	m, _ := b.Owner.(*Mob)
	return m
}

func blockOf(b *physics.Body) *Block {
	bl, _ := b.Owner.(*Block)
	return bl
}

func itemOf(b *physics.Body) *Item {
	it, _ := b.Owner.(*Item)
	return it
}
