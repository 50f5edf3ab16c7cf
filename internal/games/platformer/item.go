package platformer

import (
	"github.com/vovakirdan/tui-platformer/internal/physics"
)

// ItemKind identifies a collectible.
type ItemKind string

const (
	ItemCoin ItemKind = "coin"
	ItemStar ItemKind = "star"
)

// Item is a static collectible. Touching it applies its effect to the
// player and removes it.
type Item struct {
	kind  ItemKind
	value int
	body  *physics.Body
}

// NewItem creates a collectible worth value.
func NewItem(kind ItemKind, value int) *Item {
	it := &Item{
		kind:  kind,
		value: value,
		body:  physics.NewStaticBody(physics.CategoryItem, 0, 0, CellSize, CellSize),
	}
	it.body.Owner = it
	return it
}

func (it *Item) Body() *physics.Body { return it.body }
func (it *Item) Kind() ItemKind      { return it.kind }
func (it *Item) Value() int          { return it.value }

// Collect applies the item's effect to the player.
func (it *Item) Collect(p *Player) {
	switch it.kind {
	case ItemCoin:
		p.ChangeScore(it.value)
	case ItemStar:
		p.SetInvincible(true)
	}
}
