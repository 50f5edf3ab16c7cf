package platformer

import (
	"github.com/vovakirdan/tui-platformer/internal/physics"
)

// BlockKind identifies a block type.
type BlockKind string

const (
	BlockBrick        BlockKind = "brick"
	BlockBrickBase    BlockKind = "brick_base"
	BlockMysteryEmpty BlockKind = "mystery_empty"
	BlockMysteryCoin  BlockKind = "mystery_coin"
	BlockCube         BlockKind = "cube"
	BlockBounce       BlockKind = "bounce_block"
	BlockFlagpole     BlockKind = "flagpole"
	BlockTunnel       BlockKind = "tunnel"
	BlockSwitch       BlockKind = "switch"
)

// Trigger selects what a block does when the player touches it.
type Trigger uint8

const (
	TriggerPlain Trigger = iota
	TriggerMystery
	TriggerBounce
	TriggerFlagpole
	TriggerTunnel
	TriggerSwitch
)

// String returns the trigger name.
func (t Trigger) String() string {
	switch t {
	case TriggerMystery:
		return "mystery"
	case TriggerBounce:
		return "bounce"
	case TriggerFlagpole:
		return "flagpole"
	case TriggerTunnel:
		return "tunnel"
	case TriggerSwitch:
		return "switch"
	default:
		return "plain"
	}
}

var blockTriggers = map[BlockKind]Trigger{
	BlockMysteryEmpty: TriggerMystery,
	BlockMysteryCoin:  TriggerMystery,
	BlockBounce:       TriggerBounce,
	BlockFlagpole:     TriggerFlagpole,
	BlockTunnel:       TriggerTunnel,
	BlockSwitch:       TriggerSwitch,
}

// blockCells is the size in cells of blocks larger or smaller than one cell.
var blockCells = map[BlockKind][2]float64{
	BlockFlagpole: {0.2, 9},
	BlockTunnel:   {2, 2},
}

// Block is a static piece of level geometry.
type Block struct {
	kind    BlockKind
	trigger Trigger
	body    *physics.Body

	// mystery
	active  bool
	drop    ItemKind
	dropMin int
	dropMax int
}

// NewBlock creates a block of the given kind. Mystery blocks created this
// way are active and drop nothing.
func NewBlock(kind BlockKind) *Block {
	w, h := float64(CellSize), float64(CellSize)
	if cells, ok := blockCells[kind]; ok {
		w, h = cells[0]*CellSize, cells[1]*CellSize
	}
	b := &Block{
		kind:    kind,
		trigger: blockTriggers[kind],
		body:    physics.NewStaticBody(physics.CategoryBlock, 0, 0, w, h),
		active:  true,
	}
	b.body.Owner = b
	return b
}

// NewMysteryBlock creates an active mystery block that drops one item of
// the given kind with a value drawn from [lo, hi].
func NewMysteryBlock(kind BlockKind, drop ItemKind, lo, hi int) *Block {
	b := NewBlock(kind)
	b.trigger = TriggerMystery
	b.drop = drop
	b.dropMin = lo
	b.dropMax = hi
	return b
}

func (b *Block) Body() *physics.Body { return b.body }
func (b *Block) Kind() BlockKind     { return b.kind }
func (b *Block) Trigger() Trigger    { return b.trigger }

// Active reports whether a mystery block can still dispense its item.
func (b *Block) Active() bool {
	return b.active
}

// Drop returns the dispensed item kind and its value range.
func (b *Block) Drop() (kind ItemKind, lo, hi int) {
	return b.drop, b.dropMin, b.dropMax
}

// Switchable reports whether an open switch window removes this block.
func (b *Block) Switchable() bool {
	return b.kind == BlockBrick || b.kind == BlockSwitch
}
