package platformer

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-platformer/internal/physics"
)

var (
	// ErrEmptyLevel is returned when a layout has no cells.
	ErrEmptyLevel = errors.New("platformer: empty level layout")
	// ErrPlayerAttached is returned when the player still belongs to
	// another level's world.
	ErrPlayerAttached = errors.New("platformer: player is attached to another level")
)

// BlockTokens maps layout tokens to block kinds.
var BlockTokens = map[rune]BlockKind{
	'#': BlockBrick,
	'%': BlockBrickBase,
	'?': BlockMysteryEmpty,
	'$': BlockMysteryCoin,
	'^': BlockCube,
	'b': BlockBounce,
	'I': BlockFlagpole,
	'=': BlockTunnel,
	'S': BlockSwitch,
}

// ItemTokens maps layout tokens to item kinds.
var ItemTokens = map[rune]ItemKind{
	'C': ItemCoin,
	'*': ItemStar,
}

// MobTokens maps layout tokens to mob kinds.
var MobTokens = map[rune]MobKind{
	'&': MobCloud,
	'@': MobMushroom,
}

// Coin mystery blocks drop one coin worth between these values.
const (
	mysteryCoinMin = 3
	mysteryCoinMax = 6
)

// Constructor creates the thing a layout token stands for.
type Constructor func(token rune) Thing

// Builder resolves layout tokens to constructors. Tokens without a
// constructor go to the fallback.
type Builder struct {
	constructors map[rune]Constructor
	fallback     Constructor
}

// NewBuilder returns a builder knowing every block, item and mob token.
// Unknown tokens become inert cells.
func NewBuilder() *Builder {
	b := &Builder{
		constructors: make(map[rune]Constructor),
		fallback:     func(r rune) Thing { return NewInert(r) },
	}
	for token, kind := range BlockTokens {
		b.Register(token, blockConstructor(kind))
	}
	for token, kind := range ItemTokens {
		kind := kind
		b.Register(token, func(rune) Thing { return NewItem(kind, 1) })
	}
	for token, kind := range MobTokens {
		kind := kind
		b.Register(token, func(rune) Thing { return NewMob(kind) })
	}
	return b
}

func blockConstructor(kind BlockKind) Constructor {
	if kind == BlockMysteryCoin {
		return func(rune) Thing {
			return NewMysteryBlock(kind, ItemCoin, mysteryCoinMin, mysteryCoinMax)
		}
	}
	return func(rune) Thing { return NewBlock(kind) }
}

// Register installs the constructor for a token, replacing any previous one.
func (b *Builder) Register(token rune, c Constructor) {
	b.constructors[token] = c
}

// SetFallback replaces the constructor used for unknown tokens.
func (b *Builder) SetFallback(c Constructor) {
	if c != nil {
		b.fallback = c
	}
}

// Lookup returns the constructor for a token and whether it is known.
// Unknown tokens return the fallback.
func (b *Builder) Lookup(token rune) (Constructor, bool) {
	if c, ok := b.constructors[token]; ok {
		return c, true
	}
	return b.fallback, false
}

// parseLayout splits a layout into rows of runes. Trailing carriage returns
// are dropped and trailing blank rows are ignored.
func parseLayout(layout string) [][]rune {
	var rows [][]rune
	sc := bufio.NewScanner(strings.NewReader(layout))
	for sc.Scan() {
		rows = append(rows, []rune(strings.TrimRight(sc.Text(), "\r")))
	}
	for len(rows) > 0 && strings.TrimSpace(string(rows[len(rows)-1])) == "" {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// Build creates a level from a layout. Every non-space token becomes one
// thing placed at its cell; the player is placed at the configured spawn
// and the collision policy is installed. The player must have been removed
// from any previous level first.
func (b *Builder) Build(id, layout string, player *Player, rules Rules, rng *rand.Rand, logger *log.Logger) (*Level, error) {
	if player == nil {
		return nil, fmt.Errorf("platformer: build %s: nil player", id)
	}
	if player.Body().InWorld() {
		return nil, ErrPlayerAttached
	}
	rows := parseLayout(layout)
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if len(rows) == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyLevel, id)
	}

	width := float64(cols * CellSize)
	height := float64(len(rows) * CellSize)
	lv := newLevel(id, width, height, player, rules, rng, logger)
	registerHandlers(lv.World)

	unknown := 0
	for y, row := range rows {
		for x, token := range row {
			if token == ' ' {
				continue
			}
			c, known := b.Lookup(token)
			if !known {
				unknown++
			}
			if t := c(token); t != nil {
				lv.Place(t, float64(x*CellSize), float64(y*CellSize))
			}
		}
	}
	if unknown > 0 {
		lv.logger.Debug("unknown layout tokens", "level", id, "count", unknown)
	}

	lv.addWalls()
	lv.spawnPlayer()
	return lv, nil
}

// addWalls closes the level on both sides. The walls reach above the
// layout so the player cannot jump over them.
func (lv *Level) addWalls() {
	top := -10 * float64(CellSize)
	h := lv.Height - top
	left := physics.NewStaticBody(physics.CategoryBoundary, -CellSize, top, CellSize, h)
	right := physics.NewStaticBody(physics.CategoryBoundary, lv.Width, top, CellSize, h)
	lv.World.Add(left)
	lv.World.Add(right)
}

func (lv *Level) spawnPlayer() {
	p := lv.Player
	body := p.Body()
	if lv.Rules.Mass > 0 {
		body.Mass = lv.Rules.Mass
	}
	body.Friction = lv.Rules.Friction

	x, y := float64(CellSize), float64(CellSize)
	if s := lv.Rules.Spawn; s != nil {
		x, y = s.X, s.Y
	}
	p.place(x, y)
	p.SetJumping(false)
	p.OnLost(func() { lv.State.MarkLost() })
	lv.World.Add(body)
}
