package platformer

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/physics"
)

// One screen character covers PixelsPerCol x PixelsPerRow world pixels,
// so a 16px cell is two characters wide and one row tall.
const (
	PixelsPerCol = 8
	PixelsPerRow = 16
	hudRows      = 1
)

type glyph struct {
	r rune
	c core.Color
}

var blockGlyphs = map[BlockKind]glyph{
	BlockBrick:        {'▓', core.ColorBrown},
	BlockBrickBase:    {'█', core.ColorBrown},
	BlockMysteryEmpty: {'?', core.ColorYellow},
	BlockMysteryCoin:  {'?', core.ColorYellow},
	BlockCube:         {'■', core.ColorGray},
	BlockBounce:       {'≈', core.ColorMagenta},
	BlockFlagpole:     {'|', core.ColorGreen},
	BlockTunnel:       {'▒', core.ColorGreen},
	BlockSwitch:       {'S', core.ColorCyan},
}

var (
	usedBlockGlyph = glyph{'▪', core.ColorBrown}
	inertGlyph     = glyph{'░', core.ColorGray}
)

var itemGlyphs = map[ItemKind]glyph{
	ItemCoin: {'o', core.ColorYellow},
	ItemStar: {'*', core.ColorBrightYellow},
}

var mobGlyphs = map[MobKind]glyph{
	MobMushroom: {'@', core.ColorRed},
	MobCloud:    {'~', core.ColorWhite},
	MobFireball: {'•', core.ColorOrange},
}

// HealthColor returns the colour of the health bar.
func HealthColor(health, maxHealth int, invincible bool) core.Color {
	if invincible {
		return core.ColorBrightYellow
	}
	if maxHealth <= 0 {
		return core.ColorRed
	}
	ratio := float64(health) / float64(maxHealth)
	switch {
	case ratio > 0.4:
		return core.ColorGreen
	case ratio > 0.2:
		return core.ColorOrange
	default:
		return core.ColorRed
	}
}

// Camera returns the top-left world pixel shown on a screen of w x h
// characters. The view follows the player and stays inside the level.
func (lv *Level) Camera(w, h int) core.Vec {
	viewW := float64(w * PixelsPerCol)
	viewH := float64((h - hudRows) * PixelsPerRow)
	c := lv.Player.Body().Bounds().Center()
	return core.Vec{
		X: core.ClampF(c.X-viewW/2, 0, math.Max(0, lv.Width-viewW)),
		Y: core.ClampF(c.Y-viewH/2, 0, math.Max(0, lv.Height-viewH)),
	}
}

// Render draws the game into dst.
func (g *Game) Render(dst *core.Screen) {
	if g.level == nil {
		msg := "No level loaded"
		if g.fault != nil {
			msg = g.fault.Error()
		}
		dst.DrawTextCentered(dst.Height()/2, msg)
		return
	}
	g.level.Render(dst)
	g.renderHUD(dst)

	mid := dst.Height() / 2
	switch {
	case g.fault != nil:
		dst.DrawTextColored(max(0, (dst.Width()-len(g.fault.Error()))/2), mid, g.fault.Error(), core.ColorRed)
	case g.lost:
		centered(dst, mid, "GAME OVER", core.ColorBrightRed)
		centered(dst, mid+1, "R to restart, Q to quit", core.ColorWhite)
	case g.finished:
		centered(dst, mid, "YOU FINISHED THE GAME!", core.ColorBrightYellow)
		centered(dst, mid+1, "R to replay the level, Q to quit", core.ColorWhite)
	case g.paused:
		centered(dst, mid, "PAUSED", core.ColorCyan)
	}
}

func centered(dst *core.Screen, y int, text string, c core.Color) {
	x := (dst.Width() - len([]rune(text))) / 2
	dst.DrawTextColored(max(0, x), y, text, c)
}

func (g *Game) renderHUD(dst *core.Screen) {
	p := g.player
	x := 0
	name := strings.ToUpper(p.Name())
	dst.DrawTextColored(x, 0, name, core.ColorWhite)
	x += len(name) + 1

	hc := HealthColor(p.Health(), p.MaxHealth(), p.Invincible())
	for i := 0; i < p.MaxHealth(); i++ {
		r := '♡'
		if i < p.Health() {
			r = '♥'
		}
		dst.SetColored(x, 0, r, hc)
		x++
	}
	x++

	info := fmt.Sprintf("Score %d  %s", p.Score(), g.current)
	dst.DrawTextColored(x, 0, info, core.ColorWhite)
	x += len(info) + 2

	if p.Invincible() {
		left := float64(p.InvincibilityLeft()) / 100
		dst.DrawTextColored(x, 0, fmt.Sprintf("★ %.1fs", left), core.ColorBrightYellow)
	}
}

// Render draws the level as seen by the camera, leaving the top row for
// the HUD.
func (lv *Level) Render(dst *core.Screen) {
	cam := lv.Camera(dst.Width(), dst.Height())
	for _, t := range lv.Things() {
		if _, ok := t.(*Player); ok {
			continue
		}
		lv.draw(dst, cam, t.Body(), glyphOf(t))
	}
	lv.draw(dst, cam, lv.Player.Body(), playerGlyph(lv.Player))
}

func glyphOf(t Thing) glyph {
	switch e := t.(type) {
	case *Block:
		if e.trigger == TriggerMystery && !e.active {
			return usedBlockGlyph
		}
		if g, ok := blockGlyphs[e.kind]; ok {
			return g
		}
	case *Item:
		if g, ok := itemGlyphs[e.kind]; ok {
			return g
		}
	case *Mob:
		if g, ok := mobGlyphs[e.kind]; ok {
			return g
		}
	}
	return inertGlyph
}

func playerGlyph(p *Player) glyph {
	r := 'M'
	c := core.ColorRed
	if name := []rune(p.Name()); len(name) > 0 {
		r = name[0]
	}
	if r == 'L' {
		c = core.ColorGreen
	}
	if p.Invincible() {
		c = core.ColorBrightYellow
	}
	return glyph{r, c}
}

func (lv *Level) draw(dst *core.Screen, cam core.Vec, b *physics.Body, g glyph) {
	box := b.Bounds()
	col := int(math.Round((box.X - cam.X) / PixelsPerCol))
	row := int(math.Round((box.Y-cam.Y)/PixelsPerRow)) + hudRows
	w := max(1, int(math.Round(box.W/PixelsPerCol)))
	h := max(1, int(math.Round(box.H/PixelsPerRow)))
	for y := row; y < row+h; y++ {
		if y < hudRows {
			continue
		}
		for x := col; x < col+w; x++ {
			dst.SetColored(x, y, g.r, g.c)
		}
	}
}
