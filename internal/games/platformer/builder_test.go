package platformer

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/physics"
)

func TestBuilderTokens(t *testing.T) {
	b := NewBuilder()

	for token, kind := range BlockTokens {
		c, ok := b.Lookup(token)
		require.True(t, ok, "token %q", token)
		bl, isBlock := c(token).(*Block)
		require.True(t, isBlock, "token %q", token)
		assert.Equal(t, kind, bl.Kind())
	}
	for token, kind := range ItemTokens {
		c, ok := b.Lookup(token)
		require.True(t, ok)
		it, isItem := c(token).(*Item)
		require.True(t, isItem)
		assert.Equal(t, kind, it.Kind())
		assert.Equal(t, 1, it.Value())
	}
	for token, kind := range MobTokens {
		c, ok := b.Lookup(token)
		require.True(t, ok)
		m, isMob := c(token).(*Mob)
		require.True(t, isMob)
		assert.Equal(t, kind, m.Kind())
	}
}

func TestMysteryCoinBlock(t *testing.T) {
	c, _ := NewBuilder().Lookup('$')
	b := c('$').(*Block)

	kind, lo, hi := b.Drop()
	assert.Equal(t, ItemCoin, kind)
	assert.Equal(t, 3, lo)
	assert.Equal(t, 6, hi)
	assert.True(t, b.Active())
	assert.Equal(t, TriggerMystery, b.Trigger())
}

func TestBlockSizes(t *testing.T) {
	assert.Equal(t, core.Vec{X: 16, Y: 16}, NewBlock(BlockBrick).Body().Size())
	assert.Equal(t, core.Vec{X: 32, Y: 32}, NewBlock(BlockTunnel).Body().Size())

	pole := NewBlock(BlockFlagpole).Body().Size()
	assert.InDelta(t, 3.2, pole.X, 1e-9)
	assert.Equal(t, 144.0, pole.Y)
}

func TestUnknownTokenBecomesInert(t *testing.T) {
	lv := buildLevel(t, "X\n%%", core.Vec{X: 16, Y: 0})

	var inert []*Inert
	for _, th := range lv.Things() {
		if e, ok := th.(*Inert); ok {
			inert = append(inert, e)
		}
	}
	require.Len(t, inert, 1)
	assert.Equal(t, 'X', inert[0].Token())
	assert.Equal(t, physics.CategoryNone, inert[0].Body().Category)
	assert.Equal(t, core.Vec{X: 0, Y: 0}, inert[0].Body().Position())
}

func TestCustomConstructors(t *testing.T) {
	b := NewBuilder()
	b.Register('K', func(rune) Thing { return NewBlock(BlockCube) })
	b.SetFallback(func(r rune) Thing { return nil })

	lv, err := b.Build("custom", "K~\n%%", NewPlayer("Luigi", 3), DefaultRules(), rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)

	assert.Len(t, blocksOf(lv, BlockCube), 1)
	assert.Len(t, lv.Things(), 4, "cube, two ground blocks and the player")
}

func TestBuildGeometry(t *testing.T) {
	lv := buildLevel(t, "\n\n%%%%%\n", core.Vec{X: 16, Y: 16})

	assert.Equal(t, 80.0, lv.Width)
	assert.Equal(t, 48.0, lv.Height)
	assert.True(t, lv.World.Contains(lv.Player.Body()))
	assert.Equal(t, core.Vec{X: 16, Y: 16}, lv.Player.Body().Position())
}

func TestBuildDefaultSpawn(t *testing.T) {
	lv, err := NewBuilder().Build("test", "\n\n%%%", NewPlayer("Mario", 5), DefaultRules(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, core.Vec{X: CellSize, Y: CellSize}, lv.Player.Body().Position())
}

func TestBuildAppliesMass(t *testing.T) {
	lv := buildLevel(t, "\n\n%%%", core.Vec{X: 16, Y: 16}, func(r *Rules) {
		r.Mass = 3
		r.Friction = 50
	})
	assert.Equal(t, 3.0, lv.Player.Body().Mass)
	assert.Equal(t, 50.0, lv.Player.Body().Friction)
}

func TestBuildErrors(t *testing.T) {
	b := NewBuilder()
	rng := rand.New(rand.NewSource(1))

	_, err := b.Build("empty", "\n\n", NewPlayer("Mario", 5), DefaultRules(), rng, nil)
	assert.ErrorIs(t, err, ErrEmptyLevel)

	p := NewPlayer("Mario", 5)
	_, err = b.Build("first", "%%", p, DefaultRules(), rng, nil)
	require.NoError(t, err)
	_, err = b.Build("second", "%%", p, DefaultRules(), rng, nil)
	assert.ErrorIs(t, err, ErrPlayerAttached)
}

func TestEmbeddedLevels(t *testing.T) {
	src := EmbeddedLevels()
	ids, err := src.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bonus.txt", "level1.txt", "level2.txt", "level3.txt"}, ids)

	for _, id := range ids {
		layout, err := src.Layout(id)
		require.NoError(t, err)
		lv, err := NewBuilder().Build(id, layout, NewPlayer("Mario", 5), DefaultRules(), nil, nil)
		require.NoError(t, err, id)
		assert.Len(t, blocksOf(lv, BlockFlagpole), 1, "%s has one flagpole", id)
		for _, th := range lv.Things() {
			_, inert := th.(*Inert)
			assert.False(t, inert, "%s uses only known tokens", id)
		}
	}
}

func TestDefaultGoalsExist(t *testing.T) {
	src := EmbeddedLevels()
	cfg := config.DefaultPlatformerConfig()

	_, err := src.Layout(cfg.Levels.Start)
	require.NoError(t, err)
	for level, target := range cfg.Levels.Goals {
		for _, next := range []string{target.Goal, target.Tunnel} {
			if next == config.EndLevel {
				continue
			}
			_, err := src.Layout(next)
			assert.NoError(t, err, "%s points to %s", level, next)
		}
	}
}

func TestUnknownLevel(t *testing.T) {
	_, err := EmbeddedLevels().Layout("missing.txt")
	assert.ErrorIs(t, err, ErrUnknownLevel)

	_, err = EmbeddedLevels().Layout("../game.go")
	assert.ErrorIs(t, err, ErrUnknownLevel)

	_, err = MapSource{}.Layout("level1.txt")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestOverlayPrefersDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "level1.txt"), []byte("%%%%"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.txt"), []byte("\n%%"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o644))

	src := Overlay(DirLevels(dir), EmbeddedLevels())

	layout, err := src.Layout("level1.txt")
	require.NoError(t, err)
	assert.Equal(t, "%%%%", layout)

	_, err = src.Layout("level2.txt")
	assert.NoError(t, err, "falls back to the built-in levels")

	ids, err := src.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"bonus.txt", "extra.txt", "level1.txt", "level2.txt", "level3.txt"}, ids)
}

func TestMissingLevelDir(t *testing.T) {
	src := DirLevels(filepath.Join(t.TempDir(), "nope"))
	ids, err := src.List()
	assert.NoError(t, err)
	assert.Empty(t, ids)
}
