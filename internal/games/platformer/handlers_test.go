package platformer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/physics"
)

func side(dir physics.Direction) physics.Arbiter {
	return physics.Arbiter{Direction: dir, Overlap: core.Vec{X: 1, Y: CellSize}}
}

func TestInvinciblePlayerDestroysMob(t *testing.T) {
	lv := buildLevel(t, "\n\n%%%%%%", core.Vec{X: 16, Y: 16})
	m := lv.SpawnMob(MobMushroom, 32, 16)
	lv.Player.SetInvincible(true)

	res := playerMob(lv, lv.Player.Body(), m.Body(), side(physics.DirLeft))

	assert.Equal(t, physics.Accept, res)
	assert.False(t, lv.World.Contains(m.Body()))
	assert.Equal(t, 4, lv.Player.Health(), "damage is taken during the window")
	assert.Equal(t, -float64(KnockbackSpeed), lv.Player.Body().Velocity().X)
	assert.Equal(t, -20.0, m.Tempo())

	for i := 0; i <= InvincibilityTicks; i++ {
		lv.Player.tickInvincibility()
	}
	assert.False(t, lv.Player.Invincible())
	assert.Equal(t, 5, lv.Player.Health(), "damage is undone when the window ends")
}

func TestInvinciblePlayerStomps(t *testing.T) {
	lv := buildLevel(t, "\n\n%%%%%%", core.Vec{X: 16, Y: 16})
	m := lv.SpawnMob(MobMushroom, 16, 32)
	lv.Player.SetInvincible(true)

	res := playerMob(lv, lv.Player.Body(), m.Body(), side(physics.DirAbove))

	assert.Equal(t, physics.Accept, res)
	assert.False(t, lv.World.Contains(m.Body()))
	assert.Equal(t, -float64(StompSpeed), lv.Player.Body().Velocity().Y)
	assert.Equal(t, 5, lv.Player.Health())
}

func TestProjectileHitsPlayer(t *testing.T) {
	lv := buildLevel(t, "\n\n%%%%%%", core.Vec{X: 16, Y: 16})
	fb := lv.SpawnMob(MobFireball, 20, 8)

	res := playerMob(lv, lv.Player.Body(), fb.Body(), side(physics.DirBelow))

	assert.Equal(t, physics.Accept, res)
	assert.False(t, lv.World.Contains(fb.Body()))
	assert.Equal(t, 4, lv.Player.Health())
}

func TestPlayerBelowMobIsHarmless(t *testing.T) {
	lv := buildLevel(t, "\n\n%%%%%%", core.Vec{X: 16, Y: 16})
	m := lv.SpawnMob(MobMushroom, 16, 0)

	res := playerMob(lv, lv.Player.Body(), m.Body(), side(physics.DirBelow))

	assert.Equal(t, physics.Accept, res)
	assert.Equal(t, 5, lv.Player.Health())
	assert.Equal(t, 20.0, m.Tempo())
}

func TestSideHitLeftPushesLeft(t *testing.T) {
	lv := buildLevel(t, "\n\n%%%%%%", core.Vec{X: 16, Y: 16})
	m := lv.SpawnMob(MobMushroom, 32, 16)

	res := playerMob(lv, lv.Player.Body(), m.Body(), side(physics.DirLeft))

	assert.Equal(t, physics.Accept, res)
	assert.Equal(t, 4, lv.Player.Health())
	assert.Equal(t, -float64(KnockbackSpeed), lv.Player.Body().Velocity().X)
	assert.Equal(t, -20.0, m.Tempo())
}

func TestWalkersTurnApart(t *testing.T) {
	lv := buildLevel(t, "\n\n%%%%%%", core.Vec{X: 80, Y: 16})
	a := lv.SpawnMob(MobMushroom, 0, 16)
	b := lv.SpawnMob(MobMushroom, 16, 16)
	b.ReverseTempo()

	res := mobMob(lv, a.Body(), b.Body(), side(physics.DirLeft))

	assert.Equal(t, physics.Ignore, res)
	assert.Equal(t, -20.0, a.Tempo())
	assert.Equal(t, 20.0, b.Tempo())
	assert.True(t, lv.World.Contains(a.Body()))
	assert.True(t, lv.World.Contains(b.Body()))
}

func TestProjectileDestroysMob(t *testing.T) {
	lv := buildLevel(t, "\n\n%%%%%%", core.Vec{X: 80, Y: 16})
	m := lv.SpawnMob(MobMushroom, 0, 16)
	fb := lv.SpawnMob(MobFireball, 4, 8)

	res := mobMob(lv, m.Body(), fb.Body(), side(physics.DirBelow))

	assert.Equal(t, physics.Ignore, res)
	assert.False(t, lv.World.Contains(m.Body()))
	assert.False(t, lv.World.Contains(fb.Body()))
}

func TestWalkerTurnsAtWall(t *testing.T) {
	lv := buildLevel(t, "\n\n%%%%%%", core.Vec{X: 80, Y: 16})
	m := lv.SpawnMob(MobMushroom, 0, 16)
	m.ReverseTempo()

	res := mobWall(lv, m.Body(), nil, side(physics.DirRight))
	assert.Equal(t, physics.Accept, res)
	assert.Equal(t, 20.0, m.Tempo())

	res = mobBlock(lv, m.Body(), nil, side(physics.DirLeft))
	assert.Equal(t, physics.Accept, res)
	assert.Equal(t, -20.0, m.Tempo())
}

func TestWalkerFlipsOnEveryLateralContact(t *testing.T) {
	lv := buildLevel(t, "\n\n%%%%%%", core.Vec{X: 80, Y: 16})
	m := lv.SpawnMob(MobMushroom, 16, 16)
	require.Equal(t, 20.0, m.Tempo())

	// Already walking away from the block on its left.
	mobBlock(lv, m.Body(), nil, side(physics.DirRight))
	assert.Equal(t, -20.0, m.Tempo())

	mobBlock(lv, m.Body(), nil, side(physics.DirAbove))
	assert.Equal(t, -20.0, m.Tempo(), "vertical contacts keep the tempo")
}

func TestWalkerIgnoresCornerClip(t *testing.T) {
	lv := buildLevel(t, "\n\n%%%%%%", core.Vec{X: 80, Y: 16})
	m := lv.SpawnMob(MobMushroom, 0, 16)

	clip := physics.Arbiter{Direction: physics.DirLeft, Overlap: core.Vec{X: 0.1, Y: 0.5}}
	mobBlock(lv, m.Body(), nil, clip)
	assert.Equal(t, 20.0, m.Tempo())
}

func TestProjectileRemovedAtWall(t *testing.T) {
	lv := buildLevel(t, "\n\n%%%%%%", core.Vec{X: 80, Y: 16})
	fb := lv.SpawnMob(MobFireball, 0, 0)

	res := mobWall(lv, fb.Body(), nil, side(physics.DirRight))
	assert.Equal(t, physics.Ignore, res)
	assert.False(t, lv.World.Contains(fb.Body()))
}

func TestBounceBlock(t *testing.T) {
	lv := buildLevel(t, "\n\n b\n%%%%", core.Vec{X: 48, Y: 32})
	bounce := blocksOf(lv, BlockBounce)
	require.Len(t, bounce, 1)
	pb := lv.Player.Body()
	pb.SetVelocity(30, 50)

	res := playerBlock(lv, pb, bounce[0].Body(), side(physics.DirAbove))
	assert.Equal(t, physics.Accept, res)
	assert.Equal(t, core.Vec{X: 0, Y: -BounceSpeed}, pb.Velocity())

	pb.SetVelocity(30, 50)
	playerBlock(lv, pb, bounce[0].Body(), side(physics.DirLeft))
	assert.Equal(t, core.Vec{X: 30, Y: 50}, pb.Velocity(), "only landing on top bounces")
}

func TestBlockContactClearsJumping(t *testing.T) {
	lv := buildLevel(t, "\n\n %\n%%%%", core.Vec{X: 48, Y: 32})
	lv.Player.SetJumping(true)

	playerBlock(lv, lv.Player.Body(), lv.Blocks()[0].Body(), side(physics.DirRight))
	assert.False(t, lv.Player.Jumping())
}

func TestOpenSwitchSuppressesContacts(t *testing.T) {
	lv := buildLevel(t, "\n\n S    S\n%%%%%%%%", core.Vec{X: 48, Y: 0})
	sw := blocksOf(lv, BlockSwitch)
	require.Len(t, sw, 2)
	require.True(t, lv.openSwitch(sw[0]))

	lv.Player.SetJumping(true)
	res := playerBlock(lv, lv.Player.Body(), sw[1].Body(), side(physics.DirAbove))

	assert.Equal(t, physics.Ignore, res)
	assert.True(t, lv.Player.Jumping(), "jump lock untouched while the window is open")
	assert.Equal(t, sw[1].Body().Position(), lv.State.LastSwitch)
}

func TestFlagpoleSideContactAdvancesWithoutHeal(t *testing.T) {
	lv := buildLevel(t, "\n\n I\n%%%%", core.Vec{X: 48, Y: 32})
	lv.State.Goal = "level2.txt"
	lv.Player.ChangeHealth(-2)

	pole := blocksOf(lv, BlockFlagpole)
	require.Len(t, pole, 1)
	playerBlock(lv, lv.Player.Body(), pole[0].Body(), side(physics.DirRight))

	assert.Equal(t, 3, lv.Player.Health())
	tr, ok := lv.State.PendingTransition()
	require.True(t, ok)
	assert.Equal(t, "level2.txt", tr.Target)
}

func TestItemsPassThroughMobs(t *testing.T) {
	lv := buildLevel(t, "\n\n%%%%%%", core.Vec{X: 80, Y: 16})
	assert.Equal(t, physics.Ignore, passThrough(lv, nil, nil, physics.Arbiter{}))
}

func TestHandlerPanicDropsMob(t *testing.T) {
	lv := buildLevel(t, "\n @\n%%%%%%%%", core.Vec{X: 80, Y: 16})
	m := mobsOf(lv, MobMushroom)[0]
	lv.World.AddCollisionHandler(physics.CategoryMob, physics.CategoryBlock,
		func(*Level, *physics.Body, *physics.Body, physics.Arbiter) physics.Result {
			panic("broken handler")
		}, nil)

	stepLevel(t, lv, 1)

	assert.False(t, lv.World.Contains(m.Body()))
	assert.True(t, lv.World.Contains(lv.Player.Body()))
}
