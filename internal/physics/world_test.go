package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is the handler context used by these tests.
type recorder struct {
	begins    []string
	separates []string
	err       error
}

func newTestWorld() *World[*recorder] {
	return NewWorld[*recorder](DefaultConfig())
}

func stepN(t *testing.T, w *World[*recorder], rec *recorder, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, w.Step(rec))
	}
}

func TestBodyFallsUnderGravity(t *testing.T) {
	w := newTestWorld()
	b := NewBody(CategoryPlayer, 10, 10, 16, 16)
	w.Add(b)

	stepN(t, w, &recorder{}, 10)

	assert.InDelta(t, 30.0, b.Velocity().Y, 1e-9)
	assert.Greater(t, b.Position().Y, 10.0)
	assert.False(t, b.Supported())
	assert.Equal(t, uint64(10), w.Tick())
}

func TestZeroGravityScaleHovers(t *testing.T) {
	w := newTestWorld()
	b := NewBody(CategoryMob, 10, 10, 16, 16)
	b.GravityScale = 0
	w.Add(b)

	stepN(t, w, &recorder{}, 50)

	assert.Equal(t, 10.0, b.Position().Y)
}

func TestBodyRestsOnStaticBlock(t *testing.T) {
	w := newTestWorld()
	block := NewStaticBody(CategoryBlock, 0, 100, 64, 16)
	body := NewBody(CategoryPlayer, 8, 50, 16, 16)
	w.Add(block)
	w.Add(body)

	stepN(t, w, &recorder{}, 200)

	assert.InDelta(t, 84.0, body.Position().Y, 1e-6)
	assert.Equal(t, 0.0, body.Velocity().Y)
	assert.True(t, body.Supported())
	assert.True(t, w.InContact(body, block))
}

func TestWalkingAcrossBlockSeam(t *testing.T) {
	w := newTestWorld()
	w.Add(NewStaticBody(CategoryBlock, 0, 100, 16, 16))
	w.Add(NewStaticBody(CategoryBlock, 16, 100, 16, 16))
	w.Add(NewStaticBody(CategoryBlock, 32, 100, 16, 16))
	body := NewBody(CategoryPlayer, 0, 84, 16, 16)
	w.Add(body)

	rec := &recorder{}
	stepN(t, w, rec, 5)
	for i := 0; i < 40; i++ {
		body.SetVelocity(50, body.Velocity().Y)
		require.NoError(t, w.Step(rec))
	}

	assert.InDelta(t, 20.0, body.Position().X, 1e-6)
	assert.InDelta(t, 84.0, body.Position().Y, 1e-6)
}

func TestBeginAndSeparateFireOncePerContact(t *testing.T) {
	w := newTestWorld()
	block := NewStaticBody(CategoryBlock, 0, 100, 64, 16)
	body := NewBody(CategoryPlayer, 8, 50, 16, 16)
	w.Add(block)
	w.Add(body)

	var dir Direction
	w.AddCollisionHandler(CategoryPlayer, CategoryBlock,
		func(r *recorder, a, b *Body, arb Arbiter) Result {
			dir = arb.Direction
			r.begins = append(r.begins, a.Category.String()+"/"+b.Category.String())
			return Accept
		},
		func(r *recorder, a, b *Body) {
			r.separates = append(r.separates, a.Category.String()+"/"+b.Category.String())
		})

	rec := &recorder{}
	stepN(t, w, rec, 200)
	assert.Equal(t, []string{"player/block"}, rec.begins)
	assert.Empty(t, rec.separates)
	assert.Equal(t, DirAbove, dir)

	body.SetPosition(8, 0)
	body.SetVelocity(0, 0)
	stepN(t, w, rec, 1)
	assert.Equal(t, []string{"player/block"}, rec.separates)
}

func TestIgnoreLetsBodiesPassThrough(t *testing.T) {
	w := newTestWorld()
	block := NewStaticBody(CategoryBlock, 0, 100, 64, 16)
	body := NewBody(CategoryPlayer, 8, 50, 16, 16)
	w.Add(block)
	w.Add(body)

	w.AddCollisionHandler(CategoryPlayer, CategoryBlock,
		func(r *recorder, a, b *Body, arb Arbiter) Result {
			r.begins = append(r.begins, "begin")
			return Ignore
		},
		func(r *recorder, a, b *Body) {
			r.separates = append(r.separates, "separate")
		})

	rec := &recorder{}
	stepN(t, w, rec, 150)

	assert.Greater(t, body.Position().Y, 116.0)
	assert.Len(t, rec.begins, 1)
	assert.Len(t, rec.separates, 1)
}

func TestHandlerArgumentOrderFollowsRegistration(t *testing.T) {
	w := newTestWorld()
	body := NewBody(CategoryPlayer, 0, 0, 16, 16)
	body.GravityScale = 0
	block := NewStaticBody(CategoryBlock, 8, 0, 16, 16)
	w.Add(body)
	w.Add(block)

	var first, second Category
	var dir Direction
	w.AddCollisionHandler(CategoryBlock, CategoryPlayer,
		func(r *recorder, a, b *Body, arb Arbiter) Result {
			first, second, dir = a.Category, b.Category, arb.Direction
			return Accept
		}, nil)

	stepN(t, w, &recorder{}, 1)

	assert.Equal(t, CategoryBlock, first)
	assert.Equal(t, CategoryPlayer, second)
	assert.Equal(t, DirRight, dir)
}

func TestBeginDispatchOrder(t *testing.T) {
	w := newTestWorld()
	player := NewBody(CategoryPlayer, 0, 0, 16, 16)
	player.GravityScale = 0
	w.Add(player)
	w.Add(NewStaticBody(CategoryBlock, 0, 8, 16, 16))
	coinA := NewStaticBody(CategoryItem, 8, 0, 16, 16)
	coinB := NewStaticBody(CategoryItem, 4, 0, 16, 16)
	w.Add(coinA)
	w.Add(coinB)

	w.AddCollisionHandler(CategoryPlayer, CategoryItem,
		func(r *recorder, a, b *Body, arb Arbiter) Result {
			if b == coinA {
				r.begins = append(r.begins, "coinA")
			} else {
				r.begins = append(r.begins, "coinB")
			}
			return Ignore
		}, nil)
	w.AddCollisionHandler(CategoryPlayer, CategoryBlock,
		func(r *recorder, a, b *Body, arb Arbiter) Result {
			r.begins = append(r.begins, "block")
			return Accept
		}, nil)

	rec := &recorder{}
	stepN(t, w, rec, 1)

	assert.Equal(t, []string{"coinA", "coinB", "block"}, rec.begins)
}

func TestRemoveClosesContacts(t *testing.T) {
	w := newTestWorld()
	block := NewStaticBody(CategoryBlock, 0, 100, 64, 16)
	body := NewBody(CategoryPlayer, 8, 84, 16, 16)
	w.Add(block)
	w.Add(body)

	w.AddCollisionHandler(CategoryPlayer, CategoryBlock, nil,
		func(r *recorder, a, b *Body) {
			r.separates = append(r.separates, "separate")
		})

	rec := &recorder{}
	stepN(t, w, rec, 5)
	require.True(t, body.Supported())

	assert.True(t, w.Remove(block))
	assert.False(t, w.Remove(block), "second removal is a no-op")
	assert.False(t, block.InWorld())

	stepN(t, w, rec, 5)
	assert.Len(t, rec.separates, 1)
	assert.False(t, body.Supported())
	assert.Greater(t, body.Position().Y, 84.0)
}

func TestRemoveInsideBeginRunsSeparate(t *testing.T) {
	w := newTestWorld()
	player := NewBody(CategoryPlayer, 0, 0, 16, 16)
	player.GravityScale = 0
	coin := NewStaticBody(CategoryItem, 8, 0, 16, 16)
	w.Add(player)
	w.Add(coin)

	w.AddCollisionHandler(CategoryPlayer, CategoryItem,
		func(r *recorder, a, b *Body, arb Arbiter) Result {
			r.begins = append(r.begins, "collect")
			w.Remove(b)
			return Ignore
		},
		func(r *recorder, a, b *Body) {
			r.separates = append(r.separates, "gone")
		})

	rec := &recorder{}
	stepN(t, w, rec, 3)

	assert.Equal(t, []string{"collect"}, rec.begins)
	assert.Equal(t, []string{"gone"}, rec.separates)
	assert.Equal(t, 1, w.Len())
	assert.Zero(t, w.ContactCount())
}

func TestFaultyHandlerDropsNonPersistentBody(t *testing.T) {
	w := newTestWorld()
	player := NewBody(CategoryPlayer, 0, 0, 16, 16)
	player.GravityScale = 0
	player.Persistent = true
	mob := NewBody(CategoryMob, 8, 0, 16, 16)
	mob.GravityScale = 0
	w.Add(player)
	w.Add(mob)

	w.AddCollisionHandler(CategoryPlayer, CategoryMob,
		func(r *recorder, a, b *Body, arb Arbiter) Result {
			panic("broken handler")
		}, nil)

	require.NoError(t, w.Step(&recorder{}))

	assert.True(t, player.InWorld())
	assert.False(t, mob.InWorld())
}

func TestStepIsNotReentrant(t *testing.T) {
	w := newTestWorld()
	player := NewBody(CategoryPlayer, 0, 0, 16, 16)
	player.GravityScale = 0
	w.Add(player)
	w.Add(NewStaticBody(CategoryItem, 8, 0, 16, 16))

	w.AddCollisionHandler(CategoryPlayer, CategoryItem,
		func(r *recorder, a, b *Body, arb Arbiter) Result {
			r.err = w.Step(r)
			return Ignore
		}, nil)

	rec := &recorder{}
	require.NoError(t, w.Step(rec))
	assert.ErrorIs(t, rec.err, ErrReentrantStep)
	assert.Equal(t, uint64(1), w.Tick())
}

func TestIDsFollowCreationOrder(t *testing.T) {
	w := newTestWorld()
	a := NewStaticBody(CategoryBlock, 0, 0, 16, 16)
	b := NewStaticBody(CategoryBlock, 16, 0, 16, 16)
	w.Add(a)
	w.Add(b)
	w.Add(a)

	assert.Equal(t, uint64(1), a.ID())
	assert.Equal(t, uint64(2), b.ID())
	assert.Equal(t, 2, w.Len())

	w.Remove(a)
	w.Add(a)
	assert.Equal(t, uint64(1), a.ID(), "re-added bodies keep their id")
	assert.Equal(t, []*Body{a, b}, w.Bodies())
}

func TestThingsInRange(t *testing.T) {
	w := newTestWorld()
	near := NewStaticBody(CategoryBlock, 100, 118, 4, 4)
	inside := NewStaticBody(CategoryBlock, 85, 85, 10, 10)
	far := NewStaticBody(CategoryBlock, 130, 100, 10, 10)
	w.Add(near)
	w.Add(inside)
	w.Add(far)

	got := w.ThingsInRange(100, 100, 20)

	assert.Equal(t, []*Body{near, inside}, got)
	assert.Empty(t, w.ThingsInRange(300, 10, 5))
}
