package platformer

import (
	"github.com/vovakirdan/tui-platformer/internal/physics"
)

// registerHandlers installs the collision policy on the level's world.
// Registration order is dispatch order within a step.
func registerHandlers(w *physics.World[*Level]) {
	w.AddCollisionHandler(physics.CategoryPlayer, physics.CategoryItem, playerItem, nil)
	w.AddCollisionHandler(physics.CategoryPlayer, physics.CategoryBlock, playerBlock, playerBlockSeparate)
	w.AddCollisionHandler(physics.CategoryPlayer, physics.CategoryMob, playerMob, nil)
	w.AddCollisionHandler(physics.CategoryMob, physics.CategoryBlock, mobBlock, nil)
	w.AddCollisionHandler(physics.CategoryMob, physics.CategoryMob, mobMob, nil)
	w.AddCollisionHandler(physics.CategoryMob, physics.CategoryItem, passThrough, nil)
	w.AddCollisionHandler(physics.CategoryMob, physics.CategoryBoundary, mobWall, nil)
	w.AddCollisionHandler(physics.CategoryMob, physics.CategoryNone, mobWall, nil)
}

func passThrough(*Level, *physics.Body, *physics.Body, physics.Arbiter) physics.Result {
	return physics.Ignore
}

func playerItem(lv *Level, pb, ib *physics.Body, _ physics.Arbiter) physics.Result {
	p, it := playerOf(pb), itemOf(ib)
	if p == nil || it == nil {
		return physics.Ignore
	}
	it.Collect(p)
	lv.Remove(it)
	return physics.Ignore
}

func playerBlock(lv *Level, pb, bb *physics.Body, arb physics.Arbiter) physics.Result {
	p, b := playerOf(pb), blockOf(bb)
	if p == nil || b == nil {
		return physics.Accept
	}

	if b.trigger == TriggerSwitch {
		lv.State.LastSwitch = bb.Position()
		if lv.State.Switch.Open {
			return physics.Ignore
		}
	}

	p.SetJumping(false)

	switch b.trigger {
	case TriggerMystery:
		if arb.Direction == physics.DirBelow && b.active {
			lv.dispense(b)
		}
	case TriggerBounce:
		if arb.Direction == physics.DirAbove {
			pb.SetVelocity(0, -BounceSpeed)
		}
	case TriggerFlagpole:
		if arb.Direction == physics.DirAbove {
			p.Heal()
		}
		lv.advance()
	case TriggerTunnel:
		if arb.Direction == physics.DirAbove {
			lv.State.TunnelEligible = true
		}
	case TriggerSwitch:
		if arb.Direction == physics.DirAbove {
			lv.openSwitch(b)
		}
	}
	return physics.Accept
}

func playerBlockSeparate(lv *Level, _, _ *physics.Body) {
	lv.State.TunnelEligible = false
}

// dispense empties a mystery block and drops its item on top of it.
func (lv *Level) dispense(b *Block) {
	b.active = false
	kind, lo, hi := b.Drop()
	if kind == "" {
		return
	}
	pos := b.body.Position()
	value := lv.drawValue(lo, hi)
	lv.SpawnItem(kind, value, pos.X, pos.Y-CellSize)
	lv.logger.Debug("mystery block emptied", "level", lv.ID, "item", kind, "value", value)
}

// playerMob runs the mob's reaction to the player first. An invincible
// player then destroys the mob; the damage it took is undone when the
// window ends.
func playerMob(lv *Level, pb, mb *physics.Body, arb physics.Arbiter) physics.Result {
	p, m := playerOf(pb), mobOf(mb)
	if p == nil || m == nil {
		return physics.Accept
	}

	switch {
	case m.Projectile():
		p.ChangeHealth(-1)
		lv.Remove(m)
	case arb.Direction == physics.DirAbove:
		v := pb.Velocity()
		pb.SetVelocity(v.X, -StompSpeed)
		lv.Remove(m)
	case arb.Direction == physics.DirLeft:
		p.ChangeHealth(-1)
		v := pb.Velocity()
		pb.SetVelocity(-KnockbackSpeed, v.Y)
		m.ReverseTempo()
	case arb.Direction == physics.DirRight:
		p.ChangeHealth(-1)
		v := pb.Velocity()
		pb.SetVelocity(KnockbackSpeed, v.Y)
		m.ReverseTempo()
	}

	if p.Invincible() {
		lv.Remove(m)
	}
	return physics.Accept
}

func mobBlock(lv *Level, mb, bb *physics.Body, arb physics.Arbiter) physics.Result {
	m := mobOf(mb)
	if m == nil {
		return physics.Accept
	}
	if m.Projectile() {
		if b := blockOf(bb); b != nil && b.kind == BlockBrick {
			lv.Remove(b)
		}
		lv.Remove(m)
		return physics.Ignore
	}
	turn(m, arb)
	return physics.Accept
}

func mobMob(lv *Level, ab, bb *physics.Body, arb physics.Arbiter) physics.Result {
	a, b := mobOf(ab), mobOf(bb)
	if a == nil || b == nil {
		return physics.Ignore
	}
	if a.Projectile() || b.Projectile() {
		lv.Remove(a)
		lv.Remove(b)
		return physics.Ignore
	}
	turn(a, arb)
	turn(b, arb)
	return physics.Ignore
}

// mobWall handles level boundaries and inert cells.
func mobWall(lv *Level, mb, _ *physics.Body, arb physics.Arbiter) physics.Result {
	m := mobOf(mb)
	if m == nil {
		return physics.Accept
	}
	if m.Projectile() {
		lv.Remove(m)
		return physics.Ignore
	}
	turn(m, arb)
	return physics.Accept
}

// turn reverses a walker that bumped into something sideways. Contacts
// overlapping no more than half the mob's height are corner clips on floor
// seams and leave the mob walking.
func turn(m *Mob, arb physics.Arbiter) {
	if !arb.Direction.Lateral() || arb.Overlap.Y <= m.body.Size().Y/2 {
		return
	}
	m.ReverseTempo()
}
