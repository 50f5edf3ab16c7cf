package physics

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-platformer/internal/core"
)

// ErrReentrantStep is returned when Step is called from inside a handler.
var ErrReentrantStep = errors.New("physics: step called while a step is in progress")

// Config holds the parameters of a World.
type Config struct {
	Gravity  core.Vec // pixels per second squared
	Timestep float64  // seconds simulated per Step
	Width    float64  // extent of the broad phase in pixels
	Height   float64
	CellSize int     // broad phase cell size in pixels
	Margin   float64 // broad phase padding around the extent
	Logger   *log.Logger
}

// DefaultConfig returns the configuration used by the platformer.
func DefaultConfig() Config {
	return Config{
		Gravity:  core.Vec{X: 0, Y: 300},
		Timestep: 0.01,
		Width:    1024,
		Height:   256,
		CellSize: 16,
		Margin:   64,
	}
}

// World owns bodies, advances them in fixed steps and dispatches contact
// handlers. C is the context value handed to every handler, usually the
// game state the handlers mutate.
//
// A World is not safe for concurrent use.
type World[C any] struct {
	cfg      Config
	idx      *index
	bodies   []*Body // attached bodies in id order
	nextID   uint64
	tick     uint64
	stepping bool

	dispatch Dispatcher[C]
	contacts map[pairKey]*contact
	ended    []*contact // contacts closed by Remove, not yet dispatched

	logger *log.Logger
}

// NewWorld creates an empty world.
func NewWorld[C any](cfg Config) *World[C] {
	if cfg.Timestep <= 0 {
		cfg.Timestep = DefaultConfig().Timestep
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &World[C]{
		cfg:      cfg,
		idx:      newIndex(cfg.Width, cfg.Height, cfg.CellSize, cfg.Margin),
		contacts: make(map[pairKey]*contact),
		logger:   logger,
	}
}

// Config returns the world configuration.
func (w *World[C]) Config() Config {
	return w.cfg
}

// Tick returns the number of completed steps.
func (w *World[C]) Tick() uint64 {
	return w.tick
}

// Gravity returns the world gravity.
func (w *World[C]) Gravity() core.Vec {
	return w.cfg.Gravity
}

// SetGravity replaces the world gravity.
func (w *World[C]) SetGravity(g core.Vec) {
	w.cfg.Gravity = g
}

// AddCollisionHandler registers begin and separate handlers for contacts
// between categories a and b. The handlers receive bodies in (a, b) order.
func (w *World[C]) AddCollisionHandler(a, b Category, begin BeginFunc[C], separate SeparateFunc[C]) {
	w.dispatch.Register(a, b, begin, separate)
}

// Add attaches a body to the world. A body gets its id on its first Add to
// this world and keeps it while it moves in and out of it. Adding an
// attached body does nothing.
func (w *World[C]) Add(b *Body) {
	if b == nil || b.InWorld() {
		return
	}
	if b.id == 0 || b.idx != w.idx {
		w.nextID++
		b.id = w.nextID
	}
	b.prev = b.pos
	b.supported = false
	w.idx.attach(b)

	i := sort.Search(len(w.bodies), func(i int) bool { return w.bodies[i].id >= b.id })
	w.bodies = append(w.bodies, nil)
	copy(w.bodies[i+1:], w.bodies[i:])
	w.bodies[i] = b
}

// Remove detaches a body. Contacts involving it are closed and their
// separate handlers run in the same step. Removing a detached body
// returns false and has no effect.
func (w *World[C]) Remove(b *Body) bool {
	if b == nil || !b.InWorld() {
		return false
	}
	w.idx.detach(b)
	b.supported = false

	i := sort.Search(len(w.bodies), func(i int) bool { return w.bodies[i].id >= b.id })
	if i < len(w.bodies) && w.bodies[i] == b {
		w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
	}

	for k, c := range w.contacts {
		if c.involves(b) {
			delete(w.contacts, k)
			w.ended = append(w.ended, c)
		}
	}
	return true
}

// Contains reports whether b is attached to this world.
func (w *World[C]) Contains(b *Body) bool {
	if b == nil || !b.InWorld() {
		return false
	}
	return b.idx == w.idx
}

// Bodies returns the attached bodies in id order.
func (w *World[C]) Bodies() []*Body {
	out := make([]*Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

// Len returns the number of attached bodies.
func (w *World[C]) Len() int {
	return len(w.bodies)
}

// ContactCount returns the number of open contacts.
func (w *World[C]) ContactCount() int {
	return len(w.contacts)
}

// InContact reports whether a and b currently have an open contact.
func (w *World[C]) InContact(a, b *Body) bool {
	_, ok := w.contacts[keyOf(a, b)]
	return ok
}

// ThingsInRange returns the bodies whose bounds intersect the circle of
// radius r centred at (x, y), in id order.
func (w *World[C]) ThingsInRange(x, y, r float64) []*Body {
	area := core.Box{X: x - r, Y: y - r, W: 2 * r, H: 2 * r}
	var out []*Body
	for _, b := range w.idx.query(area) {
		if b.Bounds().IntersectsCircle(x, y, r) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Step advances the world by one timestep:
//
//  1. integrate velocities and positions of dynamic bodies
//  2. detect contacts
//  3. dispatch separate handlers for contacts that ended
//  4. dispatch begin handlers for new contacts
//  5. resolve accepted contacts
//
// Handlers run synchronously and may add or remove bodies. Calling Step
// from a handler returns ErrReentrantStep.
func (w *World[C]) Step(ctx C) error {
	if w.stepping {
		return ErrReentrantStep
	}
	w.stepping = true
	defer func() { w.stepping = false }()

	w.tick++
	w.integrate()

	current := w.detect()

	for k, c := range w.contacts {
		if _, ok := current[k]; !ok {
			delete(w.contacts, k)
			w.ended = append(w.ended, c)
		}
	}
	w.flushSeparations(ctx)

	var begun []*contact
	for k, c := range current {
		if _, ok := w.contacts[k]; !ok {
			begun = append(begun, c)
		}
	}
	sortContacts(begun)
	for _, c := range begun {
		if !c.a.InWorld() || !c.b.InWorld() {
			continue
		}
		c.result = w.begin(ctx, c)
		if c.a.InWorld() && c.b.InWorld() {
			w.contacts[c.key()] = c
		} else {
			w.ended = append(w.ended, c)
		}
		w.flushSeparations(ctx)
	}

	w.respond()
	return nil
}

func (w *World[C]) integrate() {
	dt := w.cfg.Timestep
	g := w.cfg.Gravity
	for _, b := range w.bodies {
		b.prev = b.pos
		if b.Static {
			continue
		}
		if b.supported && b.vel.Y >= 0 {
			b.vel.Y = 0
			b.vel.X += g.X * b.GravityScale * dt
			if b.Friction > 0 {
				b.vel.X = decelerate(b.vel.X, b.Friction*dt)
			}
		} else {
			b.vel = b.vel.Add(g.Scale(b.GravityScale * dt))
		}
		b.pos = b.pos.Add(b.vel.Scale(dt))
		b.sync()
	}
}

func decelerate(v, by float64) float64 {
	if v > by {
		return v - by
	}
	if v < -by {
		return v + by
	}
	return 0
}

// detect returns every touching pair that involves at least one dynamic body.
func (w *World[C]) detect() map[pairKey]*contact {
	current := make(map[pairKey]*contact)
	for _, a := range w.bodies {
		if a.Static {
			continue
		}
		bounds := a.Bounds()
		area := core.Box{X: bounds.X - 1, Y: bounds.Y - 1, W: bounds.W + 2, H: bounds.H + 2}
		for _, b := range w.idx.query(area) {
			if b == a {
				continue
			}
			k := keyOf(a, b)
			if _, ok := current[k]; ok {
				continue
			}
			if !touching(bounds, b.Bounds()) {
				continue
			}
			if open, ok := w.contacts[k]; ok {
				current[k] = open
				continue
			}
			current[k] = w.dispatch.newContact(a, b)
		}
	}
	return current
}

// flushSeparations dispatches separate handlers for closed contacts,
// including those closed by handlers while flushing.
func (w *World[C]) flushSeparations(ctx C) {
	for len(w.ended) > 0 {
		batch := w.ended
		w.ended = nil
		sortContacts(batch)
		for _, c := range batch {
			w.separate(ctx, c)
		}
	}
}

func (w *World[C]) begin(ctx C, c *contact) (res Result) {
	h, _, _ := w.dispatch.lookup(c.a.Category, c.b.Category)
	if h == nil || h.begin == nil {
		return Accept
	}
	defer func() {
		if r := recover(); r != nil {
			w.fault("begin", c, r)
			res = Ignore
		}
	}()
	ox, oy := c.a.Bounds().Overlap(c.b.Bounds())
	arb := Arbiter{
		Direction: Classify(c.a.Bounds(), c.b.Bounds()),
		Overlap:   core.Vec{X: ox, Y: oy},
		Tick:      w.tick,
	}
	return h.begin(ctx, c.a, c.b, arb)
}

func (w *World[C]) separate(ctx C, c *contact) {
	h, _, _ := w.dispatch.lookup(c.a.Category, c.b.Category)
	if h == nil || h.separate == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			w.fault("separate", c, r)
		}
	}()
	h.separate(ctx, c.a, c.b)
}

// fault logs a handler panic and drops one body of the pair. Dynamic
// bodies go before static ones and the second body before the first;
// persistent bodies are never dropped.
func (w *World[C]) fault(phase string, c *contact, r any) {
	w.logger.Error("collision handler failed",
		"phase", phase,
		"a", c.a.Category, "a_id", c.a.id,
		"b", c.b.Category, "b_id", c.b.id,
		"err", fmt.Sprint(r))
	if victim := faulty(c.a, c.b); victim != nil {
		w.Remove(victim)
	}
}

func faulty(a, b *Body) *Body {
	for _, static := range []bool{false, true} {
		for _, x := range []*Body{b, a} {
			if !x.Persistent && x.Static == static {
				return x
			}
		}
	}
	return nil
}

// respond pushes dynamic bodies out of accepted contacts and records
// which bodies are resting on something.
func (w *World[C]) respond() {
	for _, b := range w.bodies {
		if !b.Static {
			b.supported = false
		}
	}

	open := make([]*contact, 0, len(w.contacts))
	for _, c := range w.contacts {
		if c.result == Accept {
			open = append(open, c)
		}
	}
	sortContacts(open)

	for _, c := range open {
		resolve(c.a, c.b)
	}
	for _, b := range w.bodies {
		if !b.Static {
			b.sync()
		}
	}
}

// resolve separates a and b along a single axis. The axis is the one on
// which they were still apart before this step; when that is ambiguous the
// axis of minimum penetration wins, vertical on ties.
func resolve(a, b *Body) {
	ia, ib := a.inverseMass(), b.inverseMass()
	if ia+ib == 0 {
		return
	}
	ba, bb := a.Bounds(), b.Bounds()
	ox, oy := ba.Overlap(bb)

	vertical := oy <= ox
	if pox, poy := a.prevBounds().Overlap(b.prevBounds()); pox > contactEpsilon && poy <= contactEpsilon {
		vertical = true
	} else if poy > contactEpsilon && pox <= contactEpsilon {
		vertical = false
	}

	if vertical {
		aAbove := ba.Center().Y <= bb.Center().Y
		if oy > contactEpsilon {
			push := oy / (ia + ib)
			if aAbove {
				a.pos.Y -= push * ia
				b.pos.Y += push * ib
			} else {
				a.pos.Y += push * ia
				b.pos.Y -= push * ib
			}
		}
		top, bottom := a, b
		if !aAbove {
			top, bottom = b, a
		}
		if !top.Static {
			top.vel.Y = math.Min(top.vel.Y, 0)
			top.supported = true
		}
		if !bottom.Static {
			bottom.vel.Y = math.Max(bottom.vel.Y, 0)
		}
		return
	}

	aLeft := ba.Center().X <= bb.Center().X
	if ox > contactEpsilon {
		push := ox / (ia + ib)
		if aLeft {
			a.pos.X -= push * ia
			b.pos.X += push * ib
		} else {
			a.pos.X += push * ia
			b.pos.X -= push * ib
		}
	}
	left, right := a, b
	if !aLeft {
		left, right = b, a
	}
	if !left.Static {
		left.vel.X = math.Min(left.vel.X, 0)
	}
	if !right.Static {
		right.vel.X = math.Max(right.vel.X, 0)
	}
}
