package physics

import "sort"

// BeginFunc is invoked once when two bodies start touching. Bodies are
// passed in the category order the handler was registered with.
type BeginFunc[C any] func(ctx C, a, b *Body, arb Arbiter) Result

// SeparateFunc is invoked exactly once when a contact ends, either because
// the bodies moved apart or because one of them left the world.
type SeparateFunc[C any] func(ctx C, a, b *Body)

type handler[C any] struct {
	a, b     Category
	begin    BeginFunc[C]
	separate SeparateFunc[C]
}

// Dispatcher is a registry of collision handlers keyed by category pair.
// Registration order is the primary dispatch order within a step.
type Dispatcher[C any] struct {
	handlers []handler[C]
}

// Register installs handlers for contacts between categories a and b.
// Registering the same pair again replaces the handlers but keeps the
// original dispatch position. Either function may be nil.
func (d *Dispatcher[C]) Register(a, b Category, begin BeginFunc[C], separate SeparateFunc[C]) {
	h := handler[C]{a: a, b: b, begin: begin, separate: separate}
	for i := range d.handlers {
		existing := d.handlers[i]
		if (existing.a == a && existing.b == b) || (existing.a == b && existing.b == a) {
			d.handlers[i] = h
			return
		}
	}
	d.handlers = append(d.handlers, h)
}

// Len returns the number of registered pairs.
func (d *Dispatcher[C]) Len() int {
	return len(d.handlers)
}

// lookup finds the handler for categories x and y. swapped is true when the
// handler expects the bodies in (y, x) order. Unregistered pairs sort after
// every registered one.
func (d *Dispatcher[C]) lookup(x, y Category) (h *handler[C], order int, swapped bool) {
	for i := range d.handlers {
		hd := &d.handlers[i]
		if hd.a == x && hd.b == y {
			return hd, i, false
		}
		if hd.a == y && hd.b == x {
			return hd, i, true
		}
	}
	return nil, len(d.handlers), false
}

// newContact orders two bodies for their handler. Bodies of the same
// category are ordered by creation id.
func (d *Dispatcher[C]) newContact(x, y *Body) *contact {
	if y.id < x.id {
		x, y = y, x
	}
	_, order, swapped := d.lookup(x.Category, y.Category)
	if swapped {
		x, y = y, x
	}
	return &contact{a: x, b: y, order: order}
}

// sortContacts orders contacts by handler registration, then by the lower
// creation id, then by the higher one.
func sortContacts(cs []*contact) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].order != cs[j].order {
			return cs[i].order < cs[j].order
		}
		ki, kj := cs[i].key(), cs[j].key()
		if ki.lo != kj.lo {
			return ki.lo < kj.lo
		}
		return ki.hi < kj.hi
	})
}
