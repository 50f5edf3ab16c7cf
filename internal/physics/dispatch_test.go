package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherRegisterReplacesInPlace(t *testing.T) {
	var d Dispatcher[int]
	d.Register(CategoryPlayer, CategoryItem, nil, nil)
	d.Register(CategoryPlayer, CategoryBlock, nil, nil)
	d.Register(CategoryItem, CategoryPlayer, func(int, *Body, *Body, Arbiter) Result { return Ignore }, nil)

	assert.Equal(t, 2, d.Len())

	h, order, swapped := d.lookup(CategoryPlayer, CategoryItem)
	assert.NotNil(t, h.begin)
	assert.Equal(t, 0, order)
	assert.True(t, swapped)

	h, order, _ = d.lookup(CategoryMob, CategoryMob)
	assert.Nil(t, h)
	assert.Equal(t, 2, order)
}

func TestNewContactOrdersSameCategoryByID(t *testing.T) {
	var d Dispatcher[int]
	d.Register(CategoryMob, CategoryMob, nil, nil)

	older := &Body{Category: CategoryMob, id: 3}
	newer := &Body{Category: CategoryMob, id: 7}

	c := d.newContact(newer, older)
	assert.Same(t, older, c.a)
	assert.Same(t, newer, c.b)
	assert.Equal(t, pairKey{lo: 3, hi: 7}, c.key())
}
