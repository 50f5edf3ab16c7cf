package physics

import (
	"github.com/solarlune/resolv"

	"github.com/vovakirdan/tui-platformer/internal/core"
)

// index wraps the resolv space used as the broad phase. resolv cannot
// address negative cells, so every body is shifted by origin pixels.
type index struct {
	space  *resolv.Space
	origin float64
}

func newIndex(width, height float64, cell int, margin float64) *index {
	if cell <= 0 {
		cell = 16
	}
	w := int(width+2*margin) + cell
	h := int(height+2*margin) + cell
	return &index{
		space:  resolv.NewSpace(w, h, cell, cell),
		origin: margin,
	}
}

func (ix *index) attach(b *Body) {
	obj := resolv.NewObject(b.pos.X+ix.origin, b.pos.Y+ix.origin, b.size.X, b.size.Y, b.Category.String())
	obj.Data = b
	b.obj = obj
	b.idx = ix
	ix.space.Add(obj)
}

func (ix *index) detach(b *Body) {
	if b.obj == nil {
		return
	}
	ix.space.Remove(b.obj)
	b.obj.Data = nil
	b.obj = nil
}

// query returns every attached body whose cells intersect the box.
// The result may contain bodies that do not actually overlap the box.
func (ix *index) query(area core.Box) []*Body {
	x0, y0 := ix.space.WorldToSpace(area.X+ix.origin, area.Y+ix.origin)
	x1, y1 := ix.space.WorldToSpace(area.Right()+ix.origin, area.Bottom()+ix.origin)

	seen := make(map[*Body]struct{})
	var out []*Body
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			cell := ix.space.Cell(cx, cy)
			if cell == nil {
				continue
			}
			for _, obj := range cell.Objects {
				b, ok := obj.Data.(*Body)
				if !ok {
					continue
				}
				if _, dup := seen[b]; dup {
					continue
				}
				seen[b] = struct{}{}
				out = append(out, b)
			}
		}
	}
	return out
}
