package core

import "testing"

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{"overlapping rects", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), true},
		{"non-overlapping horizontal", NewRect(0, 0, 10, 10), NewRect(15, 0, 10, 10), false},
		{"adjacent vertical (no overlap)", NewRect(0, 0, 10, 10), NewRect(0, 10, 10, 10), false},
		{"contained rect", NewRect(0, 0, 20, 20), NewRect(5, 5, 5, 5), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestBoxOverlap(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Box
		ox, oy float64
	}{
		{"penetrating", Box{0, 0, 16, 16}, Box{10, 12, 16, 16}, 6, 4},
		{"resting on top", Box{0, 0, 16, 16}, Box{0, 16, 16, 16}, 16, 0},
		{"separated", Box{0, 0, 16, 16}, Box{20, 0, 16, 16}, -4, 16},
		{"contained", Box{0, 0, 32, 32}, Box{8, 8, 4, 4}, 4, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ox, oy := tc.a.Overlap(tc.b)
			if ox != tc.ox || oy != tc.oy {
				t.Errorf("Overlap() = (%v, %v), expected (%v, %v)", ox, oy, tc.ox, tc.oy)
			}
		})
	}
}

func TestBoxIntersectsCircle(t *testing.T) {
	b := Box{X: 100, Y: 100, W: 16, H: 16}

	tests := []struct {
		name     string
		cx, cy   float64
		r        float64
		expected bool
	}{
		{"centre inside", 108, 108, 1, true},
		{"edge within radius", 80, 108, 20, true},
		{"edge outside radius", 79, 108, 20, false},
		{"corner within radius", 90, 90, 15, true},
		{"corner outside radius", 90, 90, 14, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.IntersectsCircle(tc.cx, tc.cy, tc.r); got != tc.expected {
				t.Errorf("IntersectsCircle(%v, %v, %v) = %v, expected %v", tc.cx, tc.cy, tc.r, got, tc.expected)
			}
		})
	}
}

func TestBoxEdges(t *testing.T) {
	b := Box{X: 5, Y: 10, W: 20, H: 16}

	if b.Right() != 25 {
		t.Errorf("Right() = %v, expected 25", b.Right())
	}
	if b.Bottom() != 26 {
		t.Errorf("Bottom() = %v, expected 26", b.Bottom())
	}
	if c := b.Center(); c.X != 15 || c.Y != 18 {
		t.Errorf("Center() = %+v, expected (15, 18)", c)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestAbs(t *testing.T) {
	if Abs(5) != 5 {
		t.Error("Abs(5) should be 5")
	}
	if Abs(-5) != 5 {
		t.Error("Abs(-5) should be 5")
	}
}
