package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps_Symmetry(t *testing.T) {
	pairs := []struct {
		a, b Rect
	}{
		{NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10)},
		{NewRect(0, 0, 10, 10), NewRect(20, 20, 5, 5)},
		{NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10)}, // touching edges
		{NewRect(-5, -5, 3, 3), NewRect(-4, -4, 1, 1)},  // containment
	}

	for _, p := range pairs {
		assert.Equal(t, Overlaps(p.a, p.b), Overlaps(p.b, p.a),
			"overlaps must be symmetric for %+v and %+v", p.a, p.b)
	}
}

func TestOverlaps_TouchingEdgesDoNotCount(t *testing.T) {
	a := NewRect(0, 0, 10, 10)

	assert.False(t, Overlaps(a, NewRect(10, 0, 10, 10)), "shared vertical edge")
	assert.False(t, Overlaps(a, NewRect(0, 10, 10, 10)), "shared horizontal edge")
	assert.False(t, Overlaps(a, NewRect(10, 10, 5, 5)), "shared corner")
	assert.True(t, Overlaps(a, NewRect(9.99, 0, 10, 10)), "interior intersection")
}

func TestOverlaps_Containment(t *testing.T) {
	outer := NewRect(0, 0, 100, 100)
	inner := NewRect(40, 40, 10, 10)

	assert.True(t, Overlaps(outer, inner))
	assert.True(t, Contains(outer, inner))
	assert.False(t, Contains(inner, outer))
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance(Point{X: 0, Y: 0}, Point{X: 3, Y: 4}))
	assert.Equal(t, 0.0, Distance(Point{X: 7, Y: -2}, Point{X: 7, Y: -2}))
}

func TestExpand(t *testing.T) {
	r := Expand(NewRect(10, 10, 20, 20), 5)
	assert.Equal(t, NewRect(5, 5, 30, 30), r)

	// Negative margin shrinks, clamped at zero size
	collapsed := Expand(NewRect(0, 0, 4, 4), -10)
	assert.Equal(t, 0.0, collapsed.Width)
	assert.Equal(t, 0.0, collapsed.Height)
}

func TestUnion(t *testing.T) {
	u := Union(NewRect(0, 0, 10, 10), NewRect(20, 30, 5, 5))
	assert.Equal(t, NewRect(0, 0, 25, 35), u)
}

func TestIntersection(t *testing.T) {
	got, ok := Intersection(NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10))
	assert.True(t, ok)
	assert.Equal(t, NewRect(5, 5, 5, 5), got)

	_, ok = Intersection(NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10))
	assert.False(t, ok, "touching rects have no interior intersection")
}

func TestDistanceToRect(t *testing.T) {
	r := NewRect(0, 0, 10, 10)

	assert.Equal(t, 0.0, DistanceToRect(Point{X: 5, Y: 5}, r), "inside")
	assert.Equal(t, 5.0, DistanceToRect(Point{X: 15, Y: 5}, r), "right of")
	assert.InDelta(t, math.Sqrt(2), DistanceToRect(Point{X: 11, Y: 11}, r), 1e-9, "diagonal")
}

func TestMinTranslation(t *testing.T) {
	a := NewRect(0, 0, 10, 10)

	// b overlaps a's right edge by 2: cheapest push is +X by 2
	mtv := MinTranslation(a, NewRect(8, 0, 10, 10))
	assert.Equal(t, Point{X: 2}, mtv)

	// b overlaps a's top by 3, push -Y
	mtv = MinTranslation(a, NewRect(0, -7, 10, 10))
	assert.Equal(t, Point{Y: -3}, mtv)

	// No overlap yields zero vector
	assert.Equal(t, Point{}, MinTranslation(a, NewRect(50, 50, 5, 5)))

	// Applying the MTV must clear the overlap
	b := NewRect(6, 2, 8, 8)
	mtv = MinTranslation(a, b)
	moved := NewRect(b.X+mtv.X, b.Y+mtv.Y, b.Width, b.Height)
	assert.False(t, Overlaps(a, moved))
}

func TestRectCenterAndArea(t *testing.T) {
	r := NewRect(2, 4, 10, 20)
	assert.Equal(t, Point{X: 7, Y: 14}, r.Center())
	assert.Equal(t, 200.0, r.Area())
}

func TestRectValid(t *testing.T) {
	assert.True(t, NewRect(0, 0, 1, 1).Valid())
	assert.False(t, NewRect(math.NaN(), 0, 1, 1).Valid())
	assert.False(t, NewRect(0, 0, -1, 1).Valid())
	assert.False(t, NewRect(0, math.Inf(1), 1, 1).Valid())
}
