package simplify

import (
	"math"
	"testing"

	"github.com/pdok/vtiler/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(coords ...float64) geometry.LineString {
	out := make(geometry.LineString, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		out = append(out, geometry.XY(coords[i], coords[i+1]))
	}
	return out
}

func xys(pts []geometry.Point) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func TestSqSegmentDistance(t *testing.T) {
	a, b := geometry.XY(0, 0), geometry.XY(10, 0)
	tests := []struct {
		name string
		p    geometry.Point
		want float64
	}{
		{name: "above the segment", p: geometry.XY(5, 3), want: 9},
		{name: "before the start", p: geometry.XY(-3, 4), want: 25},
		{name: "beyond the end", p: geometry.XY(13, 4), want: 25},
		{name: "on the segment", p: geometry.XY(2, 0), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SqSegmentDistance(tt.p, a, b))
		})
	}
	assert.Equal(t, 2.0, SqSegmentDistance(geometry.XY(1, 1), a, a))
}

func TestAnnotate(t *testing.T) {
	l := line(0, 0, 1, 0.1, 2, -0.1, 3, 5, 4, 6, 5, 7, 6, 8.1, 7, 9, 8, 9, 9, 9)
	Annotate(l, 0)
	assert.True(t, math.IsInf(l[0].Importance, 1))
	assert.True(t, math.IsInf(l[len(l)-1].Importance, 1))
	for _, p := range l[1 : len(l)-1] {
		assert.False(t, math.IsInf(p.Importance, 1))
		assert.GreaterOrEqual(t, p.Importance, 0.0)
	}

	tri := line(0, 0, 1, 1, 2, 0)
	Annotate(tri, 0)
	assert.Equal(t, 1.0, tri[1].Importance)
}

func TestTwoPointLine(t *testing.T) {
	l := line(0, 0, 1, 1)
	Annotate(l, 100)
	assert.True(t, math.IsInf(l[0].Importance, 1))
	assert.True(t, math.IsInf(l[1].Importance, 1))
	assert.Len(t, Simplify(l, 100), 2)
}

func TestCollinearDropped(t *testing.T) {
	got := Simplify(line(0, 0, 1, 0, 2, 0, 3, 0, 4, 0), 0.01)
	assert.Equal(t, [][2]float64{{0, 0}, {4, 0}}, xys(got))
}

func TestSimplify(t *testing.T) {
	l := line(0, 0, 1, 0.01, 2, 0, 2, 2, 3, 2.01, 4, 2)
	got := Simplify(l, 0.01)
	assert.Equal(t, [][2]float64{{0, 0}, {2, 0}, {2, 2}, {4, 2}}, xys(got))
	assert.Equal(t, 0.0, l[1].Importance, "input is not annotated")
}

func TestIdempotent(t *testing.T) {
	l := line(0, 0, 0.5, 0.2, 1, -0.1, 1.5, 1.3, 2, 0.9, 2.5, 3, 3, 2.7, 3.5, 2.9, 4, 0, 5, 0.4)
	for _, sqTol := range []float64{0.001, 0.05, 0.5, 4} {
		once := Simplify(l, sqTol)
		twice := Simplify(once, sqTol)
		assert.Equal(t, xys(once), xys(twice), "tolerance %v", sqTol)
	}
}

func TestFilterZeroTolerance(t *testing.T) {
	l := line(0, 0, 1, 0, 2, 0)
	Annotate(l, 1)
	assert.Len(t, Filter(l, 0), 3)
	assert.Len(t, Filter(l, 1e-9), 2)
}

func TestAnnotateGeometry(t *testing.T) {
	ring := geometry.Ring(line(0, 0, 1, 0, 2, 0, 2, 2, 0, 2, 0, 0))
	g := AnnotateGeometry(geometry.Polygon{ring}, 0)
	p := g.(geometry.Polygon)
	assert.True(t, math.IsInf(p[0][0].Importance, 1))
	assert.Equal(t, 0.0, p[0][1].Importance)
	assert.Equal(t, 0.0, ring[3].Importance, "input is not annotated")

	pt := AnnotateGeometry(geometry.XY(1, 1), 0).(geometry.Point)
	assert.True(t, math.IsInf(pt.Importance, 1))
}

func TestFilterGeometry(t *testing.T) {
	big := geometry.Ring(line(0, 0, 1, 0, 1, 1, 0.5, 1.001, 0, 1, 0, 0))
	small := geometry.Ring(line(0.1, 0.1, 0.11, 0.1, 0.11, 0.11, 0.1, 0.1))
	polygon := AnnotateGeometry(geometry.Polygon{big, small}, 0).(geometry.Polygon)

	t.Run("tiny hole dropped", func(t *testing.T) {
		got := FilterGeometry(polygon, 0.05)
		require.NotNil(t, got)
		p := got.(geometry.Polygon)
		require.Len(t, p, 1)
		assert.Len(t, p[0], 5)
	})
	t.Run("zero tolerance keeps everything", func(t *testing.T) {
		assert.Equal(t, polygon, FilterGeometry(polygon, 0))
	})
	t.Run("outer ring too small", func(t *testing.T) {
		assert.Nil(t, FilterGeometry(geometry.Polygon{small}, 0.05))
	})
	t.Run("short line", func(t *testing.T) {
		l := AnnotateGeometry(line(0, 0, 0.01, 0), 0)
		assert.Nil(t, FilterGeometry(l, 0.05))
		assert.NotNil(t, FilterGeometry(l, 0.001))
	})
	t.Run("points untouched", func(t *testing.T) {
		mp := geometry.MultiPoint{geometry.XY(0, 0)}
		assert.Equal(t, mp, FilterGeometry(mp, 1))
	})
}
