// Package clip cuts features along one axis to an interval grown by a buffer.
//
// Vertices on the interval boundary count as inside. Where an edge crosses a
// boundary a vertex is inserted with the clip ordinate set to the boundary
// exactly, so neighbouring tiles share their seam vertices bit for bit.
package clip

import (
	"math"

	"github.com/pdok/vtiler/geometry"
	"github.com/pdok/vtiler/mathhelp"
)

// Clip keeps the part of every feature within [low-buffer, high+buffer] along axis.
func Clip(features []*geometry.Feature, axis geometry.Axis, low, high, buffer float64) []*geometry.Feature {
	k1, k2 := low-buffer, high+buffer
	if len(features) == 0 {
		return nil
	}

	all := geometry.EmptyBBox()
	for _, f := range features {
		all = all.Union(f.Bounds())
	}
	if all.Min(axis) >= k1 && all.Max(axis) <= k2 {
		return features
	}
	if all.Max(axis) < k1 || all.Min(axis) > k2 {
		return nil
	}

	var clipped []*geometry.Feature
	for _, f := range features {
		b := f.Bounds()
		if b.Min(axis) >= k1 && b.Max(axis) <= k2 {
			clipped = append(clipped, f)
			continue
		}
		if b.Max(axis) < k1 || b.Min(axis) > k2 {
			continue
		}
		if g := Geometry(f.Geometry, axis, k1, k2); g != nil {
			clipped = append(clipped, f.WithGeometry(g))
		}
	}
	return clipped
}

// Split clips the features to [low, mid] and [mid, high], both grown by buffer.
func Split(features []*geometry.Feature, axis geometry.Axis, low, mid, high, buffer float64) (left, right []*geometry.Feature) {
	return Clip(features, axis, low, mid, buffer), Clip(features, axis, mid, high, buffer)
}

// Geometry clips one geometry to [k1, k2] along axis. It returns nil when nothing is left.
func Geometry(g geometry.Geometry, axis geometry.Axis, k1, k2 float64) geometry.Geometry {
	switch g := g.(type) {
	case nil:
		return nil
	case geometry.Point:
		if inside(g, axis, k1, k2) {
			return g
		}
		return nil
	case geometry.MultiPoint:
		var pts geometry.MultiPoint
		for _, p := range g {
			if inside(p, axis, k1, k2) {
				pts = append(pts, p)
			}
		}
		switch len(pts) {
		case 0:
			return nil
		case 1:
			return pts[0]
		}
		return pts
	case geometry.LineString:
		return asLines(clipLine(g, axis, k1, k2))
	case geometry.MultiLineString:
		var slices geometry.MultiLineString
		for _, l := range g {
			slices = append(slices, clipLine(l, axis, k1, k2)...)
		}
		return asLines(slices)
	case geometry.Polygon:
		if p := clipPolygon(g, axis, k1, k2); p != nil {
			return p
		}
		return nil
	case geometry.MultiPolygon:
		var out geometry.MultiPolygon
		for _, polygon := range g {
			if p := clipPolygon(polygon, axis, k1, k2); p != nil {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		panic("unknown geometry")
	}
}

func inside(p geometry.Point, axis geometry.Axis, k1, k2 float64) bool {
	return mathhelp.BetweenInc(p.Coord(axis), k1, k2)
}

func asLines(slices geometry.MultiLineString) geometry.Geometry {
	switch len(slices) {
	case 0:
		return nil
	case 1:
		return slices[0]
	}
	return slices
}

// intersect is the vertex where a-b crosses the boundary at v along axis.
// Callers only ask for it when a and b lie on different sides of v.
func intersect(a, b geometry.Point, axis geometry.Axis, v float64) geometry.Point {
	ac, bc := a.Coord(axis), b.Coord(axis)
	t := (v - ac) / (bc - ac)
	p := geometry.Point{
		Z:          a.Z + (b.Z-a.Z)*t,
		M:          a.M,
		Importance: math.Inf(1),
	}
	if axis == geometry.X {
		p.X = v
		p.Y = a.Y + (b.Y-a.Y)*t
	} else {
		p.X = a.X + (b.X-a.X)*t
		p.Y = v
	}
	return p
}

// walk runs edge by edge over pts, appending what lies within [k1, k2] to the
// current slice. With slicing on a new slice is started every time the line
// leaves the interval.
func walk(pts []geometry.Point, axis geometry.Axis, k1, k2 float64, slicing bool) [][]geometry.Point {
	var out [][]geometry.Point
	var slice []geometry.Point
	for i := 0; i < len(pts)-1; i++ {
		pa, pb := pts[i], pts[i+1]
		a, b := pa.Coord(axis), pb.Coord(axis)
		exited := false

		switch {
		case a < k1:
			if b > k1 {
				slice = append(slice, intersect(pa, pb, axis, k1))
			}
		case a > k2:
			if b < k2 {
				slice = append(slice, intersect(pa, pb, axis, k2))
			}
		default:
			slice = append(slice, pa)
		}
		if b < k1 && a >= k1 {
			slice = append(slice, intersect(pa, pb, axis, k1))
			exited = true
		}
		if b > k2 && a <= k2 {
			slice = append(slice, intersect(pa, pb, axis, k2))
			exited = true
		}
		if slicing && exited {
			out = append(out, slice)
			slice = nil
		}
	}
	if len(pts) > 0 {
		if last := pts[len(pts)-1]; inside(last, axis, k1, k2) {
			slice = append(slice, last)
		}
	}
	if len(slice) > 0 {
		out = append(out, slice)
	}
	return out
}

func clipLine(l geometry.LineString, axis geometry.Axis, k1, k2 float64) []geometry.LineString {
	slices := walk(l, axis, k1, k2, true)
	out := make([]geometry.LineString, 0, len(slices))
	for _, s := range slices {
		out = append(out, s)
	}
	return out
}

// clipRing returns nil for a ring with fewer than 3 distinct vertices left.
func clipRing(r geometry.Ring, axis geometry.Axis, k1, k2 float64) geometry.Ring {
	slices := walk(r, axis, k1, k2, false)
	if len(slices) == 0 {
		return nil
	}
	ring := geometry.Ring(slices[0])
	if len(ring) >= 2 && !ring.IsClosed() {
		ring = append(ring, ring[0])
	}
	if len(ring) < 4 || distinct(ring) < 3 {
		return nil
	}
	return ring
}

// distinct counts the vertices of a closed ring that differ from their
// predecessor, leaving out the closing vertex.
func distinct(r geometry.Ring) int {
	n := 1
	for i := 1; i < len(r)-1; i++ {
		if !r[i].SameXY(r[i-1]) {
			n++
		}
	}
	return n
}

func clipPolygon(p geometry.Polygon, axis geometry.Axis, k1, k2 float64) geometry.Polygon {
	var out geometry.Polygon
	for i, r := range p {
		ring := clipRing(r, axis, k1, k2)
		if ring == nil {
			if i == 0 {
				return nil
			}
			continue
		}
		out = append(out, ring)
	}
	return out
}
