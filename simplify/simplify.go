// Package simplify annotates vertices with Douglas-Peucker importance so a
// single pass at ingest serves every zoom level: a vertex is kept at a zoom as
// long as its importance exceeds that zoom's squared tolerance.
package simplify

import (
	"math"

	"github.com/pdok/vtiler/geometry"
)

// SqSegmentDistance is the squared distance from p to the segment a-b. A zero
// length segment measures to a.
func SqSegmentDistance(p, a, b geometry.Point) float64 {
	x, y := a.X, a.Y
	dx, dy := b.X-x, b.Y-y
	if dx != 0 || dy != 0 {
		t := ((p.X-x)*dx + (p.Y-y)*dy) / (dx*dx + dy*dy)
		if t > 1 {
			x, y = b.X, b.Y
		} else if t > 0 {
			x += dx * t
			y += dy * t
		}
	}
	dx, dy = p.X-x, p.Y-y
	return dx*dx + dy*dy
}

type span struct {
	first, last int
}

// Annotate writes the importance of every vertex in place. The ends get +Inf,
// a vertex that is never needed above sqTolerance gets 0.
func Annotate(points []geometry.Point, sqTolerance float64) {
	if len(points) == 0 {
		return
	}
	for i := range points {
		points[i].Importance = 0
	}
	points[0].Importance = math.Inf(1)
	points[len(points)-1].Importance = math.Inf(1)

	stack := []span{{0, len(points) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.last-s.first < 2 {
			continue
		}

		maxSqDist := sqTolerance
		mid := s.first + (s.last-s.first)/2
		minPosToMid := s.last - s.first
		index := -1
		for i := s.first + 1; i < s.last; i++ {
			d := SqSegmentDistance(points[i], points[s.first], points[s.last])
			if d > maxSqDist {
				index = i
				maxSqDist = d
				minPosToMid = abs(i - mid)
			} else if d == maxSqDist && index >= 0 {
				// ties: the vertex nearest the middle keeps the stack shallow
				if posToMid := abs(i - mid); posToMid < minPosToMid {
					index = i
					minPosToMid = posToMid
				}
			}
		}
		if index < 0 {
			continue
		}
		points[index].Importance = maxSqDist
		stack = append(stack, span{s.first, index}, span{index, s.last})
	}
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// Filter keeps the vertices more important than sqTolerance. A tolerance of 0 keeps all.
func Filter(points []geometry.Point, sqTolerance float64) []geometry.Point {
	if sqTolerance <= 0 {
		return append([]geometry.Point(nil), points...)
	}
	out := make([]geometry.Point, 0, len(points))
	for _, p := range points {
		if p.Importance > sqTolerance {
			out = append(out, p)
		}
	}
	return out
}

// Simplify is Annotate on a copy followed by Filter.
func Simplify(points []geometry.Point, sqTolerance float64) []geometry.Point {
	annotated := append([]geometry.Point(nil), points...)
	Annotate(annotated, sqTolerance)
	return Filter(annotated, sqTolerance)
}

// AnnotateGeometry returns a copy of g with every line and ring annotated.
// Point vertices are pinned.
func AnnotateGeometry(g geometry.Geometry, sqTolerance float64) geometry.Geometry {
	switch g := g.(type) {
	case nil:
		return nil
	case geometry.Point:
		g.Importance = math.Inf(1)
		return g
	case geometry.MultiPoint:
		out := make(geometry.MultiPoint, len(g))
		for i, p := range g {
			p.Importance = math.Inf(1)
			out[i] = p
		}
		return out
	case geometry.LineString:
		return geometry.LineString(annotated(g, sqTolerance))
	case geometry.MultiLineString:
		out := make(geometry.MultiLineString, len(g))
		for i, l := range g {
			out[i] = annotated(l, sqTolerance)
		}
		return out
	case geometry.Polygon:
		return annotatedPolygon(g, sqTolerance)
	case geometry.MultiPolygon:
		out := make(geometry.MultiPolygon, len(g))
		for i, p := range g {
			out[i] = annotatedPolygon(p, sqTolerance)
		}
		return out
	default:
		panic("unknown geometry")
	}
}

func annotated[S ~[]geometry.Point](pts S, sqTolerance float64) S {
	out := append(S(nil), pts...)
	Annotate(out, sqTolerance)
	return out
}

func annotatedPolygon(p geometry.Polygon, sqTolerance float64) geometry.Polygon {
	out := make(geometry.Polygon, len(p))
	for i, r := range p {
		out[i] = annotated(r, sqTolerance)
	}
	return out
}

// FilterGeometry drops the vertices not needed at tolerance, lines shorter
// than tolerance and rings with an area below tolerance². Polygons losing
// their outer ring are dropped. nil is returned when nothing is left.
// Lengths and areas are taken from the unfiltered geometry.
func FilterGeometry(g geometry.Geometry, tolerance float64) geometry.Geometry {
	if tolerance <= 0 {
		return g
	}
	sqTolerance := tolerance * tolerance
	switch g := g.(type) {
	case nil:
		return nil
	case geometry.Point, geometry.MultiPoint:
		return g
	case geometry.LineString:
		l := filterLine(g, tolerance, sqTolerance)
		if l == nil {
			return nil
		}
		return l
	case geometry.MultiLineString:
		var out geometry.MultiLineString
		for _, line := range g {
			if l := filterLine(line, tolerance, sqTolerance); l != nil {
				out = append(out, l)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case geometry.Polygon:
		p := filterPolygon(g, sqTolerance)
		if p == nil {
			return nil
		}
		return p
	case geometry.MultiPolygon:
		var out geometry.MultiPolygon
		for _, polygon := range g {
			if p := filterPolygon(polygon, sqTolerance); p != nil {
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

func filterLine(l geometry.LineString, tolerance, sqTolerance float64) geometry.LineString {
	if l.Length() < tolerance {
		return nil
	}
	out := Filter(l, sqTolerance)
	if len(out) < 2 {
		return nil
	}
	return out
}

func filterPolygon(p geometry.Polygon, sqTolerance float64) geometry.Polygon {
	var out geometry.Polygon
	for i, r := range p {
		var ring geometry.Ring
		if r.Area() >= sqTolerance {
			ring = Filter(r, sqTolerance)
		}
		if len(ring) < 4 {
			if i == 0 {
				return nil
			}
			continue
		}
		out = append(out, ring)
	}
	return out
}
