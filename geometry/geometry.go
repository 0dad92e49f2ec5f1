// Package geometry is the vector model the tiling pipeline works on.
//
// Geometry is a closed set of six kinds. Every switch over a Geometry lists
// all of them and panics on anything else.
package geometry

import (
	"fmt"
	"math"

	"github.com/pdok/vtiler/geomhelp"
)

type Type uint8

const (
	TypePoint Type = iota + 1
	TypeMultiPoint
	TypeLineString
	TypeMultiLineString
	TypePolygon
	TypeMultiPolygon
)

func (t Type) String() string {
	switch t {
	case TypePoint:
		return "Point"
	case TypeMultiPoint:
		return "MultiPoint"
	case TypeLineString:
		return "LineString"
	case TypeMultiLineString:
		return "MultiLineString"
	case TypePolygon:
		return "Polygon"
	case TypeMultiPolygon:
		return "MultiPolygon"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Geometry is one of Point, MultiPoint, LineString, MultiLineString, Polygon or MultiPolygon.
type Geometry interface {
	Type() Type
	sealed()
}

type Axis int

const (
	X Axis = 0
	Y Axis = 1
)

func (a Axis) String() string {
	if a == X {
		return "x"
	}
	return "y"
}

// Point is a vertex. Importance is the squared tolerance up to which the vertex
// has to survive simplification (+Inf: always). M is metadata from upstream processing.
type Point struct {
	X, Y, Z    float64
	M          map[string]any
	Importance float64
}

// XY makes a plain 2D point.
func XY(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Pinned makes a 2D point that survives simplification at every tolerance.
func Pinned(x, y float64) Point {
	return Point{X: x, Y: y, Importance: math.Inf(1)}
}

func (p Point) XY() (float64, float64) { return p.X, p.Y }

// Coord returns the ordinate along the axis.
func (p Point) Coord(axis Axis) float64 {
	if axis == X {
		return p.X
	}
	return p.Y
}

// SameXY compares positions only.
func (p Point) SameXY(o Point) bool {
	return p.X == o.X && p.Y == o.Y
}

type (
	MultiPoint      []Point
	LineString      []Point
	MultiLineString []LineString
	// Ring is a closed sequence of points, first point equal to the last.
	Ring         []Point
	Polygon      []Ring
	MultiPolygon []Polygon
)

func (Point) Type() Type           { return TypePoint }
func (MultiPoint) Type() Type      { return TypeMultiPoint }
func (LineString) Type() Type      { return TypeLineString }
func (MultiLineString) Type() Type { return TypeMultiLineString }
func (Polygon) Type() Type         { return TypePolygon }
func (MultiPolygon) Type() Type    { return TypeMultiPolygon }

func (Point) sealed()           {}
func (MultiPoint) sealed()      {}
func (LineString) sealed()      {}
func (MultiLineString) sealed() {}
func (Polygon) sealed()         {}
func (MultiPolygon) sealed()    {}

// Length is the planar length of the line.
func (ls LineString) Length() float64 {
	l := 0.
	for i := 1; i < len(ls); i++ {
		l += math.Hypot(ls[i].X-ls[i-1].X, ls[i].Y-ls[i-1].Y)
	}
	return l
}

// Area is the absolute planar area enclosed by the ring.
func (r Ring) Area() float64 {
	return geomhelp.Shoelace(r)
}

// IsClosed reports whether the ring ends where it starts.
func (r Ring) IsClosed() bool {
	return len(r) > 0 && r[0].SameXY(r[len(r)-1])
}

// Close appends the first point when the ring is open.
func (r Ring) Close() Ring {
	if len(r) == 0 || r.IsClosed() {
		return r
	}
	return append(r, r[0])
}

func unknown(g Geometry) string {
	return fmt.Sprintf("unknown geometry %T", g)
}

// NumPoints counts vertices.
func NumPoints(g Geometry) int {
	switch g := g.(type) {
	case nil:
		return 0
	case Point:
		return 1
	case MultiPoint:
		return len(g)
	case LineString:
		return len(g)
	case MultiLineString:
		n := 0
		for _, l := range g {
			n += len(l)
		}
		return n
	case Polygon:
		n := 0
		for _, r := range g {
			n += len(r)
		}
		return n
	case MultiPolygon:
		n := 0
		for _, p := range g {
			n += NumPoints(p)
		}
		return n
	default:
		panic(unknown(g))
	}
}

// IsEmpty reports whether a geometry has nothing left to draw.
func IsEmpty(g Geometry) bool {
	return NumPoints(g) == 0
}

// EachPoint calls fn for every vertex.
func EachPoint(g Geometry, fn func(Point)) {
	switch g := g.(type) {
	case nil:
	case Point:
		fn(g)
	case MultiPoint:
		for _, p := range g {
			fn(p)
		}
	case LineString:
		for _, p := range g {
			fn(p)
		}
	case MultiLineString:
		for _, l := range g {
			EachPoint(l, fn)
		}
	case Polygon:
		for _, r := range g {
			for _, p := range r {
				fn(p)
			}
		}
	case MultiPolygon:
		for _, p := range g {
			EachPoint(p, fn)
		}
	default:
		panic(unknown(g))
	}
}

// Map returns a new geometry of the same shape with fn applied to every vertex.
func Map(g Geometry, fn func(Point) Point) Geometry {
	switch g := g.(type) {
	case nil:
		return nil
	case Point:
		return fn(g)
	case MultiPoint:
		return MultiPoint(mapPoints(g, fn))
	case LineString:
		return LineString(mapPoints(g, fn))
	case MultiLineString:
		out := make(MultiLineString, len(g))
		for i, l := range g {
			out[i] = mapPoints(l, fn)
		}
		return out
	case Polygon:
		return mapPolygon(g, fn)
	case MultiPolygon:
		out := make(MultiPolygon, len(g))
		for i, p := range g {
			out[i] = mapPolygon(p, fn)
		}
		return out
	default:
		panic(unknown(g))
	}
}

func mapPolygon(p Polygon, fn func(Point) Point) Polygon {
	out := make(Polygon, len(p))
	for i, r := range p {
		out[i] = mapPoints(r, fn)
	}
	return out
}

func mapPoints[S ~[]Point](pts S, fn func(Point) Point) S {
	out := make(S, len(pts))
	for i, p := range pts {
		out[i] = fn(p)
	}
	return out
}
