package projection

import (
	"math"

	"github.com/pdok/vtiler/geometry"
)

// maxEdgeAngle is the longest edge, in radians, that is drawn as one great
// circle arc. Longer edges get their longitude/latitude midpoint inserted.
const maxEdgeAngle = math.Pi / 4

// maxSubdivisions bounds the midpoint insertion per edge.
const maxSubdivisions = 16

// faceAxes are the u and v axes of every face: u = p·uAxis / p·normal.
var faceAxes = [6][2]XYZ{
	{{0, 1, 0}, {0, 0, 1}},
	{{-1, 0, 0}, {0, 0, 1}},
	{{-1, 0, 0}, {0, -1, 0}},
	{{0, 0, -1}, {0, -1, 0}},
	{{0, 0, -1}, {1, 0, 0}},
	{{0, 1, 0}, {1, 0, 0}},
}

// vertex is a point on the way through face clipping. xyz need not be unit
// length, only its direction counts.
type vertex struct {
	xyz XYZ
	p   geometry.Point
}

func combine(a XYZ, ka float64, b XYZ, kb float64) XYZ {
	return XYZ{ka*a[0] + kb*b[0], ka*a[1] + kb*b[1], ka*a[2] + kb*b[2]}
}

// paddedFace are the four planes through the origin bounding the part of the
// sphere that projects onto face within |u| <= limit and |v| <= limit. A
// point is inside a plane when its dot product with it is not negative.
func paddedFace(face uint8, limit float64) [4]XYZ {
	n := FaceNormal(face)
	u, v := faceAxes[face][0], faceAxes[face][1]
	return [4]XYZ{
		combine(n, limit, u, -1),
		combine(n, limit, u, 1),
		combine(n, limit, v, -1),
		combine(n, limit, v, 1),
	}
}

// crossing is where the chord a-b meets the plane. Along the chord the
// direction follows the great circle arc, so the plane cuts the arc there.
func crossing(a, b vertex, da, db float64) vertex {
	t := da / (da - db)
	p := a.p
	p.Z = a.p.Z + (b.p.Z-a.p.Z)*t
	return vertex{xyz: combine(a.xyz, 1-t, b.xyz, t), p: p}
}

// clipOpen cuts a polyline to the inside of the plane, one run per stretch inside.
func clipOpen(line []vertex, plane XYZ) [][]vertex {
	var runs [][]vertex
	var run []vertex
	for k, b := range line {
		db := b.xyz.Dot(plane)
		if k > 0 {
			a := line[k-1]
			if da := a.xyz.Dot(plane); (da < 0 && db > 0) || (da > 0 && db < 0) {
				run = append(run, crossing(a, b, da, db))
			}
		}
		if db >= 0 {
			run = append(run, b)
		} else if len(run) > 0 {
			runs = append(runs, run)
			run = nil
		}
	}
	if len(run) > 0 {
		runs = append(runs, run)
	}
	return runs
}

// clipClosed cuts a ring, given without its closing vertex, to the inside of
// the plane. The cut is closed along the plane.
func clipClosed(ring []vertex, plane XYZ) []vertex {
	var out []vertex
	for k, b := range ring {
		a := ring[(k+len(ring)-1)%len(ring)]
		da, db := a.xyz.Dot(plane), b.xyz.Dot(plane)
		if (da < 0 && db > 0) || (da > 0 && db < 0) {
			out = append(out, crossing(a, b, da, db))
		}
		if db >= 0 {
			out = append(out, b)
		}
	}
	return out
}

// vertices turns longitude/latitude points into vertices, inserting midpoints
// in edges longer than maxEdgeAngle.
func vertices(pts []geometry.Point) []vertex {
	out := make([]vertex, 0, len(pts))
	for k, p := range pts {
		if k > 0 {
			out = subdivide(out, pts[k-1], p, 0)
		}
		out = append(out, vertex{xyz: LonLatToXYZ(p.X, p.Y), p: p})
	}
	return out
}

// subdivide appends the vertices strictly between a and b.
func subdivide(out []vertex, a, b geometry.Point, depth int) []vertex {
	pa, pb := LonLatToXYZ(a.X, a.Y), LonLatToXYZ(b.X, b.Y)
	if depth >= maxSubdivisions || math.Acos(math.Max(-1, math.Min(1, pa.Dot(pb)))) <= maxEdgeAngle {
		return out
	}
	mid := a
	mid.X, mid.Y, mid.Z = (a.X+b.X)/2, (a.Y+b.Y)/2, (a.Z+b.Z)/2
	out = subdivide(out, a, mid, depth+1)
	out = append(out, vertex{xyz: LonLatToXYZ(mid.X, mid.Y), p: mid})
	return subdivide(out, mid, b, depth+1)
}

// toFaceST gives the point in face ST. The vertex must lie within the padded face.
func toFaceST(face uint8, v vertex) geometry.Point {
	n := v.xyz.Dot(FaceNormal(face))
	p := v.p
	p.X = UVToST(v.xyz.Dot(faceAxes[face][0]) / n)
	p.Y = UVToST(v.xyz.Dot(faceAxes[face][1]) / n)
	return p
}

// faceClipper cuts longitude/latitude geometry to one padded face.
type faceClipper struct {
	face   uint8
	planes [4]XYZ
}

func newFaceClipper(face uint8, padding float64) faceClipper {
	return faceClipper{face: face, planes: paddedFace(face, STToUV(1+padding))}
}

func (c faceClipper) lines(l []geometry.Point) []geometry.LineString {
	runs := [][]vertex{vertices(l)}
	for _, plane := range c.planes {
		var next [][]vertex
		for _, r := range runs {
			next = append(next, clipOpen(r, plane)...)
		}
		runs = next
	}
	var out []geometry.LineString
	for _, r := range runs {
		if len(r) < 2 {
			continue
		}
		line := make(geometry.LineString, len(r))
		for k, v := range r {
			line[k] = toFaceST(c.face, v)
		}
		out = append(out, line)
	}
	return out
}

func (c faceClipper) ring(r geometry.Ring) geometry.Ring {
	if r.IsClosed() {
		r = r[:len(r)-1]
	}
	if len(r) < 3 {
		return nil
	}
	closed := make([]geometry.Point, 0, len(r)+1)
	closed = append(append(closed, r...), r[0])
	vs := vertices(closed)
	vs = vs[:len(vs)-1]
	for _, plane := range c.planes {
		if vs = clipClosed(vs, plane); len(vs) < 3 {
			return nil
		}
	}
	ring := make(geometry.Ring, 0, len(vs)+1)
	for _, v := range vs {
		ring = append(ring, toFaceST(c.face, v))
	}
	return append(ring, ring[0])
}

func (c faceClipper) polygon(p geometry.Polygon) geometry.Polygon {
	var out geometry.Polygon
	for k, r := range p {
		ring := c.ring(r)
		if ring == nil {
			if k == 0 {
				return nil
			}
			continue
		}
		out = append(out, ring)
	}
	return out
}

// clip returns the part of g on the padded face in face ST, nil when there is none.
func (c faceClipper) clip(g geometry.Geometry) geometry.Geometry {
	switch g := g.(type) {
	case geometry.LineString:
		return asLines(c.lines(g))
	case geometry.MultiLineString:
		var all []geometry.LineString
		for _, l := range g {
			all = append(all, c.lines(l)...)
		}
		return asLines(all)
	case geometry.Polygon:
		if p := c.polygon(g); p != nil {
			return p
		}
		return nil
	case geometry.MultiPolygon:
		var out geometry.MultiPolygon
		for _, polygon := range g {
			if p := c.polygon(polygon); p != nil {
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

func asLines(lines []geometry.LineString) geometry.Geometry {
	switch len(lines) {
	case 0:
		return nil
	case 1:
		return lines[0]
	}
	return geometry.MultiLineString(lines)
}
