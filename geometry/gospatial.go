package geometry

import (
	"fmt"

	"github.com/go-spatial/geom"
)

// FromGeom converts a go-spatial geometry. Rings are closed on the way in.
func FromGeom(g geom.Geometry) (Geometry, error) {
	switch g := g.(type) {
	case nil:
		return nil, Unsupported("nil", "no geometry")
	case geom.Point:
		return XY(g[0], g[1]), nil
	case *geom.Point:
		return FromGeom(*g)
	case geom.MultiPoint:
		return MultiPoint(fromGeomPoints(g)), nil
	case *geom.MultiPoint:
		return FromGeom(*g)
	case geom.LineString:
		return LineString(fromGeomPoints(g)), nil
	case *geom.LineString:
		return FromGeom(*g)
	case geom.MultiLineString:
		out := make(MultiLineString, len(g))
		for i, l := range g {
			out[i] = fromGeomPoints(l)
		}
		return out, nil
	case *geom.MultiLineString:
		return FromGeom(*g)
	case geom.Polygon:
		return fromGeomPolygon(g), nil
	case *geom.Polygon:
		return FromGeom(*g)
	case geom.MultiPolygon:
		out := make(MultiPolygon, len(g))
		for i, p := range g {
			out[i] = fromGeomPolygon(p)
		}
		return out, nil
	case *geom.MultiPolygon:
		return FromGeom(*g)
	case geom.Collection, *geom.Collection:
		return nil, Unsupported("GeometryCollection", "collections can not be tiled")
	default:
		return nil, Unsupported(fmt.Sprintf("%T", g), "unknown go-spatial geometry")
	}
}

func fromGeomPoints(pts [][2]float64) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = XY(p[0], p[1])
	}
	return out
}

func fromGeomPolygon(p [][][2]float64) Polygon {
	out := make(Polygon, len(p))
	for i, r := range p {
		out[i] = Ring(fromGeomPoints(r)).Close()
	}
	return out
}

// ToGeom converts to a go-spatial geometry. go-spatial rings are implicitly
// closed so the closing point is left off.
func ToGeom(g Geometry) geom.Geometry {
	switch g := g.(type) {
	case nil:
		return nil
	case Point:
		return geom.Point{g.X, g.Y}
	case MultiPoint:
		return geom.MultiPoint(toGeomPoints(g))
	case LineString:
		return geom.LineString(toGeomPoints(g))
	case MultiLineString:
		out := make(geom.MultiLineString, len(g))
		for i, l := range g {
			out[i] = toGeomPoints(l)
		}
		return out
	case Polygon:
		return toGeomPolygon(g)
	case MultiPolygon:
		out := make(geom.MultiPolygon, len(g))
		for i, p := range g {
			out[i] = toGeomPolygon(p)
		}
		return out
	default:
		panic(unknown(g))
	}
}

func toGeomPoints[S ~[]Point](pts S) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func toGeomPolygon(p Polygon) geom.Polygon {
	out := make(geom.Polygon, len(p))
	for i, r := range p {
		if r.IsClosed() && len(r) > 1 {
			r = r[:len(r)-1]
		}
		out[i] = toGeomPoints(r)
	}
	return out
}
