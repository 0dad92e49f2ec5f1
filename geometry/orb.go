package geometry

import (
	"github.com/paulmach/orb"
)

// FromOrb converts an orb geometry. Collections and bounds are not supported.
func FromOrb(g orb.Geometry) (Geometry, error) {
	switch g := g.(type) {
	case nil:
		return nil, Unsupported("nil", "no geometry")
	case orb.Point:
		return fromOrbPoint(g), nil
	case orb.MultiPoint:
		return MultiPoint(fromOrbPoints(g)), nil
	case orb.LineString:
		return LineString(fromOrbPoints(g)), nil
	case orb.MultiLineString:
		out := make(MultiLineString, len(g))
		for i, l := range g {
			out[i] = fromOrbPoints(l)
		}
		return out, nil
	case orb.Ring:
		return Polygon{Ring(fromOrbPoints(g)).Close()}, nil
	case orb.Polygon:
		return fromOrbPolygon(g), nil
	case orb.MultiPolygon:
		out := make(MultiPolygon, len(g))
		for i, p := range g {
			out[i] = fromOrbPolygon(p)
		}
		return out, nil
	default:
		return nil, Unsupported(g.GeoJSONType(), "%T can not be tiled", g)
	}
}

func fromOrbPoint(p orb.Point) Point {
	return XY(p[0], p[1])
}

func fromOrbPoints[S ~[]orb.Point](pts S) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = fromOrbPoint(p)
	}
	return out
}

func fromOrbPolygon(p orb.Polygon) Polygon {
	out := make(Polygon, len(p))
	for i, r := range p {
		out[i] = Ring(fromOrbPoints(r)).Close()
	}
	return out
}

// ToOrb converts to an orb geometry, dropping Z and metadata.
func ToOrb(g Geometry) orb.Geometry {
	switch g := g.(type) {
	case nil:
		return nil
	case Point:
		return orb.Point{g.X, g.Y}
	case MultiPoint:
		return orb.MultiPoint(toOrbPoints(g))
	case LineString:
		return orb.LineString(toOrbPoints(g))
	case MultiLineString:
		out := make(orb.MultiLineString, len(g))
		for i, l := range g {
			out[i] = toOrbPoints(l)
		}
		return out
	case Polygon:
		return toOrbPolygon(g)
	case MultiPolygon:
		out := make(orb.MultiPolygon, len(g))
		for i, p := range g {
			out[i] = toOrbPolygon(p)
		}
		return out
	default:
		panic(unknown(g))
	}
}

func toOrbPoints[S ~[]Point](pts S) []orb.Point {
	out := make([]orb.Point, len(pts))
	for i, p := range pts {
		out[i] = orb.Point{p.X, p.Y}
	}
	return out
}

func toOrbPolygon(p Polygon) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		out[i] = toOrbPoints(r)
	}
	return out
}
