package projection

import (
	"math"

	"github.com/pdok/vtiler/geometry"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func checkLonLat(f *geometry.Feature) error {
	var err error
	geometry.EachPoint(f.Geometry, func(p geometry.Point) {
		if err != nil {
			return
		}
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || p.Y < -90 || p.Y > 90 {
			err = geometry.Unsupported(f.Geometry.Type().String(), "vertex (%v, %v) is not a longitude/latitude", p.X, p.Y)
		}
	})
	return err
}

// ToMercator projects a longitude/latitude feature onto the Web Mercator unit square.
func ToMercator(f *geometry.Feature) (*geometry.Feature, error) {
	if f.Geometry == nil {
		return nil, geometry.Unsupported("nil", "feature %v has no geometry", f.ID)
	}
	if err := checkLonLat(f); err != nil {
		return nil, err
	}
	g := geometry.Map(f.Geometry, func(p geometry.Point) geometry.Point {
		p.X, p.Y = LonLatToMercator(p.X, p.Y)
		return p
	})
	return f.WithGeometry(g), nil
}

// ToS2 projects a longitude/latitude feature onto the cube faces, in face ST.
// Points land on their own face and multipoints are grouped per face. Lines
// and polygons are cut along great circles to every face grown by padding
// (in ST) they cross, one feature per face. Edges are great circle arcs;
// edges longer than 45 degrees first get their longitude/latitude midpoints.
func ToS2(f *geometry.Feature, padding float64) ([]*geometry.Feature, error) {
	if f.Geometry == nil {
		return nil, geometry.Unsupported("nil", "feature %v has no geometry", f.ID)
	}
	if err := checkLonLat(f); err != nil {
		return nil, err
	}
	switch g := f.Geometry.(type) {
	case geometry.Point:
		face, p := pointToFaceST(g)
		out := f.WithGeometry(p)
		out.Face = face
		return []*geometry.Feature{out}, nil
	case geometry.MultiPoint:
		perFace := make(map[uint8]geometry.MultiPoint)
		for _, pt := range g {
			face, p := pointToFaceST(pt)
			perFace[face] = append(perFace[face], p)
		}
		out := make([]*geometry.Feature, 0, len(perFace))
		for _, face := range sortedFaces(perFace) {
			o := f.WithGeometry(perFace[face])
			o.Face = face
			out = append(out, o)
		}
		return out, nil
	case geometry.LineString, geometry.MultiLineString, geometry.Polygon, geometry.MultiPolygon:
		var out []*geometry.Feature
		for face := uint8(0); face < 6; face++ {
			clipped := newFaceClipper(face, padding).clip(g)
			if clipped == nil {
				continue
			}
			o := f.WithGeometry(clipped)
			o.Face = face
			out = append(out, o)
		}
		if len(out) == 0 {
			return nil, geometry.Unsupported(g.Type().String(), "feature %v is degenerate on every face", f.ID)
		}
		return out, nil
	default:
		panic("unknown geometry")
	}
}

func pointToFaceST(p geometry.Point) (uint8, geometry.Point) {
	face, s, t := LonLatToFaceST(p.X, p.Y)
	p.X, p.Y = s, t
	return face, p
}

func sortedFaces[V any](m map[uint8]V) []uint8 {
	faces := maps.Keys(m)
	slices.Sort(faces)
	return faces
}
