package geometry

import (
	"math"

	"github.com/go-spatial/geom"
)

// BBox is an axis aligned bounding box. The zero value is a box around the origin,
// use EmptyBBox to start collecting points.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

func EmptyBBox() BBox {
	return BBox{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

// IsEmpty is true for a box that has not seen a point.
func (b BBox) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

func (b *BBox) Extend(p Point) {
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
}

func (b BBox) Union(o BBox) BBox {
	return BBox{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// Min is the lower bound along the axis.
func (b BBox) Min(axis Axis) float64 {
	if axis == X {
		return b.MinX
	}
	return b.MinY
}

// Max is the upper bound along the axis.
func (b BBox) Max(axis Axis) float64 {
	if axis == X {
		return b.MaxX
	}
	return b.MaxY
}

// Covers reports whether o lies within b, edges included.
func (b BBox) Covers(o BBox) bool {
	return b.MinX <= o.MinX && b.MinY <= o.MinY && o.MaxX <= b.MaxX && o.MaxY <= b.MaxY
}

func (b BBox) ToExtent() geom.Extent {
	return geom.Extent{b.MinX, b.MinY, b.MaxX, b.MaxY}
}

// Bounds collects the bounding box of all vertices.
func Bounds(g Geometry) BBox {
	b := EmptyBBox()
	EachPoint(g, b.Extend)
	return b
}
