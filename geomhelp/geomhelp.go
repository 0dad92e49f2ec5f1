package geomhelp

import (
	"math"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/wkt"
	"github.com/muesli/reflow/truncate"
)

// XYer is anything with a planar position.
type XYer interface {
	XY() (x, y float64)
}

// SignedArea is the shoelace area of a ring, positive when the ring winds clockwise
// in a y-down space (counter-clockwise in y-up).
// https://en.wikipedia.org/wiki/Shoelace_formula
func SignedArea[P XYer](pts []P) float64 {
	sum := 0.
	if len(pts) == 0 {
		return 0.
	}

	x0, y0 := pts[len(pts)-1].XY()
	for _, p1 := range pts {
		x1, y1 := p1.XY()
		sum += (x0 - x1) * (y1 + y0)
		x0, y0 = x1, y1
	}
	return sum / 2
}

// Shoelace is the absolute area of a ring. A closing point is optional.
func Shoelace[P XYer](pts []P) float64 {
	return math.Abs(SignedArea(pts))
}

// WktMustEncode renders a geometry as WKT for logs and test messages,
// cut off at maxLen runes (0 means no limit).
func WktMustEncode(g geom.Geometry, maxLen uint) string {
	if g == nil {
		return "EMPTY"
	}
	s := wkt.MustEncode(g)
	if maxLen == 0 {
		return s
	}
	return truncate.StringWithTail(s, maxLen, "...")
}
