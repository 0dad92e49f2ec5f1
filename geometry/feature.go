package geometry

import (
	"fmt"
	"strings"

	"github.com/pdok/vtiler/geomhelp"
)

const wktDebugLength = 120

// Feature is a geometry with its properties. Face selects the root tile an S2
// feature starts in and is always 0 for Web Mercator.
type Feature struct {
	ID         any
	Geometry   Geometry
	Properties map[string]any
	Face       uint8
	// BBox is only filled in on output features when asked for.
	BBox *BBox

	bounds    *BBox
	numPoints *int
}

func NewFeature(id any, g Geometry, properties map[string]any) *Feature {
	return &Feature{ID: id, Geometry: g, Properties: properties}
}

// WithGeometry copies the feature with another geometry. Properties are shared, not copied.
func (f *Feature) WithGeometry(g Geometry) *Feature {
	return &Feature{
		ID:         f.ID,
		Geometry:   g,
		Properties: f.Properties,
		Face:       f.Face,
	}
}

// Bounds of the geometry, computed once.
func (f *Feature) Bounds() BBox {
	if f.bounds == nil {
		b := Bounds(f.Geometry)
		f.bounds = &b
	}
	return *f.bounds
}

// NumPoints of the geometry, computed once.
func (f *Feature) NumPoints() int {
	if f.numPoints == nil {
		n := NumPoints(f.Geometry)
		f.numPoints = &n
	}
	return *f.numPoints
}

func (f *Feature) IsEmpty() bool {
	return f == nil || IsEmpty(f.Geometry)
}

func (f *Feature) String() string {
	var sb strings.Builder
	if f.ID != nil {
		sb.WriteString(fmt.Sprintf("%v ", f.ID))
	}
	sb.WriteString(fmt.Sprintf("face %d ", f.Face))
	if f.Geometry == nil {
		sb.WriteString(geomhelp.WktMustEncode(nil, wktDebugLength))
	} else {
		sb.WriteString(geomhelp.WktMustEncode(ToGeom(f.Geometry), wktDebugLength))
	}
	return sb.String()
}

// Shape tells how the coordinates of an input collection are to be read.
type Shape string

const (
	// WG is longitude/latitude in degrees.
	WG Shape = "WG"
	// S2 is pre projected face ST in [0,1], with an explicit face per feature.
	S2 Shape = "S2"
)

func ParseShape(s string) (Shape, error) {
	switch Shape(strings.ToUpper(s)) {
	case WG:
		return WG, nil
	case S2:
		return S2, nil
	}
	return "", fmt.Errorf("unknown shape %q, expected WG or S2", s)
}

type Collection struct {
	Shape    Shape
	Features []*Feature
}

func (c *Collection) Add(f *Feature) {
	c.Features = append(c.Features, f)
}

func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Features)
}
