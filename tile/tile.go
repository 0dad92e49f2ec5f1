// Package tile holds the per tile record: named layers of features and the
// one-way latch telling whether the features were moved into tile-local
// coordinates yet.
package tile

import (
	"fmt"

	"github.com/pdok/vtiler/geometry"
	"github.com/pdok/vtiler/mapslicehelp"
	"github.com/pdok/vtiler/mathhelp"
	"github.com/pdok/vtiler/simplify"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const DefaultLayer = "default"

type Layer struct {
	Name     string
	Extent   int
	Features []*geometry.Feature
}

type Tile struct {
	ID     uint64
	Face   uint8
	Zoom   int
	I, J   uint32
	Extent int
	// Layers in the order they were first added to.
	Layers *orderedmap.OrderedMap[string, *Layer]

	transformed bool
}

// New makes an empty tile. An extent below 1 is taken as 1.
func New(id uint64, face uint8, zoom int, i, j uint32, extent int) *Tile {
	if extent < 1 {
		extent = 1
	}
	return &Tile{
		ID:     id,
		Face:   face,
		Zoom:   zoom,
		I:      i,
		J:      j,
		Extent: extent,
		Layers: orderedmap.New[string, *Layer](),
	}
}

// AddFeature appends the feature to the named layer, DefaultLayer when
// no name is given. The geometry is neither checked nor transformed.
func (t *Tile) AddFeature(f *geometry.Feature, layerName ...string) {
	name := DefaultLayer
	if len(layerName) > 0 && layerName[0] != "" {
		name = layerName[0]
	}
	layer, ok := t.Layers.Get(name)
	if !ok {
		layer = &Layer{Name: name, Extent: t.Extent}
		t.Layers.Set(name, layer)
	}
	layer.Features = append(layer.Features, f)
}

func (t *Tile) Layer(name string) (*Layer, bool) {
	return t.Layers.Get(name)
}

func (t *Tile) LayerNames() []string {
	return mapslicehelp.OrderedMapKeys(t.Layers)
}

// Features of all layers, layer by layer.
func (t *Tile) Features() []*geometry.Feature {
	var all []*geometry.Feature
	for _, layer := range mapslicehelp.OrderedMapValues(t.Layers) {
		all = append(all, layer.Features...)
	}
	return all
}

func (t *Tile) NumFeatures() int {
	n := 0
	for p := t.Layers.Oldest(); p != nil; p = p.Next() {
		n += len(p.Value.Features)
	}
	return n
}

// IsEmpty is true when no layer holds a feature.
func (t *Tile) IsEmpty() bool {
	return t.NumFeatures() == 0
}

func (t *Tile) Transformed() bool {
	return t.transformed
}

type transformOptions struct {
	bbox bool
}

type TransformOption func(*transformOptions)

// WithBBox attaches the tile-local bounds to every transformed feature.
func WithBBox() TransformOption {
	return func(o *transformOptions) {
		o.bbox = true
	}
}

// Transform moves every feature from unit space into tile-local space,
// x' = (x * 2^zoom - i) * extent. Below maxZoom vertices not needed at
// tolerance / 2^zoom are dropped first, skipped for a tolerance of 0.
// Features left empty are removed. It runs once per tile.
func (t *Tile) Transform(tolerance float64, maxZoom int, opts ...TransformOption) {
	if t.transformed {
		return
	}
	t.transformed = true

	var o transformOptions
	for _, opt := range opts {
		opt(&o)
	}

	z2 := mathhelp.Pow2(t.Zoom)
	zoomTolerance := 0.
	if tolerance > 0 && t.Zoom < maxZoom {
		zoomTolerance = tolerance / z2
	}
	extent := float64(t.Extent)
	i, j := float64(t.I), float64(t.J)
	toLocal := func(p geometry.Point) geometry.Point {
		p.X = (p.X*z2 - i) * extent
		p.Y = (p.Y*z2 - j) * extent
		return p
	}

	for p := t.Layers.Oldest(); p != nil; p = p.Next() {
		layer := p.Value
		kept := make([]*geometry.Feature, 0, len(layer.Features))
		for _, f := range layer.Features {
			g := simplify.FilterGeometry(f.Geometry, zoomTolerance)
			if g == nil || geometry.IsEmpty(g) {
				continue
			}
			out := f.WithGeometry(geometry.Map(g, toLocal))
			if o.bbox {
				b := out.Bounds()
				out.BBox = &b
			}
			kept = append(kept, out)
		}
		layer.Features = kept
	}
}

func (t *Tile) String() string {
	return fmt.Sprintf("tile %d/%d/%d/%d (%d features)", t.Face, t.Zoom, t.I, t.J, t.NumFeatures())
}
