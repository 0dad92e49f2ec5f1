package tile

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pdok/vtiler/geometry"
	"github.com/pdok/vtiler/simplify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFeature(t *testing.T) {
	tl := New(5, 0, 1, 1, 1, 0)
	assert.Equal(t, 1, tl.Extent)
	assert.True(t, tl.IsEmpty())

	tl.AddFeature(geometry.NewFeature(1, geometry.XY(0.6, 0.6), nil))
	tl.AddFeature(geometry.NewFeature(2, geometry.XY(0.7, 0.7), nil), "roads")
	tl.AddFeature(geometry.NewFeature(3, geometry.XY(0.8, 0.8), nil))
	tl.AddFeature(geometry.NewFeature(4, geometry.XY(0.9, 0.9), nil), "")

	assert.False(t, tl.IsEmpty())
	assert.Equal(t, []string{DefaultLayer, "roads"}, tl.LayerNames())
	assert.Equal(t, 4, tl.NumFeatures())
	def, ok := tl.Layer(DefaultLayer)
	require.True(t, ok)
	assert.Len(t, def.Features, 3)
	assert.Equal(t, 1, def.Extent)
	_, ok = tl.Layer("water")
	assert.False(t, ok)

	ids := []any{}
	for _, f := range tl.Features() {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []any{1, 3, 4, 2}, ids)
}

func TestTransformPoint(t *testing.T) {
	source := geometry.NewFeature(1, geometry.XY(0.5, 0.5), nil)
	root := New(0, 0, 0, 0, 0, 1)
	root.AddFeature(source)
	root.Transform(0, 1)
	assert.Equal(t, geometry.XY(0.5, 0.5), root.Features()[0].Geometry)

	child := New(1, 0, 1, 1, 1, 1)
	child.AddFeature(source)
	child.Transform(0, 1)
	assert.Equal(t, geometry.XY(0, 0), child.Features()[0].Geometry)

	other := New(2, 0, 1, 0, 0, 1)
	other.AddFeature(source)
	other.Transform(0, 1)
	assert.Equal(t, geometry.XY(1, 1), other.Features()[0].Geometry)

	assert.Equal(t, geometry.XY(0.5, 0.5), source.Geometry, "source is not changed")
}

func TestTransformLatch(t *testing.T) {
	tl := New(1, 0, 1, 1, 0, 4096)
	tl.AddFeature(geometry.NewFeature(1, geometry.XY(0.75, 0.25), nil))
	assert.False(t, tl.Transformed())
	tl.Transform(0, 16)
	assert.True(t, tl.Transformed())
	assert.Equal(t, geometry.XY(2048, 2048), tl.Features()[0].Geometry)
	tl.Transform(0, 16)
	assert.Equal(t, geometry.XY(2048, 2048), tl.Features()[0].Geometry)
}

func TestTransformSimplifies(t *testing.T) {
	line := simplify.AnnotateGeometry(geometry.LineString{
		geometry.XY(0, 0), geometry.XY(0.25, 0.001), geometry.XY(0.5, 0),
	}, 0)
	short := simplify.AnnotateGeometry(geometry.LineString{geometry.XY(0.1, 0.1), geometry.XY(0.1001, 0.1)}, 0)

	tl := New(0, 0, 0, 0, 0, 1)
	tl.AddFeature(geometry.NewFeature(1, line, nil))
	tl.AddFeature(geometry.NewFeature(2, short, nil))
	tl.Transform(0.01, 4)
	features := tl.Features()
	require.Len(t, features, 1, "short line is dropped")
	assert.Len(t, features[0].Geometry, 2)

	atMax := New(0, 0, 0, 0, 0, 1)
	atMax.AddFeature(geometry.NewFeature(1, line, nil))
	atMax.AddFeature(geometry.NewFeature(2, short, nil))
	atMax.Transform(0.01, 0)
	require.Len(t, atMax.Features(), 2, "nothing is simplified at the max zoom")
	assert.Len(t, atMax.Features()[0].Geometry, 3)
}

func TestTransformBBox(t *testing.T) {
	tl := New(0, 0, 1, 0, 0, 1)
	tl.AddFeature(geometry.NewFeature(1, geometry.LineString{geometry.XY(0.1, 0.1), geometry.XY(0.2, 0.4)}, nil))
	tl.Transform(0, 1, WithBBox())
	f := tl.Features()[0]
	require.NotNil(t, f.BBox)
	assert.InDelta(t, 0.2, f.BBox.MinX, 1e-12)
	assert.InDelta(t, 0.8, f.BBox.MaxY, 1e-12)
}

func TestMarshalJSON(t *testing.T) {
	tl := New(33, 0, 1, 1, 0, 1)
	tl.AddFeature(geometry.NewFeature("a", geometry.XY(0.75, 0.25), map[string]any{"name": "x"}), "places")
	tl.AddFeature(geometry.NewFeature("b", geometry.LineString{geometry.XY(0.5, 0), geometry.XY(1, 0.5)}, nil), "roads")
	tl.Transform(0, 1)

	b, err := json.Marshal(tl)
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(b), `"places"`), strings.Index(string(b), `"roads"`))

	var decoded struct {
		ID     uint64 `json:"id"`
		Face   int    `json:"face"`
		Zoom   int    `json:"zoom"`
		I      int    `json:"i"`
		J      int    `json:"j"`
		Extent int    `json:"extent"`
		Layers map[string]struct {
			Name     string `json:"name"`
			Extent   int    `json:"extent"`
			Features struct {
				Type     string `json:"type"`
				Features []struct {
					ID         string         `json:"id"`
					Properties map[string]any `json:"properties"`
					Geometry   struct {
						Type        string          `json:"type"`
						Coordinates json.RawMessage `json:"coordinates"`
					} `json:"geometry"`
				} `json:"features"`
			} `json:"features"`
		} `json:"layers"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, uint64(33), decoded.ID)
	assert.Equal(t, 1, decoded.Zoom)
	assert.Equal(t, 1, decoded.I)
	require.Len(t, decoded.Layers, 2)
	places := decoded.Layers["places"]
	assert.Equal(t, "places", places.Name)
	assert.Equal(t, "FeatureCollection", places.Features.Type)
	require.Len(t, places.Features.Features, 1)
	assert.Equal(t, "a", places.Features.Features[0].ID)
	assert.Equal(t, "x", places.Features.Features[0].Properties["name"])
	assert.Equal(t, "Point", places.Features.Features[0].Geometry.Type)
	assert.JSONEq(t, `[0.5,0.5]`, string(places.Features.Features[0].Geometry.Coordinates))
	assert.Equal(t, "LineString", decoded.Layers["roads"].Features.Features[0].Geometry.Type)
}
