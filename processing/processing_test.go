package processing

import (
	"fmt"
	"testing"

	"github.com/pdok/vtiler/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFeature struct {
	id   int
	face uint8
	geom geometry.Geometry
	err  error
}

func (f testFeature) ID() any                              { return f.id }
func (f testFeature) Properties() map[string]any           { return map[string]any{"id": f.id} }
func (f testFeature) Face() uint8                          { return f.face }
func (f testFeature) Geometry() (geometry.Geometry, error) { return f.geom, f.err }

type testSource struct {
	features []Feature
	err      error
}

func (s testSource) ReadFeatures(features chan<- Feature) error {
	for _, f := range s.features {
		features <- f
	}
	return s.err
}

func TestCollect(t *testing.T) {
	source := testSource{features: []Feature{
		testFeature{id: 1, geom: geometry.XY(1, 2)},
		testFeature{id: 2, face: 4, geom: geometry.LineString{geometry.XY(0, 0), geometry.XY(1, 1)}},
		testFeature{id: 3},
		testFeature{id: 4, geom: geometry.Polygon{}},
		testFeature{id: 5, err: geometry.Unsupported("GeometryCollection", "can not be tiled")},
		testFeature{id: 6, err: fmt.Errorf("corrupt header")},
	}}

	collection, stats, err := Collect(source, geometry.S2)
	require.NoError(t, err)
	assert.Equal(t, Stats{Read: 6, Kept: 2, Empty: 2, Unsupported: 1, Invalid: 1}, stats)
	assert.Equal(t, uint64(4), stats.Skipped())

	assert.Equal(t, geometry.S2, collection.Shape)
	require.Equal(t, 2, collection.Len())
	assert.Equal(t, 1, collection.Features[0].ID)
	assert.Equal(t, uint8(4), collection.Features[1].Face)
	assert.Equal(t, map[string]any{"id": 2}, collection.Features[1].Properties)
}

func TestCollectSourceError(t *testing.T) {
	source := testSource{
		features: []Feature{testFeature{id: 1, geom: geometry.XY(1, 2)}},
		err:      fmt.Errorf("disk on fire"),
	}
	_, stats, err := Collect(source, geometry.WG)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Equal(t, uint64(1), stats.Read)
}
