package tilecache

import (
	"encoding/json"
	"testing"

	"github.com/pdok/vtiler/geometry"
	"github.com/pdok/vtiler/mercid"
	"github.com/pdok/vtiler/tile"
	"github.com/pdok/vtiler/tilestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGetter struct {
	store *tilestore.Store
	calls int
}

func (g *countingGetter) GetTile(id uint64) (*tile.Tile, bool) {
	g.calls++
	return g.store.GetTile(id)
}

func newGetter(t *testing.T) *countingGetter {
	t.Helper()
	options := tilestore.DefaultOptions()
	options.MaxZoom = 2
	data := &geometry.Collection{Shape: geometry.WG}
	data.Add(geometry.NewFeature(1, geometry.XY(0, 0), map[string]any{"name": "origin"}))
	store, err := tilestore.New(data, options)
	require.NoError(t, err)
	return &countingGetter{store: store}
}

func TestGet(t *testing.T) {
	getter := newGetter(t)
	c := New(getter, 2)

	root := uint64(mercid.FromFace(0))
	b, ok, err := c.Get(root)
	require.NoError(t, err)
	require.True(t, ok)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.EqualValues(t, 0, decoded["zoom"])
	assert.Contains(t, decoded["layers"], tilestore.DefaultOptions().Layer)

	again, ok, err := c.Get(root)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, b, again)
	assert.Equal(t, 1, getter.calls)
	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())
}

func TestAbsentIsNotCached(t *testing.T) {
	getter := newGetter(t)
	c := New(getter, 2)

	deep := uint64(mercid.FromIJ(0, 0, 0, 5))
	for range [2]struct{}{} {
		b, ok, err := c.Get(deep)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, b)
	}
	assert.Equal(t, 2, getter.calls)
	assert.Equal(t, 0, c.Len())
}

func TestEvictions(t *testing.T) {
	getter := newGetter(t)
	c := New(getter, 2)

	ids := []uint64{
		uint64(mercid.FromIJ(0, 0, 0, 1)),
		uint64(mercid.FromIJ(0, 1, 0, 1)),
		uint64(mercid.FromIJ(0, 0, 1, 1)),
		uint64(mercid.FromIJ(0, 1, 1, 1)),
	}
	for _, id := range ids {
		_, ok, err := c.Get(id)
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, Stats{Misses: 4, Evictions: 2}, c.Stats())

	_, _, err := c.Get(ids[0])
	require.NoError(t, err)
	assert.Equal(t, uint64(5), c.Stats().Misses)
	_, _, err = c.Get(ids[3])
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.Stats().Hits)
}
