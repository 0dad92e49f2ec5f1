package mercid

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacking(t *testing.T) {
	assert.Equal(t, ID(0), FromFace(0))
	assert.Equal(t, ID(1), FromIJ(0, 0, 0, 1))
	assert.Equal(t, ID((2*1+1)*32+1), FromIJ(0, 1, 1, 1))
	assert.Equal(t, ID((8*5+3)*32+3), FromIJ(0, 3, 5, 3))
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for zoom := 0; zoom <= MaxZoom; zoom++ {
		for n := 0; n < 5; n++ {
			i := uint32(r.Int63n(1 << zoom))
			j := uint32(r.Int63n(1 << zoom))
			id := FromIJ(0, i, j, zoom)
			require.True(t, id.IsValid())
			face, z, gi, gj := id.ToFaceIJ()
			assert.Equal(t, uint8(0), face)
			assert.Equal(t, zoom, z)
			assert.Equal(t, i, gi)
			assert.Equal(t, j, gj)
			assert.Equal(t, zoom, id.Level())
		}
	}
}

func TestMatchesMaptile(t *testing.T) {
	tiles := []maptile.Tile{
		maptile.New(0, 0, 0),
		maptile.New(1, 0, 1),
		maptile.New(3, 5, 3),
		maptile.New(8414, 5384, 14),
		maptile.New(1<<20-1, 1<<19, 20),
	}
	for _, tl := range tiles {
		t.Run(fmt.Sprintf("%d/%d/%d", tl.Z, tl.X, tl.Y), func(t *testing.T) {
			id := FromIJ(0, tl.X, tl.Y, int(tl.Z))
			if tl.Z > 0 {
				p := tl.Parent()
				assert.Equal(t, FromIJ(0, p.X, p.Y, int(p.Z)), id.Parent())
			}
			var want []ID
			for _, c := range tl.Children() {
				want = append(want, FromIJ(0, c.X, c.Y, int(c.Z)))
			}
			assert.ElementsMatch(t, want, id.Children())
		})
	}
}

func TestFromLonLat(t *testing.T) {
	for _, ll := range []orb.Point{{0, 0}, {5.3, 52.1}, {-123.1, 49.3}, {151.2, -33.9}} {
		for _, zoom := range []int{0, 3, 11, 18} {
			want := maptile.At(ll, maptile.Zoom(zoom))
			assert.Equal(t, FromIJ(0, want.X, want.Y, zoom), FromLonLat(ll[0], ll[1], zoom))
		}
	}
}

func TestContains(t *testing.T) {
	parent := FromIJ(0, 3, 5, 3)
	for _, c := range parent.Children() {
		assert.True(t, parent.Contains(c))
		assert.False(t, c.Contains(parent))
		assert.Equal(t, parent, c.Parent())
		for _, o := range parent.Children() {
			if o != c {
				assert.False(t, c.Contains(o))
			}
		}
	}
	assert.True(t, parent.Contains(parent))
	assert.True(t, FromFace(0).Contains(FromIJ(0, 1000, 20, 12)))
	assert.True(t, parent.Contains(FromIJ(0, 3<<10+7, 5<<10, 13)))
	assert.False(t, parent.Contains(FromIJ(0, 4<<10, 5<<10, 13)))
	assert.Equal(t, FromIJ(0, 0, 1, 1), FromIJ(0, 3, 5, 3).ParentAt(1))
	assert.Equal(t, FromFace(0), FromFace(0).Parent())
}

func TestIsValid(t *testing.T) {
	assert.True(t, FromFace(0).IsValid())
	assert.True(t, FromIJ(0, 1<<MaxZoom-1, 1<<MaxZoom-1, MaxZoom).IsValid())
	assert.False(t, ID(30).IsValid())
	assert.False(t, ID(4*32+1).IsValid())
}

func TestQuadkey(t *testing.T) {
	id := FromIJ(0, 3, 5, 3)
	assert.Equal(t, "213", id.Quadkey())
	back, err := FromQuadkey("213")
	require.NoError(t, err)
	assert.Equal(t, id, back)
	assert.Equal(t, "", FromFace(0).Quadkey())
	root, err := FromQuadkey("")
	require.NoError(t, err)
	assert.Equal(t, FromFace(0), root)
	_, err = FromQuadkey("124")
	assert.Error(t, err)
}

func TestCoord(t *testing.T) {
	c := Coord{Zoom: 2, X: -1, Y: 1}
	assert.Equal(t, -1, c.Wrap())
	assert.Equal(t, Coord{Zoom: 2, X: 3, Y: 1}, c.Unwrapped())
	assert.Equal(t, FromIJ(0, 3, 1, 2), c.ID())
	assert.True(t, c.IsValid())
	assert.Equal(t, "2/-1/1", c.String())

	far := Coord{Zoom: 2, X: 9, Y: 0}
	assert.Equal(t, 2, far.Wrap())
	assert.Equal(t, FromIJ(0, 1, 0, 2), far.ID())
	assert.False(t, Coord{Zoom: 2, X: 0, Y: 4}.IsValid())
	assert.False(t, Coord{Zoom: 30}.IsValid())
	assert.Equal(t, FromIJ(0, 3, 1, 2).Coord(), Coord{Zoom: 2, X: 3, Y: 1})
}

func TestNeighbors(t *testing.T) {
	assert.Empty(t, FromFace(0).Neighbors())
	assert.ElementsMatch(t, []ID{FromIJ(0, 1, 0, 1), FromIJ(0, 0, 1, 1)}, FromIJ(0, 0, 0, 1).Neighbors())
	assert.ElementsMatch(t, []ID{
		FromIJ(0, 3, 1, 2),
		FromIJ(0, 1, 1, 2),
		FromIJ(0, 0, 0, 2),
		FromIJ(0, 0, 2, 2),
	}, FromIJ(0, 0, 1, 2).Neighbors())
	assert.Len(t, Coord{Zoom: 2, X: 0, Y: 0}.Neighbors(), 3)
}
