package projection

import (
	"fmt"
	"math"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/pdok/vtiler/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lonLats = [][2]float64{
	{0, 0},
	{90, 0},
	{0, 89},
	{-179.9, 12},
	{-90, -45},
	{5.3, 52.1},
	{-123.1, 49.3},
	{151.2, -33.9},
	{45, 35.26},
	{0, -89.5},
}

func TestLonLatToXYZMatchesS2(t *testing.T) {
	for _, ll := range lonLats {
		t.Run(fmt.Sprintf("%v", ll), func(t *testing.T) {
			want := s2.PointFromLatLng(s2.LatLngFromDegrees(ll[1], ll[0]))
			got := LonLatToXYZ(ll[0], ll[1])
			assert.InDelta(t, want.X, got[0], 1e-15)
			assert.InDelta(t, want.Y, got[1], 1e-15)
			assert.InDelta(t, want.Z, got[2], 1e-15)
			assert.Equal(t, uint8(s2.CellIDFromLatLng(s2.LatLngFromDegrees(ll[1], ll[0])).Face()), XYZToFace(got))

			lon, lat := XYZToLonLat(got)
			assert.InDelta(t, ll[0], lon, 1e-9)
			assert.InDelta(t, ll[1], lat, 1e-9)
		})
	}
}

func TestFaceSTRoundTrip(t *testing.T) {
	for _, ll := range lonLats {
		face, s, tt := LonLatToFaceST(ll[0], ll[1])
		assert.True(t, s >= 0 && s <= 1, "s %v", s)
		assert.True(t, tt >= 0 && tt <= 1, "t %v", tt)
		lon, lat := FaceSTToLonLat(face, s, tt)
		assert.InDelta(t, ll[0], lon, 1e-9)
		assert.InDelta(t, ll[1], lat, 1e-9)
	}
}

func TestFaceUVToXYZ(t *testing.T) {
	for face := uint8(0); face < 6; face++ {
		centre := FaceUVToXYZ(face, 0, 0)
		assert.Equal(t, FaceNormal(face), centre)
		assert.Equal(t, face, XYZToFace(centre))

		p := FaceUVToXYZ(face, 0.3, -0.7)
		f, u, v := XYZToFaceUV(p)
		assert.Equal(t, face, f)
		assert.InDelta(t, 0.3, u, 1e-15)
		assert.InDelta(t, -0.7, v, 1e-15)

		_, _, ok := FaceXYZToUV(face, XYZ{-centre[0], -centre[1], -centre[2]})
		assert.False(t, ok)
	}
}

func TestMappings(t *testing.T) {
	for _, m := range []Mapping{Quadratic, Linear, Tangent} {
		t.Run(m.String(), func(t *testing.T) {
			assert.InDelta(t, 0.0, m.UVToST(-1), 1e-15)
			assert.InDelta(t, 0.5, m.UVToST(0), 1e-15)
			assert.InDelta(t, 1.0, m.UVToST(1), 1e-15)
			for _, u := range []float64{-0.9, -0.3, 0.1, 0.75} {
				assert.InDelta(t, u, m.STToUV(m.UVToST(u)), 1e-14)
			}
		})
	}
}

func TestIJ(t *testing.T) {
	assert.Equal(t, uint32(0), STToIJ(-0.1))
	assert.Equal(t, uint32(MaxSize-1), STToIJ(1))
	assert.Equal(t, uint32(MaxSize/2), STToIJ(0.5))
	assert.Equal(t, 0.5, IJToST(MaxSize/2))
	assert.Equal(t, 0.5/MaxSize, IJCenterToST(0))
}

func TestMercator(t *testing.T) {
	x, y := LonLatToMercator(0, 0)
	assert.Equal(t, 0.5, x)
	assert.Equal(t, 0.5, y)

	x, y = LonLatToMercator(-180, 90)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
	_, y = LonLatToMercator(0, -90)
	assert.Equal(t, 1.0, y)

	lon, lat := MercatorToLonLat(LonLatToMercator(5.3, 52.1))
	assert.InDelta(t, 5.3, lon, 1e-9)
	assert.InDelta(t, 52.1, lat, 1e-9)
}

func TestMercatorMatchesMaptile(t *testing.T) {
	for _, ll := range lonLats {
		if math.Abs(ll[1]) > 85 {
			continue
		}
		for _, zoom := range []int{0, 1, 7, 14, 20} {
			t.Run(fmt.Sprintf("%v z%d", ll, zoom), func(t *testing.T) {
				want := maptile.At(orb.Point{ll[0], ll[1]}, maptile.Zoom(zoom))
				x, y := LonLatToTile(ll[0], ll[1], zoom)
				assert.Equal(t, want.X, x)
				assert.Equal(t, want.Y, y)

				fraction := maptile.Fraction(orb.Point{ll[0], ll[1]}, maptile.Zoom(zoom))
				px, py := LonLatToPixel(ll[0], ll[1], zoom, DefaultTileSize)
				assert.InDelta(t, fraction[0], px/DefaultTileSize, 1e-6)
				assert.InDelta(t, fraction[1], py/DefaultTileSize, 1e-6)
			})
		}
	}
}

func TestPixels(t *testing.T) {
	px, py := LonLatToPixel(0, 0, 1, 512)
	assert.Equal(t, 512.0, px)
	assert.Equal(t, 512.0, py)
	x, y := PixelToTile(px, py, 512)
	assert.Equal(t, 1, x)
	assert.Equal(t, 1, y)
	lon, lat := PixelToLonLat(px, py, 1, 512)
	assert.InDelta(t, 0, lon, 1e-12)
	assert.InDelta(t, 0, lat, 1e-12)
}

func TestToMercator(t *testing.T) {
	f := geometry.NewFeature(1, geometry.LineString{geometry.XY(-180, 0), geometry.XY(0, 0)}, map[string]any{"a": 1})
	out, err := ToMercator(f)
	require.NoError(t, err)
	assert.Equal(t, geometry.LineString{geometry.XY(0, 0.5), geometry.XY(0.5, 0.5)}, out.Geometry)
	assert.Equal(t, -180.0, f.Geometry.(geometry.LineString)[0].X)

	_, err = ToMercator(geometry.NewFeature(2, geometry.XY(0, 91), nil))
	assert.ErrorIs(t, err, geometry.ErrUnsupported)
	_, err = ToMercator(geometry.NewFeature(3, nil, nil))
	assert.ErrorIs(t, err, geometry.ErrUnsupported)
}

func TestToS2(t *testing.T) {
	t.Run("point", func(t *testing.T) {
		out, err := ToS2(geometry.NewFeature(1, geometry.XY(90, 0), nil), 0)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, uint8(1), out[0].Face)
		p := out[0].Geometry.(geometry.Point)
		assert.InDelta(t, 0.5, p.X, 1e-12)
		assert.InDelta(t, 0.5, p.Y, 1e-12)
	})
	t.Run("multipoint per face", func(t *testing.T) {
		out, err := ToS2(geometry.NewFeature(1, geometry.MultiPoint{geometry.XY(0, 0), geometry.XY(90, 0), geometry.XY(1, 1)}, nil), 0)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, uint8(0), out[0].Face)
		assert.Len(t, out[0].Geometry, 2)
		assert.Equal(t, uint8(1), out[1].Face)
	})
	t.Run("line over a face edge", func(t *testing.T) {
		padding := 0.0625
		out, err := ToS2(geometry.NewFeature(1, geometry.LineString{geometry.XY(40, 0), geometry.XY(50, 0)}, nil), padding)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, uint8(0), out[0].Face)
		assert.Equal(t, uint8(1), out[1].Face)
		line := out[0].Geometry.(geometry.LineString)
		require.Len(t, line, 2)
		assert.Less(t, line[0].X, 1.0)
		assert.InDelta(t, 1+padding, line[1].X, 1e-9)
		assert.InDelta(t, 0.5, line[1].Y, 1e-9)
	})
	t.Run("half way around the equator", func(t *testing.T) {
		out, err := ToS2(geometry.NewFeature(1, geometry.LineString{geometry.XY(0, 0), geometry.XY(180, 0)}, nil), 0)
		require.NoError(t, err)
		var faces []uint8
		for _, f := range out {
			faces = append(faces, f.Face)
			geometry.EachPoint(f.Geometry, func(p geometry.Point) {
				assert.InDelta(t, 0.5, p.Y, 1e-9)
				assert.True(t, p.X >= -1e-9 && p.X <= 1+1e-9, "s %v off face %d", p.X, f.Face)
			})
		}
		assert.Equal(t, []uint8{0, 1, 3}, faces)
	})
	t.Run("polygon covering a face", func(t *testing.T) {
		square := geometry.Ring{
			geometry.XY(-60, -60), geometry.XY(60, -60), geometry.XY(60, 60), geometry.XY(-60, 60), geometry.XY(-60, -60),
		}
		out, err := ToS2(geometry.NewFeature(1, geometry.Polygon{square}, nil), 0)
		require.NoError(t, err)
		var faces []uint8
		for _, f := range out {
			faces = append(faces, f.Face)
		}
		assert.Equal(t, []uint8{0, 1, 2, 4, 5}, faces)
		p := out[0].Geometry.(geometry.Polygon)
		require.Len(t, p, 1)
		assert.True(t, p[0].IsClosed())
		assert.InDelta(t, 1, p[0].Area(), 1e-9)
	})
	t.Run("degenerate ring", func(t *testing.T) {
		ring := geometry.Ring{geometry.XY(1, 1), geometry.XY(2, 2), geometry.XY(1, 1)}
		_, err := ToS2(geometry.NewFeature(1, geometry.Polygon{ring}, nil), 0)
		assert.ErrorIs(t, err, geometry.ErrUnsupported)
	})
}

func TestPaddedFace(t *testing.T) {
	for face := uint8(0); face < 6; face++ {
		planes := paddedFace(face, 1.5)
		for _, uv := range [][2]float64{{0, 0}, {1.4, -1.4}, {-1.5, 1.5}, {1.6, 0}, {0, -1.6}, {3, 3}} {
			p := FaceUVToXYZ(face, uv[0], uv[1])
			inside := true
			for _, plane := range planes {
				if p.Dot(plane) < 0 {
					inside = false
				}
			}
			want := math.Abs(uv[0]) <= 1.5 && math.Abs(uv[1]) <= 1.5
			assert.Equal(t, want, inside, "face %d uv %v", face, uv)
			if want {
				st := toFaceST(face, vertex{xyz: p.Normalize()})
				assert.InDelta(t, UVToST(uv[0]), st.X, 1e-12)
				assert.InDelta(t, UVToST(uv[1]), st.Y, 1e-12)
			}
		}
	}
}
