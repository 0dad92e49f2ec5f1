package projection

import (
	"math"

	"github.com/pdok/vtiler/mathhelp"
)

// DefaultTileSize in pixels.
const DefaultTileSize = 256

// LonLatToMercator projects onto the unit square, x to the east and y to the
// south. Latitudes beyond the Mercator limit end up on the edge.
func LonLatToMercator(lon, lat float64) (x, y float64) {
	x = lon/360 + 0.5
	sin := math.Sin(lat * degToRad)
	y = 0.5 - 0.25*math.Log((1+sin)/(1-sin))/math.Pi
	return x, mathhelp.Clamp(y, 0, 1)
}

func MercatorToLonLat(x, y float64) (lon, lat float64) {
	lon = (x - 0.5) * 360
	y2 := 180 - y*360
	lat = 360/math.Pi*math.Atan(math.Exp(y2*degToRad)) - 90
	return lon, lat
}

func LonLatToPixel(lon, lat float64, zoom int, tileSize int) (px, py float64) {
	x, y := LonLatToMercator(lon, lat)
	scale := float64(tileSize) * mathhelp.Pow2(zoom)
	return x * scale, y * scale
}

func PixelToLonLat(px, py float64, zoom int, tileSize int) (lon, lat float64) {
	scale := float64(tileSize) * mathhelp.Pow2(zoom)
	return MercatorToLonLat(px/scale, py/scale)
}

// PixelToTile is the tile column and row containing the pixel.
func PixelToTile(px, py float64, tileSize int) (x, y int) {
	return int(math.Floor(px / float64(tileSize))), int(math.Floor(py / float64(tileSize)))
}

// LonLatToTile is the tile containing the position, clamped to the world.
func LonLatToTile(lon, lat float64, zoom int) (x, y uint32) {
	px, py := LonLatToPixel(lon, lat, zoom, DefaultTileSize)
	tx, ty := PixelToTile(px, py, DefaultTileSize)
	last := 1<<zoom - 1
	return uint32(mathhelp.Clamp(tx, 0, last)), uint32(mathhelp.Clamp(ty, 0, last))
}
