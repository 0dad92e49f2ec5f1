// Package mercid packs Web Mercator quad-tree tiles into one integer:
//
//	((2^zoom * y + x) * 32) + zoom
//
// The single flat root is face 0. Tiles outside the world horizontally are
// addressed with Coord, which keeps the unwrapped column.
package mercid

import (
	"fmt"
	"strings"

	"github.com/pdok/vtiler/mathhelp"
	"github.com/pdok/vtiler/morton"
	"github.com/pdok/vtiler/projection"
)

type ID uint64

const (
	// MaxZoom is the deepest zoom that still packs into 64 bits.
	MaxZoom = 29

	zoomFactor = 32
)

// FromFace is the root tile. Web Mercator only knows face 0.
func FromFace(_ uint8) ID {
	return 0
}

// FromIJ packs column i and row j at zoom. The face is ignored.
func FromIJ(_ uint8, i, j uint32, zoom int) ID {
	return ID((uint64(1)<<uint(zoom)*uint64(j)+uint64(i))*zoomFactor + uint64(zoom))
}

// FromLonLat is the tile containing the position.
func FromLonLat(lon, lat float64, zoom int) ID {
	i, j := projection.LonLatToTile(lon, lat, zoom)
	return FromIJ(0, i, j, zoom)
}

// ChildrenIJ lists the four children of column i, row j at zoom.
func ChildrenIJ(_ uint8, zoom int, i, j uint32) [4]ID {
	i, j = i<<1, j<<1
	zoom++
	return [4]ID{
		FromIJ(0, i, j, zoom),
		FromIJ(0, i+1, j, zoom),
		FromIJ(0, i, j+1, zoom),
		FromIJ(0, i+1, j+1, zoom),
	}
}

func (id ID) Face() uint8 { return 0 }

func (id ID) Level() int {
	return int(uint64(id) % zoomFactor)
}

// ToFaceIJ unpacks the tile. The face is always 0.
func (id ID) ToFaceIJ() (face uint8, zoom int, i, j uint32) {
	zoom = id.Level()
	xy := uint64(id) / zoomFactor
	size := uint64(1) << uint(zoom)
	return 0, zoom, uint32(xy % size), uint32(xy / size)
}

func (id ID) IsValid() bool {
	zoom := id.Level()
	if zoom > MaxZoom {
		return false
	}
	return uint64(id)/zoomFactor < uint64(1)<<uint(2*zoom)
}

func (id ID) IsFace() bool {
	return id.Level() == 0
}

// Parent is the immediate parent, the root is its own parent.
func (id ID) Parent() ID {
	if id.IsFace() {
		return id
	}
	return id.ParentAt(id.Level() - 1)
}

// ParentAt is the ancestor at zoom, which must not be deeper than the tile's own.
func (id ID) ParentAt(zoom int) ID {
	_, z, i, j := id.ToFaceIJ()
	d := uint(z - zoom)
	return FromIJ(0, i>>d, j>>d, zoom)
}

func (id ID) Children() [4]ID {
	_, zoom, i, j := id.ToFaceIJ()
	return ChildrenIJ(0, zoom, i, j)
}

// Contains reports whether child is id or lies below it.
func (id ID) Contains(child ID) bool {
	_, pz, pi, pj := id.ToFaceIJ()
	_, cz, ci, cj := child.ToFaceIJ()
	if pz > cz {
		return false
	}
	d := uint(cz - pz)
	return ci>>d == pi && cj>>d == pj
}

// Neighbors are the tiles sharing an edge inside the world. Columns wrap
// around the antimeridian, rows stop at the poles.
func (id ID) Neighbors() []ID {
	var out []ID
	for _, c := range id.Coord().Neighbors() {
		n := c.ID()
		if n != id && !containsID(out, n) {
			out = append(out, n)
		}
	}
	return out
}

func containsID(ids []ID, id ID) bool {
	for _, o := range ids {
		if o == id {
			return true
		}
	}
	return false
}

// Quadkey is the Bing Maps quadkey, "" for the root.
func (id ID) Quadkey() string {
	_, zoom, i, j := id.ToFaceIJ()
	var sb strings.Builder
	for _, d := range morton.Digits(morton.Interleave(i, j), zoom) {
		sb.WriteByte('0' + d)
	}
	return sb.String()
}

// FromQuadkey parses a Bing Maps quadkey.
func FromQuadkey(key string) (ID, error) {
	if len(key) > MaxZoom {
		return 0, fmt.Errorf("quadkey %q is deeper than zoom %d", key, MaxZoom)
	}
	var z uint64
	for _, c := range key {
		if c < '0' || c > '3' {
			return 0, fmt.Errorf("invalid quadkey digit %q in %q", c, key)
		}
		z = z<<2 | uint64(c-'0')
	}
	i, j := morton.Deinterleave(z)
	return FromIJ(0, i, j, len(key)), nil
}

func (id ID) Coord() Coord {
	_, zoom, i, j := id.ToFaceIJ()
	return Coord{Zoom: uint8(zoom), X: int32(i), Y: int32(j)}
}

func (id ID) String() string {
	if !id.IsValid() {
		return fmt.Sprintf("invalid tile %d", uint64(id))
	}
	return id.Coord().String()
}

// Coord addresses a tile by zoom, column and row. X may lie outside
// [0, 2^zoom) for the world copies east and west of the real one.
type Coord struct {
	Zoom uint8
	X, Y int32
}

func (c Coord) size() int {
	return 1 << uint(c.Zoom)
}

// Wrap is the world copy the column lies in, 0 for the real world.
func (c Coord) Wrap() int {
	return mathhelp.FloorDiv(int(c.X), c.size())
}

// Unwrapped is the same tile in the real world.
func (c Coord) Unwrapped() Coord {
	return Coord{Zoom: c.Zoom, X: int32(mathhelp.EuclidianMod(int(c.X), c.size())), Y: c.Y}
}

// IsValid reports whether the row lies in the world and the zoom packs.
func (c Coord) IsValid() bool {
	return int(c.Zoom) <= MaxZoom && c.Y >= 0 && int(c.Y) < c.size()
}

// ID is the packed id of the unwrapped tile.
func (c Coord) ID() ID {
	u := c.Unwrapped()
	return FromIJ(0, uint32(u.X), uint32(u.Y), int(c.Zoom))
}

// Neighbors are left, right, up and down, leaving out rows beyond the poles.
// Columns are not wrapped.
func (c Coord) Neighbors() []Coord {
	out := []Coord{
		{Zoom: c.Zoom, X: c.X - 1, Y: c.Y},
		{Zoom: c.Zoom, X: c.X + 1, Y: c.Y},
	}
	if c.Y > 0 {
		out = append(out, Coord{Zoom: c.Zoom, X: c.X, Y: c.Y - 1})
	}
	if int(c.Y) < c.size()-1 {
		out = append(out, Coord{Zoom: c.Zoom, X: c.X, Y: c.Y + 1})
	}
	return out
}

func (c Coord) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Zoom, c.X, c.Y)
}
