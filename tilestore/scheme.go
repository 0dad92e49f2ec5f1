package tilestore

import (
	"github.com/pdok/vtiler/cellid"
	"github.com/pdok/vtiler/geometry"
	"github.com/pdok/vtiler/mercid"
)

// scheme is the tile addressing the store is built for. Ids of the two
// schemes are never mixed in one store.
type scheme interface {
	fromIJ(face uint8, zoom int, i, j uint32) uint64
	toFaceIJ(id uint64) (face uint8, zoom int, i, j uint32)
	parent(id uint64) uint64
	childrenIJ(face uint8, zoom int, i, j uint32) [4]uint64
	valid(id uint64) bool
	numFaces() int
}

func schemeFor(projection geometry.Shape) scheme {
	if projection == geometry.S2 {
		return s2Scheme{}
	}
	return wmScheme{}
}

type s2Scheme struct{}

func (s2Scheme) fromIJ(face uint8, zoom int, i, j uint32) uint64 {
	return uint64(cellid.FromIJ(face, i, j, zoom))
}

func (s2Scheme) toFaceIJ(id uint64) (uint8, int, uint32, uint32) {
	return cellid.CellID(id).ToFaceIJ()
}

func (s2Scheme) parent(id uint64) uint64 { return uint64(cellid.CellID(id).Parent()) }

func (s2Scheme) childrenIJ(face uint8, zoom int, i, j uint32) [4]uint64 {
	var out [4]uint64
	for k, c := range cellid.ChildrenIJ(face, zoom, i, j) {
		out[k] = uint64(c)
	}
	return out
}

func (s2Scheme) valid(id uint64) bool { return cellid.CellID(id).IsValid() }

func (s2Scheme) numFaces() int { return cellid.NumFaces }

type wmScheme struct{}

func (wmScheme) fromIJ(face uint8, zoom int, i, j uint32) uint64 {
	return uint64(mercid.FromIJ(face, i, j, zoom))
}

func (wmScheme) toFaceIJ(id uint64) (uint8, int, uint32, uint32) {
	return mercid.ID(id).ToFaceIJ()
}

func (wmScheme) parent(id uint64) uint64 { return uint64(mercid.ID(id).Parent()) }

func (wmScheme) childrenIJ(face uint8, zoom int, i, j uint32) [4]uint64 {
	var out [4]uint64
	for k, c := range mercid.ChildrenIJ(face, zoom, i, j) {
		out[k] = uint64(c)
	}
	return out
}

func (wmScheme) valid(id uint64) bool { return mercid.ID(id).IsValid() }

func (wmScheme) numFaces() int { return 1 }
