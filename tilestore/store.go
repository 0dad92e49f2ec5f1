// Package tilestore indexes a feature collection into a quad-tree of tiles
// per face and splits tiles lazily, on the request path that needs them.
//
// A store is built once and grows with the deepest tile ever asked for; tiles
// are never evicted. It is not safe for concurrent use.
package tilestore

import (
	"github.com/pdok/vtiler/geometry"
	"github.com/pdok/vtiler/mapslicehelp"
	"github.com/pdok/vtiler/mercid"
	"github.com/pdok/vtiler/tile"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// node is a tile with, as long as it is not split, the unclipped features it was made from.
type node struct {
	tile      *tile.Tile
	source    []*geometry.Feature
	numPoints int
}

type Store struct {
	options Options
	scheme  scheme
	nodes   map[uint64]*node
	faces   map[uint8]struct{}
	skipped int
	splits  int
}

// New indexes data. Invalid options fail with ErrInvalidOptions, features
// that can not be projected are skipped (see Skipped).
func New(data *geometry.Collection, options Options) (*Store, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	s := &Store{
		options: options,
		scheme:  schemeFor(options.Projection),
		nodes:   make(map[uint64]*node),
	}

	perFace := s.ingest(data)
	s.faces = mapslicehelp.AsKeys(maps.Keys(perFace))
	for _, face := range s.Faces() {
		s.split(perFace[face], face, 0, 0, 0, nil)
	}

	total := 0
	if data != nil {
		total = data.Len()
	}
	log.Infof("indexed %d features on %d face(s) into %d tiles", total-s.skipped, len(s.faces), len(s.nodes))
	if s.skipped > 0 {
		log.Infof("skipped %d unsupported features", s.skipped)
	}
	return s, nil
}

func (s *Store) Options() Options {
	return s.options
}

// Faces that hold features, ascending.
func (s *Store) Faces() []uint8 {
	faces := maps.Keys(s.faces)
	slices.Sort(faces)
	return faces
}

func (s *Store) NumTiles() int {
	return len(s.nodes)
}

// Skipped is the number of input features left out as unsupported.
func (s *Store) Skipped() int {
	return s.skipped
}

// GetTile returns the tile in tile-local coordinates, splitting its nearest
// existing ancestor when needed. It reports false for a zoom outside
// [MinZoom, MaxZoom], an invalid id, an empty face, or a tile that holds
// nothing.
func (s *Store) GetTile(id uint64) (*tile.Tile, bool) {
	if !s.scheme.valid(id) {
		return nil, false
	}
	face, zoom, i, j := s.scheme.toFaceIJ(id)
	if zoom < s.options.MinZoom || zoom > s.options.MaxZoom {
		return nil, false
	}
	if _, ok := s.faces[face]; !ok {
		return nil, false
	}
	if n, ok := s.nodes[id]; ok {
		return s.transformed(n), true
	}

	var ancestor *node
	for p := id; ancestor == nil; {
		_, pz, _, _ := s.scheme.toFaceIJ(p)
		if pz == 0 {
			break
		}
		p = s.scheme.parent(p)
		ancestor = s.nodes[p]
	}
	if ancestor == nil || ancestor.source == nil {
		return nil, false
	}

	a := ancestor.tile
	log.Debugf("drilling down from %d/%d/%d/%d to %d/%d/%d/%d", a.Face, a.Zoom, a.I, a.J, face, zoom, i, j)
	s.split(ancestor.source, a.Face, a.Zoom, a.I, a.J, &target{zoom: zoom, i: i, j: j})

	n, ok := s.nodes[id]
	if !ok {
		return nil, false
	}
	return s.transformed(n), true
}

// GetTileFaceIJ is GetTile by face, zoom, column and row.
func (s *Store) GetTileFaceIJ(face uint8, zoom int, i, j uint32) (*tile.Tile, bool) {
	if int(face) >= s.scheme.numFaces() || zoom < 0 || zoom > s.options.MaxZoom || uint64(i)>>uint(zoom) > 0 || uint64(j)>>uint(zoom) > 0 {
		return nil, false
	}
	return s.GetTile(s.scheme.fromIJ(face, zoom, i, j))
}

// GetTileCoord is GetTile for a possibly wrapped Web Mercator tile; a copy of
// the world gives the tile of the real world.
func (s *Store) GetTileCoord(c mercid.Coord) (*tile.Tile, bool) {
	if s.options.Projection != geometry.WG || !c.IsValid() {
		return nil, false
	}
	return s.GetTile(uint64(c.ID()))
}

// GetChildren returns the children of id that hold features.
func (s *Store) GetChildren(id uint64) []*tile.Tile {
	if !s.scheme.valid(id) {
		return nil
	}
	face, zoom, i, j := s.scheme.toFaceIJ(id)
	var children []*tile.Tile
	for _, c := range s.scheme.childrenIJ(face, zoom, i, j) {
		if t, ok := s.GetTile(c); ok {
			children = append(children, t)
		}
	}
	return children
}

// Root is the id of the zoom 0 tile of face.
func (s *Store) Root(face uint8) uint64 {
	return s.scheme.fromIJ(face, 0, 0, 0)
}

// ChildIDs lists the ids of the four children of id, whether they hold
// features or not.
func (s *Store) ChildIDs(id uint64) [4]uint64 {
	face, zoom, i, j := s.scheme.toFaceIJ(id)
	return s.scheme.childrenIJ(face, zoom, i, j)
}

func (s *Store) transformed(n *node) *tile.Tile {
	var opts []tile.TransformOption
	if s.options.BuildBBox {
		opts = append(opts, tile.WithBBox())
	}
	n.tile.Transform(s.options.unitTolerance(), s.options.MaxZoom, opts...)
	return n.tile
}
