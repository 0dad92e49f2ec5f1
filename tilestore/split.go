package tilestore

import (
	"github.com/pdok/vtiler/clip"
	"github.com/pdok/vtiler/geometry"
	"github.com/pdok/vtiler/mapslicehelp"
	"github.com/pdok/vtiler/mathhelp"
	"github.com/pdok/vtiler/tile"
	log "github.com/sirupsen/logrus"
)

// target is the tile a drill down is heading for.
type target struct {
	zoom int
	i, j uint32
}

// onPath reports whether the tile at zoom, i, j is an ancestor of the target.
func (t *target) onPath(zoom int, i, j uint32) bool {
	d := uint(t.zoom - zoom)
	return t.i>>d == i && t.j>>d == j
}

type work struct {
	features []*geometry.Feature
	zoom     int
	i, j     uint32
}

// split creates the tile at face, zoom, i, j when missing and keeps splitting
// below it with an explicit stack. Without a target it stops at IndexMaxZoom
// or at tiles of at most IndexMaxPoints vertices; with a target it only
// follows the target's ancestors and stops at its zoom. A tile it stops at
// keeps its source features for a later drill down.
func (s *Store) split(features []*geometry.Feature, face uint8, zoom int, i, j uint32, to *target) {
	stack := []work{{features: features, zoom: zoom, i: i, j: j}}
	for len(stack) > 0 {
		w := *mapslicehelp.LastElement(stack)
		stack = stack[:len(stack)-1]

		n := s.node(face, w)
		n.source = w.features

		if to == nil {
			if w.zoom >= s.options.IndexMaxZoom || w.zoom >= s.options.MaxZoom || n.numPoints <= s.options.IndexMaxPoints {
				continue
			}
		} else if w.zoom >= s.options.MaxZoom || w.zoom >= to.zoom || !to.onPath(w.zoom, w.i, w.j) {
			continue
		}

		n.source = nil
		if len(w.features) == 0 {
			continue
		}
		stack = append(stack, s.quadrants(w)...)
		s.splits++
		log.Debugf("split tile %d/%d/%d/%d with %d features", face, w.zoom, w.i, w.j, len(w.features))

		// the tile is final once split
		s.transformed(n)
	}
}

// node returns the tile for w, creating it from w's features when missing.
func (s *Store) node(face uint8, w work) *node {
	id := s.scheme.fromIJ(face, w.zoom, w.i, w.j)
	if n, ok := s.nodes[id]; ok {
		return n
	}
	t := tile.New(id, face, w.zoom, w.i, w.j, s.options.Extent)
	numPoints := 0
	for _, f := range w.features {
		t.AddFeature(f, s.options.Layer)
		numPoints += f.NumPoints()
	}
	n := &node{tile: t, numPoints: numPoints}
	s.nodes[id] = n
	return n
}

// quadrants clips w into its four children, leaving out the empty ones.
func (s *Store) quadrants(w work) []work {
	z2 := mathhelp.Pow2(w.zoom)
	x, y := float64(w.i), float64(w.j)
	buffer := 0.5 * s.options.Buffer / z2

	left, right := clip.Split(w.features, geometry.X, x/z2, (x+0.5)/z2, (x+1)/z2, buffer)
	var out []work
	for dx, half := range [][]*geometry.Feature{left, right} {
		if len(half) == 0 {
			continue
		}
		top, bottom := clip.Split(half, geometry.Y, y/z2, (y+0.5)/z2, (y+1)/z2, buffer)
		for dy, quadrant := range [][]*geometry.Feature{top, bottom} {
			if len(quadrant) == 0 {
				continue
			}
			out = append(out, work{
				features: quadrant,
				zoom:     w.zoom + 1,
				i:        2*w.i + uint32(dx),
				j:        2*w.j + uint32(dy),
			})
		}
	}
	return out
}
