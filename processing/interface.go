package processing

import (
	"github.com/pdok/vtiler/geometry"
)

// Feature is one input record. Geometry decodes lazily, a nil geometry
// without error is a record without geometry.
type Feature interface {
	ID() any
	Properties() map[string]any
	// Face is the cube face the geometry is on for S2 input, 0 otherwise.
	Face() uint8
	Geometry() (geometry.Geometry, error)
}

// Source sends every feature it holds. The channel is closed by the caller
// once ReadFeatures returns.
type Source interface {
	ReadFeatures(chan<- Feature) error
}
