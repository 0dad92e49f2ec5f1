package tilestore

import (
	"errors"

	"github.com/pdok/vtiler/clip"
	"github.com/pdok/vtiler/geometry"
	"github.com/pdok/vtiler/mathhelp"
	"github.com/pdok/vtiler/projection"
	"github.com/pdok/vtiler/simplify"
	log "github.com/sirupsen/logrus"
)

// project converts one input feature into the store's projection. It can
// give more than one feature when an S2 feature spans faces, each cut to its
// face grown by padding.
func project(f *geometry.Feature, shape, proj geometry.Shape, padding float64) ([]*geometry.Feature, error) {
	switch {
	case shape == geometry.WG && proj == geometry.WG:
		m, err := projection.ToMercator(f)
		if err != nil {
			return nil, err
		}
		return []*geometry.Feature{m}, nil
	case shape == geometry.WG && proj == geometry.S2:
		return projection.ToS2(f, padding)
	case shape == geometry.S2 && proj == geometry.S2:
		if f.Geometry == nil {
			return nil, geometry.Unsupported("nil", "feature %v has no geometry", f.ID)
		}
		if f.Face >= 6 {
			return nil, geometry.Unsupported(f.Geometry.Type().String(), "face %d does not exist", f.Face)
		}
		return []*geometry.Feature{f.WithGeometry(f.Geometry)}, nil
	default:
		return nil, geometry.Unsupported("collection", "%s input can not be tiled in %s", shape, proj)
	}
}

// ingest projects and annotates every feature and buckets them per face.
// Unsupported features are skipped and counted.
func (s *Store) ingest(data *geometry.Collection) map[uint8][]*geometry.Feature {
	perFace := make(map[uint8][]*geometry.Feature)
	if data == nil {
		return perFace
	}
	shape := geometry.WG
	if data.Shape != "" {
		shape = data.Shape
	}
	z2 := mathhelp.Pow2(s.options.MaxZoom)
	sqTolerance := s.options.unitTolerance() / z2
	sqTolerance *= sqTolerance

	for _, f := range data.Features {
		projected, err := project(f, shape, s.options.Projection, s.options.Buffer)
		if err != nil {
			s.skipped++
			var unsupported *geometry.UnsupportedError
			if errors.As(err, &unsupported) {
				log.Debugf("skipping feature %v: %v", f.ID, err)
			} else {
				log.Warnf("skipping feature %v: %v", f.ID, err)
			}
			continue
		}
		for _, p := range projected {
			annotated := p.WithGeometry(simplify.AnnotateGeometry(p.Geometry, sqTolerance))
			perFace[p.Face] = append(perFace[p.Face], annotated)
		}
	}

	buffer := s.options.Buffer
	for face, features := range perFace {
		if s.options.Projection == geometry.S2 {
			features = clip.Clip(features, geometry.X, 0, 1, buffer)
			features = clip.Clip(features, geometry.Y, 0, 1, buffer)
		} else {
			features = wrap(features, buffer)
		}
		if len(features) == 0 {
			delete(perFace, face)
			continue
		}
		perFace[face] = features
	}
	return perFace
}

// wrap folds what lies beyond the antimeridian back into the world and copies
// what lies within buffer of it to the other side.
func wrap(features []*geometry.Feature, buffer float64) []*geometry.Feature {
	left := clip.Clip(features, geometry.X, -1, 0, buffer)
	right := clip.Clip(features, geometry.X, 1, 2, buffer)
	if len(left) == 0 && len(right) == 0 {
		return features
	}
	var merged []*geometry.Feature
	merged = append(merged, shiftX(left, 1)...)
	merged = append(merged, clip.Clip(features, geometry.X, 0, 1, buffer)...)
	merged = append(merged, shiftX(right, -1)...)
	return merged
}

func shiftX(features []*geometry.Feature, offset float64) []*geometry.Feature {
	out := make([]*geometry.Feature, len(features))
	for i, f := range features {
		out[i] = f.WithGeometry(geometry.Map(f.Geometry, func(p geometry.Point) geometry.Point {
			p.X += offset
			return p
		}))
	}
	return out
}
