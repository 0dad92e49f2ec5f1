// Package processing takes care of the logistics around reading features from a Source.
// Not the tiling itself.
package processing

import (
	"github.com/pdok/vtiler/geometry"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Stats struct {
	Read        uint64
	Kept        uint64
	Empty       uint64
	Unsupported uint64
	Invalid     uint64
}

func (s Stats) Skipped() uint64 {
	return s.Empty + s.Unsupported + s.Invalid
}

// readFeaturesFromSource reads every feature of the source and closes the channel after
func readFeaturesFromSource(source Source, features chan<- Feature, done chan<- error) {
	err := source.ReadFeatures(features)
	close(features)
	done <- err
}

// Collect reads the source into a collection of the given shape. Features
// that have no geometry, an empty one or one that can not be decoded are
// left out and counted.
func Collect(source Source, shape geometry.Shape) (*geometry.Collection, Stats, error) {
	features := make(chan Feature)
	done := make(chan error, 1)
	go readFeaturesFromSource(source, features, done)

	collection := &geometry.Collection{Shape: shape}
	var stats Stats
	for feature := range features {
		stats.Read++
		g, err := feature.Geometry()
		if err != nil {
			var unsupported *geometry.UnsupportedError
			if errors.As(err, &unsupported) {
				stats.Unsupported++
				log.Debugf("skipping feature %v: %v", feature.ID(), err)
			} else {
				stats.Invalid++
				log.Warnf("skipping feature %v: %v", feature.ID(), err)
			}
			continue
		}
		if g == nil || geometry.IsEmpty(g) {
			stats.Empty++
			continue
		}
		f := geometry.NewFeature(feature.ID(), g, feature.Properties())
		f.Face = feature.Face()
		collection.Add(f)
		stats.Kept++
	}
	if err := <-done; err != nil {
		return nil, stats, errors.Wrap(err, "could not read features")
	}

	log.Infof("    total features: %d", stats.Read)
	if stats.Empty > 0 {
		log.Infof("    without geometry: %d", stats.Empty)
	}
	if stats.Unsupported > 0 {
		log.Infof("         unsupported: %d", stats.Unsupported)
	}
	if stats.Invalid > 0 {
		log.Infof("             invalid: %d", stats.Invalid)
	}
	log.Infof("                kept: %d", stats.Kept)
	return collection, stats, nil
}
