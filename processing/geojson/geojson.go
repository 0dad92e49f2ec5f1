// Package geojson reads a GeoJSON Feature or FeatureCollection as a processing.Source.
//
// For input already on the S2 cube every feature carries the face its
// coordinates are on as a foreign member:
//
//	{"type": "Feature", "face": 3, "geometry": ..., "properties": ...}
package geojson

import (
	"io"
	"math"

	"github.com/paulmach/orb/geojson"
	"github.com/pdok/vtiler/geometry"
	"github.com/pdok/vtiler/processing"
	"github.com/perimeterx/marshmallow"
	"github.com/pkg/errors"
)

// InvalidFace is reported for a face member that is not a whole number in [0, 255].
const InvalidFace = math.MaxUint8

type feature struct {
	wrapped *geojson.Feature
	face    uint8
}

func (f feature) ID() any {
	return f.wrapped.ID
}

func (f feature) Properties() map[string]any {
	return f.wrapped.Properties
}

func (f feature) Face() uint8 {
	return f.face
}

func (f feature) Geometry() (geometry.Geometry, error) {
	if f.wrapped.Geometry == nil {
		return nil, nil
	}
	return geometry.FromOrb(f.wrapped.Geometry)
}

type envelope struct {
	Type string `json:"type"`
}

type Source struct {
	reader io.Reader
}

func NewSource(r io.Reader) *Source {
	return &Source{reader: r}
}

func (s *Source) ReadFeatures(features chan<- processing.Feature) error {
	data, err := io.ReadAll(s.reader)
	if err != nil {
		return errors.Wrap(err, "could not read GeoJSON")
	}
	var e envelope
	specials, err := marshmallow.Unmarshal(data, &e, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return errors.Wrap(err, "could not parse GeoJSON")
	}

	switch e.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return errors.Wrap(err, "could not parse GeoJSON FeatureCollection")
		}
		raw, _ := specials["features"].([]any)
		for i, f := range fc.Features {
			var members map[string]any
			if i < len(raw) {
				members, _ = raw[i].(map[string]any)
			}
			features <- feature{wrapped: f, face: faceMember(members)}
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return errors.Wrap(err, "could not parse GeoJSON Feature")
		}
		features <- feature{wrapped: f, face: faceMember(specials)}
	default:
		return errors.Errorf("unsupported GeoJSON type %q", e.Type)
	}
	return nil
}

// faceMember reads the face foreign member, 0 when it is absent.
func faceMember(members map[string]any) uint8 {
	raw, ok := members["face"]
	if !ok {
		return 0
	}
	v, ok := raw.(float64)
	if !ok || v != math.Trunc(v) || v < 0 || v > math.MaxUint8 {
		return InvalidFace
	}
	return uint8(v)
}
