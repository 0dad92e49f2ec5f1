package tile

import (
	"encoding/json"

	"github.com/paulmach/orb/geojson"
	"github.com/pdok/vtiler/geometry"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type layerJSON struct {
	Name     string                     `json:"name"`
	Extent   int                        `json:"extent"`
	Features *geojson.FeatureCollection `json:"features"`
}

type tileJSON struct {
	ID     uint64                                    `json:"id"`
	Face   uint8                                     `json:"face"`
	Zoom   int                                       `json:"zoom"`
	I      uint32                                    `json:"i"`
	J      uint32                                    `json:"j"`
	Extent int                                       `json:"extent"`
	Layers *orderedmap.OrderedMap[string, layerJSON] `json:"layers"`
}

// MarshalJSON writes the tile with every layer as a GeoJSON feature collection.
func (t *Tile) MarshalJSON() ([]byte, error) {
	out := tileJSON{
		ID:     t.ID,
		Face:   t.Face,
		Zoom:   t.Zoom,
		I:      t.I,
		J:      t.J,
		Extent: t.Extent,
		Layers: orderedmap.New[string, layerJSON](),
	}
	for p := t.Layers.Oldest(); p != nil; p = p.Next() {
		fc := geojson.NewFeatureCollection()
		for _, f := range p.Value.Features {
			fc.Append(toGeoJSON(f))
		}
		out.Layers.Set(p.Key, layerJSON{Name: p.Value.Name, Extent: p.Value.Extent, Features: fc})
	}
	return json.Marshal(out)
}

func toGeoJSON(f *geometry.Feature) *geojson.Feature {
	gf := geojson.NewFeature(geometry.ToOrb(f.Geometry))
	gf.ID = f.ID
	for k, v := range f.Properties {
		gf.Properties[k] = v
	}
	if f.BBox != nil {
		gf.BBox = geojson.BBox{f.BBox.MinX, f.BBox.MinY, f.BBox.MaxX, f.BBox.MaxY}
	}
	return gf
}
