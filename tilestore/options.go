package tilestore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/pdok/vtiler/geometry"
)

// ToleranceExtent is the tile extent the simplification tolerance is expressed in.
const ToleranceExtent = 4096

var ErrInvalidOptions = errors.New("invalid tile store options")

type Options struct {
	// Projection is WG for Web Mercator tiles, S2 for cube face cells.
	Projection geometry.Shape `default:"WG" validate:"oneof=WG S2" json:"projection" mapstructure:"projection"`
	MinZoom    int            `default:"0" validate:"min=0,ltefield=MaxZoom" json:"minzoom" mapstructure:"minzoom"`
	MaxZoom    int            `default:"16" validate:"min=0,max=20" json:"maxzoom" mapstructure:"maxzoom"`
	// IndexMaxZoom is how deep tiles are split up front.
	IndexMaxZoom int `default:"4" validate:"min=0,max=20" json:"indexMaxzoom" mapstructure:"index_maxzoom"`
	// IndexMaxPoints is the vertex count up to which a tile is not split up
	// front. 0 splits every non-empty tile down to IndexMaxZoom.
	IndexMaxPoints int `default:"0" validate:"min=0" json:"indexMaxPoints" mapstructure:"index_maxpoints"`
	// Tolerance in 1/ToleranceExtent of a tile.
	Tolerance float64 `default:"3" validate:"min=0" json:"tolerance" mapstructure:"tolerance"`
	Extent    int     `default:"1" validate:"min=1" json:"extent" mapstructure:"extent"`
	// Buffer as a fraction of the tile width.
	Buffer    float64 `default:"0.0625" validate:"min=0,max=1" json:"buffer" mapstructure:"buffer"`
	BuildBBox bool    `default:"false" json:"buildBBox" mapstructure:"buildbbox"`
	Layer     string  `default:"default" validate:"required" json:"layer" mapstructure:"layer"`
}

func DefaultOptions() Options {
	var o Options
	if err := defaults.Set(&o); err != nil {
		panic(err)
	}
	return o
}

// Validate reports every field out of range, wrapped in ErrInvalidOptions.
func (o Options) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// UnmarshalJSON fills in the defaults for the keys that are left out.
func (o *Options) UnmarshalJSON(data []byte) error {
	if err := defaults.Set(o); err != nil {
		return err
	}
	type plain Options
	return json.Unmarshal(data, (*plain)(o))
}

// unitTolerance is the tolerance in unit square coordinates at zoom 0.
func (o Options) unitTolerance() float64 {
	return o.Tolerance / ToleranceExtent
}
