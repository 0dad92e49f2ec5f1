// Package config reads tile store options from a file (YAML, TOML or JSON,
// by extension) on top of the defaults.
package config

import (
	"github.com/pdok/vtiler/tilestore"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Load reads the options in path. An empty path gives the defaults. The
// result is validated.
func Load(path string) (tilestore.Options, error) {
	options := tilestore.DefaultOptions()
	if path == "" {
		return options, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return options, errors.Wrapf(err, "could not read config file %s", path)
	}
	if err := v.Unmarshal(&options); err != nil {
		return options, errors.Wrapf(err, "could not decode config file %s", path)
	}
	if err := options.Validate(); err != nil {
		return options, errors.Wrapf(err, "config file %s", path)
	}
	return options, nil
}
