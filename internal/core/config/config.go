// Package config contains configuration structures and related helper logic
// for loading the reporter configuration file.
package config

import (
	"github.com/pkg/errors"
	"github.com/signalfx/go-metrics-collectd/internal/core/config/validation"
	"github.com/signalfx/go-metrics-collectd/internal/utils/timeutil"
)

// Config is the top level config struct that everything goes under
type Config struct {
	Logging LogConfig     `yaml:"logging" default:"{}"`
	Metrics MetricsConfig `yaml:"metrics" default:"{}"`
	// This exists purely to give the user a place to put common yaml values to
	// reference in other parts of the config file.
	Scratch interface{} `yaml:"scratch" neverLog:"omit"`
}

func (c *Config) initialize() (*Config, error) {
	if c.Metrics.Frequency < 0 {
		return nil, errors.Errorf("metrics frequency must be positive, got %s", c.Metrics.Frequency.AsDuration())
	}
	if c.Metrics.Frequency == 0 {
		c.Metrics.Frequency = timeutil.Duration(DefaultFrequency)
	}

	if err := validation.ValidateStruct(&c.Logging); err != nil {
		return nil, errors.Wrap(err, "logging configuration is invalid")
	}

	for i := range c.Metrics.Reporters {
		if c.Metrics.Reporters[i].Type == "" {
			return nil, errors.Errorf("reporter #%d has no type", i+1)
		}
	}

	return c, nil
}
