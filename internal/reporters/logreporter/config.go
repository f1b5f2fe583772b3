// Package logreporter contains a reporter that writes metric values to the
// log, which is useful to see what is being reported without a collectd
// server at hand.
package logreporter

import (
	"strings"

	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"

	"github.com/signalfx/go-metrics-collectd/internal/core/config"
	"github.com/signalfx/go-metrics-collectd/internal/reporters"
)

// ReporterType is the `type` value that selects this reporter
const ReporterType = "log"

func init() {
	reporters.Register(ReporterType, func() reporters.CustomConfig { return &Config{} })
}

// Config for the log reporter
type Config struct {
	config.ReporterConfig `yaml:"-"`
	// The value of the `logger` field of every entry
	Logger string `yaml:"logger" default:"metrics"`
	// The level metrics are logged at
	Level string `yaml:"level" default:"info" validate:"oneof=trace debug info warn warning error"`
}

// Build returns a reporter that logs through the standard logrus logger
func (c *Config) Build(registry metrics.Registry) (reporters.Reporter, error) {
	valueOpts, err := reporters.ValueOptionsFor(&c.ReporterConfig)
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		return nil, err
	}

	return New(registry, log.StandardLogger(), Options{
		ValueOptions: valueOpts,
		Logger:       c.Logger,
		Level:        level,
	}), nil
}
