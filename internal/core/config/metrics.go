package config

import (
	"time"

	"github.com/signalfx/go-metrics-collectd/internal/utils/timeutil"
)

// DefaultFrequency is how often reporters report if neither the metrics
// section nor the reporter itself says otherwise
const DefaultFrequency = time.Minute

// MetricsConfig holds the reporters that push the metrics of a registry to
// external systems
type MetricsConfig struct {
	// How often the reporters report
	Frequency timeutil.Duration `yaml:"frequency"`
	// Whether reporters should report one last time when they are stopped
	ReportOnStop bool `yaml:"reportOnStop"`
	// The reporters, each selected by its `type`
	Reporters []ReporterConfig `yaml:"reporters"`
}

// FrequencyFor returns the reporting interval of the given reporter
func (mc *MetricsConfig) FrequencyFor(rc *ReporterConfig) time.Duration {
	def := mc.Frequency.AsDuration()
	if def <= 0 {
		def = DefaultFrequency
	}
	return rc.FrequencyOr(def)
}
