package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/hashstructure"
	"github.com/pkg/errors"
	"github.com/signalfx/go-metrics-collectd/internal/utils/filter"
	"github.com/signalfx/go-metrics-collectd/internal/utils/timeutil"
	log "github.com/sirupsen/logrus"
)

// ReporterConfig is the part of a reporter's configuration that is common
// to every reporter type.  The `type` field selects which reporter
// implementation gets configured with the rest of the keys, which end up in
// OtherConfig until they are decoded into the type-specific config struct.
type ReporterConfig struct {
	// The type of the reporter, e.g. `collectd`
	Type string `yaml:"type"`
	// The unit that timer durations are converted to
	DurationUnit TimeUnit `yaml:"durationUnit" default:"milliseconds"`
	// The unit that rates are expressed per
	RateUnit TimeUnit `yaml:"rateUnit" default:"seconds"`
	// Metric names to exclude from the report.  Excludes take precedence
	// over includes.
	Excludes []string `yaml:"excludes"`
	// Metric names to include in the report.  If empty, all metrics that are
	// not excluded get reported.
	Includes []string `yaml:"includes"`
	// Whether the includes/excludes are regular expressions
	UseRegexFilters bool `yaml:"useRegexFilters"`
	// Whether the includes/excludes match any part of a metric name
	UseSubstringMatching bool `yaml:"useSubstringMatching"`
	// Metric attributes (e.g. `p50`, `m1_rate`) that should not be reported
	ExcludesAttributes []string `yaml:"excludesAttributes"`
	// Metric attributes that should be reported.  If empty, all attributes
	// that are not excluded get reported.
	IncludesAttributes []string `yaml:"includesAttributes"`
	// How often this reporter reports.  Overrides the `frequency` of the
	// `metrics` section if set.
	Frequency *timeutil.Duration `yaml:"frequency"`
	// OtherConfig is everything else that is custom to a particular reporter
	OtherConfig map[string]interface{} `yaml:",inline" neverLog:"omit"`
}

// ReporterConfigCore provides a way of getting the ReporterConfig when
// embedded in a struct that is referenced through a more generic interface.
func (rc *ReporterConfig) ReporterConfigCore() *ReporterConfig {
	return rc
}

// ExtraConfig returns the type-specific config as a map
func (rc *ReporterConfig) ExtraConfig() map[string]interface{} {
	return rc.OtherConfig
}

// FrequencyOr returns the frequency of the reporter if set, otherwise the
// given default
func (rc *ReporterConfig) FrequencyOr(def time.Duration) time.Duration {
	if rc.Frequency != nil && *rc.Frequency > 0 {
		return rc.Frequency.AsDuration()
	}
	return def
}

// MetricFilter builds the name filter described by the includes/excludes
// options
func (rc *ReporterConfig) MetricFilter() (filter.MetricFilter, error) {
	if len(rc.Includes) == 0 && len(rc.Excludes) == 0 {
		return filter.All, nil
	}
	return filter.NewMetricFilter(rc.Includes, rc.Excludes,
		filter.StrategyFor(rc.UseRegexFilters, rc.UseSubstringMatching))
}

// DisabledAttributes returns the attributes that should not be reported,
// based on the includesAttributes and excludesAttributes options.
func (rc *ReporterConfig) DisabledAttributes() (AttributeSet, error) {
	included := map[MetricAttribute]bool{}
	for _, name := range rc.IncludesAttributes {
		attr, ok := ParseMetricAttribute(name)
		if !ok {
			return nil, fmt.Errorf("unknown metric attribute %q in includesAttributes", name)
		}
		included[attr] = true
	}

	disabled := AttributeSet{}
	for _, name := range rc.ExcludesAttributes {
		attr, ok := ParseMetricAttribute(name)
		if !ok {
			return nil, fmt.Errorf("unknown metric attribute %q in excludesAttributes", name)
		}
		disabled[attr] = true
	}

	if len(included) > 0 {
		for _, attr := range AllAttributes {
			if !included[attr] {
				disabled[attr] = true
			}
		}
	}
	return disabled, nil
}

// ValidateCommonOptions checks the options that are common to all reporters
func (rc *ReporterConfig) ValidateCommonOptions() error {
	if !rc.DurationUnit.IsValid() {
		return fmt.Errorf("invalid durationUnit %q", rc.DurationUnit)
	}
	if !rc.RateUnit.IsValid() {
		return fmt.Errorf("invalid rateUnit %q", rc.RateUnit)
	}
	if rc.Frequency != nil && *rc.Frequency <= 0 {
		return fmt.Errorf("frequency must be positive, got %s", rc.Frequency.AsDuration())
	}
	if _, err := rc.MetricFilter(); err != nil {
		return errors.Wrap(err, "invalid metric filter")
	}
	if _, err := rc.DisabledAttributes(); err != nil {
		return err
	}
	return nil
}

// Hash calculates a unique hash value for this config struct
func (rc *ReporterConfig) Hash() uint64 {
	hash, err := hashstructure.Hash(rc, nil)
	if err != nil {
		log.WithError(err).Error("Could not get hash of ReporterConfig struct")
		return 0
	}
	return hash
}

// ReporterCustomConfig represents reporter-specific configuration that
// doesn't appear in the ReporterConfig struct.
type ReporterCustomConfig interface {
	ReporterConfigCore() *ReporterConfig
}
