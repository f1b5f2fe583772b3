package config

import "strings"

// MetricAttribute is one of the values that is reported for a metric,
// e.g. the count of a counter or the 99th percentile of a timer
type MetricAttribute string

// The attributes that reporters know how to emit
const (
	AttrCount    MetricAttribute = "count"
	AttrMax      MetricAttribute = "max"
	AttrMean     MetricAttribute = "mean"
	AttrMin      MetricAttribute = "min"
	AttrStdDev   MetricAttribute = "stddev"
	AttrP50      MetricAttribute = "p50"
	AttrP75      MetricAttribute = "p75"
	AttrP95      MetricAttribute = "p95"
	AttrP98      MetricAttribute = "p98"
	AttrP99      MetricAttribute = "p99"
	AttrP999     MetricAttribute = "p999"
	AttrM1Rate   MetricAttribute = "m1_rate"
	AttrM5Rate   MetricAttribute = "m5_rate"
	AttrM15Rate  MetricAttribute = "m15_rate"
	AttrMeanRate MetricAttribute = "mean_rate"
	// Gauges only ever report their value, which cannot be disabled
	AttrValue MetricAttribute = "value"
)

// AllAttributes are the attributes that can be included or excluded
var AllAttributes = []MetricAttribute{
	AttrCount, AttrMax, AttrMean, AttrMin, AttrStdDev,
	AttrP50, AttrP75, AttrP95, AttrP98, AttrP99, AttrP999,
	AttrM1Rate, AttrM5Rate, AttrM15Rate, AttrMeanRate,
}

// ParseMetricAttribute looks up an attribute by its name, in any case.  The
// second return value is false if the name is unknown.
func ParseMetricAttribute(name string) (MetricAttribute, bool) {
	attr := MetricAttribute(strings.ToLower(strings.TrimSpace(name)))
	for _, a := range AllAttributes {
		if a == attr {
			return a, true
		}
	}
	return "", false
}

// AttributeSet is the set of attributes that are not to be reported
type AttributeSet map[MetricAttribute]bool

// Disabled returns true if the attribute should be skipped
func (s AttributeSet) Disabled(attr MetricAttribute) bool {
	return s[attr]
}
