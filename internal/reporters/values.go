package reporters

import (
	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"

	"github.com/signalfx/go-metrics-collectd/internal/core/config"
	"github.com/signalfx/go-metrics-collectd/internal/utils/filter"
)

// MetricKind is the go-metrics type a value came from
type MetricKind string

// The metric kinds that are reported
const (
	KindCounter   MetricKind = "counter"
	KindGauge     MetricKind = "gauge"
	KindMeter     MetricKind = "meter"
	KindHistogram MetricKind = "histogram"
	KindTimer     MetricKind = "timer"
)

// ValueOptions select and convert the values that are reported
type ValueOptions struct {
	// Timer durations are converted to this unit
	DurationUnit config.TimeUnit
	// Rates are expressed per this unit
	RateUnit           config.TimeUnit
	Filter             filter.MetricFilter
	DisabledAttributes config.AttributeSet
}

// ValueOptionsFor builds the value options from the common reporter options
func ValueOptionsFor(rc *config.ReporterConfig) (ValueOptions, error) {
	mf, err := rc.MetricFilter()
	if err != nil {
		return ValueOptions{}, err
	}
	disabled, err := rc.DisabledAttributes()
	if err != nil {
		return ValueOptions{}, err
	}
	return ValueOptions{
		DurationUnit:       rc.DurationUnit,
		RateUnit:           rc.RateUnit,
		Filter:             mf,
		DisabledAttributes: disabled,
	}.WithDefaults(), nil
}

// WithDefaults fills in the options that are not set: no filter, durations
// in milliseconds and rates per second
func (o ValueOptions) WithDefaults() ValueOptions {
	if o.Filter == nil {
		o.Filter = filter.All
	}
	if !o.DurationUnit.IsValid() {
		o.DurationUnit = config.Milliseconds
	}
	if !o.RateUnit.IsValid() {
		o.RateUnit = config.Seconds
	}
	return o
}

// ValueFunc receives a single attribute value of a metric
type ValueFunc func(name string, kind MetricKind, attr config.MetricAttribute, value float64)

var percentiles = []float64{0.5, 0.75, 0.95, 0.98, 0.99, 0.999}

var percentileAttrs = []config.MetricAttribute{
	config.AttrP50, config.AttrP75, config.AttrP95, config.AttrP98, config.AttrP99, config.AttrP999,
}

type rated interface {
	Rate1() float64
	Rate5() float64
	Rate15() float64
	RateMean() float64
}

type valueWalker struct {
	opts ValueOptions
	fn   ValueFunc
	name string
	kind MetricKind
}

// EachValue calls fn for every enabled attribute of every metric in the
// registry that passes the filter.  Meter and timer rates are converted to
// the rate unit and timer durations to the duration unit.  Gauges only have
// a value, which is always reported.
func EachValue(registry metrics.Registry, opts ValueOptions, fn ValueFunc) {
	opts = opts.WithDefaults()
	registry.Each(func(name string, i interface{}) {
		if !opts.Filter.Matches(name) {
			return
		}
		w := &valueWalker{opts: opts, fn: fn, name: name}
		w.metric(i)
	})
}

func (w *valueWalker) metric(i interface{}) {
	switch m := i.(type) {
	case metrics.Counter:
		w.kind = KindCounter
		w.emit(config.AttrCount, float64(m.Count()))
	case metrics.Gauge:
		w.kind = KindGauge
		w.fn(w.name, w.kind, config.AttrValue, float64(m.Value()))
	case metrics.GaugeFloat64:
		w.kind = KindGauge
		w.fn(w.name, w.kind, config.AttrValue, m.Value())
	case metrics.Meter:
		w.kind = KindMeter
		s := m.Snapshot()
		w.emit(config.AttrCount, float64(s.Count()))
		w.rates(s)
	case metrics.Histogram:
		w.kind = KindHistogram
		s := m.Snapshot()
		w.emit(config.AttrCount, float64(s.Count()))
		w.emit(config.AttrMax, float64(s.Max()))
		w.emit(config.AttrMean, s.Mean())
		w.emit(config.AttrMin, float64(s.Min()))
		w.emit(config.AttrStdDev, s.StdDev())
		for j, p := range s.Percentiles(percentiles) {
			w.emit(percentileAttrs[j], p)
		}
	case metrics.Timer:
		w.kind = KindTimer
		s := m.Snapshot()
		conv := w.opts.DurationUnit.ConvertDuration
		w.emit(config.AttrCount, float64(s.Count()))
		w.emit(config.AttrMax, conv(float64(s.Max())))
		w.emit(config.AttrMean, conv(s.Mean()))
		w.emit(config.AttrMin, conv(float64(s.Min())))
		w.emit(config.AttrStdDev, conv(s.StdDev()))
		for j, p := range s.Percentiles(percentiles) {
			w.emit(percentileAttrs[j], conv(p))
		}
		w.rates(s)
	default:
		log.WithFields(log.Fields{
			"metric": w.name,
		}).Debugf("Skipping metric of unsupported type %T", i)
	}
}

func (w *valueWalker) rates(s rated) {
	conv := w.opts.RateUnit.ConvertRate
	w.emit(config.AttrM1Rate, conv(s.Rate1()))
	w.emit(config.AttrM5Rate, conv(s.Rate5()))
	w.emit(config.AttrM15Rate, conv(s.Rate15()))
	w.emit(config.AttrMeanRate, conv(s.RateMean()))
}

func (w *valueWalker) emit(attr config.MetricAttribute, value float64) {
	if w.opts.DisabledAttributes.Disabled(attr) {
		return
	}
	w.fn(w.name, w.kind, attr, value)
}
