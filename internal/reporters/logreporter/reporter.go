package logreporter

import (
	"sort"
	"time"

	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"

	"github.com/signalfx/go-metrics-collectd/internal/core/config"
	"github.com/signalfx/go-metrics-collectd/internal/reporters"
)

// Options for the log reporter
type Options struct {
	reporters.ValueOptions
	Logger string
	Level  log.Level
}

// Reporter logs one entry per metric on every report, with the metric's
// attributes as fields
type Reporter struct {
	*reporters.ScheduledReporter
	registry metrics.Registry
	logger   *log.Entry
	opts     Options
}

var _ reporters.Reporter = &Reporter{}

// New creates a log reporter that is not started yet
func New(registry metrics.Registry, logger *log.Logger, opts Options, schedOpts ...reporters.Option) *Reporter {
	opts.ValueOptions = opts.ValueOptions.WithDefaults()
	// Unset, metrics are never worth a panic
	if opts.Level == log.PanicLevel {
		opts.Level = log.InfoLevel
	}
	r := &Reporter{
		registry: registry,
		logger:   logger.WithField("logger", opts.Logger),
		opts:     opts,
	}
	r.ScheduledReporter = reporters.NewScheduledReporter(ReporterType, r.report, schedOpts...)
	return r
}

type entry struct {
	kind   reporters.MetricKind
	fields log.Fields
}

func (r *Reporter) report(now time.Time, _ time.Duration) {
	entries := map[string]*entry{}
	reporters.EachValue(r.registry, r.opts.ValueOptions,
		func(name string, kind reporters.MetricKind, attr config.MetricAttribute, value float64) {
			e, ok := entries[name]
			if !ok {
				e = &entry{kind: kind, fields: log.Fields{}}
				entries[name] = e
			}
			e.fields[string(attr)] = value
		})

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		e := entries[name]
		fields := log.Fields{
			"metric": name,
			"kind":   string(e.kind),
		}
		switch e.kind {
		case reporters.KindTimer:
			fields["durationUnit"] = string(r.opts.DurationUnit)
			fields["rateUnit"] = "events/" + r.opts.RateUnit.Singular()
		case reporters.KindMeter:
			fields["rateUnit"] = "events/" + r.opts.RateUnit.Singular()
		}
		for k, v := range e.fields {
			fields[k] = v
		}
		r.logger.WithFields(fields).WithTime(now).Log(r.opts.Level, "Metric")
	}
}
