package collectd

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"collectd.org/api"
	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"

	"github.com/signalfx/go-metrics-collectd/internal/core/config"
	"github.com/signalfx/go-metrics-collectd/internal/reporters"
)

// Sender is what value lists are written to, normally a UDP socket that
// collectd network packets are buffered for
type Sender interface {
	api.Writer
	Flush() error
	Close() error
}

// Options control what the reporter sends and how
type Options struct {
	reporters.ValueOptions
	// The host the metrics are reported under
	Hostname string
}

// The collectd type of every value list sent
const valueType = "gauge"

// Reporter sends a value list per metric attribute to collectd on every
// report
type Reporter struct {
	*reporters.ScheduledReporter
	registry metrics.Registry
	sender   Sender
	opts     Options
}

var _ reporters.Reporter = &Reporter{}

// New creates a reporter that writes the metrics of registry to sender.  The
// sender is closed when the reporter is stopped.
func New(registry metrics.Registry, sender Sender, opts Options, schedOpts ...reporters.Option) *Reporter {
	r := &Reporter{
		registry: registry,
		sender:   sender,
		opts:     opts,
	}
	r.ScheduledReporter = reporters.NewScheduledReporter(ReporterType, r.report,
		append([]reporters.Option{reporters.WithCloser(sender.Close)}, schedOpts...)...)
	return r
}

// batch is the state of a single report
type batch struct {
	ctx      context.Context
	r        *Reporter
	now      time.Time
	interval time.Duration
	sent     int
	failed   int
	lastErr  error
}

func (r *Reporter) report(now time.Time, interval time.Duration) {
	b := &batch{
		ctx:      context.Background(),
		r:        r,
		now:      now,
		interval: interval,
	}

	reporters.EachValue(r.registry, r.opts.ValueOptions, b.send)

	if b.sent > 0 {
		if err := r.sender.Flush(); err != nil {
			b.failed++
			b.lastErr = err
		}
	}

	if b.failed > 0 {
		log.WithFields(log.Fields{
			"reporterType": ReporterType,
			"failed":       b.failed,
			"sent":         b.sent,
			"error":        b.lastErr,
		}).Error("Could not send metrics to collectd")
	}
}

func (b *batch) send(name string, _ reporters.MetricKind, attr config.MetricAttribute, value float64) {
	vl := &api.ValueList{
		Identifier: api.Identifier{
			Host:         sanitizeInstanceName(b.r.opts.Hostname),
			Plugin:       sanitizeName(name),
			Type:         valueType,
			TypeInstance: sanitizeInstanceName(string(attr)),
		},
		Time:     b.now,
		Interval: b.interval,
		Values:   []api.Value{api.Gauge(value)},
	}

	if err := b.r.sender.Write(b.ctx, vl); err != nil {
		b.failed++
		b.lastErr = err
		return
	}
	b.sent++
}

// collectd limits identifier parts to 63 bytes
const maxNameLength = 63

var nameReplacer = strings.NewReplacer("-", "_", "/", "_", "\x00", "_")
var instanceNameReplacer = strings.NewReplacer("/", "_", "\x00", "_")

// sanitizeName makes a metric name usable as a collectd plugin name, which
// cannot contain the identifier separators
func sanitizeName(name string) string {
	return truncate(nameReplacer.Replace(name))
}

func sanitizeInstanceName(name string) string {
	return truncate(instanceNameReplacer.Replace(name))
}

// truncate cuts s to maxNameLength bytes without splitting a rune
func truncate(s string) string {
	if len(s) <= maxNameLength {
		return s
	}
	i := maxNameLength
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i]
}
