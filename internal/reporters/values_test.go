package reporters

import (
	"testing"
	"time"

	metrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalfx/go-metrics-collectd/internal/core/config"
)

type sentValue struct {
	kind  MetricKind
	value float64
}

func collect(registry metrics.Registry, opts ValueOptions) map[string]sentValue {
	out := map[string]sentValue{}
	EachValue(registry, opts, func(name string, kind MetricKind, attr config.MetricAttribute, value float64) {
		out[name+"."+string(attr)] = sentValue{kind, value}
	})
	return out
}

func TestEachValue(t *testing.T) {
	registry := metrics.NewRegistry()
	metrics.GetOrRegisterCounter("c", registry).Inc(3)
	metrics.GetOrRegisterGauge("g", registry).Update(-2)
	metrics.GetOrRegisterGaugeFloat64("gf", registry).Update(0.25)
	timer := metrics.GetOrRegisterTimer("t", registry)
	timer.Update(1500 * time.Microsecond)
	timer.Update(2500 * time.Microsecond)
	_ = registry.Register("unsupported", metrics.NewHealthcheck(func(metrics.Healthcheck) {}))

	t.Run("Defaults", func(t *testing.T) {
		vals := collect(registry, ValueOptions{})
		assert.Equal(t, sentValue{KindCounter, 3}, vals["c.count"])
		assert.Equal(t, sentValue{KindGauge, -2}, vals["g.value"])
		assert.Equal(t, sentValue{KindGauge, 0.25}, vals["gf.value"])
		assert.Equal(t, sentValue{KindTimer, 2}, vals["t.count"])
		assert.InDelta(t, 2.0, vals["t.mean"].value, 0.0001, "milliseconds")
		assert.InDelta(t, 2.5, vals["t.max"].value, 0.0001)
		assert.Len(t, vals, 3+15)
	})

	t.Run("Units", func(t *testing.T) {
		vals := collect(registry, ValueOptions{DurationUnit: config.Microseconds})
		assert.InDelta(t, 2000.0, vals["t.mean"].value, 0.0001)
	})

	t.Run("Disabled attributes and filters", func(t *testing.T) {
		rc := &config.ReporterConfig{
			Excludes:           []string{"g"},
			ExcludesAttributes: []string{"max", "P99"},
		}
		opts, err := ValueOptionsFor(rc)
		require.NoError(t, err)

		vals := collect(registry, opts)
		assert.NotContains(t, vals, "g.value")
		assert.Contains(t, vals, "gf.value")
		assert.NotContains(t, vals, "t.max")
		assert.NotContains(t, vals, "t.p99")
		assert.Contains(t, vals, "t.p999")
		assert.Equal(t, config.Milliseconds, opts.DurationUnit)
		assert.Equal(t, config.Seconds, opts.RateUnit)
	})

	t.Run("Invalid options", func(t *testing.T) {
		_, err := ValueOptionsFor(&config.ReporterConfig{IncludesAttributes: []string{"p42"}})
		require.Error(t, err)
	})
}
