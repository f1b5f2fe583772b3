package reporters

import (
	"testing"
	"time"

	metrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalfx/go-metrics-collectd/internal/core/config"
	"github.com/signalfx/go-metrics-collectd/internal/utils/timeutil"
)

func builtReporters() []*fakeReporter {
	builtLock.Lock()
	defer builtLock.Unlock()
	return append([]*fakeReporter(nil), built...)
}

func TestManager(t *testing.T) {
	resetBuilt()
	m := NewManager(metrics.NewRegistry())

	fiveSeconds := timeutil.Duration(5 * time.Second)
	a := *testReporterConfig(map[string]interface{}{"endpoint": "a"})
	b := *testReporterConfig(map[string]interface{}{"endpoint": "b"})
	b.Frequency = &fiveSeconds
	invalid := *testReporterConfig(nil)
	failing := *testReporterConfig(map[string]interface{}{"endpoint": "c", "failBuild": true})

	mc := config.MetricsConfig{
		Frequency:    timeutil.Duration(time.Hour),
		ReportOnStop: true,
		Reporters:    []config.ReporterConfig{a, b, invalid, failing, a},
	}

	m.Configure(mc)
	require.Equal(t, 2, m.ActiveCount(), "invalid, failing and duplicate configs are skipped")

	reps := builtReporters()
	require.Len(t, reps, 2)
	assert.Equal(t, "a", reps[0].endpoint)
	assert.Equal(t, time.Hour, reps[0].interval)
	assert.Equal(t, "b", reps[1].endpoint)
	assert.Equal(t, 5*time.Second, reps[1].interval)

	t.Run("Unchanged reporters keep running", func(t *testing.T) {
		mc.Reporters = []config.ReporterConfig{a}
		m.Configure(mc)
		assert.Equal(t, 1, m.ActiveCount())
		assert.Len(t, builtReporters(), 2, "nothing new was built")

		assert.Equal(t, 0, reps[0].stops)
		assert.Equal(t, 1, reps[1].stops)
		assert.Equal(t, 1, reps[1].reports, "reportOnStop")
	})

	t.Run("Shutdown stops everything", func(t *testing.T) {
		m.Shutdown()
		assert.Equal(t, 0, m.ActiveCount())
		assert.Equal(t, 1, reps[0].stops)
		assert.Equal(t, 1, reps[0].reports)
	})
}
