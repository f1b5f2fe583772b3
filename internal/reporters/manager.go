package reporters

import (
	"sync"
	"time"

	"github.com/mitchellh/hashstructure"
	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"

	"github.com/signalfx/go-metrics-collectd/internal/core/config"
)

// Manager coordinates the lifecycle of the configured reporters.  It is
// responsible for decoding and validating reporter configs, building the
// reporters for the registry, starting them, and stopping the ones that
// disappear from the config.
type Manager struct {
	lock     sync.Mutex
	registry metrics.Registry
	active   map[uint64]*activeReporter
}

type activeReporter struct {
	reporterType string
	reporter     Reporter
	reportOnStop bool
}

// NewManager creates a manager for reporters of the given registry
func NewManager(registry metrics.Registry) *Manager {
	return &Manager{
		registry: registry,
		active:   make(map[uint64]*activeReporter),
	}
}

func configHash(rc *config.ReporterConfig, frequency time.Duration, reportOnStop bool) uint64 {
	hash, err := hashstructure.Hash(struct {
		Config       uint64
		Frequency    time.Duration
		ReportOnStop bool
	}{rc.Hash(), frequency, reportOnStop}, nil)
	if err != nil {
		log.WithError(err).Error("Could not get hash of reporter config")
		return 0
	}
	return hash
}

// Configure starts a reporter for every config in mc that isn't already
// running and stops the running reporters whose config is no longer in mc.
// Reporters whose config is invalid or that fail to build are logged and
// skipped.
func (m *Manager) Configure(mc config.MetricsConfig) {
	m.lock.Lock()
	defer m.lock.Unlock()

	wanted := map[uint64]bool{}

	for i := range mc.Reporters {
		rc := &mc.Reporters[i]
		frequency := mc.FrequencyFor(rc)
		hash := configHash(rc, frequency, mc.ReportOnStop)

		if wanted[hash] {
			log.WithFields(log.Fields{
				"reporterType": rc.Type,
			}).Warn("Ignoring duplicate reporter configuration")
			continue
		}
		wanted[hash] = true

		if _, ok := m.active[hash]; ok {
			continue
		}

		reporter, err := m.build(rc)
		if err != nil {
			log.WithFields(log.Fields{
				"reporterType": rc.Type,
				"error":        err,
			}).Error("Could not create reporter")
			continue
		}

		reporter.Start(frequency)
		m.active[hash] = &activeReporter{
			reporterType: rc.Type,
			reporter:     reporter,
			reportOnStop: mc.ReportOnStop,
		}
	}

	for hash, ar := range m.active {
		if !wanted[hash] {
			ar.stop()
			delete(m.active, hash)
		}
	}
}

func (m *Manager) build(rc *config.ReporterConfig) (Reporter, error) {
	custom, err := DecodeConfig(rc)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"reporterType": rc.Type,
	}).Debugf("Creating reporter with config:\n%s", config.ToString(custom))

	return custom.Build(m.registry)
}

func (ar *activeReporter) stop() {
	if ar.reportOnStop {
		ar.reporter.Report()
	}
	ar.reporter.Stop()
	log.WithFields(log.Fields{
		"reporterType": ar.reporterType,
	}).Info("Shut down reporter")
}

// ActiveCount is the number of running reporters
func (m *Manager) ActiveCount() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.active)
}

// Shutdown stops all reporters
func (m *Manager) Shutdown() {
	m.lock.Lock()
	defer m.lock.Unlock()

	for hash, ar := range m.active {
		ar.stop()
		delete(m.active, hash)
	}
}
