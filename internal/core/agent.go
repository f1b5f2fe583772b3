// Package core contains the central frame of the reporter process that hooks
// the metrics registry up to the configured reporters.
package core

import (
	"context"
	"time"

	"github.com/pkg/errors"
	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"

	"github.com/signalfx/go-metrics-collectd/internal/core/config"
	"github.com/signalfx/go-metrics-collectd/internal/reporters"
	"github.com/signalfx/go-metrics-collectd/internal/utils"

	// Register the reporter types
	_ "github.com/signalfx/go-metrics-collectd/internal/reporters/all"
)

// Agent keeps the Go runtime statistics of a registry up to date and runs
// the reporters that push the registry out.
type Agent struct {
	registry   metrics.Registry
	reporters  *reporters.Manager
	lastConfig *config.Config
	// Keeps debug logging on whatever level the config sets
	debug bool

	statsFrequency time.Duration
	stopStats      context.CancelFunc
}

// NewAgent creates an unconfigured agent for the registry.  The runtime
// memory statistics are registered in it right away.
func NewAgent(registry metrics.Registry) *Agent {
	metrics.RegisterRuntimeMemStats(registry)
	return &Agent{
		registry:  registry,
		reporters: reporters.NewManager(registry),
	}
}

func (a *Agent) configure(conf *config.Config) {
	conf.Logging.Apply()
	if a.debug {
		log.SetLevel(log.DebugLevel)
	}
	log.Infof("Using log level %s", log.GetLevel().String())

	a.ensureRuntimeStats(conf.Metrics.Frequency.AsDuration())
	a.reporters.Configure(conf.Metrics)
	a.lastConfig = conf

	log.WithFields(log.Fields{
		"reporters": a.reporters.ActiveCount(),
	}).Info("Done configuring reporters")
}

// The runtime stats are captured as often as the reporters report by
// default, restarting the capture loop only if that changes.
func (a *Agent) ensureRuntimeStats(frequency time.Duration) {
	if frequency <= 0 {
		frequency = config.DefaultFrequency
	}
	if a.stopStats != nil && a.statsFrequency == frequency {
		return
	}
	if a.stopStats != nil {
		a.stopStats()
	}

	var ctx context.Context
	ctx, a.stopStats = context.WithCancel(context.Background())
	a.statsFrequency = frequency

	utils.RunOnInterval(ctx, func() {
		metrics.CaptureRuntimeMemStatsOnce(a.registry)
	}, frequency)
}

func (a *Agent) shutdown() {
	if a.stopStats != nil {
		a.stopStats()
		a.stopStats = nil
	}
	a.reporters.Shutdown()
}

// Startup loads the config at configPath and starts its reporters.  The
// config is reloaded every time something is sent on reloads; a reload that
// fails keeps the reporters of the last good config running.  Returns a
// function that shuts the reporters down and a channel that is closed once
// they are.  If debug is set, the log level is debug regardless of the
// logging config.
func Startup(configPath string, registry metrics.Registry, reloads <-chan struct{}, debug bool) (context.CancelFunc, <-chan struct{}, error) {
	log.Info("Starting up reporters")

	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	agent := NewAgent(registry)
	agent.debug = debug
	agent.configure(conf)

	ctx, cancel := context.WithCancel(context.Background())
	shutdownComplete := make(chan struct{})

	go func() {
		for {
			select {
			case <-reloads:
				conf, err := config.LoadConfig(configPath)
				if err != nil {
					log.WithFields(log.Fields{
						"error":      err,
						"configPath": configPath,
					}).Error("Could not reload config, keeping the current reporters")
					continue
				}
				log.Info("New config loaded")
				agent.configure(conf)

			case <-ctx.Done():
				agent.shutdown()
				close(shutdownComplete)
				return
			}
		}
	}()

	return cancel, shutdownComplete, nil
}

// ValidateConfig loads the config at configPath and checks every reporter
// config in it, without building anything
func ValidateConfig(configPath string) error {
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	custom, err := reporters.DecodeAll(&conf.Metrics)
	if err != nil {
		return err
	}
	if len(custom) == 0 {
		return errors.New("no reporters are configured")
	}
	for _, c := range custom {
		log.WithFields(log.Fields{
			"reporterType": c.ReporterConfigCore().Type,
		}).Debugf("Valid reporter config:\n%s", config.ToString(c))
	}
	return nil
}
