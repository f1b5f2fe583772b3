// Package reporters is the core logic for reporters.  Reporters are what push
// the metrics of a go-metrics registry to an external system on a schedule.
// Every reporter type registers a config factory under the `type` tag that
// selects it in the config file.  The config returned by the factory knows
// how to build the reporter for a registry once it has been validated.
package reporters

import (
	"sort"
	"time"

	metrics "github.com/rcrowley/go-metrics"

	"github.com/signalfx/go-metrics-collectd/internal/core/config"
)

// Reporter periodically pushes the metrics of a registry somewhere.  Report
// does a single report synchronously, Start begins reporting on the given
// interval and Stop ends reporting and releases any resources the reporter
// holds.  A stopped reporter cannot be started again.
type Reporter interface {
	Report()
	Start(interval time.Duration)
	Stop()
}

// CustomConfig is the type-specific config of a reporter.  It embeds
// config.ReporterConfig to get the options that are common to all reporter
// types.  Build must not mutate the config and every call must return an
// independent reporter.
type CustomConfig interface {
	config.ReporterCustomConfig
	Build(registry metrics.Registry) (Reporter, error)
}

// ConfigFactory is a niladic function that creates an empty instance of the
// config of a reporter type
type ConfigFactory func() CustomConfig

var configFactories = map[string]ConfigFactory{}

// Register a new reporter type.  This is intended to be called from the init
// function of the package of a specific reporter implementation.
func Register(_type string, factory ConfigFactory) {
	if _, ok := configFactories[_type]; ok {
		panic("Reporter type '" + _type + "' already registered")
	}
	configFactories[_type] = factory
}

// Deregister removes a reporter type.  Primarily intended for testing
// purposes.
func Deregister(_type string) {
	delete(configFactories, _type)
}

// IsRegistered returns true if there is a reporter for the given type tag
func IsRegistered(_type string) bool {
	_, ok := configFactories[_type]
	return ok
}

// RegisteredTypes returns the sorted type tags of all known reporters
func RegisteredTypes() []string {
	var out []string
	for k := range configFactories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
