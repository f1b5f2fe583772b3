package reporters

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/signalfx/defaults"
	log "github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v2"

	"github.com/signalfx/go-metrics-collectd/internal/core/config"
	"github.com/signalfx/go-metrics-collectd/internal/core/config/validation"
)

// DecodeConfig creates the config struct that was registered for the type of
// conf, fills it in from the type-specific keys of conf and validates it.
// Keys that the reporter type does not know about are an error since the
// user provided config that will not be used and probably thought would.
func DecodeConfig(conf *config.ReporterConfig) (CustomConfig, error) {
	factory, ok := configFactories[conf.Type]
	if !ok {
		return nil, fmt.Errorf("reporter type '%s' not recognized, known types are %v", conf.Type, RegisteredTypes())
	}

	custom := factory()
	*custom.ReporterConfigCore() = *conf

	otherYaml, err := yaml.Marshal(conf.ExtraConfig())
	if err != nil {
		return nil, err
	}

	if err := yaml.UnmarshalStrict(otherYaml, custom); err != nil {
		log.WithFields(log.Fields{
			"reporterType": conf.Type,
			"error":        err,
		}).Debug("Invalid reporter-specific configuration")
		return nil, errors.Wrapf(err, "invalid %s reporter configuration", conf.Type)
	}

	if err := defaults.Set(custom); err != nil {
		return nil, errors.Wrapf(err, "could not set defaults on %s reporter configuration", conf.Type)
	}

	if err := Validate(custom); err != nil {
		return nil, errors.Wrapf(err, "%s reporter configuration is invalid", conf.Type)
	}

	return custom, nil
}

// Validate runs every check on a reporter config: the options common to all
// reporters, the field constraints declared with `validate` struct tags and
// finally the reporter's own Validate method, if it has one.
func Validate(conf CustomConfig) error {
	core := conf.ReporterConfigCore()

	if !IsRegistered(core.Type) {
		return fmt.Errorf("reporter type '%s' not recognized", core.Type)
	}

	if err := core.ValidateCommonOptions(); err != nil {
		return err
	}

	if err := validation.ValidateStruct(conf); err != nil {
		return err
	}

	return validation.ValidateCustomConfig(conf)
}

// DecodeAll decodes and validates every reporter in the metrics config,
// stopping at the first invalid one.
func DecodeAll(mc *config.MetricsConfig) ([]CustomConfig, error) {
	var out []CustomConfig
	for i := range mc.Reporters {
		custom, err := DecodeConfig(&mc.Reporters[i])
		if err != nil {
			return nil, errors.Wrapf(err, "reporter #%d", i+1)
		}
		out = append(out, custom)
	}
	return out, nil
}
