package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"regexp"

	"github.com/pkg/errors"
	"github.com/signalfx/defaults"
	log "github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v2"
)

// LoadConfig reads and parses the config file at configPath
func LoadConfig(configPath string) (*Config, error) {
	content, err := ioutil.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read config file %s", configPath)
	}
	return LoadConfigFromContent(content)
}

// LoadConfigFromContent transforms yaml to a Config struct.  Only the
// options that are common to all reporters are checked here, the
// type-specific options of each reporter are decoded and validated when the
// reporter is created.
func LoadConfigFromContent(fileContent []byte) (*Config, error) {
	config := &Config{}

	preprocessedContent := preprocessConfig(fileContent)

	err := yaml.UnmarshalStrict(preprocessedContent, config)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse config")
	}

	if err := defaults.Set(config); err != nil {
		panic(fmt.Sprintf("Config defaults are wrong types: %s", err))
	}

	for i := range config.Metrics.Reporters {
		if err := defaults.Set(&config.Metrics.Reporters[i]); err != nil {
			panic(fmt.Sprintf("Reporter config defaults are wrong types: %s", err))
		}
	}

	return config.initialize()
}

var envVarRE = regexp.MustCompile(`\${\s*([\w-]+?)\s*}`)

// Replaces envvar syntax with the actual envvars
func preprocessConfig(content []byte) []byte {
	return envVarRE.ReplaceAllFunc(content, func(bs []byte) []byte {
		parts := envVarRE.FindSubmatch(bs)
		envvar := string(parts[1])

		val, ok := os.LookupEnv(envvar)
		if !ok {
			log.WithFields(log.Fields{
				"envvar": envvar,
			}).Warn("Config references an envvar that is not set")
		}

		return []byte(val)
	})
}
