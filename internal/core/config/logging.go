package config

import (
	"os"

	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// LogConfig contains configuration related to logging
type LogConfig struct {
	// Valid levels include `trace`, `debug`, `info`, `warn`, `error`, `fatal`
	Level string `yaml:"level" default:"info" validate:"oneof=trace debug info warn warning error fatal panic"`
	// The log output format, either `text` or `json`
	Format string `yaml:"format" default:"text" validate:"oneof=text json"`
}

// LogrusLevel returns a logrus log level based on the configured level in
// LogConfig.
func (lc *LogConfig) LogrusLevel() *log.Level {
	if lc.Level != "" {
		level, err := log.ParseLevel(lc.Level)
		if err != nil {
			log.WithFields(log.Fields{
				"level": lc.Level,
			}).Error("Invalid log level")
			return nil
		}
		return &level
	}
	return nil
}

// LogrusFormatter returns the formatter for the configured format
func (lc *LogConfig) LogrusFormatter() log.Formatter {
	switch lc.Format {
	case "json":
		return &log.JSONFormatter{}
	default:
		return &prefixed.TextFormatter{}
	}
}

// Apply configures the standard logrus logger
func (lc *LogConfig) Apply() {
	if level := lc.LogrusLevel(); level != nil {
		log.SetLevel(*level)
	}
	log.SetFormatter(lc.LogrusFormatter())
	log.SetOutput(os.Stdout)
}
