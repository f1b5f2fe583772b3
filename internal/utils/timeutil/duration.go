// Package timeutil has helpers for durations in config files
package timeutil

import (
	"time"
)

// Duration is a time.Duration that is expressed as a Go duration string
// ("10s", "1m30s") in YAML.
type Duration time.Duration

// AsDuration returns the value as a standard time.Duration
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML parses a Go duration string.  Bare integers are taken as
// seconds.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var secs int64
	if err := unmarshal(&secs); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}

	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML renders the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}
