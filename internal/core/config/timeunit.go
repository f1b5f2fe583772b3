package config

import (
	"fmt"
	"strings"
	"time"
)

// TimeUnit is the unit that durations and rates are converted to before
// being reported
type TimeUnit string

// The supported time units
const (
	Nanoseconds  TimeUnit = "nanoseconds"
	Microseconds TimeUnit = "microseconds"
	Milliseconds TimeUnit = "milliseconds"
	Seconds      TimeUnit = "seconds"
	Minutes      TimeUnit = "minutes"
	Hours        TimeUnit = "hours"
	Days         TimeUnit = "days"
)

var timeUnitDurations = map[TimeUnit]time.Duration{
	Nanoseconds:  time.Nanosecond,
	Microseconds: time.Microsecond,
	Milliseconds: time.Millisecond,
	Seconds:      time.Second,
	Minutes:      time.Minute,
	Hours:        time.Hour,
	Days:         24 * time.Hour,
}

// UnmarshalYAML accepts the unit names in any case
func (u *TimeUnit) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	unit := TimeUnit(strings.ToLower(strings.TrimSpace(s)))
	if !unit.IsValid() {
		return fmt.Errorf("unknown time unit %q", s)
	}
	*u = unit
	return nil
}

// IsValid is true for the known time units
func (u TimeUnit) IsValid() bool {
	_, ok := timeUnitDurations[u]
	return ok
}

// Duration is the length of one unit.  Unknown units are treated as
// nanoseconds so that conversions are identities.
func (u TimeUnit) Duration() time.Duration {
	if d, ok := timeUnitDurations[u]; ok {
		return d
	}
	return time.Nanosecond
}

// ConvertDuration converts a duration expressed in nanoseconds to this unit
func (u TimeUnit) ConvertDuration(nanos float64) float64 {
	return nanos / float64(u.Duration())
}

// ConvertRate converts an events per second rate to events per this unit
func (u TimeUnit) ConvertRate(perSecond float64) float64 {
	return perSecond * u.Duration().Seconds()
}

// Singular is the unit name without the trailing "s", as used in rate
// descriptions (e.g. "calls/second")
func (u TimeUnit) Singular() string {
	return strings.TrimSuffix(string(u), "s")
}
