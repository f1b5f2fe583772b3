// Package all imports every reporter type so that they are registered
package all

import (
	// Import reporters so that they get registered
	_ "github.com/signalfx/go-metrics-collectd/internal/reporters/collectd"
	_ "github.com/signalfx/go-metrics-collectd/internal/reporters/logreporter"
)
