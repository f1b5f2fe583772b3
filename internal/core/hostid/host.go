// Package hostid figures out the name of the machine that metrics are
// reported from.
package hostid

import (
	"os"
	"sync"

	fqdn "github.com/Showmax/go-fqdn"
	log "github.com/sirupsen/logrus"
)

var (
	resolveOnce  sync.Once
	resolvedHost string
)

// Hostname returns the fully qualified name of this machine, falling back to
// the plain system hostname if the FQDN cannot be determined.  The lookup is
// done once per process.
func Hostname() string {
	resolveOnce.Do(func() {
		resolvedHost = getHostname(true)
	})
	return resolvedHost
}

func getHostname(useFullyQualifiedHost bool) string {
	var host string
	if useFullyQualifiedHost {
		log.Debug("Trying to get fully qualified hostname")
		var err error
		host, err = fqdn.FqdnHostname()
		if host == "unknown" || host == "localhost" || err != nil {
			log.WithFields(log.Fields{
				"detail": err,
			}).Debug("Error getting fully qualified hostname, using plain hostname")
			host = ""
		}
	}

	if host == "" {
		var err error
		host, err = os.Hostname()
		if err != nil {
			log.WithError(err).Error("Error getting system simple hostname, cannot set hostname")
			return ""
		}
	}

	log.Debugf("Using hostname %s", host)
	return host
}
