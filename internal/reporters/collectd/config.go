package collectd

import (
	"net"
	"strconv"

	"github.com/pkg/errors"
	metrics "github.com/rcrowley/go-metrics"

	"github.com/signalfx/go-metrics-collectd/internal/core/config"
	"github.com/signalfx/go-metrics-collectd/internal/core/hostid"
	"github.com/signalfx/go-metrics-collectd/internal/reporters"
	"github.com/signalfx/go-metrics-collectd/internal/utils"
)

// ReporterType is the `type` value that selects this reporter
const ReporterType = "collectd"

func init() {
	reporters.Register(ReporterType, func() reporters.CustomConfig { return &Config{} })
}

// Config for the collectd reporter, which sends the metrics of a registry to
// the network plugin of a collectd daemon.
type Config struct {
	config.ReporterConfig `yaml:"-"`
	// The host that collectd is running on
	Host string `yaml:"host" validate:"required"`
	// The UDP port that the collectd network plugin is listening on
	Port int `yaml:"port" validate:"required,min=1,max=65535"`
	// The host name that the metrics are reported under.  Defaults to the
	// hostname of this machine.
	LocalHost string `yaml:"localHost"`
	// One of NONE, SIGN or ENCRYPT
	SecurityLevel SecurityLevel `yaml:"securityLevel" validate:"min=0,max=2"`
	// Required when securityLevel is SIGN or ENCRYPT
	Username string `yaml:"username"`
	// Shared secret used to sign or encrypt packets.  Required when
	// securityLevel is SIGN or ENCRYPT.
	Password string `yaml:"password" neverLog:"true"`
}

var _ reporters.CustomConfig = &Config{}

// Validate checks that credentials are provided when packets are signed or
// encrypted
func (c *Config) Validate() error {
	if c.SecurityLevel.RequiresCredentials() && (utils.IsBlank(c.Username) || utils.IsBlank(c.Password)) {
		return errors.New("username and password are required when using security level SIGN or ENCRYPT.")
	}
	return nil
}

// Hostname is the host name that metrics are reported under
func (c *Config) Hostname() string {
	if !utils.IsBlank(c.LocalHost) {
		return c.LocalHost
	}
	return hostid.Hostname()
}

// Address is the host:port of the collectd server
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Build dials the collectd server and returns a reporter for the given
// registry that is not started yet.  Nothing is sent until the first report.
func (c *Config) Build(registry metrics.Registry) (reporters.Reporter, error) {
	valueOpts, err := reporters.ValueOptionsFor(&c.ReporterConfig)
	if err != nil {
		return nil, err
	}

	sender, err := dialUDP(c.Address(), c.SecurityLevel, c.Username, c.Password)
	if err != nil {
		return nil, errors.Wrapf(err, "could not dial collectd at %s", c.Address())
	}

	return New(registry, sender, Options{
		ValueOptions: valueOpts,
		Hostname:     c.Hostname(),
	}), nil
}
