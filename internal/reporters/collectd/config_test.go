package collectd

import (
	"testing"

	metrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"

	"github.com/signalfx/go-metrics-collectd/internal/core/config"
	"github.com/signalfx/go-metrics-collectd/internal/core/config/validation"
	"github.com/signalfx/go-metrics-collectd/internal/core/hostid"
	"github.com/signalfx/go-metrics-collectd/internal/reporters"
)

const credentialsMessage = "username and password are required when using security level SIGN or ENCRYPT."

func TestValidate(t *testing.T) {
	t.Run("NONE never needs credentials", func(t *testing.T) {
		for _, creds := range [][2]string{{"", ""}, {"  ", ""}, {"user", ""}, {"user", "secret"}} {
			c := &Config{Host: "localhost", Port: 25826, SecurityLevel: None, Username: creds[0], Password: creds[1]}
			assert.NoError(t, c.Validate(), "credentials %q", creds)
		}
	})

	for _, level := range []SecurityLevel{Sign, Encrypt} {
		level := level
		t.Run(level.String()+" needs credentials", func(t *testing.T) {
			for _, creds := range [][2]string{{"", ""}, {"user", ""}, {"", "secret"}, {"   ", "secret"}, {"user", "\t"}} {
				c := &Config{Host: "localhost", Port: 25826, SecurityLevel: level, Username: creds[0], Password: creds[1]}
				err := c.Validate()
				require.Error(t, err, "credentials %q", creds)
				assert.Equal(t, credentialsMessage, err.Error())
			}

			c := &Config{Host: "localhost", Port: 25826, SecurityLevel: level, Username: "user", Password: "secret"}
			assert.NoError(t, c.Validate())
		})
	}

	t.Run("Credential rule is the only custom rule", func(t *testing.T) {
		assert.NoError(t, (&Config{}).Validate())
	})
}

func TestSecurityDisabledByDefault(t *testing.T) {
	assert.Equal(t, None, (&Config{}).SecurityLevel)

	var c Config
	require.NoError(t, yaml.UnmarshalStrict([]byte("host: localhost\nport: 2048\n"), &c))
	assert.Equal(t, None, c.SecurityLevel)
}

func TestSecurityLevelYAML(t *testing.T) {
	for name, expected := range map[string]SecurityLevel{
		"NONE":    None,
		"sign":    Sign,
		"Encrypt": Encrypt,
	} {
		var c Config
		require.NoError(t, yaml.UnmarshalStrict([]byte("securityLevel: "+name), &c))
		assert.Equal(t, expected, c.SecurityLevel)
	}

	var c Config
	err := yaml.UnmarshalStrict([]byte("securityLevel: PLAINTEXT"), &c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown security level")

	out, err := yaml.Marshal(&Config{SecurityLevel: Sign})
	require.NoError(t, err)
	assert.Contains(t, string(out), "securityLevel: SIGN")
}

func TestFieldConstraints(t *testing.T) {
	violations := func(c *Config) []validation.FieldError {
		fes, err := validation.Violations(c)
		require.NoError(t, err)
		return fes
	}

	t.Run("Host and port are required", func(t *testing.T) {
		c := &Config{Host: "somehost"}
		fes := violations(c)
		require.Len(t, fes, 1)
		assert.Equal(t, validation.FieldError{Field: "port", Tag: "required"}, fes[0])

		c.Port = 2048
		assert.Empty(t, violations(c))

		c.Host = ""
		fes = violations(c)
		require.Len(t, fes, 1)
		assert.Equal(t, "host", fes[0].Field)
	})

	t.Run("Port range", func(t *testing.T) {
		for port, ok := range map[int]bool{-1: false, 0: false, 1: true, 2048: true, 65535: true, 65536: false} {
			fes := violations(&Config{Host: "localhost", Port: port})
			if ok {
				assert.Empty(t, fes, "port %d", port)
			} else {
				require.Len(t, fes, 1, "port %d", port)
				assert.Equal(t, "port", fes[0].Field)
			}
		}
	})

	t.Run("Security level range", func(t *testing.T) {
		fes := violations(&Config{Host: "localhost", Port: 1, SecurityLevel: SecurityLevel(7)})
		require.Len(t, fes, 1)
		assert.Equal(t, validation.FieldError{Field: "securityLevel", Tag: "max", Param: "2"}, fes[0])
	})

	t.Run("Credentials are not a field constraint", func(t *testing.T) {
		assert.Empty(t, violations(&Config{Host: "localhost", Port: 1, SecurityLevel: Encrypt}))
	})
}

func TestHostname(t *testing.T) {
	assert.Equal(t, "app01", (&Config{LocalHost: "app01"}).Hostname())
	assert.Equal(t, hostid.Hostname(), (&Config{}).Hostname())
	assert.Equal(t, hostid.Hostname(), (&Config{LocalHost: "  "}).Hostname())
}

func TestBuild(t *testing.T) {
	t.Run("Minimal config builds", func(t *testing.T) {
		c := &Config{
			ReporterConfig: config.ReporterConfig{Type: ReporterType},
			Host:           "localhost",
			Port:           2048,
		}
		r, err := c.Build(metrics.NewRegistry())
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.IsType(t, &Reporter{}, r)
		r.Stop()
	})

	t.Run("Each build is independent", func(t *testing.T) {
		c := &Config{Host: "localhost", Port: 2048}
		r1, err := c.Build(metrics.NewRegistry())
		require.NoError(t, err)
		r2, err := c.Build(metrics.NewRegistry())
		require.NoError(t, err)
		assert.NotSame(t, r1, r2)
		r1.Stop()
		r2.Stop()
		assert.Equal(t, &Config{Host: "localhost", Port: 2048}, c)
	})

	t.Run("Unresolvable host fails the build", func(t *testing.T) {
		c := &Config{Host: "nonexistent.invalid", Port: 2048}
		r, err := c.Build(metrics.NewRegistry())
		require.Error(t, err)
		assert.Nil(t, r)
		assert.Contains(t, err.Error(), "could not dial collectd at nonexistent.invalid:2048")
	})

	t.Run("Invalid filter fails the build", func(t *testing.T) {
		c := &Config{
			ReporterConfig: config.ReporterConfig{
				Type:            ReporterType,
				Includes:        []string{"("},
				UseRegexFilters: true,
			},
			Host: "localhost",
			Port: 2048,
		}
		_, err := c.Build(metrics.NewRegistry())
		require.Error(t, err)
	})
}

func TestRegistered(t *testing.T) {
	assert.True(t, reporters.IsRegistered("collectd"))
}

func TestConfigurableViaYAML(t *testing.T) {
	conf, err := config.LoadConfigFromContent([]byte(`
metrics:
  reporters:
    - type: collectd
      host: localhost
      port: 2004
      localHost: app01
      securityLevel: ENCRYPT
      username: test
      password: shared-secret
`))
	require.NoError(t, err)
	require.Len(t, conf.Metrics.Reporters, 1)

	custom, err := reporters.DecodeConfig(&conf.Metrics.Reporters[0])
	require.NoError(t, err)
	require.IsType(t, &Config{}, custom)

	c := custom.(*Config)
	assert.Equal(t, "localhost", c.Host)
	assert.Equal(t, 2004, c.Port)
	assert.Equal(t, "app01", c.LocalHost)
	assert.Equal(t, Encrypt, c.SecurityLevel)
	assert.Equal(t, "test", c.Username)
	assert.Equal(t, "shared-secret", c.Password)
	assert.Equal(t, config.Milliseconds, c.DurationUnit)
	assert.Equal(t, config.Seconds, c.RateUnit)

	r, err := c.Build(metrics.NewRegistry())
	require.NoError(t, err)
	assert.IsType(t, &Reporter{}, r)
	r.Stop()

	t.Run("Password is never logged", func(t *testing.T) {
		text := config.ToString(c)
		assert.Contains(t, text, "username: test")
		assert.NotContains(t, text, "shared-secret")
	})
}

func TestDecodeErrors(t *testing.T) {
	decode := func(yamlText string) error {
		conf, err := config.LoadConfigFromContent([]byte(yamlText))
		require.NoError(t, err)
		_, err = reporters.DecodeConfig(&conf.Metrics.Reporters[0])
		return err
	}

	err := decode(`
metrics:
  reporters:
    - type: collectd
      host: localhost
      port: 2004
      securityLevel: SIGN
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), credentialsMessage)

	err = decode(`
metrics:
  reporters:
    - type: collectd
      host: localhost
      port: 70000
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'port'")

	err = decode(`
metrics:
  reporters:
    - type: collectd
      host: localhost
      port: 2004
      hostname: nope
`)
	require.Error(t, err)
}
