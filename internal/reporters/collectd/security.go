package collectd

import (
	"fmt"
	"strings"
)

// SecurityLevel is the protection that is applied to the packets sent to
// collectd.  The zero value is None.
type SecurityLevel int

// The security levels that collectd's network plugin supports
const (
	// None sends plain packets
	None SecurityLevel = iota
	// Sign appends an HMAC-SHA-256 signature to every packet
	Sign
	// Encrypt encrypts every packet with AES-256
	Encrypt
)

var securityLevelNames = map[SecurityLevel]string{
	None:    "NONE",
	Sign:    "SIGN",
	Encrypt: "ENCRYPT",
}

// ParseSecurityLevel looks up a security level by its name, in any case
func ParseSecurityLevel(name string) (SecurityLevel, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	for level, n := range securityLevelNames {
		if n == normalized {
			return level, nil
		}
	}
	return None, fmt.Errorf("unknown security level %q, must be one of NONE, SIGN or ENCRYPT", name)
}

func (l SecurityLevel) String() string {
	if n, ok := securityLevelNames[l]; ok {
		return n
	}
	return fmt.Sprintf("SecurityLevel(%d)", int(l))
}

// RequiresCredentials is true for the levels that need a username and
// password to sign or encrypt with
func (l SecurityLevel) RequiresCredentials() bool {
	return l != None
}

// UnmarshalYAML accepts the level names
func (l *SecurityLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	level, err := ParseSecurityLevel(s)
	if err != nil {
		return err
	}
	*l = level
	return nil
}

// MarshalYAML renders the level by name
func (l SecurityLevel) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}
