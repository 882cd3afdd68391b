package utils

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maksimkurb/valvula-mgr/src/internal/errors"
)

// DefaultListenerHost is used when a declaration only carries a port.
const DefaultListenerHost = "127.0.0.1"

const (
	MinPort = 1
	MaxPort = 65534
)

var validate = validator.New()

// ParseHostPort parses "port", "host:port" or "[ipv6]:port".
//
// The port must be a decimal number in MinPort..MaxPort, anything else is an
// INVALID_PORT error. The host must be an IP address or a host name.
func ParseHostPort(decl string) (string, int, error) {
	decl = strings.TrimSpace(decl)
	if decl == "" {
		return "", 0, errors.NewValidationError("empty host:port declaration", nil)
	}

	host := DefaultListenerHost
	portStr := decl

	if strings.HasPrefix(decl, "[") {
		h, p, err := net.SplitHostPort(decl)
		if err != nil {
			return "", 0, errors.NewValidationError(fmt.Sprintf("invalid host:port declaration %q", decl), err)
		}
		host, portStr = h, p
	} else if i := strings.LastIndex(decl, ":"); i >= 0 {
		if h := strings.TrimSpace(decl[:i]); h != "" {
			host = h
		}
		portStr = strings.TrimSpace(decl[i+1:])
	}

	port, err := ParsePort(portStr)
	if err != nil {
		return "", 0, err
	}

	if err := validate.Var(host, "ip|hostname_rfc1123"); err != nil {
		return "", 0, errors.NewValidationError(fmt.Sprintf("invalid listener host %q", host), err)
	}

	return host, port, nil
}

// ParsePort parses a decimal port in MinPort..MaxPort.
func ParsePort(s string) (int, error) {
	if s == "" {
		return 0, errors.NewInvalidPortError("port is missing")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.NewInvalidPortError(fmt.Sprintf("port configuration provided isn't a valid port declaration: %s", s))
		}
	}

	port, err := strconv.Atoi(s)
	if err != nil || port < MinPort || port > MaxPort {
		return 0, errors.NewInvalidPortError(fmt.Sprintf("port value %s is not in the range of %d..%d", s, MinPort, MaxPort))
	}

	return port, nil
}

// FormatHostPort is the inverse of ParseHostPort for a host and port.
func FormatHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
