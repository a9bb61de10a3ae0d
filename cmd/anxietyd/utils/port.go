package utils

import (
	"fmt"
	"net"

	"github.com/concave-dev/anxiety/cmd/anxietyd/config"
	"github.com/concave-dev/anxiety/internal/logging"
	"github.com/concave-dev/anxiety/internal/netutil"
)

// PreBindServiceListener reserves a TCP listener for a service before the
// service starts.
//
// An explicitly configured port must bind exactly. A default port falls
// back to the following ports, up to GetMaxPorts attempts, and logs a
// warning when it moved.
//
// Returns the bound listener and actual port, or error if binding fails.
func PreBindServiceListener(serviceName string, portBinder *netutil.PortBinder, explicitlySet bool, addr string, port int) (net.Listener, int, error) {
	if !explicitlySet {
		logging.Info("Pre-binding %s listener starting from port %d", serviceName, port)

		listener, actualPort, err := portBinder.BindTCPWithFallbackAndLimit(addr, port, GetMaxPorts())
		if err != nil {
			return nil, 0, fmt.Errorf("failed to pre-bind %s listener: %w", serviceName, err)
		}

		if actualPort != port {
			logging.Warn("Default %s port %d was busy, pre-bound to port %d", serviceName, port, actualPort)
		} else {
			logging.Info("Pre-bound %s listener to port %d", serviceName, actualPort)
		}

		return listener, actualPort, nil
	}

	logging.Info("Pre-binding %s listener to explicit port %d", serviceName, port)

	listener, err := portBinder.BindTCP(addr, port)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to pre-bind %s listener to %s:%d: %w", serviceName, addr, port, err)
	}

	return listener, port, nil
}

// GetMaxPorts returns the configured maximum number of ports to try during
// port fallback.
func GetMaxPorts() int {
	if config.Global.MaxPorts <= 0 {
		return 100
	}
	return config.Global.MaxPorts
}
