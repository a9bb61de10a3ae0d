// Package netutil provides listener pre-binding and network error
// classification for the anxietyd API server.
//
// anxietyd binds its API port before building the backend and device queue,
// so a port conflict fails startup before any I/O state exists and the
// listener handed to gin is already reserved.
package netutil

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// AddressInUseError is returned by BindTCP when the port is taken. It keeps
// the underlying error for errors.Is checks.
type AddressInUseError struct {
	Port    int
	Address string
	Err     error
}

func (e *AddressInUseError) Error() string {
	return fmt.Sprintf("port %d is already in use on %s", e.Port, e.Address)
}

func (e *AddressInUseError) Unwrap() error {
	return e.Err
}

// PortBinder reserves TCP ports by binding them immediately and holding the
// listener until a server takes it over.
type PortBinder struct{}

// NewPortBinder creates a new PortBinder.
func NewPortBinder() *PortBinder {
	return &PortBinder{}
}

// BindTCP binds address:port and returns the open listener.
func (pb *PortBinder) BindTCP(address string, port int) (net.Listener, error) {
	addr := net.JoinHostPort(address, strconv.Itoa(port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		if IsAddressInUseError(err) {
			return nil, &AddressInUseError{Port: port, Address: address, Err: err}
		}
		return nil, fmt.Errorf("failed to bind TCP to %s: %w", addr, err)
	}

	return listener, nil
}

// BindTCPWithFallback tries preferredPort and then the following ports until
// one is free, up to 100 attempts. It returns the listener and the bound port.
func (pb *PortBinder) BindTCPWithFallback(address string, preferredPort int) (net.Listener, int, error) {
	return pb.BindTCPWithFallbackAndLimit(address, preferredPort, 100)
}

// BindTCPWithFallbackAndLimit is BindTCPWithFallback with a caller-chosen
// number of attempts.
func (pb *PortBinder) BindTCPWithFallbackAndLimit(address string, preferredPort, maxAttempts int) (net.Listener, int, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for port := preferredPort; port < preferredPort+maxAttempts && port <= 65535; port++ {
		listener, err := pb.BindTCP(address, port)
		if err != nil {
			var addrInUseErr *AddressInUseError
			if errors.As(err, &addrInUseErr) {
				continue
			}
			return nil, 0, fmt.Errorf("failed to bind TCP starting from port %d: %w", preferredPort, err)
		}
		return listener, port, nil
	}

	return nil, 0, fmt.Errorf("no available TCP port found in range %d-%d on %s",
		preferredPort, preferredPort+maxAttempts-1, address)
}

// GetListenerPort returns the port a TCP listener is bound to, which is the
// only way to learn it after binding port 0.
func (pb *PortBinder) GetListenerPort(listener net.Listener) (int, error) {
	tcpAddr, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("listener is not a TCP listener: %T", listener.Addr())
	}
	return tcpAddr.Port, nil
}
