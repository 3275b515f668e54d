package common

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

const (
	// DefaultServerEndpoint is the address the server listens on if none is given
	DefaultServerEndpoint = "[::1]:6667"
	// FallbackServerEndpoint is used if the host has no IPv6 loopback
	FallbackServerEndpoint = "127.0.0.1:6667"
	// DefaultClientEndpoint is the address the client connects to if none is configured.
	// localhost resolves to both loopback addresses, so the client reaches a server
	// on DefaultServerEndpoint as well as on FallbackServerEndpoint.
	DefaultClientEndpoint = "localhost:6667"
)

// AddrKind tells which transport an Address needs
type AddrKind uint8

const (
	AddrKindTCP  AddrKind = iota + 1 // host:port
	AddrKindUnix                     // filesystem path of a unix domain socket
)

// String returns the string representation of an AddrKind.
func (k AddrKind) String() string {
	switch k {
	case AddrKindTCP:
		return "tcp"
	case AddrKindUnix:
		return "unix"
	default:
		return "unknown"
	}
}

// Address is a resolved server address. It is either a network address
// (host:port) or the path of a local socket. Use ParseAddress to create one.
type Address struct {
	Kind     AddrKind
	Endpoint string // host:port for tcp, path for unix
}

// ParseAddress resolves addr into an Address. Strings that parse as host:port
// (with a numeric port and no path separator) are tcp addresses; everything
// else is taken as the path of a unix socket.
func ParseAddress(addr string) (Address, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return Address{}, NewRPCError(ErrKConfig, "empty server address")
	}

	if isHostPort(addr) {
		return Address{Kind: AddrKindTCP, Endpoint: addr}, nil
	}
	return Address{Kind: AddrKindUnix, Endpoint: addr}, nil
}

// MustParseAddress is like ParseAddress but panics on error
func MustParseAddress(addr string) Address {
	a, err := ParseAddress(addr)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the address in the form kind://endpoint
func (a Address) String() string {
	return fmt.Sprintf("%s://%s", a.Kind, a.Endpoint)
}

// isHostPort checks if addr looks like host:port
func isHostPort(addr string) bool {
	if strings.ContainsAny(addr, `/\`) {
		return false
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return false
	}
	// an empty host is fine for listening (":6667" means all interfaces)
	return host == "" || !strings.ContainsAny(host, " \t")
}
