package common

import (
	"fmt"
	"strings"
)

// Defaults used if a config value is left at zero
const (
	DefaultTimeoutSecond      = 10
	DefaultMaxPendingSessions = 10
	DefaultMaxWorkersPerConn  = 1
	DefaultMaxMessageSize     = 16 * 1024 * 1024 // 16 MiB
)

// --------------------------------------------------------------------------
// Socket configuration (shared by client and server)
// --------------------------------------------------------------------------

// SocketConf holds options that apply to every stream socket
type SocketConf struct {
	WriteBufferSize int // bytes, 0 keeps the OS default
	ReadBufferSize  int // bytes, 0 keeps the OS default
}

// TCPConf holds options that only apply to tcp sockets
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int // 0 disables keep-alive tuning
	TCPLingerSec    int // 0 keeps the OS default
}

// TransportConfig holds the transport related configuration
type TransportConfig struct {
	SocketConf
	TCPConf

	// MaxMessageSize is the largest frame payload accepted (in bytes)
	MaxMessageSize int
}

// MaxMessageSizeOrDefault returns MaxMessageSize or the default if not set
func (c TransportConfig) MaxMessageSizeOrDefault() int {
	if c.MaxMessageSize > 0 {
		return c.MaxMessageSize
	}
	return DefaultMaxMessageSize
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters of the rpClip server.
type ServerConfig struct {
	// Address the server listens on
	Address Address

	// Backend is the clipboard backend to serve (native, memory)
	Backend string

	// TimeoutSecond bounds reading a request, handling it and writing the response.
	// Zero selects the default, a negative value disables the timeout.
	TimeoutSecond int64

	// MaxPendingSessions bounds how many accepted connections may be
	// initialized at the same time
	MaxPendingSessions int

	// MaxWorkersPerConn bounds the requests handled in parallel on one connection
	MaxWorkersPerConn int

	// Transport settings
	Transport TransportConfig

	// MetricsEndpoint is the address of the prometheus endpoint, empty disables it
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// WithDefaults returns a copy of the config with all zero values replaced by defaults
func (c ServerConfig) WithDefaults() ServerConfig {
	if c.Address.Kind == 0 {
		c.Address = MustParseAddress(DefaultServerEndpoint)
	}
	if c.Backend == "" {
		c.Backend = "native"
	}
	if c.TimeoutSecond == 0 {
		c.TimeoutSecond = DefaultTimeoutSecond
	}
	if c.MaxPendingSessions <= 0 {
		c.MaxPendingSessions = DefaultMaxPendingSessions
	}
	if c.MaxWorkersPerConn <= 0 {
		c.MaxWorkersPerConn = DefaultMaxWorkersPerConn
	}
	if c.Transport.MaxMessageSize <= 0 {
		c.Transport.MaxMessageSize = DefaultMaxMessageSize
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Address", c.Address.String())
	addField("Clipboard Backend", c.Backend)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Max Pending Sessions", fmt.Sprintf("%d", c.MaxPendingSessions))
	addField("Workers Per Conn", fmt.Sprintf("%d", c.MaxWorkersPerConn))
	addField("Max Message Size", fmt.Sprintf("%d bytes", c.Transport.MaxMessageSizeOrDefault()))

	// Socket settings
	addSection("Socket")
	addField("Read Buffer", bufferString(c.Transport.ReadBufferSize))
	addField("Write Buffer", bufferString(c.Transport.WriteBufferSize))
	if c.Address.Kind == AddrKindTCP {
		addField("TCP No Delay", fmt.Sprintf("%t", c.Transport.TCPNoDelay))
		addField("TCP Keep Alive", fmt.Sprintf("%d sec", c.Transport.TCPKeepAliveSec))
		addField("TCP Linger", fmt.Sprintf("%d sec", c.Transport.TCPLingerSec))
	}

	// Observability
	addSection("Observability")
	addField("Log Level", c.LogLevel)
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	} else {
		addField("Metrics Endpoint", "disabled")
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all configuration parameters of an rpClip client.
type ClientConfig struct {
	// Address of the server
	Address Address

	// TimeoutSecond bounds connecting and every single request, 0 disables it
	TimeoutSecond int

	// Transport settings
	Transport TransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Server", c.Address.String())
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Max Message Size", fmt.Sprintf("%d bytes", c.Transport.MaxMessageSizeOrDefault()))

	return sb.String()
}

// bufferString formats a socket buffer size
func bufferString(size int) string {
	if size <= 0 {
		return "os default"
	}
	return fmt.Sprintf("%d KB", size/1024)
}
