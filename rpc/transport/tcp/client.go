package tcp

import (
	"github.com/ValentinKolb/rpClip/rpc/common"
	"github.com/ValentinKolb/rpClip/rpc/transport"
	"github.com/ValentinKolb/rpClip/rpc/transport/base"
	"net"
	"time"
)

// clientConnector dials the server over tcp. Host names are resolved on every
// dial, so localhost reaches a server on either loopback address.
type clientConnector struct{}

func (c *clientConnector) GetName() string { return "tcp" }

func (c *clientConnector) Connect(endpoint string, timeout time.Duration) (net.Conn, error) {
	dialer := net.Dialer{Timeout: timeout}
	return dialer.Dial("tcp", endpoint)
}

func (c *clientConnector) UpgradeConnection(conn net.Conn, config common.ClientConfig) error {
	return upgradeConnection(conn, config.Transport)
}

// NewTCPClientTransport creates a client transport that talks to a server on
// a host:port address
func NewTCPClientTransport() transport.IRPCClientTransport {
	return base.NewBaseClientTransport(&clientConnector{})
}
