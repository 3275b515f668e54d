package unix

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"github.com/ValentinKolb/rpClip/rpc/transport"
	"github.com/ValentinKolb/rpClip/rpc/transport/base"
	"io/fs"
	"net"
	"time"
)

// clientConnector dials a server listening on a local socket path
type clientConnector struct{}

func (c *clientConnector) GetName() string { return "unix" }

func (c *clientConnector) Connect(path string, timeout time.Duration) (net.Conn, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.Dial("unix", path)
	switch {
	case err == nil:
		return conn, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("no socket at %s (is the server running?): %w", path, err)
	default:
		return nil, err
	}
}

func (c *clientConnector) UpgradeConnection(conn net.Conn, config common.ClientConfig) error {
	return upgradeConnection(conn, config.Transport)
}

// NewUnixClientTransport creates a client transport for a server on the same
// machine listening on a unix domain socket
func NewUnixClientTransport() transport.IRPCClientTransport {
	return base.NewBaseClientTransport(&clientConnector{})
}
