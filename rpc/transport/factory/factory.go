package factory

import (
	"fmt"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"github.com/ValentinKolb/rpClip/rpc/transport"
	"github.com/ValentinKolb/rpClip/rpc/transport/tcp"
	"github.com/ValentinKolb/rpClip/rpc/transport/unix"
)

// NewServerTransport returns a server transport able to listen on addr
func NewServerTransport(addr common.Address) (transport.IRPCServerTransport, error) {
	switch addr.Kind {
	case common.AddrKindTCP:
		return tcp.NewTCPDefaultServerTransport(), nil
	case common.AddrKindUnix:
		return unix.NewUnixDefaultServerTransport(), nil
	default:
		return nil, common.NewRPCError(common.ErrKConfig, fmt.Sprintf("unsupported address kind %q", addr.Kind))
	}
}

// NewClientTransport returns a client transport able to connect to addr
func NewClientTransport(addr common.Address) (transport.IRPCClientTransport, error) {
	switch addr.Kind {
	case common.AddrKindTCP:
		return tcp.NewTCPClientTransport(), nil
	case common.AddrKindUnix:
		return unix.NewUnixClientTransport(), nil
	default:
		return nil, common.NewRPCError(common.ErrKConfig, fmt.Sprintf("unsupported address kind %q", addr.Kind))
	}
}
