package client

import (
	"context"
	"github.com/ValentinKolb/rpClip/lib/clipboard"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"github.com/ValentinKolb/rpClip/rpc/serializer"
	"github.com/ValentinKolb/rpClip/rpc/transport"
)

// compile time check
var _ clipboard.IClipboard = (*RPCClipboard)(nil)

// NewRPCClipboard creates a new RPC clipboard
// The function takes a config, a transport and a serializer as parameters.
// It connects the transport and returns the clipboard of the server.
func NewRPCClipboard(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (*RPCClipboard, error) {

	// Connect the transport
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	return &RPCClipboard{
		config:     config,
		transport:  transport,
		serializer: serializer,
	}, nil
}

// RPCClipboard is the clipboard of a remote rpClip server. It implements
// clipboard.IClipboard, so it can be used wherever a local clipboard is expected.
type RPCClipboard struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// GetClip returns the clipboard text of the server as stored there. The line
// endings are those of the server platform.
func (c *RPCClipboard) GetClip(ctx context.Context) (string, error) {
	resp, err := invokeRPCRequest(ctx, common.NewGetClipRequest(), c.transport, c.serializer)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// SetClip replaces the clipboard text of the server
func (c *RPCClipboard) SetClip(ctx context.Context, text string) error {
	_, err := invokeRPCRequest(ctx, common.NewSetClipRequest(text), c.transport, c.serializer)
	return err
}

// Close closes the connection to the server
func (c *RPCClipboard) Close() error {
	return c.transport.Close()
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the clipboard package in interface.go)
// --------------------------------------------------------------------------

func (c *RPCClipboard) GetText() (string, error) {
	return c.GetClip(context.Background())
}

func (c *RPCClipboard) SetText(text string) error {
	return c.SetClip(context.Background(), text)
}
