package transport

import (
	"context"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"net"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request is received.
// The context is cancelled when the client goes away or the request times out.
// The handler must not keep a reference to req after it returns.
type ServerHandleFunc func(ctx context.Context, req []byte) (resp []byte)

// SessionStats is a snapshot of the session counters of a server transport
type SessionStats struct {
	Active   int   // sessions currently connected
	Total    int64 // sessions established since start
	Failed   int64 // sessions that failed to initialize or ended with a protocol error
	Requests int64 // requests read from all sessions
}

// IRPCServerTransport is the interface for the RPC transport layer
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler is called for every request frame received
	RegisterHandler(handler ServerHandleFunc)
	// Listen binds the listening socket described by the config
	Listen(config common.ServerConfig) error
	// Addr returns the bound address, nil before Listen
	Addr() net.Addr
	// Serve accepts connections until ctx is done, Close is called or the
	// listener fails for good
	Serve(ctx context.Context) error
	// Stats returns the current session counters
	Stats() SessionStats
	// Close stops accepting, ends all sessions and releases the socket
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the response
	Send(ctx context.Context, req []byte) (resp []byte, err error)
	// Close closes the transport connection
	Close() error
}
