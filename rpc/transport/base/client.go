package base

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"github.com/ValentinKolb/rpClip/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

var Logger = logger.GetLogger("transport/rpc")

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Connect establishes a single connection to the endpoint
	Connect(endpoint string, timeout time.Duration) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an established connection
	UpgradeConnection(conn net.Conn, config common.ClientConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// responseResult contains the result of a request
type responseResult struct {
	data []byte
	err  error
}

// clientTransport implements the core client transport functionality
// independent of the specific transport medium (unix, tcp, etc.).
// It holds exactly one connection and never retries: a failed connection
// fails every pending and future request.
type clientTransport struct {
	connector     IClientConnector
	config        common.ClientConfig
	conn          net.Conn
	writeMu       sync.Mutex // Protects writes to the connection
	pending       *xsync.MapOf[uint64, chan responseResult]
	nextRequestID atomic.Uint64

	done     chan struct{} // Closed when the reader goroutine ended
	readErr  error         // Set before done is closed
	stopping atomic.Bool
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport with the specified connector
func NewBaseClientTransport(connector IClientConnector) transport.IRPCClientTransport {
	return &clientTransport{
		connector: connector,
		pending:   xsync.NewMapOf[uint64, chan responseResult](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	if t.conn != nil {
		return common.NewRPCError(common.ErrKTransport, "transport is already connected")
	}
	if config.Address.Endpoint == "" {
		return common.NewRPCError(common.ErrKConfig, "no server address provided")
	}
	t.config = config

	conn, err := t.connector.Connect(config.Address.Endpoint, t.timeout())
	if err != nil {
		return common.WrapError(common.ErrKTransport,
			fmt.Errorf("failed to connect to %s: %w", config.Address.Endpoint, err))
	}

	// Upgrade the connection with protocol-specific settings
	if err := t.connector.UpgradeConnection(conn, config); err != nil {
		_ = conn.Close()
		return common.WrapError(common.ErrKTransport,
			fmt.Errorf("failed to upgrade connection to %s: %w", config.Address.Endpoint, err))
	}

	t.conn = conn
	t.done = make(chan struct{})
	go t.readResponses()

	Logger.Debugf("Connected to %s using %s transport", config.Address.Endpoint, t.connector.GetName())
	return nil
}

func (t *clientTransport) Send(ctx context.Context, req []byte) ([]byte, error) {
	if t.conn == nil {
		return nil, common.NewRPCError(common.ErrKTransport, "transport is not connected")
	}
	if maxSize := t.config.Transport.MaxMessageSizeOrDefault(); len(req) > maxSize {
		return nil, common.NewRPCError(common.ErrKProtocol,
			fmt.Sprintf("request of %d bytes exceeds limit of %d bytes", len(req), maxSize))
	}

	// The reader goroutine already failed, the connection is unusable
	select {
	case <-t.done:
		return nil, t.connectionError()
	default:
	}

	requestID := t.nextRequestID.Add(1)

	respCh := make(chan responseResult, 1)
	t.pending.Store(requestID, respCh)
	defer t.pending.Delete(requestID)

	timeout := t.timeout()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// Lock the connection only for writing
	t.writeMu.Lock()
	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetWriteDeadline(deadline)
	}
	err := writeFrame(t.conn, requestID, req)
	t.writeMu.Unlock()

	if err != nil {
		return nil, common.WrapError(common.ErrKTransport, fmt.Errorf("failed to send request: %w", err))
	}

	select {
	case result := <-respCh:
		return result.data, result.err
	case <-t.done:
		// The reader may have delivered the response right before it ended
		select {
		case result := <-respCh:
			return result.data, result.err
		default:
			return nil, t.connectionError()
		}
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, common.WrapError(common.ErrKTransport, fmt.Errorf("request timed out: %w", ctx.Err()))
		}
		return nil, ctx.Err()
	}
}

func (t *clientTransport) Close() error {
	if t.conn == nil || !t.stopping.CompareAndSwap(false, true) {
		return nil
	}
	err := t.conn.Close()
	<-t.done
	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// readResponses reads responses in a loop and distributes them to waiting requests
func (t *clientTransport) readResponses() {
	defer close(t.done)

	maxSize := t.config.Transport.MaxMessageSizeOrDefault()
	for {
		requestID, data, err := readFrame(t.conn, nil, maxSize)
		if err != nil {
			if !t.stopping.Load() {
				Logger.Debugf("Connection to %s lost: %v", t.config.Address.Endpoint, err)
			}
			t.readErr = err
			return
		}

		respCh, found := t.pending.Load(requestID)
		if !found {
			// The request was abandoned (timeout or cancelled context)
			Logger.Warningf("Received response for unknown request ID %d", requestID)
			continue
		}
		select {
		case respCh <- responseResult{data: data}:
		default:
			Logger.Warningf("Dropped duplicate response for request ID %d", requestID)
		}
	}
}

// connectionError returns the error for requests on a dead connection.
// Must only be called after done is closed.
func (t *clientTransport) connectionError() error {
	if t.stopping.Load() {
		return common.NewRPCError(common.ErrKTransport, "transport is closed")
	}
	if common.IsKind(t.readErr, common.ErrKProtocol) {
		return t.readErr
	}
	return common.WrapError(common.ErrKTransport, fmt.Errorf("connection lost: %w", t.readErr))
}

// timeout returns the configured request timeout, 0 if disabled
func (t *clientTransport) timeout() time.Duration {
	if t.config.TimeoutSecond <= 0 {
		return 0
	}
	return time.Duration(t.config.TimeoutSecond) * time.Second
}
