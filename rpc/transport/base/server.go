package base

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"github.com/ValentinKolb/rpClip/rpc/transport"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/semaphore"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener and returns it
	Listen(config common.ServerConfig) (net.Listener, error)

	// UpgradeConnection applies protocol-specific settings to an accepted connection
	UpgradeConnection(conn net.Conn, config common.ServerConfig) error

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// session is the server side of one accepted connection
type session struct {
	id     uint64
	conn   net.Conn
	ctx    context.Context
	cancel context.CancelFunc
}

// close cancels the session context and closes the connection
func (s *session) close() {
	s.cancel()
	_ = s.conn.Close()
}

// queuedPerWorker bounds the requests a session may have pending per worker.
// A client exceeding it is closed with a protocol error.
const queuedPerWorker = 16

// queuedRequest is a request read from a session but not handled yet
type queuedRequest struct {
	id   uint64
	data []byte
	buf  []byte // returned to the buffer pool after handling
}

// serverTransport implements the core server transport functionality
type serverTransport struct {
	connector IServerConnector
	handler   transport.ServerHandleFunc
	config    common.ServerConfig
	listener  net.Listener

	bufferPool *sync.Pool
	bufferSize int

	// admission bounds the number of sessions being initialized at once
	admission *semaphore.Weighted

	sessions       *xsync.MapOf[uint64, *session]
	nextSessionID  atomic.Uint64
	totalSessions  *xsync.Counter
	failedSessions *xsync.Counter
	requests       *xsync.Counter
	sessionsWg     sync.WaitGroup

	closed    chan struct{}
	closeOnce sync.Once
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport. Buffers of
// bufferSize bytes are pooled for reading request frames.
func NewBaseServerTransport(connector IServerConnector, bufferSize int) transport.IRPCServerTransport {
	return &serverTransport{
		connector:      connector,
		bufferSize:     bufferSize,
		sessions:       xsync.NewMapOf[uint64, *session](),
		totalSessions:  xsync.NewCounter(),
		failedSessions: xsync.NewCounter(),
		requests:       xsync.NewCounter(),
		closed:         make(chan struct{}),
		bufferPool: &sync.Pool{
			New: func() interface{} {
				return make([]byte, bufferSize)
			},
		},
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *serverTransport) Listen(config common.ServerConfig) error {
	if t.listener != nil {
		return common.NewRPCError(common.ErrKTransport, "transport is already listening")
	}
	t.config = config.WithDefaults()
	t.admission = semaphore.NewWeighted(int64(t.config.MaxPendingSessions))

	// Create listener using the connector
	listener, err := t.connector.Listen(t.config)
	if err != nil {
		return common.WrapError(common.ErrKTransport, fmt.Errorf("failed to create listener: %w", err))
	}
	t.listener = listener

	Logger.Infof("Listening for %s connections on %s (max %d pending sessions, %d workers per connection)",
		t.connector.GetName(), listener.Addr(), t.config.MaxPendingSessions, t.config.MaxWorkersPerConn)
	return nil
}

func (t *serverTransport) Addr() net.Addr {
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

func (t *serverTransport) Serve(ctx context.Context) error {
	if t.listener == nil {
		return common.NewRPCError(common.ErrKTransport, "serve called before listen")
	}
	if t.handler == nil {
		return common.NewRPCError(common.ErrKConfig, "no handler registered")
	}

	// Stop accepting once the context is done
	stop := context.AfterFunc(ctx, func() { _ = t.Close() })
	defer stop()

	// Wait for all sessions before returning
	defer t.sessionsWg.Wait()

	var backoff time.Duration
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			if t.isClosed() || errors.Is(err, net.ErrClosed) {
				Logger.Infof("Stopped accepting %s connections", t.connector.GetName())
				_ = t.Close()
				return nil
			}
			if !isTemporary(err) {
				_ = t.Close()
				return common.WrapError(common.ErrKTransport, fmt.Errorf("accept failed: %w", err))
			}

			// Back off on temporary errors (e.g. too many open files)
			backoff = nextBackoff(backoff)
			Logger.Warningf("Accept error: %v; retrying in %s", err, backoff)
			select {
			case <-time.After(backoff):
			case <-t.closed:
			}
			continue
		}
		backoff = 0

		// Admission control: only a bounded number of sessions is initialized concurrently
		if err := t.admission.Acquire(ctx, 1); err != nil {
			_ = conn.Close()
			continue // ctx is done, the next Accept fails
		}

		t.sessionsWg.Add(1)
		go func() {
			defer t.sessionsWg.Done()

			s, err := t.initSession(ctx, conn)
			t.admission.Release(1)
			if err != nil {
				t.failedSessions.Inc()
				Logger.Warningf("Failed to initialize session for %s: %v", conn.RemoteAddr(), err)
				_ = conn.Close()
				return
			}

			t.handleSession(s)
		}()
	}
}

func (t *serverTransport) Stats() transport.SessionStats {
	return transport.SessionStats{
		Active:   t.sessions.Size(),
		Total:    t.totalSessions.Value(),
		Failed:   t.failedSessions.Value(),
		Requests: t.requests.Value(),
	}
}

func (t *serverTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.closed)
		if t.listener != nil {
			err = t.listener.Close()
		}
		// End all sessions, their goroutines clean up the registry
		t.sessions.Range(func(_ uint64, s *session) bool {
			s.close()
			return true
		})
	})
	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// initSession upgrades the connection and registers the session
func (t *serverTransport) initSession(ctx context.Context, conn net.Conn) (*session, error) {
	if t.isClosed() {
		return nil, fmt.Errorf("transport closed")
	}

	if err := t.connector.UpgradeConnection(conn, t.config); err != nil {
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	s := &session{
		id:     t.nextSessionID.Add(1),
		conn:   conn,
		ctx:    sessionCtx,
		cancel: cancel,
	}
	t.sessions.Store(s.id, s)
	t.totalSessions.Inc()

	// Close may have run between the check above and the registration
	if t.isClosed() {
		t.sessions.Delete(s.id)
		s.close()
		return nil, fmt.Errorf("transport closed")
	}

	Logger.Debugf("Session %d established with %s", s.id, conn.RemoteAddr())
	return s, nil
}

// handleSession handles incoming requests for one session until the
// connection is closed
func (t *serverTransport) handleSession(s *session) {
	defer func() {
		t.sessions.Delete(s.id)
		s.close()
	}()

	timeout := t.timeout()
	maxSize := t.config.Transport.MaxMessageSizeOrDefault()

	// Requests read but not answered yet. The reader never waits for a
	// worker, so it sees a disconnect while requests are in flight.
	queue := make(chan queuedRequest, t.config.MaxWorkersPerConn*queuedPerWorker)

	// Wait group to wait for all workers to finish
	var wg sync.WaitGroup

	// Mutex protecting writes to the connection
	var connMutex sync.Mutex

	// Handler function that processes requests in worker goroutines
	handleResponse := func(requestID uint64, data []byte) {
		ctx := s.ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := time.Now()
		resp := t.handler(ctx, data)
		Logger.Debugf("Session %d: request %d took %s", s.id, requestID, time.Since(start))

		// The client is gone, nobody reads the response
		if s.ctx.Err() != nil {
			return
		}

		connMutex.Lock()
		defer connMutex.Unlock()

		if timeout > 0 {
			if err := s.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
				Logger.Errorf("Session %d: failed to set write deadline: %v", s.id, err)
				return
			}
		}

		// Write the response with the same requestID
		if err := writeFrame(s.conn, requestID, resp); err != nil {
			Logger.Errorf("Session %d: failed to write response: %v", s.id, err)
		}
	}

	// MaxWorkersPerConn workers drain the queue until the reader closes it
	for i := 0; i < t.config.MaxWorkersPerConn; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range queue {
				if s.ctx.Err() == nil {
					handleResponse(req.id, req.data)
				}
				t.bufferPool.Put(req.buf)
			}
		}()
	}

	// Function to read and queue one request
	handleRequest := func() error {
		if timeout > 0 {
			if err := s.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				return fmt.Errorf("failed to set read deadline: %w", err)
			}
		} else if err := s.conn.SetReadDeadline(time.Time{}); err != nil {
			return fmt.Errorf("failed to clear read deadline: %w", err)
		}

		buf := t.bufferPool.Get().([]byte)

		requestID, data, err := readFrame(s.conn, buf, maxSize)
		if err != nil {
			t.bufferPool.Put(buf)
			return err
		}
		t.requests.Inc()

		select {
		case queue <- queuedRequest{id: requestID, data: data, buf: buf}:
			return nil
		default:
			t.bufferPool.Put(buf)
			return common.NewRPCError(common.ErrKProtocol,
				fmt.Sprintf("more than %d requests pending", cap(queue)))
		}
	}

	idle := false
	for {
		err := handleRequest()
		if err == nil {
			continue
		}

		switch {
		case errors.Is(err, io.EOF):
			Logger.Debugf("Session %d: connection closed by client", s.id)
		case isTimeout(err):
			Logger.Debugf("Session %d: idle for %s, closing", s.id, timeout)
			idle = true
		case common.IsKind(err, common.ErrKProtocol):
			t.failedSessions.Inc()
			Logger.Warningf("Session %d: %v; closing connection", s.id, err)
		case s.ctx.Err() != nil || errors.Is(err, net.ErrClosed):
			Logger.Debugf("Session %d: closed", s.id)
		default:
			Logger.Errorf("Session %d: error reading request: %v", s.id, err)
		}
		break
	}

	close(queue)
	if idle {
		// Let queued requests answer before closing
		wg.Wait()
	}

	// Abandon in-flight requests of a client that is gone
	s.cancel()
	wg.Wait()
}

// timeout returns the configured request timeout, 0 if disabled
func (t *serverTransport) timeout() time.Duration {
	if t.config.TimeoutSecond <= 0 {
		return 0
	}
	return time.Duration(t.config.TimeoutSecond) * time.Second
}

// isClosed reports whether Close was called
func (t *serverTransport) isClosed() bool {
	select {
	case <-t.closed:
		return true
	default:
		return false
	}
}

// nextBackoff doubles the accept backoff, starting at 5ms and capped at 1s
func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	if d *= 2; d > time.Second {
		d = time.Second
	}
	return d
}

// isTemporary reports whether an accept error is worth retrying
func isTemporary(err error) bool {
	var te interface{ Temporary() bool }
	if errors.As(err, &te) && te.Temporary() {
		return true
	}
	return isTimeout(err)
}

// isTimeout reports whether err is a network timeout
func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
