package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/rpClip/lib/clipboard"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"github.com/ValentinKolb/rpClip/rpc/serializer"
	"github.com/ValentinKolb/rpClip/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
	"golang.org/x/sync/errgroup"
	"io"
	"net"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"
)

var Logger = logger.GetLogger("rpc")

// statsInterval is how often the guard timings are logged at debug level
const statsInterval = time.Minute

// NewRPCServer creates a new RPC server
// It takes a config, transport, serializer and the clipboard to serve as
// parameters. The server wraps the clipboard in a clipboard.Guard; the caller
// must not use the clipboard directly afterward.
//
// Usage:
//
//	s := server.NewRPCServer(
//		config,
//		tcp.NewTCPDefaultServerTransport(),
//		serializer.NewBinarySerializer(),
//		clip,
//	)
//
//	if err := s.Serve(ctx); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
	clip clipboard.IClipboard,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	config = config.WithDefaults()
	guard := clipboard.NewGuard(clip)

	Logger.Infof("Created RPC Server")
	Logger.Infof("%s", config.String())

	return &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		guard:      guard,
		adapter:    NewClipboardServerAdapter(),
		metrics:    newServerMetrics(transport, guard),
	}
}

// RPCServer serves the clipboard over one transport
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	guard      *clipboard.Guard
	adapter    IRPCServerAdapter
	metrics    *serverMetrics
	listening  bool
}

// Listen registers the request handler and binds the listening socket.
// Calling it before Serve lets the caller learn the bound address (Addr).
func (s *RPCServer) Listen() error {
	if s.listening {
		return nil
	}
	s.registerTransportHandler()
	if err := s.transport.Listen(s.config); err != nil {
		return err
	}
	s.listening = true
	return nil
}

// Addr returns the address the server listens on, nil before Listen
func (s *RPCServer) Addr() net.Addr {
	return s.transport.Addr()
}

// Serve starts the RPC server
// It listens (if Listen was not called yet) and serves until ctx is done or
// Close is called. If a metrics endpoint is configured, it is served alongside.
func (s *RPCServer) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Stop the helpers below once the transport is done
		defer cancel()
		return s.transport.Serve(ctx)
	})

	if s.config.MetricsEndpoint != "" {
		srv := &http.Server{
			Addr:              s.config.MetricsEndpoint,
			Handler:           s.metrics.handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			Logger.Infof("Serving metrics on http://%s/metrics", s.config.MetricsEndpoint)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics endpoint failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if s.config.LogLevel == "debug" {
		g.Go(func() error {
			s.logStats(ctx, statsInterval)
			return nil
		})
	}

	return g.Wait()
}

// Close stops the server and ends all sessions
func (s *RPCServer) Close() error {
	return s.transport.Close()
}

// WritePrometheus writes the server metrics in the prometheus text format
func (s *RPCServer) WritePrometheus(w io.Writer) {
	s.metrics.WritePrometheus(w)
}

// GuardStats returns the timings of the clipboard guard
func (s *RPCServer) GuardStats() clipboard.Stats {
	return s.guard.Stats()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (s *RPCServer) registerTransportHandler() {
	s.transport.RegisterHandler(s.handle)
}

// handle decodes one request, lets the adapter handle it and encodes the response
func (s *RPCServer) handle(ctx context.Context, req []byte) []byte {
	start := time.Now()

	var msg common.Message
	var respMsg *common.Message

	if err := s.serializer.Deserialize(req, &msg); err != nil {
		Logger.Warningf("Failed to deserialize request: %v", err)
		msg.MsgType = common.MsgTUnknown
		respMsg = common.NewErrorResponse(common.ErrKProtocol,
			fmt.Sprintf("failed to deserialize request: %s", err))
	} else {
		respMsg = s.adapter.Handle(ctx, &msg, s.guard)
	}

	s.metrics.observe(msg.MsgType, respMsg, start)

	val, err := s.serializer.Serialize(*respMsg)
	if err != nil {
		Logger.Errorf("Failed to serialize response: %v", err)
		val, _ = s.serializer.Serialize(*common.NewErrorResponse(common.ErrKProtocol,
			fmt.Sprintf("failed to serialize response: %s", err)))
	}
	return val
}

// logStats periodically logs the guard timers and the session counters until
// ctx is done
func (s *RPCServer) logStats(ctx context.Context, every time.Duration) {
	cue := make(chan interface{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		gometrics.LogScaledOnCue(s.guard.Registry(), cue, time.Millisecond, common.PrintfLogger{Logger: Logger})
	}()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(cue)
			<-done
			return
		case <-ticker.C:
			cue <- struct{}{}
			Logger.Debugf("Sessions %+v, guard %s", s.transport.Stats(), s.guard.Stats())
		}
	}
}
