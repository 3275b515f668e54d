package server

import (
	"bytes"
	"context"
	"fmt"
	"github.com/ValentinKolb/rpClip/lib/clipboard"
	cliptesting "github.com/ValentinKolb/rpClip/lib/clipboard/testing"
	"github.com/ValentinKolb/rpClip/lib/lineend"
	"github.com/ValentinKolb/rpClip/rpc/client"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"github.com/ValentinKolb/rpClip/rpc/serializer"
	"github.com/ValentinKolb/rpClip/rpc/transport/factory"
	"net"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

// --------------------------------------------------------------------------
// Test clipboards
// --------------------------------------------------------------------------

// failingClipboard fails every access like a host without a display
type failingClipboard struct{}

func (failingClipboard) GetText() (string, error) {
	return "", clipboard.NewError(clipboard.ErrCUnavailable, "no display")
}

func (failingClipboard) SetText(string) error {
	return clipboard.NewError(clipboard.ErrCUnavailable, "no display")
}

// blockingClipboard blocks writes until release is closed
type blockingClipboard struct {
	clipboard.IClipboard
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingClipboard() *blockingClipboard {
	return &blockingClipboard{
		IClipboard: clipboard.NewMemoryClipboard(),
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
}

func (c *blockingClipboard) SetText(text string) error {
	c.once.Do(func() { close(c.entered) })
	<-c.release
	return c.IClipboard.SetText(text)
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// startServer starts a server for clip and stops it when the test ends.
// Without an address in the config it listens on a random loopback port.
func startServer(t *testing.T, config common.ServerConfig, s serializer.IRPCSerializer, clip clipboard.IClipboard) *RPCServer {
	t.Helper()

	if config.Address.Kind == 0 {
		config.Address = common.MustParseAddress("127.0.0.1:0")
	}
	tr, err := factory.NewServerTransport(config.Address)
	if err != nil {
		t.Fatalf("NewServerTransport failed: %v", err)
	}

	srv := NewRPCServer(config, tr, s, clip)
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Serve(context.Background()) }()

	t.Cleanup(func() {
		_ = srv.Close()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Serve returned error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Errorf("Serve did not return after Close")
		}
	})
	return srv
}

// connect creates a client for srv and closes it when the test ends
func connect(t *testing.T, srv *RPCServer, s serializer.IRPCSerializer) *client.RPCClipboard {
	t.Helper()

	cl, err := dial(srv, s)
	if err != nil {
		t.Fatalf("NewRPCClipboard failed: %v", err)
	}
	t.Cleanup(func() { _ = cl.Close() })
	return cl
}

// dial creates a client for srv
func dial(srv *RPCServer, s serializer.IRPCSerializer) (*client.RPCClipboard, error) {
	addr, err := common.ParseAddress(srv.Addr().String())
	if err != nil {
		return nil, err
	}
	tr, err := factory.NewClientTransport(addr)
	if err != nil {
		return nil, err
	}
	return client.NewRPCClipboard(common.ClientConfig{Address: addr, TimeoutSecond: 10}, tr, s)
}

var testSerializers = map[string]func() serializer.IRPCSerializer{
	"Binary": serializer.NewBinarySerializer,
	"JSON":   serializer.NewJSONSerializer,
	"GOB":    serializer.NewGOBSerializer,
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestEndToEndTCP(t *testing.T) {
	for name, newSerializer := range testSerializers {
		t.Run(name, func(t *testing.T) {
			srv := startServer(t, common.ServerConfig{}, newSerializer(), clipboard.NewMemoryClipboard())
			cl := connect(t, srv, newSerializer())

			if err := cl.SetClip(context.Background(), "hello\nworld"); err != nil {
				t.Fatalf("SetClip failed: %v", err)
			}
			text, err := cl.GetClip(context.Background())
			if err != nil {
				t.Fatalf("GetClip failed: %v", err)
			}
			if lines := lineend.Lines(text); !reflect.DeepEqual(lines, []string{"hello", "world"}) {
				t.Errorf("Expected lines [hello world], got %q", lines)
			}
		})
	}
}

func TestEndToEndUnix(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix sockets are not tested on windows")
	}

	path := filepath.Join(t.TempDir(), "rpclip.sock")
	config := common.ServerConfig{Address: common.MustParseAddress(path)}
	if config.Address.Kind != common.AddrKindUnix {
		t.Fatalf("Expected unix address for %s, got %s", path, config.Address)
	}

	s := serializer.NewBinarySerializer()
	srv := startServer(t, config, s, clipboard.NewMemoryClipboard())
	cl := connect(t, srv, s)

	if err := cl.SetClip(context.Background(), "over\r\nunix"); err != nil {
		t.Fatalf("SetClip failed: %v", err)
	}
	text, err := cl.GetClip(context.Background())
	if err != nil {
		t.Fatalf("GetClip failed: %v", err)
	}
	if lines := lineend.Lines(text); !reflect.DeepEqual(lines, []string{"over", "unix"}) {
		t.Errorf("Expected lines [over unix], got %q", lines)
	}
}

func TestClipboardSuiteOverRPC(t *testing.T) {
	s := serializer.NewBinarySerializer()
	newClip := func() clipboard.IClipboard {
		srv := startServer(t, common.ServerConfig{}, s, clipboard.NewMemoryClipboard())
		return connect(t, srv, s)
	}

	cliptesting.RunClipboardTests(t, "RPC(Memory)", newClip)
	cliptesting.RunGuardedConcurrencyTests(t, "RPC(ConcurrentWriters)", newClip)
}

func TestSetNormalizesLineEndings(t *testing.T) {
	s := serializer.NewBinarySerializer()
	srv := startServer(t, common.ServerConfig{}, s, clipboard.NewMemoryClipboard())
	cl := connect(t, srv, s)

	if err := cl.SetClip(context.Background(), "a\r\nb\rc\nd"); err != nil {
		t.Fatalf("SetClip failed: %v", err)
	}

	// get_clip returns the stored text unchanged
	stored, err := cl.GetClip(context.Background())
	if err != nil {
		t.Fatalf("GetClip failed: %v", err)
	}
	want := strings.Join([]string{"a", "b", "c", "d"}, lineend.Platform)
	if stored != want {
		t.Errorf("Expected stored text %q, got %q", want, stored)
	}
}

func TestConcurrentWritersOnSeparateConnections(t *testing.T) {
	s := serializer.NewBinarySerializer()
	srv := startServer(t, common.ServerConfig{}, s, clipboard.NewMemoryClipboard())

	const writers = 20
	payloads := make([]string, writers)
	for i := range payloads {
		payloads[i] = fmt.Sprintf("writer %d\n%s", i, strings.Repeat("y", 1000*i))
	}

	var wg sync.WaitGroup
	for _, payload := range payloads {
		wg.Add(1)
		go func(payload string) {
			defer wg.Done()
			cl, err := dial(srv, s)
			if err != nil {
				t.Errorf("dial failed: %v", err)
				return
			}
			defer cl.Close()
			if err := cl.SetClip(context.Background(), payload); err != nil {
				t.Errorf("SetClip failed: %v", err)
			}
		}(payload)
	}
	wg.Wait()

	got, err := connect(t, srv, s).GetClip(context.Background())
	if err != nil {
		t.Fatalf("GetClip failed: %v", err)
	}
	matches := 0
	for _, payload := range payloads {
		if reflect.DeepEqual(lineend.Lines(got), lineend.Lines(payload)) {
			matches++
		}
	}
	if matches != 1 {
		t.Errorf("Expected clipboard to match exactly one payload, matched %d", matches)
	}
}

func TestBurstLargerThanAdmission(t *testing.T) {
	s := serializer.NewBinarySerializer()
	srv := startServer(t, common.ServerConfig{MaxPendingSessions: 2}, s, clipboard.NewMemoryClipboard())

	const clients = 40
	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cl, err := dial(srv, s)
			if err != nil {
				t.Errorf("dial failed: %v", err)
				return
			}
			defer cl.Close()
			if _, err := cl.GetClip(context.Background()); err != nil {
				t.Errorf("GetClip failed: %v", err)
			}
		}()
	}
	wg.Wait()

	// The server still answers afterward
	if err := connect(t, srv, s).SetClip(context.Background(), "after burst"); err != nil {
		t.Errorf("SetClip after burst failed: %v", err)
	}
}

func TestClipboardFailureIsReported(t *testing.T) {
	s := serializer.NewBinarySerializer()
	srv := startServer(t, common.ServerConfig{}, s, failingClipboard{})
	cl := connect(t, srv, s)

	// Twice, to see the session survives the failure
	for i := 0; i < 2; i++ {
		if _, err := cl.GetClip(context.Background()); !common.IsKind(err, common.ErrKClipboard) {
			t.Errorf("GetClip: expected clipboard error, got %v", err)
		}
		err := cl.SetClip(context.Background(), "x")
		if !common.IsKind(err, common.ErrKClipboard) {
			t.Errorf("SetClip: expected clipboard error, got %v", err)
		}
		if err != nil && !strings.Contains(err.Error(), "no display") {
			t.Errorf("Expected the cause in the error message, got %q", err)
		}
	}
}

func TestMalformedPayload(t *testing.T) {
	s := serializer.NewBinarySerializer()
	srv := startServer(t, common.ServerConfig{}, s, clipboard.NewMemoryClipboard())

	addr := common.MustParseAddress(srv.Addr().String())
	tr, err := factory.NewClientTransport(addr)
	if err != nil {
		t.Fatalf("NewClientTransport failed: %v", err)
	}
	if err := tr.Connect(common.ClientConfig{Address: addr, TimeoutSecond: 5}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer tr.Close()

	unknownType, _ := s.Serialize(common.Message{MsgType: common.MsgTSuccess})

	for name, payload := range map[string][]byte{
		"garbage":      {0xff},
		"truncated":    {byte(common.MsgTClipSet), 1, 0, 0, 0, 9, 'a'},
		"unknown type": unknownType,
	} {
		t.Run(name, func(t *testing.T) {
			respBytes, err := tr.Send(context.Background(), payload)
			if err != nil {
				t.Fatalf("Send failed: %v", err)
			}
			var resp common.Message
			if err := s.Deserialize(respBytes, &resp); err != nil {
				t.Fatalf("Deserialize failed: %v", err)
			}
			if resp.MsgType != common.MsgTError || resp.ErrKind != common.ErrKProtocol {
				t.Errorf("Expected protocol error response, got %+v", resp)
			}
		})
	}

	// The connection is still usable
	req, _ := s.Serialize(*common.NewGetClipRequest())
	respBytes, err := tr.Send(context.Background(), req)
	if err != nil {
		t.Fatalf("Send after malformed payloads failed: %v", err)
	}
	var resp common.Message
	if err := s.Deserialize(respBytes, &resp); err != nil || resp.MsgType != common.MsgTClipGet {
		t.Errorf("Expected get_clip response, got %+v (%v)", resp, err)
	}
}

func TestDisconnectWhileWaitingOnGuard(t *testing.T) {
	clip := newBlockingClipboard()
	s := serializer.NewBinarySerializer()
	srv := startServer(t, common.ServerConfig{}, s, clip)

	// Writer holds the guard until released
	writer := connect(t, srv, s)
	writeErr := make(chan error, 1)
	go func() { writeErr <- writer.SetClip(context.Background(), "held") }()
	<-clip.entered

	// A second client queues on the guard and hangs up
	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	var frame bytes.Buffer
	req, _ := s.Serialize(*common.NewGetClipRequest())
	frame.Write([]byte{0, 0, 0, 0, 0, 0, 0, 1})
	frame.Write([]byte{0, 0, 0, byte(len(req))})
	frame.Write(req)
	if _, err := conn.Write(frame.Bytes()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	_ = conn.Close()

	// Let the writer finish
	close(clip.release)
	if err := <-writeErr; err != nil {
		t.Fatalf("SetClip failed: %v", err)
	}

	// The guard is free again
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	text, err := connect(t, srv, s).GetClip(ctx)
	if err != nil {
		t.Fatalf("GetClip after disconnect failed: %v", err)
	}
	if text != "held" {
		t.Errorf("Expected %q, got %q", "held", text)
	}
}

func TestMetrics(t *testing.T) {
	s := serializer.NewBinarySerializer()
	srv := startServer(t, common.ServerConfig{}, s, clipboard.NewMemoryClipboard())
	cl := connect(t, srv, s)

	_ = cl.SetClip(context.Background(), "x")
	_, _ = cl.GetClip(context.Background())
	_, _ = cl.GetClip(context.Background())

	var buf bytes.Buffer
	srv.WritePrometheus(&buf)
	out := buf.String()

	for _, want := range []string{
		`rpclip_requests_total{type="set_clip"} 1`,
		`rpclip_requests_total{type="get_clip"} 2`,
		`rpclip_sessions_active 1`,
		`rpclip_guard_acquisitions_total 3`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in metrics output:\n%s", want, out)
		}
	}

	if stats := srv.GuardStats(); stats.Acquisitions != 3 {
		t.Errorf("Expected 3 guard acquisitions, got %d", stats.Acquisitions)
	}
}

func TestServeStopsOnContextCancel(t *testing.T) {
	tr, _ := factory.NewServerTransport(common.MustParseAddress("127.0.0.1:0"))
	srv := NewRPCServer(common.ServerConfig{
		Address:         common.MustParseAddress("127.0.0.1:0"),
		MetricsEndpoint: "127.0.0.1:0",
		LogLevel:        "debug",
	}, tr, serializer.NewBinarySerializer(), clipboard.NewMemoryClipboard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after context cancel")
	}
}
