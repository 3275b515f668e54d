// Package base provides the transport layer of rpClip independent of the specific
// socket type (tcp or unix). It implements framed request/response exchange on
// top of any stream connection and is extended with protocol-specific connectors.
//
// The package focuses on:
//   - Protocol-agnostic client and server transport implementations
//   - Frame-based message protocol with requestID tracking
//   - Bounded admission of new sessions and bounded work per session
//   - Cancelling the work of a client that disconnected
//
// Frame format (all integers big endian):
//
//	requestID uint64 | length uint32 | payload
//
// A frame whose length exceeds TransportConfig.MaxMessageSize is a protocol
// error. The server closes that one connection and keeps serving the others.
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations
//     (dialing, listening, socket tuning).
//
//   - clientTransport: Holds one connection. Requests are correlated with their
//     responses by request id, so a client may have several requests in flight.
//     There are no retries; a lost connection fails all pending requests.
//
//   - serverTransport: The session manager. The accept loop takes a slot of an
//     admission semaphore (ServerConfig.MaxPendingSessions) before a connection is
//     initialized and gives it back once the session is registered. Every session
//     reads frames in a loop and queues each request for its
//     ServerConfig.MaxWorkersPerConn workers. The reader never waits for a
//     worker; a client with more than 16 requests per worker pending is closed
//     with a protocol error. The session context is cancelled when the client
//     hangs up, which ends any request still running or queued.
//
// Timeouts:
//
//	ServerConfig.TimeoutSecond bounds frame reads and writes as well as the
//	context of every handler call. A session that stays idle for longer is
//	closed. On the client, ClientConfig.TimeoutSecond bounds dialing and every
//	request.
//
// Thread Safety:
//
//	All public methods are thread-safe. The server runs one goroutine per
//	session and one per in-flight request.
package base
