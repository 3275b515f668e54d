// Package server implements the RPC server of rpClip. It owns the clipboard of
// the host, wraps it in a clipboard.Guard and answers get_clip and set_clip
// requests arriving over a transport.
//
// The package focuses on:
//   - Server-side RPC request handling for the two clipboard operations
//   - Adapter pattern to decouple the clipboard logic from RPC mechanisms
//   - Reporting failures through the error fields of the response
//   - Operational visibility through prometheus metrics and debug logging
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes incoming requests against the guard.
//
//   - NewClipboardServerAdapter: Factory function creating the adapter for the
//     clipboard operations. get_clip returns the stored text as is. set_clip
//     converts the line endings to those of the server platform before writing.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport, serializer and clipboard.
//
// Error Handling:
//
//	A clipboard failure is answered with ErrKind common.ErrKClipboard and the
//	message of the failure; the session stays open. A request that cannot be
//	decoded, or that has an unknown type, is answered with a MsgTError message
//	of kind common.ErrKProtocol. Neither ends the server.
//
// Metrics:
//
//	Every server has its own VictoriaMetrics set. It counts requests by type,
//	errors by kind, request durations and sessions, and exposes the guard
//	timings. With ServerConfig.MetricsEndpoint set, the set is served at
//	http://<endpoint>/metrics. At log level debug the guard timers are also
//	logged once a minute.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Address:       common.MustParseAddress("127.0.0.1:6667"),
//	  TimeoutSecond: 10,
//	}
//
//	clip, err := clipboard.NewNativeClipboard()
//	if err != nil {
//	  log.Fatalf("clipboard: %v", err)
//	}
//
//	s := server.NewRPCServer(config, tcp.NewTCPDefaultServerTransport(), serializer.NewBinarySerializer(), clip)
//	if err := s.Serve(ctx); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Thread Safety:
//
//	The server handles requests of many sessions concurrently. The guard is
//	the only point where they wait for each other. Listen and Serve must be
//	called from one goroutine only.
package server
