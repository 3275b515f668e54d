// Package transport defines the interfaces and abstractions for RPC communication
// between the rpClip client and server. It provides a common contract that all
// transport implementations must fulfill, so the rpc layer never cares whether it
// talks over tcp or a unix domain socket.
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations that
//     handles connection management and request sending.
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     accepts sessions and passes every request to the registered handler.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
//
// Implementations live in the base package (framing, sessions) and the tcp and
// unix packages (connectors). The factory package picks the connector for a
// resolved common.Address.
package transport
