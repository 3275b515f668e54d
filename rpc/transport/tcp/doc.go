// Package tcp implements the TCP socket transport of rpClip. It provides the
// connectors the base package needs to dial, listen and tune tcp sockets.
//
// See the base package documentation for framing, sessions and timeouts.
//
// Key Components:
//
//   - clientConnector: TCP-specific implementation of base.IClientConnector
//
//   - serverConnector: TCP-specific implementation of base.IServerConnector.
//     When the built-in default address [::1]:6667 cannot be bound because the
//     host has no IPv6 loopback, it listens on 127.0.0.1:6667 instead. Addresses
//     given explicitly never fall back.
//
// The default server buffer size is 512 KB.
package tcp
