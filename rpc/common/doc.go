// Package common provides core data structures and utilities shared across
// rpClip. It defines the wire message, the error taxonomy, addresses,
// configuration structures and the logger setup used by the other packages.
//
// The package focuses on:
//   - Message protocol definition for the clipboard RPC calls
//   - Error kinds that travel over the wire (RPCError)
//   - Server addresses as a tagged variant of tcp and unix socket endpoints
//   - Configuration structures for client and server components
//   - Logger factory integrated with Dragonboat's logger facade
//
// Key Components:
//
//   - Message: The single data structure for all RPC communication. Requests and
//     responses use the same structure; which fields are set depends on MsgType.
//     Factory functions exist for every request and response.
//
//   - MessageType: Enumeration of the supported operations (get_clip, set_clip)
//     plus the generic error and success types.
//
//   - ErrorKind / RPCError: Transport, clipboard, config and protocol errors.
//     A response with Err set is turned into an *RPCError on the client.
//
//   - Address / ParseAddress: host:port strings resolve to tcp addresses, every
//     other string is the path of a unix socket.
//
//   - ServerConfig / ClientConfig: Runtime configuration including timeouts,
//     admission control and socket tuning.
//
//   - InitLoggers: Installs a zap backed logger factory for all package loggers
//     (obtained with logger.GetLogger from github.com/lni/dragonboat/v4/logger).
package common
