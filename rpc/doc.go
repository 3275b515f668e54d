// Package rpc provides the remote procedure call layer of rpClip. It carries
// the two clipboard operations, get_clip and set_clip, between the rpclip
// client commands and the server that owns the clipboard.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, error kinds, addresses, configuration
//     structures and logging.
//
//   - transport: Framed byte-stream transports with pluggable connectors
//     (TCP and Unix sockets) and a factory choosing one by address.
//
//   - serializer: Message serialization with multiple format options (Binary, JSON, GOB)
//     for converting between Message objects and byte arrays.
//
//   - client: The RPC clipboard client, which implements clipboard.IClipboard
//     on top of a transport.
//
//   - server: The RPC server, which serializes all access to the clipboard
//     of its host and exposes metrics.
package rpc
