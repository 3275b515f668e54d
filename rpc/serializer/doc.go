// Package serializer turns clipboard RPC messages into payload bytes and back.
// It defines a common interface and multiple implementations so client and
// server can agree on one encoding per deployment.
//
// The package focuses on:
//   - Providing a consistent interface for different serialization formats
//   - Offering multiple implementations with different performance characteristics
//   - Rejecting truncated or malformed payloads with an error, so the server can
//     answer them with a protocol error instead of guessing
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - binarySerializerImpl: Custom binary format. A flag byte marks which of the
//     optional fields (text, error kind, error message) follow the header, so a
//     get request is two bytes on the wire.
//
//   - gobSerializerImpl: Implementation using Go's built-in gob encoding, offering
//     good compatibility with Go's type system but with larger serialized sizes.
//
//   - jsonSerializerImpl: Implementation using JSON encoding, useful for debugging
//     or interoperability with other systems, but with lower performance.
//
// Client and server must use the same serializer. Binary is the default of the
// CLI. JSON is handy when sniffing traffic. GOB is kept for completeness and is
// the slowest of the three.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	Serializers are typically created once and reused throughout the application:
//
//	  serializer := serializer.NewBinarySerializer()
//	  data, err := serializer.Serialize(message)
//	  // ... send data ...
//	  var receivedMsg common.Message
//	  err = serializer.Deserialize(receivedData, &receivedMsg)
package serializer
