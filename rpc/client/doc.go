// Package client implements the RPC client of rpClip. RPCClipboard is the
// clipboard of a remote server behind the clipboard.IClipboard interface.
//
// The package focuses on:
//   - Transparent RPC access to the clipboard of the server
//   - Integration with the transport and serialization layers
//   - Turning error responses into *common.RPCError values, so callers can
//     tell a clipboard failure on the server (common.ErrKClipboard) from a
//     transport or protocol problem
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  Address:       common.MustParseAddress("localhost:6667"),
//	  TimeoutSecond: 10,
//	}
//
//	clip, err := client.NewRPCClipboard(config, tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//	if err != nil {
//	  return err
//	}
//	defer clip.Close()
//
//	if err := clip.SetClip(ctx, "hello\nworld"); err != nil {
//	  return err
//	}
//	text, err := clip.GetClip(ctx)
//
// The client never retries. Text returned by GetClip carries the line endings
// of the server; use lineend.ToPlatform before showing it.
//
// Thread Safety:
//
//	RPCClipboard is safe for concurrent use. Concurrent calls share the one
//	connection and are told apart by request id.
package client
