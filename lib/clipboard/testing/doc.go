// Package testing provides a reusable test suite for IClipboard implementations.
// Every implementation (local backends as well as the RPC client) is expected to
// pass RunClipboardTests. Multi-line content is compared line by line because an
// implementation may rewrite line endings.
//
// Usage:
//
//	func TestMemory(t *testing.T) {
//	    cliptesting.RunClipboardTests(t, "Memory", func() clipboard.IClipboard {
//	        return clipboard.NewMemoryClipboard()
//	    })
//	}
package testing
