// Package clipboard provides the clipboard capability used by the rpClip server
// and the guard that serializes every access to it.
//
// The package focuses on:
//   - A minimal text-only clipboard interface (IClipboard)
//   - A native implementation backed by the operating system clipboard
//   - An in-process implementation for headless hosts and tests
//   - Exclusive, scoped access to a shared clipboard from many goroutines
//
// Key Components:
//
//   - IClipboard: GetText / SetText on the whole clipboard content. Implementations
//     are not assumed to be safe for concurrent use.
//
//   - NewNativeClipboard: Uses github.com/atotto/clipboard. On linux one of xclip,
//     xsel or wl-clipboard must be installed, otherwise ErrCUnavailable is returned.
//
//   - NewMemoryClipboard: Keeps the text in memory only.
//
//   - Guard: Owns one IClipboard and hands out at most one ScopedAccess at a time.
//     Acquire blocks (respecting context cancellation) while another access is live.
//     Do runs a function under the guard and always releases it afterward.
//
// Usage Example:
//
//	clip, err := clipboard.NewNativeClipboard()
//	if err != nil {
//	    // no clipboard on this machine
//	}
//	guard := clipboard.NewGuard(clip)
//
//	err = guard.Do(ctx, func(access *clipboard.ScopedAccess) error {
//	    text, err := access.Read()
//	    if err != nil {
//	        return err
//	    }
//	    return access.Write(strings.ToUpper(text))
//	})
//
// Error Handling:
//
//	All failures of the clipboard implementations are returned as *Error with an
//	ErrCode. The guard itself only fails if the context ends before the clipboard
//	becomes free; in that case the context error is returned and nothing is held.
//
// Metrics:
//
//	The guard records how long callers wait for it and how long it is held using
//	github.com/rcrowley/go-metrics timers (see Guard.Stats and Guard.Registry).
package clipboard
