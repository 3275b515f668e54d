package clipboard_test

import (
	"github.com/ValentinKolb/rpClip/lib/clipboard"
	cliptesting "github.com/ValentinKolb/rpClip/lib/clipboard/testing"
	"testing"
)

func Test(t *testing.T) {
	cliptesting.RunClipboardTests(t, "Memory", func() clipboard.IClipboard {
		return clipboard.NewMemoryClipboard()
	})

	cliptesting.RunClipboardTests(t, "Guard(Memory)", func() clipboard.IClipboard {
		return clipboard.NewGuard(clipboard.NewMemoryClipboard())
	})

	cliptesting.RunGuardedConcurrencyTests(t, "ConcurrentWriters", func() clipboard.IClipboard {
		return clipboard.NewGuard(clipboard.NewMemoryClipboard())
	})
}
