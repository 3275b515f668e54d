package testing

import (
	"fmt"
	"github.com/ValentinKolb/rpClip/lib/clipboard"
	"github.com/ValentinKolb/rpClip/lib/lineend"
	"reflect"
	"strings"
	"sync"
	"testing"
)

// ClipboardFactory is a function that creates a new instance of an IClipboard implementation
type ClipboardFactory func() clipboard.IClipboard

// RunClipboardTests runs the test suite for an IClipboard implementation.
func RunClipboardTests(t *testing.T, name string, factory ClipboardFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Overwrite", func(t *testing.T) {
			testOverwrite(t, factory())
		})

		t.Run("Empty", func(t *testing.T) {
			testEmpty(t, factory())
		})

		t.Run("MultiLine", func(t *testing.T) {
			testMultiLine(t, factory())
		})

		t.Run("Unicode", func(t *testing.T) {
			testUnicode(t, factory())
		})

		t.Run("LargeText", func(t *testing.T) {
			testLargeText(t, factory())
		})

		t.Run("Sequential", func(t *testing.T) {
			testSequential(t, factory())
		})
	})
}

// RunGuardedConcurrencyTests checks that concurrent writers through a guard never
// interleave: after N concurrent writes exactly one of the payloads is stored.
func RunGuardedConcurrencyTests(t *testing.T, name string, factory ClipboardFactory) {
	t.Run(name, func(t *testing.T) {
		clip := factory()

		const writers = 50
		payloads := make(map[string]bool, writers)
		for i := 0; i < writers; i++ {
			payloads[fmt.Sprintf("payload-%02d\n%s", i, strings.Repeat("x", i*10))] = true
		}

		var wg sync.WaitGroup
		for payload := range payloads {
			wg.Add(1)
			go func(payload string) {
				defer wg.Done()
				if err := clip.SetText(payload); err != nil {
					t.Errorf("SetText failed: %v", err)
				}
			}(payload)
		}
		wg.Wait()

		got, err := clip.GetText()
		if err != nil {
			t.Fatalf("GetText failed: %v", err)
		}

		found := false
		for payload := range payloads {
			if linesEqual(got, payload) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("clipboard content %q does not match any written payload", got)
		}
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// linesEqual compares two texts ignoring the kind of line separators
func linesEqual(a, b string) bool {
	return reflect.DeepEqual(lineend.Lines(a), lineend.Lines(b))
}

func mustSet(t *testing.T, clip clipboard.IClipboard, text string) {
	t.Helper()
	if err := clip.SetText(text); err != nil {
		t.Fatalf("SetText(%q) failed: %v", text, err)
	}
}

func mustGet(t *testing.T, clip clipboard.IClipboard) string {
	t.Helper()
	text, err := clip.GetText()
	if err != nil {
		t.Fatalf("GetText failed: %v", err)
	}
	return text
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, clip clipboard.IClipboard) {
	mustSet(t, clip, "hello")
	if got := mustGet(t, clip); got != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}
}

func testOverwrite(t *testing.T, clip clipboard.IClipboard) {
	mustSet(t, clip, "first")
	mustSet(t, clip, "second")
	if got := mustGet(t, clip); got != "second" {
		t.Errorf("expected %q, got %q", "second", got)
	}
}

func testEmpty(t *testing.T, clip clipboard.IClipboard) {
	mustSet(t, clip, "something")
	mustSet(t, clip, "")
	if got := mustGet(t, clip); got != "" {
		t.Errorf("expected empty clipboard, got %q", got)
	}
}

func testMultiLine(t *testing.T, clip clipboard.IClipboard) {
	for _, text := range []string{
		"hello\nworld",
		"hello\r\nworld",
		"a\rb\nc\r\nd",
		"line\n\nwith gap",
	} {
		mustSet(t, clip, text)
		got := mustGet(t, clip)
		if !linesEqual(got, text) {
			t.Errorf("expected lines %q, got %q", lineend.Lines(text), lineend.Lines(got))
		}
	}
}

func testUnicode(t *testing.T, clip clipboard.IClipboard) {
	text := "grüße 👋 こんにちは"
	mustSet(t, clip, text)
	if got := mustGet(t, clip); got != text {
		t.Errorf("expected %q, got %q", text, got)
	}
}

func testLargeText(t *testing.T, clip clipboard.IClipboard) {
	text := strings.Repeat("0123456789abcdef", 64*1024) // 1 MiB
	mustSet(t, clip, text)
	if got := mustGet(t, clip); got != text {
		t.Errorf("large text mismatch: expected %d bytes, got %d bytes", len(text), len(got))
	}
}

func testSequential(t *testing.T, clip clipboard.IClipboard) {
	for i := 0; i < 100; i++ {
		text := fmt.Sprintf("value-%d", i)
		mustSet(t, clip, text)
		if got := mustGet(t, clip); got != text {
			t.Fatalf("iteration %d: expected %q, got %q", i, text, got)
		}
	}
}
