package clipboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// overlapDetector is a clipboard that records if two calls ever overlap
type overlapDetector struct {
	inFlight   atomic.Int32
	overlapped atomic.Bool
	text       string
	delay      time.Duration
}

func (c *overlapDetector) enter() {
	if c.inFlight.Add(1) > 1 {
		c.overlapped.Store(true)
	}
	time.Sleep(c.delay)
}

func (c *overlapDetector) leave() {
	c.inFlight.Add(-1)
}

func (c *overlapDetector) GetText() (string, error) {
	c.enter()
	defer c.leave()
	return c.text, nil
}

func (c *overlapDetector) SetText(text string) error {
	c.enter()
	defer c.leave()
	c.text = text
	return nil
}

// failingClipboard fails every operation
type failingClipboard struct{}

func (failingClipboard) GetText() (string, error) {
	return "", NewError(ErrCRead, "no display")
}

func (failingClipboard) SetText(string) error {
	return NewError(ErrCWrite, "no display")
}

// panickingClipboard panics on every operation
type panickingClipboard struct{}

func (panickingClipboard) GetText() (string, error) { panic("boom") }
func (panickingClipboard) SetText(string) error     { panic("boom") }

func TestGuardSerializesAccess(t *testing.T) {
	clip := &overlapDetector{delay: time.Millisecond}
	guard := NewGuard(clip)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := guard.Write(context.Background(), "x"); err != nil {
				t.Errorf("Write failed: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := guard.Read(context.Background()); err != nil {
				t.Errorf("Read failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if clip.overlapped.Load() {
		t.Fatal("two clipboard operations overlapped")
	}
	if got := guard.Stats().Acquisitions; got != 40 {
		t.Errorf("expected 40 acquisitions, got %d", got)
	}
}

func TestGuardAcquireBlocks(t *testing.T) {
	guard := NewGuard(NewMemoryClipboard())

	first, err := guard.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	acquired := make(chan *ScopedAccess)
	go func() {
		second, err := guard.Acquire(context.Background())
		if err != nil {
			t.Errorf("second Acquire failed: %v", err)
			close(acquired)
			return
		}
		acquired <- second
	}()

	select {
	case <-acquired:
		t.Fatal("second Acquire returned while the first access was live")
	case <-time.After(50 * time.Millisecond):
		// expected
	}

	first.Release()

	select {
	case second := <-acquired:
		if second == nil {
			t.Fatal("second Acquire failed")
		}
		second.Release()
	case <-time.After(time.Second):
		t.Fatal("second Acquire did not return after release")
	}
}

func TestGuardAcquireRespectsContext(t *testing.T) {
	guard := NewGuard(NewMemoryClipboard())

	held, err := guard.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer held.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := guard.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestGuardReleaseIsIdempotent(t *testing.T) {
	guard := NewGuard(NewMemoryClipboard())

	access, err := guard.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	access.Release()
	access.Release()

	// a double release must not free a second slot
	a1, err := guard.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer a1.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := guard.Acquire(ctx); err == nil {
		t.Fatal("guard handed out two accesses at once")
	}

	// the released access is no longer usable
	var clipErr *Error
	if _, err := access.Read(); !errors.As(err, &clipErr) || clipErr.Code != ErrCReleased {
		t.Errorf("expected ErrCReleased on read, got %v", err)
	}
	if err := access.Write("x"); !errors.As(err, &clipErr) || clipErr.Code != ErrCReleased {
		t.Errorf("expected ErrCReleased on write, got %v", err)
	}
}

func TestGuardReleasesOnError(t *testing.T) {
	guard := NewGuard(failingClipboard{})

	var clipErr *Error
	if _, err := guard.Read(context.Background()); !errors.As(err, &clipErr) || clipErr.Code != ErrCRead {
		t.Fatalf("expected ErrCRead, got %v", err)
	}
	if err := guard.Write(context.Background(), "x"); !errors.As(err, &clipErr) || clipErr.Code != ErrCWrite {
		t.Fatalf("expected ErrCWrite, got %v", err)
	}

	// guard must be free again
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	access, err := guard.Acquire(ctx)
	if err != nil {
		t.Fatalf("guard was not released after an error: %v", err)
	}
	access.Release()
}

func TestGuardRecoversPanic(t *testing.T) {
	guard := NewGuard(panickingClipboard{})

	var clipErr *Error
	if err := guard.Write(context.Background(), "x"); !errors.As(err, &clipErr) || clipErr.Code != ErrCUnknown {
		t.Fatalf("expected ErrCUnknown after panic, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	access, err := guard.Acquire(ctx)
	if err != nil {
		t.Fatalf("guard was not released after a panic: %v", err)
	}
	access.Release()
}

func TestErrorString(t *testing.T) {
	err := NewError(ErrCUnavailable, "no display")
	if got := err.Error(); got != "ClipboardError (code Unavailable): no display" {
		t.Errorf("unexpected error string %q", got)
	}
}

func BenchmarkGuardWrite(b *testing.B) {
	guard := NewGuard(NewMemoryClipboard())
	ctx := context.Background()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = guard.Write(ctx, "bench")
		}
	})
}
