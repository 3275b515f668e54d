package clipboard

import (
	"context"
	"fmt"
	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
	"golang.org/x/sync/semaphore"
	"sync/atomic"
	"time"
)

var Logger = logger.GetLogger("clipboard")

// Names of the timers in the guard registry
const (
	MetricWait = "guard.wait"
	MetricHold = "guard.hold"
)

// Guard is the only owner of an IClipboard. It hands out at most one
// ScopedAccess at a time; all other callers of Acquire block until the
// current access is released.
type Guard struct {
	clip      IClipboard
	sem       *semaphore.Weighted
	registry  gometrics.Registry
	waitTimer gometrics.Timer // time spent waiting for the guard
	holdTimer gometrics.Timer // time the guard was held
}

// NewGuard wraps clip. The caller must not use clip directly afterward.
func NewGuard(clip IClipboard) *Guard {
	registry := gometrics.NewRegistry()
	return &Guard{
		clip:      clip,
		sem:       semaphore.NewWeighted(1),
		registry:  registry,
		waitTimer: gometrics.GetOrRegisterTimer(MetricWait, registry),
		holdTimer: gometrics.GetOrRegisterTimer(MetricHold, registry),
	}
}

// Acquire blocks until the clipboard is free and returns the exclusive access
// to it. If ctx ends first, ctx.Err() is returned and nothing is held.
// The returned access must be released with ScopedAccess.Release.
func (g *Guard) Acquire(ctx context.Context) (*ScopedAccess, error) {
	start := time.Now()
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	g.waitTimer.UpdateSince(start)

	return &ScopedAccess{
		guard:      g,
		acquiredAt: time.Now(),
	}, nil
}

// Do acquires the guard, runs fn and releases the guard again - no matter if
// fn returns an error or panics. A panic inside fn is returned as an *Error.
func (g *Guard) Do(ctx context.Context, fn func(access *ScopedAccess) error) (err error) {
	access, err := g.Acquire(ctx)
	if err != nil {
		return err
	}
	defer access.Release()

	defer func() {
		if r := recover(); r != nil {
			Logger.Errorf("recovered from panic while holding the clipboard: %v", r)
			err = NewError(ErrCUnknown, fmt.Sprintf("clipboard access panicked: %v", r))
		}
	}()

	return fn(access)
}

// Read returns the clipboard text under the guard
func (g *Guard) Read(ctx context.Context) (text string, err error) {
	err = g.Do(ctx, func(access *ScopedAccess) error {
		text, err = access.Read()
		return err
	})
	return text, err
}

// Write replaces the clipboard text under the guard
func (g *Guard) Write(ctx context.Context, text string) error {
	return g.Do(ctx, func(access *ScopedAccess) error {
		return access.Write(text)
	})
}

// GetText implements IClipboard, so a guard can be used wherever a clipboard
// is expected. It waits for the guard without a deadline.
func (g *Guard) GetText() (string, error) {
	return g.Read(context.Background())
}

// SetText implements IClipboard (see GetText)
func (g *Guard) SetText(text string) error {
	return g.Write(context.Background(), text)
}

// Registry returns the metrics registry holding the guard timers
func (g *Guard) Registry() gometrics.Registry {
	return g.registry
}

// Stats returns a snapshot of the guard timings
func (g *Guard) Stats() Stats {
	wait := g.waitTimer.Snapshot()
	hold := g.holdTimer.Snapshot()
	return Stats{
		Acquisitions: wait.Count(),
		MeanWait:     time.Duration(wait.Mean()),
		MaxWait:      time.Duration(wait.Max()),
		MeanHold:     time.Duration(hold.Mean()),
		MaxHold:      time.Duration(hold.Max()),
	}
}

// Stats summarizes how the guard has been used so far
type Stats struct {
	Acquisitions int64
	MeanWait     time.Duration
	MaxWait      time.Duration
	MeanHold     time.Duration
	MaxHold      time.Duration
}

// String returns a one line representation of the stats
func (s Stats) String() string {
	return fmt.Sprintf("acquisitions=%d wait(mean=%s max=%s) hold(mean=%s max=%s)",
		s.Acquisitions, s.MeanWait, s.MaxWait, s.MeanHold, s.MaxHold)
}

// --------------------------------------------------------------------------
// Scoped Access
// --------------------------------------------------------------------------

// ScopedAccess is the exclusive access to the guarded clipboard. It is valid
// until Release is called.
type ScopedAccess struct {
	guard      *Guard
	acquiredAt time.Time
	released   atomic.Bool
}

// Read returns the clipboard text
func (a *ScopedAccess) Read() (string, error) {
	if a.released.Load() {
		return "", NewError(ErrCReleased, "read on released clipboard access")
	}
	return a.guard.clip.GetText()
}

// Write replaces the clipboard text
func (a *ScopedAccess) Write(text string) error {
	if a.released.Load() {
		return NewError(ErrCReleased, "write on released clipboard access")
	}
	return a.guard.clip.SetText(text)
}

// Release gives the clipboard back to the guard. Calling it more than once is a no-op.
func (a *ScopedAccess) Release() {
	if !a.released.CompareAndSwap(false, true) {
		return
	}
	a.guard.holdTimer.UpdateSince(a.acquiredAt)
	a.guard.sem.Release(1)
}
