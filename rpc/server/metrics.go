package server

import (
	"fmt"
	"github.com/ValentinKolb/rpClip/lib/clipboard"
	"github.com/ValentinKolb/rpClip/rpc/common"
	"github.com/ValentinKolb/rpClip/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"io"
	"net/http"
	"time"
)

// serverMetrics holds the prometheus metrics of one server. Every server has
// its own set, so several servers in one process (tests) do not collide.
type serverMetrics struct {
	set *metrics.Set
}

// newServerMetrics creates the metric set. Session and guard values are read
// from the transport and the guard whenever the metrics are scraped.
func newServerMetrics(t transport.IRPCServerTransport, guard *clipboard.Guard) *serverMetrics {
	set := metrics.NewSet()

	// Sessions
	set.NewGauge("rpclip_sessions_active", func() float64 {
		return float64(t.Stats().Active)
	})
	set.NewGauge("rpclip_sessions_total", func() float64 {
		return float64(t.Stats().Total)
	})
	set.NewGauge("rpclip_sessions_failed_total", func() float64 {
		return float64(t.Stats().Failed)
	})

	// Clipboard guard
	set.NewGauge("rpclip_guard_acquisitions_total", func() float64 {
		return float64(guard.Stats().Acquisitions)
	})
	set.NewGauge("rpclip_guard_wait_seconds_max", func() float64 {
		return guard.Stats().MaxWait.Seconds()
	})
	set.NewGauge("rpclip_guard_hold_seconds_max", func() float64 {
		return guard.Stats().MaxHold.Seconds()
	})

	return &serverMetrics{set: set}
}

// observe records one handled request
func (m *serverMetrics) observe(reqType common.MessageType, resp *common.Message, start time.Time) {
	m.set.GetOrCreateCounter(fmt.Sprintf(`rpclip_requests_total{type=%q}`, reqType)).Inc()
	m.set.GetOrCreateHistogram(fmt.Sprintf(`rpclip_request_duration_seconds{type=%q}`, reqType)).UpdateDuration(start)

	if resp.ErrKind != common.ErrKNone {
		m.set.GetOrCreateCounter(fmt.Sprintf(`rpclip_request_errors_total{kind=%q}`, resp.ErrKind)).Inc()
	}
}

// WritePrometheus writes all metrics in the prometheus text format
func (m *serverMetrics) WritePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
}

// handler returns the http handler serving /metrics
func (m *serverMetrics) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		m.WritePrometheus(w)
	})
	return mux
}
