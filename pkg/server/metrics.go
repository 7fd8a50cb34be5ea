package server

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Metrics tracks server runtime statistics.
// All counters use atomic operations for lock-free concurrent access.
type Metrics struct {
	startTime time.Time

	Requests    atomic.Int64 // total HTTP requests served
	Logins      atomic.Int64 // successful teacher logins
	Signups     atomic.Int64 // successful activity signups
	Unregisters atomic.Int64 // successful activity unregistrations
}

// NewMetrics creates a new Metrics instance with the start time set to now.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// countRequests is middleware that counts every request served.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metrics.Requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

// handleMetrics writes all metrics in Prometheus text exposition format.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	m := s.metrics
	uptime := time.Since(m.startTime).Seconds()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	// Write errors to http.ResponseWriter are non-actionable; suppress errcheck.
	write := func(name, help, mtype string, value int64) {
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		_, _ = fmt.Fprintf(w, "%s %d\n", name, value)
	}

	_, _ = fmt.Fprintf(w, "# HELP rosterdesk_uptime_seconds Server uptime in seconds.\n")
	_, _ = fmt.Fprintf(w, "# TYPE rosterdesk_uptime_seconds gauge\n")
	_, _ = fmt.Fprintf(w, "rosterdesk_uptime_seconds %f\n", uptime)

	write("rosterdesk_requests_total", "Total HTTP requests served.", "counter",
		m.Requests.Load())
	write("rosterdesk_logins_total", "Successful teacher logins.", "counter",
		m.Logins.Load())
	write("rosterdesk_signups_total", "Successful activity signups.", "counter",
		m.Signups.Load())
	write("rosterdesk_unregisters_total", "Successful activity unregistrations.", "counter",
		m.Unregisters.Load())
}
