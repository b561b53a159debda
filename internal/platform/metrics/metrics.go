// Package metrics provides observability for the sustenance server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// NotificationKind labels a bus notification for counting.
type NotificationKind int

const (
	NotifLevel NotificationKind = iota
	NotifSeverity
	NotifStarvation
)

// Collector gathers performance metrics.
type Collector struct {
	// Tick metrics
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	LastTickTime   time.Time

	// Persistence metrics
	Flushes         int64
	FlushLatencySum int64
	FlushLatencyMax int64
	FlushErrors     int64

	// Notification metrics
	LevelNotifications      int64
	SeverityNotifications   int64
	StarvationNotifications int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordTick records a simulation step completion.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.TickLatencyMax) {
		atomic.StoreInt64(&c.TickLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordFlush records a persistence flush.
func (c *Collector) RecordFlush(latency time.Duration, err error) {
	atomic.AddInt64(&c.Flushes, 1)
	atomic.AddInt64(&c.FlushLatencySum, int64(latency))

	if int64(latency) > atomic.LoadInt64(&c.FlushLatencyMax) {
		atomic.StoreInt64(&c.FlushLatencyMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.FlushErrors, 1)
	}
}

// RecordNotification counts a bus delivery by kind.
func (c *Collector) RecordNotification(kind NotificationKind) {
	switch kind {
	case NotifLevel:
		atomic.AddInt64(&c.LevelNotifications, 1)
	case NotifSeverity:
		atomic.AddInt64(&c.SeverityNotifications, 1)
	case NotifStarvation:
		atomic.AddInt64(&c.StarvationNotifications, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tickCount := atomic.LoadInt64(&c.TickCount)
	flushes := atomic.LoadInt64(&c.Flushes)

	var tickAvg, flushAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6 // ms
	}
	if flushes > 0 {
		flushAvg = float64(atomic.LoadInt64(&c.FlushLatencySum)) / float64(flushes) / 1e6
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"last_tick":      c.LastTickTime.Format(time.RFC3339),
		},

		"persistence": map[string]interface{}{
			"flushes":          flushes,
			"avg_flush_lat_ms": flushAvg,
			"max_flush_lat_ms": float64(atomic.LoadInt64(&c.FlushLatencyMax)) / 1e6,
			"errors":           atomic.LoadInt64(&c.FlushErrors),
		},

		"notifications": map[string]interface{}{
			"level_changed":    atomic.LoadInt64(&c.LevelNotifications),
			"severity_changed": atomic.LoadInt64(&c.SeverityNotifications),
			"starvation_tick":  atomic.LoadInt64(&c.StarvationNotifications),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP hambruna_tick_count Total simulation steps\n")
		fmt.Fprintf(w, "# TYPE hambruna_tick_count counter\n")
		fmt.Fprintf(w, "hambruna_tick_count %d\n\n", atomic.LoadInt64(&c.TickCount))

		fmt.Fprintf(w, "# HELP hambruna_tick_latency_max_ms Maximum step latency\n")
		fmt.Fprintf(w, "# TYPE hambruna_tick_latency_max_ms gauge\n")
		fmt.Fprintf(w, "hambruna_tick_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TickLatencyMax))/1e6)

		fmt.Fprintf(w, "# HELP hambruna_flushes Total persistence flushes\n")
		fmt.Fprintf(w, "# TYPE hambruna_flushes counter\n")
		fmt.Fprintf(w, "hambruna_flushes %d\n\n", atomic.LoadInt64(&c.Flushes))

		fmt.Fprintf(w, "# HELP hambruna_flush_errors Total persistence flush errors\n")
		fmt.Fprintf(w, "# TYPE hambruna_flush_errors counter\n")
		fmt.Fprintf(w, "hambruna_flush_errors %d\n\n", atomic.LoadInt64(&c.FlushErrors))

		fmt.Fprintf(w, "# HELP hambruna_notifications_total Bus notifications delivered\n")
		fmt.Fprintf(w, "# TYPE hambruna_notifications_total counter\n")
		fmt.Fprintf(w, "hambruna_notifications_total{kind=\"level_changed\"} %d\n", atomic.LoadInt64(&c.LevelNotifications))
		fmt.Fprintf(w, "hambruna_notifications_total{kind=\"severity_changed\"} %d\n", atomic.LoadInt64(&c.SeverityNotifications))
		fmt.Fprintf(w, "hambruna_notifications_total{kind=\"starvation_tick\"} %d\n\n", atomic.LoadInt64(&c.StarvationNotifications))

		fmt.Fprintf(w, "# HELP hambruna_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE hambruna_ws_connections gauge\n")
		fmt.Fprintf(w, "hambruna_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP hambruna_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE hambruna_ws_messages_total counter\n")
		fmt.Fprintf(w, "hambruna_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "hambruna_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
