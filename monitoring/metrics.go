package monitoring

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scanOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanner_scan_operations_total",
			Help: "Total ticket scan operations per event and result",
		},
		[]string{"event_id", "result"},
	)

	scanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scanner_scan_duration_seconds",
			Help:    "Duration of ticket verification calls",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"event_id"},
	)

	checkedInTickets = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scanner_checked_in_tickets",
			Help: "Current number of checked-in tickets per event",
		},
		[]string{"event_id"},
	)
)

// CheckInCounter is the slice of the store the monitor polls.
type CheckInCounter interface {
	CheckInCountsByEvent(ctx context.Context) (map[string]int, error)
}

type Monitor struct {
	store    CheckInCounter
	interval time.Duration
	stopChan chan struct{}
}

// NewMonitor starts a background poller that refreshes the per-event
// check-in gauges from the store.
func NewMonitor(store CheckInCounter, interval time.Duration) *Monitor {
	monitor := &Monitor{
		store:    store,
		interval: interval,
		stopChan: make(chan struct{}),
	}

	go monitor.collectMetrics()

	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.collectCheckInCounts()
		case <-m.stopChan:
			return
		}
	}
}

func (m *Monitor) collectCheckInCounts() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	counts, err := m.store.CheckInCountsByEvent(ctx)
	if err != nil {
		slog.Warn("metrics: check-in count collection failed", "error", err)
		return
	}

	for eventID, count := range counts {
		checkedInTickets.WithLabelValues(eventID).Set(float64(count))
	}
}

func (m *Monitor) Stop() {
	close(m.stopChan)
}

// TrackScan records one verification call outcome.
func (m *Monitor) TrackScan(eventID, result string, duration time.Duration) {
	scanOperations.WithLabelValues(eventID, result).Inc()
	scanDuration.WithLabelValues(eventID).Observe(duration.Seconds())
}
