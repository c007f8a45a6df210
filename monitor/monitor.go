package monitor

import (
	"expvar"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkarev/shclient/logger"
	"github.com/mkarev/shclient/network"
)

type Metrics struct {
	ConnectionState  prometheus.Gauge
	FramesReceived   prometheus.Counter
	DecodeErrors     prometheus.Counter
	Reconnects       prometheus.Counter
	SnapshotsApplied prometheus.Counter
	CommandsSent     prometheus.Counter
	DecodeLatency    prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		ConnectionState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_state",
			Help:      "Current connection state (0 disconnected, 1 connecting, 2 connected, 3 errored)",
		}),
		FramesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_received_total",
			Help:      "Total number of inbound frames",
		}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Total number of frames discarded as undecodable",
		}),
		Reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconnects_total",
			Help:      "Total number of reconnect attempts",
		}),
		SnapshotsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_applied_total",
			Help:      "Total number of snapshots applied to the store",
		}),
		CommandsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_sent_total",
			Help:      "Total number of outbound commands",
		}),
		DecodeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decode_latency_seconds",
			Help:      "Frame decode latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 10),
		}),
	}

	prometheus.MustRegister(
		m.ConnectionState,
		m.FramesReceived,
		m.DecodeErrors,
		m.Reconnects,
		m.SnapshotsApplied,
		m.CommandsSent,
		m.DecodeLatency,
	)

	return m
}

type Monitor struct {
	metrics   *Metrics
	startTime time.Time
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

// StartServer exposes /metrics and expvar on addr in the background.
func (m *Monitor) StartServer(addr string) {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/debug/vars", expvar.Handler())

	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))

	go func() {
		if err := http.ListenAndServe(addr, r); err != nil {
			logger.Log.Warnw("monitor server stopped", "addr", addr, "error", err)
		}
	}()
}

func (m *Monitor) SetConnectionState(s network.ConnState) {
	m.metrics.ConnectionState.Set(float64(s))
}

func (m *Monitor) IncFramesReceived() { m.metrics.FramesReceived.Inc() }
func (m *Monitor) IncDecodeErrors()   { m.metrics.DecodeErrors.Inc() }
func (m *Monitor) IncReconnects()     { m.metrics.Reconnects.Inc() }
func (m *Monitor) IncSnapshots()      { m.metrics.SnapshotsApplied.Inc() }
func (m *Monitor) IncCommandsSent()   { m.metrics.CommandsSent.Inc() }

func (m *Monitor) ObserveDecodeLatency(d time.Duration) {
	m.metrics.DecodeLatency.Observe(d.Seconds())
}
