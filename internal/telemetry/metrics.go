package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ScanCycles counts completed network scan cycles by outcome
	ScanCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lanwarden",
			Name:      "scan_cycles_total",
			Help:      "Total number of network scan cycles, by outcome",
		},
		[]string{"outcome"}, // "ok", "error", "skipped"
	)

	// ScanCycleDuration observes wall time of one full scan cycle
	ScanCycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "lanwarden",
			Name:      "scan_cycle_duration_seconds",
			Help:      "Duration of one full scan cycle (discovery through dispatch)",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// DevicesDiscovered counts hosts seen per discovery method
	DevicesDiscovered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lanwarden",
			Name:      "devices_discovered_total",
			Help:      "Total hosts returned by discovery, by method",
		},
		[]string{"method"}, // "nmap", "arp-scan", "arp-table"
	)

	// DeviceTransitions counts reconciliation outcomes
	DeviceTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lanwarden",
			Name:      "device_transitions_total",
			Help:      "Device state transitions emitted by reconciliation",
		},
		[]string{"kind"}, // "detected", "offline"
	)

	// ProbeDuration observes per-probe latency per dimension
	ProbeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lanwarden",
			Name:      "probe_duration_seconds",
			Help:      "Duration of one evidence probe against one host",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"probe"}, // "ports", "http", "snmp", "mdns"
	)

	// FingerprintMatches counts classification results by path
	FingerprintMatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lanwarden",
			Name:      "fingerprint_matches_total",
			Help:      "Fingerprint classifications applied, by path",
		},
		[]string{"path"}, // "quick", "deep", "below_threshold"
	)

	// EventsAppended counts event log inserts by kind
	EventsAppended = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lanwarden",
			Name:      "events_appended_total",
			Help:      "Events appended to the log, by kind",
		},
		[]string{"kind"},
	)

	// AlertsSent counts alert bus deliveries by sink and result
	AlertsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lanwarden",
			Name:      "alerts_sent_total",
			Help:      "Alert deliveries, by sink and result",
		},
		[]string{"sink", "result"},
	)

	// MonitorCycles counts aux monitor cycles by monitor and outcome
	MonitorCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lanwarden",
			Name:      "monitor_cycles_total",
			Help:      "Aux monitor cycles, by monitor and outcome",
		},
		[]string{"monitor", "outcome"},
	)

	// FingerprintBatchSize observes how many hosts each dispatch carries
	FingerprintBatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "lanwarden",
			Name:      "fingerprint_batch_size",
			Help:      "Hosts handed to the fingerprint scanner per batch",
			Buckets:   prometheus.LinearBuckets(0, 5, 10),
		},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// Idempotent; safe to call from every entry point.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(ScanCycles)
		prometheus.DefaultRegisterer.Register(ScanCycleDuration)
		prometheus.DefaultRegisterer.Register(DevicesDiscovered)
		prometheus.DefaultRegisterer.Register(DeviceTransitions)
		prometheus.DefaultRegisterer.Register(ProbeDuration)
		prometheus.DefaultRegisterer.Register(FingerprintMatches)
		prometheus.DefaultRegisterer.Register(EventsAppended)
		prometheus.DefaultRegisterer.Register(AlertsSent)
		prometheus.DefaultRegisterer.Register(MonitorCycles)
		prometheus.DefaultRegisterer.Register(FingerprintBatchSize)
	})
}
