package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mountfs/mountfs/internal/telemetry"
	"github.com/mountfs/mountfs/pkg/types"
)

// Config represents exporter configuration
type Config struct {
	Enabled        bool          `yaml:"enabled"`
	Port           int           `yaml:"port"`
	Path           string        `yaml:"path"`
	Namespace      string        `yaml:"namespace"`
	UpdateInterval time.Duration `yaml:"update_interval"`
}

// Exporter bridges the telemetry engine to Prometheus. Per-operation
// counters and histograms are fed through Observe; per-mount gauges are
// refreshed periodically from the engine's query API, which keeps the
// exporter strictly on the consumer side of the telemetry contract.
type Exporter struct {
	mu       sync.RWMutex
	config   *Config
	monitor  *telemetry.Monitor
	registry *prometheus.Registry
	logger   *zap.Logger

	operationCounter  *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationSize     *prometheus.HistogramVec
	cacheHitCounter   *prometheus.CounterVec
	qualityGauge      *prometheus.GaugeVec
	historyGauge      *prometheus.GaugeVec

	// Internal tracking for the debug endpoint
	perKind   map[types.OperationKind]*KindStats
	lastReset time.Time

	server *http.Server
	cancel context.CancelFunc
}

// KindStats tracks aggregate counts for one operation kind
type KindStats struct {
	Count         int64         `json:"count"`
	Errors        int64         `json:"errors"`
	TotalDuration time.Duration `json:"total_duration"`
	AvgDuration   time.Duration `json:"avg_duration"`
	LastOperation time.Time     `json:"last_operation"`
}

// NewExporter creates a Prometheus exporter over the given monitor.
func NewExporter(config *Config, monitor *telemetry.Monitor, logger *zap.Logger) (*Exporter, error) {
	if config == nil {
		config = &Config{
			Enabled:        true,
			Port:           8080,
			Path:           "/metrics",
			Namespace:      "mountfs",
			UpdateInterval: 30 * time.Second,
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if !config.Enabled {
		return &Exporter{config: config, monitor: monitor, logger: logger}, nil
	}

	e := &Exporter{
		config:    config,
		monitor:   monitor,
		registry:  prometheus.NewRegistry(),
		logger:    logger,
		perKind:   make(map[types.OperationKind]*KindStats),
		lastReset: time.Now(),
	}

	e.initMetrics()
	if err := e.registerMetrics(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return e, nil
}

// Start serves the metrics endpoint and begins periodic gauge refresh.
func (e *Exporter) Start(ctx context.Context) error {
	if !e.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(e.config.Path, promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/health", e.healthHandler)
	mux.HandleFunc("/debug/telemetry", e.debugHandler)

	e.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", e.config.Port),
		Handler:           mux,
		ReadHeaderTimeout: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := e.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			e.logger.Error("metrics server error", zap.Error(err))
		}
	}()

	loopCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	go e.updateLoop(loopCtx)

	return nil
}

// Stop shuts down the metrics endpoint and the refresh loop.
func (e *Exporter) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}
	if e.server != nil {
		return e.server.Shutdown(ctx)
	}
	return nil
}

// Observe records one completed operation into the Prometheus series and
// the internal per-kind tracking.
func (e *Exporter) Observe(rec types.OperationRecord) {
	if !e.config.Enabled {
		return
	}

	e.mu.Lock()
	stats, ok := e.perKind[rec.Kind]
	if !ok {
		stats = &KindStats{}
		e.perKind[rec.Kind] = stats
	}
	stats.Count++
	stats.TotalDuration += rec.Duration
	stats.AvgDuration = stats.TotalDuration / time.Duration(stats.Count)
	stats.LastOperation = time.Now()
	if !rec.Success {
		stats.Errors++
	}
	e.mu.Unlock()

	status := "success"
	if !rec.Success {
		status = "error"
	}
	e.operationCounter.With(prometheus.Labels{
		"kind":   string(rec.Kind),
		"status": status,
	}).Inc()
	e.operationDuration.With(prometheus.Labels{
		"kind": string(rec.Kind),
	}).Observe(rec.Duration.Seconds())
	if rec.Size > 0 {
		e.operationSize.With(prometheus.Labels{
			"kind": string(rec.Kind),
		}).Observe(float64(rec.Size))
	}

	hit := "miss"
	if rec.CacheHit {
		hit = "hit"
	}
	e.cacheHitCounter.With(prometheus.Labels{"type": hit}).Inc()
}

// Snapshot returns a copy of the per-kind tracking for the debug surface.
func (e *Exporter) Snapshot() map[types.OperationKind]KindStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[types.OperationKind]KindStats, len(e.perKind))
	for kind, stats := range e.perKind {
		out[kind] = *stats
	}
	return out
}

// Reset clears the internal per-kind tracking. Prometheus series are
// cumulative and intentionally left alone.
func (e *Exporter) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.perKind = make(map[types.OperationKind]*KindStats)
	e.lastReset = time.Now()
}

func (e *Exporter) initMetrics() {
	e.operationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: e.config.Namespace,
			Name:      "operations_total",
			Help:      "Total number of remote-mount operations",
		},
		[]string{"kind", "status"},
	)
	e.operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: e.config.Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of remote-mount operations in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~32s
		},
		[]string{"kind"},
	)
	e.operationSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: e.config.Namespace,
			Name:      "operation_size_bytes",
			Help:      "Payload size of remote-mount operations in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 2, 20), // 1KB to ~1GB
		},
		[]string{"kind"},
	)
	e.cacheHitCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: e.config.Namespace,
			Name:      "cache_requests_total",
			Help:      "Total number of operations by cache outcome",
		},
		[]string{"type"},
	)
	e.qualityGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: e.config.Namespace,
			Name:      "network_quality",
			Help:      "Network quality per mount (4=excellent 3=good 2=fair 1=poor 0=offline)",
		},
		[]string{"mount"},
	)
	e.historyGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: e.config.Namespace,
			Name:      "history_records",
			Help:      "Buffered telemetry records per mount",
		},
		[]string{"mount", "buffer"},
	)
}

func (e *Exporter) registerMetrics() error {
	for _, c := range []prometheus.Collector{
		e.operationCounter,
		e.operationDuration,
		e.operationSize,
		e.cacheHitCounter,
		e.qualityGauge,
		e.historyGauge,
	} {
		if err := e.registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) updateLoop(ctx context.Context) {
	interval := e.config.UpdateInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.refreshGauges()
		}
	}
}

// refreshGauges pulls per-mount state through the engine's query API.
func (e *Exporter) refreshGauges() {
	if e.monitor == nil {
		return
	}
	for _, pattern := range e.monitor.AllUsagePatterns() {
		e.historyGauge.With(prometheus.Labels{
			"mount":  pattern.MountID,
			"buffer": "operations",
		}).Set(float64(e.monitor.OperationHistoryLen(pattern.MountID)))

		stats, ok := e.monitor.NetworkStatistics(pattern.MountID)
		if !ok {
			continue
		}
		e.qualityGauge.With(prometheus.Labels{
			"mount": pattern.MountID,
		}).Set(qualityValue(stats.Quality))
		e.historyGauge.With(prometheus.Labels{
			"mount":  pattern.MountID,
			"buffer": "network",
		}).Set(float64(stats.SampleCount))
	}
}

func qualityValue(q types.NetworkQuality) float64 {
	switch q {
	case types.QualityExcellent:
		return 4
	case types.QualityGood:
		return 3
	case types.QualityFair:
		return 2
	case types.QualityPoor:
		return 1
	default:
		return 0
	}
}

// HTTP handlers

func (e *Exporter) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy","service":"mountfs-telemetry"}`))
}

func (e *Exporter) debugHandler(w http.ResponseWriter, r *http.Request) {
	e.mu.RLock()
	payload := struct {
		Uptime     string                             `json:"uptime"`
		LastReset  time.Time                          `json:"last_reset"`
		Operations map[types.OperationKind]*KindStats `json:"operations"`
	}{
		Uptime:     time.Since(e.lastReset).String(),
		LastReset:  e.lastReset,
		Operations: e.perKind,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	e.mu.RUnlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
