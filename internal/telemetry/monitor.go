package telemetry

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mountfs/mountfs/pkg/types"
)

// Config configures a Monitor instance.
type Config struct {
	// Enabled gates all ingestion. Queries are never gated; they operate
	// on whatever history already exists.
	Enabled bool

	// OperationHistorySize and NetworkHistorySize bound the per-mount
	// buffers. Zero values take the package defaults.
	OperationHistorySize int
	NetworkHistorySize   int

	// CacheDefaults seeds the advisor's baseline settings. The zero value
	// takes DefaultCacheSettings.
	CacheDefaults types.CacheSettings
}

// Monitor is the telemetry engine facade: it owns the recorder, timer,
// usage analyzer, network monitor and cache advisor for one mount
// subsystem. Construct one per subsystem and pass it around explicitly;
// there is no process-wide instance.
type Monitor struct {
	mu       sync.RWMutex
	enabled  bool
	disposed bool

	recorder *Recorder
	timer    *Timer
	usage    *UsageAnalyzer
	network  *NetworkMonitor
	advisor  *CacheAdvisor
	logger   *zap.Logger
}

// New creates a monitor. A nil config enables monitoring with default
// buffer sizes; a nil logger discards log output.
func New(cfg *Config, logger *zap.Logger) *Monitor {
	if cfg == nil {
		cfg = &Config{Enabled: true}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	recorder := NewRecorder(cfg.OperationHistorySize, logger)
	network := NewNetworkMonitor(cfg.NetworkHistorySize, logger)
	usage := NewUsageAnalyzer(recorder)

	return &Monitor{
		enabled:  cfg.Enabled,
		recorder: recorder,
		timer:    NewTimer(recorder),
		usage:    usage,
		network:  network,
		advisor:  NewCacheAdvisor(usage, network, cfg.CacheDefaults),
		logger:   logger,
	}
}

// SetEnabled toggles the global ingestion gate.
func (m *Monitor) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	m.enabled = enabled
}

// Enabled reports whether ingestion is currently accepted.
func (m *Monitor) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled && !m.disposed
}

// RecordOperation ingests a completed operation. No-op while disabled.
func (m *Monitor) RecordOperation(rec types.OperationRecord) {
	if !m.Enabled() {
		return
	}
	m.recorder.Record(rec)
}

// BeginOperation starts timing an asynchronous operation and returns the
// handle EndOperation must be called with. Returns an empty handle, and
// records nothing, while disabled.
func (m *Monitor) BeginOperation(kind types.OperationKind, localURI, remoteURI, mountID string) string {
	if !m.Enabled() {
		return ""
	}
	return m.timer.Begin(kind, localURI, remoteURI, mountID)
}

// EndOperation completes a timed operation. Empty or unknown handles are
// silent no-ops. When monitoring was disabled between Begin and End the
// pending entry is still discarded, but nothing is recorded.
func (m *Monitor) EndOperation(handle string, success bool, size int64) {
	if !m.Enabled() {
		m.timer.Discard(handle)
		return
	}
	m.timer.End(handle, success, size)
}

// RecordNetworkSample ingests one network-condition observation for a
// mount. No-op while disabled.
func (m *Monitor) RecordNetworkSample(mountID string, latency time.Duration, bandwidthBps, packetLossPercent float64) {
	if !m.Enabled() {
		return
	}
	m.network.Sample(types.NetworkSample{
		MountID:    mountID,
		Latency:    latency,
		Bandwidth:  bandwidthBps,
		PacketLoss: packetLossPercent,
	})
}

// UsagePattern returns the derived usage pattern for a mount, or false
// when the mount has no recorded history.
func (m *Monitor) UsagePattern(mountID string) (*types.UsagePattern, bool) {
	return m.usage.Pattern(mountID)
}

// AllUsagePatterns returns patterns for every mount with history.
func (m *Monitor) AllUsagePatterns() []*types.UsagePattern {
	return m.usage.AllPatterns()
}

// NetworkStatistics returns the derived network view for a mount, or
// false when no samples are buffered.
func (m *Monitor) NetworkStatistics(mountID string) (*types.NetworkStatistics, bool) {
	return m.network.Statistics(mountID)
}

// AdaptiveCacheSettings returns the advised cache settings for a mount.
// Always present; a mount with zero history gets the defaults.
func (m *Monitor) AdaptiveCacheSettings(mountID string) types.CacheSettings {
	return m.advisor.Settings(mountID)
}

// Recommendations evaluates the tuning rules for a mount, highest
// priority first. Empty for a mount with no usage history.
func (m *Monitor) Recommendations(mountID string) []types.Recommendation {
	return m.advisor.Recommendations(mountID)
}

// OperationHistoryLen reports the buffered record count for a mount.
func (m *Monitor) OperationHistoryLen(mountID string) int {
	return m.recorder.Len(mountID)
}

// ClearMount drops one mount's operation and network history.
func (m *Monitor) ClearMount(mountID string) {
	m.recorder.Clear(mountID)
	m.network.Clear(mountID)
}

// ClearMetrics drops all history for all mounts.
func (m *Monitor) ClearMetrics() {
	m.recorder.ClearAll()
	m.network.ClearAll()
	m.logger.Info("telemetry history cleared")
}

// Dispose clears all buffers and pending timer handles and permanently
// disables the instance. A disposed monitor is inert and must be
// replaced, not reused.
func (m *Monitor) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	m.enabled = false
	m.mu.Unlock()

	m.recorder.ClearAll()
	m.network.ClearAll()
	m.timer.Reset()
	m.logger.Info("telemetry monitor disposed")
}
