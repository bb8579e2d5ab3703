package telemetry

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mountfs/mountfs/pkg/types"
)

// DefaultNetworkHistorySize bounds the per-mount sample buffer.
const DefaultNetworkHistorySize = 100

// Classification thresholds, evaluated in priority order against the most
// recent sample. First match wins; offline is checked after fair so a
// dead link with low latency still classifies as offline rather than poor.
const (
	excellentLatency   = 50 * time.Millisecond
	excellentBandwidth = 10_000_000 // B/s
	excellentLoss      = 0.1        // percent

	goodLatency   = 100 * time.Millisecond
	goodBandwidth = 5_000_000
	goodLoss      = 1.0

	fairLatency   = 200 * time.Millisecond
	fairBandwidth = 1_000_000
	fairLoss      = 5.0
)

// Trend detection over the last trendWindow samples: the newest latency is
// compared against the oldest in the window.
const (
	trendWindow          = 3
	trendImproveFraction = 0.8
	trendDegradeFraction = 1.2
)

// NetworkMonitor records network-condition samples handed to it by an
// external probing collaborator and derives quality statistics. It never
// probes the network itself.
type NetworkMonitor struct {
	mu       sync.RWMutex
	capacity int
	samples  map[string]*ring[types.NetworkSample]
	logger   *zap.Logger
}

// NewNetworkMonitor creates a monitor with the given per-mount capacity.
// A non-positive capacity falls back to DefaultNetworkHistorySize.
func NewNetworkMonitor(capacity int, logger *zap.Logger) *NetworkMonitor {
	if capacity <= 0 {
		capacity = DefaultNetworkHistorySize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NetworkMonitor{
		capacity: capacity,
		samples:  make(map[string]*ring[types.NetworkSample]),
		logger:   logger,
	}
}

// Sample appends s to its mount's buffer, creating the buffer on first
// use. A zero timestamp is filled with the current time.
func (m *NetworkMonitor) Sample(s types.NetworkSample) {
	if s.MountID == "" {
		return
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	buf, ok := m.samples[s.MountID]
	if !ok {
		buf = newRing[types.NetworkSample](m.capacity)
		m.samples[s.MountID] = buf
	}
	buf.Push(s)

	m.logger.Debug("network sample recorded",
		zap.String("mount", s.MountID),
		zap.Duration("latency", s.Latency),
		zap.Float64("bandwidth_bps", s.Bandwidth),
		zap.Float64("loss_percent", s.PacketLoss))
}

// Statistics derives the network view for a mount. The second return is
// false when the mount has no buffered samples. Quality classifies the
// most recent sample; averages span the whole buffered window; the trend
// considers only the last three samples.
func (m *NetworkMonitor) Statistics(mountID string) (*types.NetworkStatistics, bool) {
	m.mu.RLock()
	buf, ok := m.samples[mountID]
	if !ok || buf.Len() == 0 {
		m.mu.RUnlock()
		return nil, false
	}
	samples := buf.Items()
	m.mu.RUnlock()

	last := samples[len(samples)-1]

	stats := &types.NetworkStatistics{
		MountID:     mountID,
		Quality:     classifyQuality(last),
		Trend:       latencyTrend(samples),
		SampleCount: len(samples),
		LastSample:  last.Timestamp,
	}

	var totalLatency time.Duration
	for _, s := range samples {
		totalLatency += s.Latency
		stats.AverageBandwidth += s.Bandwidth
		stats.AveragePacketLoss += s.PacketLoss
	}
	n := float64(len(samples))
	stats.AverageLatency = totalLatency / time.Duration(len(samples))
	stats.AverageBandwidth /= n
	stats.AveragePacketLoss /= n
	stats.StabilityScore = stabilityScore(samples, stats.AverageLatency)

	return stats, true
}

// Clear drops one mount's samples.
func (m *NetworkMonitor) Clear(mountID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.samples, mountID)
}

// ClearAll drops all samples for all mounts.
func (m *NetworkMonitor) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = make(map[string]*ring[types.NetworkSample])
}

func classifyQuality(s types.NetworkSample) types.NetworkQuality {
	switch {
	case s.Latency <= excellentLatency && s.Bandwidth >= excellentBandwidth && s.PacketLoss <= excellentLoss:
		return types.QualityExcellent
	case s.Latency <= goodLatency && s.Bandwidth >= goodBandwidth && s.PacketLoss <= goodLoss:
		return types.QualityGood
	case s.Latency <= fairLatency && s.Bandwidth >= fairBandwidth && s.PacketLoss <= fairLoss:
		return types.QualityFair
	case s.Bandwidth == 0 || s.PacketLoss >= 100:
		return types.QualityOffline
	default:
		return types.QualityPoor
	}
}

// latencyTrend compares the first and last latency of the trend window.
// Fewer than trendWindow samples reads as stable.
func latencyTrend(samples []types.NetworkSample) types.Trend {
	if len(samples) < trendWindow {
		return types.TrendStable
	}
	window := samples[len(samples)-trendWindow:]
	first := float64(window[0].Latency)
	last := float64(window[len(window)-1].Latency)

	switch {
	case last <= first*trendImproveFraction:
		return types.TrendImproving
	case last >= first*trendDegradeFraction:
		return types.TrendDegrading
	default:
		return types.TrendStable
	}
}

// stabilityScore maps the latency coefficient of variation over the window
// onto 0-100, where 100 is perfectly steady.
func stabilityScore(samples []types.NetworkSample, mean time.Duration) float64 {
	if len(samples) < 2 || mean <= 0 {
		return 100
	}
	var variance float64
	for _, s := range samples {
		d := float64(s.Latency - mean)
		variance += d * d
	}
	variance /= float64(len(samples))
	cv := math.Sqrt(variance) / float64(mean)

	score := 100 - cv*100
	if score < 0 {
		return 0
	}
	return score
}
