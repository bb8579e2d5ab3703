package telemetry

import (
	"testing"
	"time"

	"github.com/mountfs/mountfs/pkg/types"
)

func sampleFor(mountID string, latencyMs float64, bandwidth, loss float64) types.NetworkSample {
	return types.NetworkSample{
		MountID:    mountID,
		Latency:    time.Duration(latencyMs * float64(time.Millisecond)),
		Bandwidth:  bandwidth,
		PacketLoss: loss,
	}
}

func TestClassifyQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		latencyMs float64
		bandwidth float64
		loss      float64
		want      types.NetworkQuality
	}{
		{"excellent link", 25, 15_000_000, 0.05, types.QualityExcellent},
		{"good link", 75, 8_000_000, 0.5, types.QualityGood},
		{"fair link", 150, 2_000_000, 3, types.QualityFair},
		{"poor link", 500, 500_000, 10, types.QualityPoor},
		{"dead link", 2000, 0, 100, types.QualityOffline},
		{"zero bandwidth with low latency", 10, 0, 0, types.QualityOffline},
		{"total loss", 10, 50_000_000, 100, types.QualityOffline},
		{"boundary excellent", 50, 10_000_000, 0.1, types.QualityExcellent},
		{"just over excellent latency", 51, 10_000_000, 0.1, types.QualityGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyQuality(sampleFor("m", tt.latencyMs, tt.bandwidth, tt.loss))
			if got != tt.want {
				t.Errorf("classifyQuality(%v, %v, %v) = %q, want %q",
					tt.latencyMs, tt.bandwidth, tt.loss, got, tt.want)
			}
		})
	}
}

func TestStatisticsTrend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		latencies []float64
		want      types.Trend
	}{
		{"falling latency improves", []float64{200, 150, 100}, types.TrendImproving},
		{"rising latency degrades", []float64{100, 150, 200}, types.TrendDegrading},
		{"flat latency is stable", []float64{100, 105, 98}, types.TrendStable},
		{"too few samples is stable", []float64{500, 50}, types.TrendStable},
		{"only last three considered", []float64{10, 10, 200, 150, 100}, types.TrendImproving},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewNetworkMonitor(0, nil)
			for _, l := range tt.latencies {
				m.Sample(sampleFor("m", l, 5_000_000, 0))
			}
			stats, ok := m.Statistics("m")
			if !ok {
				t.Fatal("Statistics() absent for mount with samples")
			}
			if stats.Trend != tt.want {
				t.Errorf("Trend = %q for latencies %v, want %q", stats.Trend, tt.latencies, tt.want)
			}
		})
	}
}

func TestStatisticsAverages(t *testing.T) {
	t.Parallel()

	m := NewNetworkMonitor(0, nil)
	m.Sample(sampleFor("m", 100, 1_000_000, 2))
	m.Sample(sampleFor("m", 200, 3_000_000, 4))

	stats, ok := m.Statistics("m")
	if !ok {
		t.Fatal("Statistics() absent")
	}
	if stats.AverageLatency != 150*time.Millisecond {
		t.Errorf("AverageLatency = %v, want 150ms", stats.AverageLatency)
	}
	if stats.AverageBandwidth != 2_000_000 {
		t.Errorf("AverageBandwidth = %v, want 2000000", stats.AverageBandwidth)
	}
	if stats.AveragePacketLoss != 3 {
		t.Errorf("AveragePacketLoss = %v, want 3", stats.AveragePacketLoss)
	}
	if stats.SampleCount != 2 {
		t.Errorf("SampleCount = %d, want 2", stats.SampleCount)
	}
}

func TestStatisticsQualityUsesMostRecentSample(t *testing.T) {
	t.Parallel()

	m := NewNetworkMonitor(0, nil)
	m.Sample(sampleFor("m", 25, 15_000_000, 0)) // excellent
	m.Sample(sampleFor("m", 800, 200_000, 15))  // poor

	stats, _ := m.Statistics("m")
	if stats.Quality != types.QualityPoor {
		t.Errorf("Quality = %q, want poor (classification of newest sample)", stats.Quality)
	}
}

func TestStatisticsStabilityScore(t *testing.T) {
	t.Parallel()

	t.Run("steady latency scores high", func(t *testing.T) {
		m := NewNetworkMonitor(0, nil)
		for i := 0; i < 10; i++ {
			m.Sample(sampleFor("m", 100, 5_000_000, 0))
		}
		stats, _ := m.Statistics("m")
		if stats.StabilityScore != 100 {
			t.Errorf("StabilityScore = %v for constant latency, want 100", stats.StabilityScore)
		}
	})

	t.Run("jittery latency scores lower", func(t *testing.T) {
		m := NewNetworkMonitor(0, nil)
		for i := 0; i < 10; i++ {
			latency := 10.0
			if i%2 == 0 {
				latency = 400
			}
			m.Sample(sampleFor("m", latency, 5_000_000, 0))
		}
		stats, _ := m.Statistics("m")
		if stats.StabilityScore >= 60 {
			t.Errorf("StabilityScore = %v for jittery latency, want < 60", stats.StabilityScore)
		}
	})
}

func TestNetworkBoundedHistory(t *testing.T) {
	t.Parallel()

	m := NewNetworkMonitor(100, nil)
	for i := 0; i < 150; i++ {
		m.Sample(sampleFor("m", float64(i), 5_000_000, 0))
	}

	stats, _ := m.Statistics("m")
	if stats.SampleCount != 100 {
		t.Fatalf("SampleCount = %d, want exactly 100", stats.SampleCount)
	}
	// The window must hold samples 50..149, so the mean is 99.5ms.
	want := time.Duration(99.5 * float64(time.Millisecond))
	if stats.AverageLatency != want {
		t.Errorf("AverageLatency = %v, want %v (most recent window only)", stats.AverageLatency, want)
	}
}

func TestStatisticsAbsentForUnknownMount(t *testing.T) {
	t.Parallel()

	m := NewNetworkMonitor(0, nil)
	if _, ok := m.Statistics("never-seen"); ok {
		t.Error("Statistics() for an unknown mount must be absent")
	}
}

func TestNetworkClear(t *testing.T) {
	t.Parallel()

	m := NewNetworkMonitor(0, nil)
	m.Sample(sampleFor("a", 100, 5_000_000, 0))
	m.Sample(sampleFor("b", 100, 5_000_000, 0))

	m.Clear("a")
	if _, ok := m.Statistics("a"); ok {
		t.Error("mount a should be absent after Clear")
	}
	if _, ok := m.Statistics("b"); !ok {
		t.Error("mount b should survive clearing mount a")
	}

	m.ClearAll()
	if _, ok := m.Statistics("b"); ok {
		t.Error("mount b should be absent after ClearAll")
	}
}
