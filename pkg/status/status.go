// Package status renders telemetry query results into the short strings a
// presentation layer shows in a status bar or dashboard. It consumes only
// the derived types; it never touches the engine's buffers.
package status

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mountfs/mountfs/pkg/types"
)

// qualityIcons map network quality onto the single glyph shown in the
// status bar.
var qualityIcons = map[types.NetworkQuality]string{
	types.QualityExcellent: "●",
	types.QualityGood:      "◉",
	types.QualityFair:      "◎",
	types.QualityPoor:      "○",
	types.QualityOffline:   "✕",
}

// Bar renders a one-line status-bar string for a mount. Either argument
// may be nil when the corresponding query returned absent.
func Bar(pattern *types.UsagePattern, stats *types.NetworkStatistics) string {
	if pattern == nil && stats == nil {
		return "no performance data available"
	}

	parts := make([]string, 0, 4)
	if stats != nil {
		parts = append(parts, fmt.Sprintf("%s %s", qualityIcons[stats.Quality], stats.Quality))
		if stats.Trend != types.TrendStable {
			parts = append(parts, string(stats.Trend))
		}
	}
	if pattern != nil {
		parts = append(parts, fmt.Sprintf("%s ops", humanize.Comma(int64(pattern.OperationCount))))
		if pattern.AverageDataSize > 0 {
			parts = append(parts, humanize.Bytes(uint64(pattern.AverageDataSize))+" avg")
		}
	}
	return strings.Join(parts, " · ")
}

// Summary renders a multi-line plain-text report for a mount, suitable
// for a dashboard panel or command output.
func Summary(pattern *types.UsagePattern, stats *types.NetworkStatistics, settings types.CacheSettings, recs []types.Recommendation) string {
	var b strings.Builder

	if pattern == nil {
		b.WriteString("No operations recorded.\n")
	} else {
		fmt.Fprintf(&b, "Mount: %s\n", pattern.MountID)
		fmt.Fprintf(&b, "Operations: %s (%.1f%% success)\n",
			humanize.Comma(int64(pattern.OperationCount)), pattern.SuccessRate)
		fmt.Fprintf(&b, "Most common: %s\n", pattern.MostCommonOperation)
		fmt.Fprintf(&b, "Average duration: %s\n", pattern.AverageDuration)
		if pattern.AverageDataSize > 0 {
			fmt.Fprintf(&b, "Average transfer: %s\n", humanize.Bytes(uint64(pattern.AverageDataSize)))
		}
		if len(pattern.FrequentResources) > 0 {
			fmt.Fprintf(&b, "Hot files: %s\n", strings.Join(pattern.FrequentResources, ", "))
		}
		if !pattern.LastActivity.IsZero() {
			fmt.Fprintf(&b, "Last activity: %s\n", humanize.Time(pattern.LastActivity))
		}
	}

	if stats != nil {
		fmt.Fprintf(&b, "Network: %s (trend %s, stability %.0f/100)\n",
			stats.Quality, stats.Trend, stats.StabilityScore)
		fmt.Fprintf(&b, "  latency %s · bandwidth %s/s · loss %.1f%%\n",
			stats.AverageLatency,
			humanize.Bytes(uint64(stats.AverageBandwidth)),
			stats.AveragePacketLoss)
	}

	fmt.Fprintf(&b, "Cache: %s, TTL %s", humanize.Bytes(uint64(settings.MaxSize)), settings.TTL)
	if settings.Prefetch {
		b.WriteString(", prefetch")
	}
	if settings.Compression {
		b.WriteString(", compression")
	}
	b.WriteString("\n")

	if len(recs) > 0 {
		b.WriteString("Recommendations:\n")
		for _, rec := range recs {
			fmt.Fprintf(&b, "  [%s] %s\n", rec.Priority, rec.Description)
		}
	}

	return b.String()
}
