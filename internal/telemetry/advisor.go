package telemetry

import (
	"fmt"
	"sort"
	"time"

	"github.com/mountfs/mountfs/pkg/types"
)

// Advisor rule thresholds.
const (
	highActivityOps       = 100
	largeCacheSize        = 100 * 1024 * 1024 // bytes
	raisedTTL             = 10 * time.Minute
	compressionMinAvgSize = 1 * 1024 * 1024 // bytes
	slowOperationAverage  = time.Second
)

// DefaultCacheSettings is the baseline every mount starts from. A sensible
// default is always a valid recommendation baseline, so settings queries
// have no absent case.
func DefaultCacheSettings() types.CacheSettings {
	return types.CacheSettings{
		Enabled:     true,
		MaxSize:     50 * 1024 * 1024,
		TTL:         5 * time.Minute,
		Prefetch:    false,
		Compression: false,
	}
}

// CacheAdvisor combines usage patterns and network statistics into cache
// settings and prioritized tuning recommendations. It only recommends;
// it never mutates a live cache.
type CacheAdvisor struct {
	usage    *UsageAnalyzer
	network  *NetworkMonitor
	defaults types.CacheSettings
}

// NewCacheAdvisor creates an advisor over the given analyzer and monitor.
// A zero-value defaults falls back to DefaultCacheSettings.
func NewCacheAdvisor(usage *UsageAnalyzer, network *NetworkMonitor, defaults types.CacheSettings) *CacheAdvisor {
	if defaults == (types.CacheSettings{}) {
		defaults = DefaultCacheSettings()
	}
	return &CacheAdvisor{usage: usage, network: network, defaults: defaults}
}

// Settings returns the cache settings currently advised for a mount.
// Unlike the pattern and statistics queries it always returns a value,
// even for a mount with zero history.
func (a *CacheAdvisor) Settings(mountID string) types.CacheSettings {
	return a.defaults
}

// Recommendations evaluates every tuning rule against the mount's usage
// pattern and network statistics and returns all that apply, highest
// priority first. A mount with no usage pattern yields an empty list.
// Rules are independent; none excludes another.
func (a *CacheAdvisor) Recommendations(mountID string) []types.Recommendation {
	pattern, ok := a.usage.Pattern(mountID)
	if !ok {
		return []types.Recommendation{}
	}

	settings := a.Settings(mountID)
	recs := []types.Recommendation{}

	var quality types.NetworkQuality
	if stats, ok := a.network.Statistics(mountID); ok {
		quality = stats.Quality
	}

	if pattern.MostCommonOperation == types.OpList {
		recs = append(recs, types.Recommendation{
			Category:         types.RecPrefetch,
			Priority:         types.PriorityMedium,
			Description:      "Enable prefetching for directory listings",
			Impact:           "Directory-heavy browsing suggests exploratory traversal; prefetching hides listing round trips",
			Implementation:   "Set prefetch to true in the mount's cache options",
			RecommendedValue: true,
			CurrentValue:     settings.Prefetch,
		})
	}

	if quality == types.QualityPoor {
		recs = append(recs, types.Recommendation{
			Category:         types.RecCacheTTL,
			Priority:         types.PriorityHigh,
			Description:      "Increase cache TTL under degraded network conditions",
			Impact:           "Longer-lived cache entries trade staleness tolerance for fewer round trips over a poor link",
			Implementation:   fmt.Sprintf("Raise cache TTL from %s to %s", settings.TTL, raisedTTL),
			RecommendedValue: raisedTTL,
			CurrentValue:     settings.TTL,
		})
	}

	if pattern.OperationCount > highActivityOps {
		recs = append(recs, types.Recommendation{
			Category:         types.RecCacheSize,
			Priority:         types.PriorityMedium,
			Description:      "Increase cache size for sustained high activity",
			Impact:           "A larger working set keeps more of a busy mount's files local",
			Implementation:   "Raise the cache size limit to 100MB",
			RecommendedValue: int64(largeCacheSize),
			CurrentValue:     settings.MaxSize,
		})
	}

	if pattern.AverageDataSize > compressionMinAvgSize && degradedQuality(quality) {
		priority := types.PriorityMedium
		if quality == types.QualityPoor || quality == types.QualityOffline {
			priority = types.PriorityHigh
		}
		recs = append(recs, types.Recommendation{
			Category:         types.RecCompression,
			Priority:         priority,
			Description:      "Enable transfer compression for large payloads",
			Impact:           "Large average transfer sizes over a constrained link spend most of their time on the wire",
			Implementation:   "Set compression to true in the mount's cache options",
			RecommendedValue: true,
			CurrentValue:     settings.Compression,
		})
	}

	if quality == types.QualityOffline {
		recs = append(recs, types.Recommendation{
			Category:         types.RecConnection,
			Priority:         types.PriorityCritical,
			Description:      "Remote connection appears offline",
			Impact:           "All remote operations will fail until connectivity is restored",
			Implementation:   "Check the remote host, credentials and network path for this mount",
			RecommendedValue: "reconnect",
		})
	}

	if pattern.AverageDuration > slowOperationAverage {
		recs = append(recs, types.Recommendation{
			Category:         types.RecFileTransfer,
			Priority:         types.PriorityMedium,
			Description:      "Batch file transfers on this mount",
			Impact:           "High per-operation latency favors fewer, larger transfers over many small ones",
			Implementation:   "Prefer bulk copy operations over per-file access where possible",
			RecommendedValue: "batch",
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})

	return recs
}

func degradedQuality(q types.NetworkQuality) bool {
	switch q {
	case types.QualityFair, types.QualityPoor, types.QualityOffline:
		return true
	default:
		return false
	}
}
