package telemetry

import (
	"sort"
	"strings"
	"time"

	"github.com/mountfs/mountfs/pkg/types"
)

// maxFrequentResources caps the most-accessed resource list.
const maxFrequentResources = 10

// UsageAnalyzer derives usage-pattern summaries from the recorder's
// buffered history. It holds no state of its own; every query is a pure
// function of the current buffer contents for one mount.
type UsageAnalyzer struct {
	recorder *Recorder
}

// NewUsageAnalyzer creates an analyzer over rec's history.
func NewUsageAnalyzer(rec *Recorder) *UsageAnalyzer {
	return &UsageAnalyzer{recorder: rec}
}

// Pattern computes the usage pattern for a mount. The second return is
// false when the mount has no buffered history at all. Aggregates are
// computed over successful operations only, except the success rate whose
// denominator includes failures.
func (a *UsageAnalyzer) Pattern(mountID string) (*types.UsagePattern, bool) {
	records, ok := a.recorder.Records(mountID)
	if !ok {
		return nil, false
	}

	pattern := &types.UsagePattern{MountID: mountID}

	var (
		successful int
		reads      int
		writes     int
		sizedOps   int
		sizedTotal int64
		opCounts   = make(map[types.OperationKind]int)
		resources  = make(map[string]int)
	)

	for _, rec := range records {
		if !rec.Success {
			continue
		}
		successful++
		pattern.TotalDuration += rec.Duration
		opCounts[rec.Kind]++

		switch rec.Kind {
		case types.OpRead:
			reads++
		case types.OpWrite:
			writes++
		}

		if rec.Size > 0 {
			sizedOps++
			sizedTotal += rec.Size
		}

		if name := resourceName(rec.LocalURI); name != "" {
			resources[name]++
		}

		if rec.Timestamp.After(pattern.LastActivity) {
			pattern.LastActivity = rec.Timestamp
		}
		pattern.HourlyActivity[rec.Timestamp.Hour()]++
	}

	pattern.OperationCount = successful
	pattern.SuccessRate = float64(successful) / float64(len(records)) * 100

	if successful > 0 {
		pattern.AverageDuration = pattern.TotalDuration / time.Duration(successful)
	}

	// Running maximum over map iteration; ties between equally frequent
	// kinds are implementation-defined and not part of the contract.
	best := 0
	for kind, count := range opCounts {
		if count > best {
			best = count
			pattern.MostCommonOperation = kind
		}
	}

	if writes > 0 {
		pattern.ReadWriteRatio = float64(reads) / float64(writes)
	} else {
		pattern.ReadWriteRatio = float64(reads)
	}

	if sizedOps > 0 {
		pattern.AverageDataSize = float64(sizedTotal) / float64(sizedOps)
	}

	pattern.FrequentResources = topResources(resources, maxFrequentResources)

	return pattern, true
}

// AllPatterns computes patterns for every mount with buffered history.
func (a *UsageAnalyzer) AllPatterns() []*types.UsagePattern {
	mounts := a.recorder.Mounts()
	sort.Strings(mounts)

	patterns := make([]*types.UsagePattern, 0, len(mounts))
	for _, id := range mounts {
		if p, ok := a.Pattern(id); ok {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// resourceName extracts the final path segment of a URI, falling back to
// the second-to-last segment when the URI ends in a separator. URIs are
// treated as opaque strings; anything without a usable segment yields "".
func resourceName(uri string) string {
	trimmed := strings.TrimRight(uri, "/")
	if trimmed == "" {
		return ""
	}
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// topResources returns up to limit resource names ordered by descending
// access count, breaking count ties by name for deterministic output.
func topResources(counts map[string]int, limit int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}
