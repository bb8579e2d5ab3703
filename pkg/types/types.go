package types

import "time"

// OperationKind represents the category of a single remote-mount interaction
type OperationKind string

const (
	OpRead   OperationKind = "read"
	OpWrite  OperationKind = "write"
	OpDelete OperationKind = "delete"
	OpCreate OperationKind = "create"
	OpRename OperationKind = "rename"
	OpList   OperationKind = "list"
	OpStat   OperationKind = "stat"
)

// OperationRecord represents one observed remote-mount operation.
// Records are immutable once created and owned by the per-mount history buffer.
type OperationRecord struct {
	Kind      OperationKind `json:"kind"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	LocalURI  string        `json:"local_uri"`
	RemoteURI string        `json:"remote_uri"`
	MountID   string        `json:"mount_id"`
	Size      int64         `json:"size,omitempty"` // bytes; 0 when the operation reported no payload
	Error     string        `json:"error,omitempty"`
	CacheHit  bool          `json:"cache_hit"`
	Timestamp time.Time     `json:"timestamp"`
}

// NetworkSample represents one observed network condition for a mount
type NetworkSample struct {
	MountID    string        `json:"mount_id"`
	Latency    time.Duration `json:"latency"`
	Bandwidth  float64       `json:"bandwidth_bps"`
	PacketLoss float64       `json:"packet_loss_percent"` // 0-100
	Timestamp  time.Time     `json:"timestamp"`
}

// NetworkQuality is a discrete classification of continuous network measurements
type NetworkQuality string

const (
	QualityExcellent NetworkQuality = "excellent"
	QualityGood      NetworkQuality = "good"
	QualityFair      NetworkQuality = "fair"
	QualityPoor      NetworkQuality = "poor"
	QualityOffline   NetworkQuality = "offline"
)

// Trend labels the direction of recent latency movement
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDegrading Trend = "degrading"
	TrendStable    Trend = "stable"
)

// UsagePattern is a derived, point-in-time summary of how a mount has been
// used. It is recomputed on every query and never persisted.
type UsagePattern struct {
	MountID             string        `json:"mount_id"`
	OperationCount      int           `json:"operation_count"`
	TotalDuration       time.Duration `json:"total_duration"`
	AverageDuration     time.Duration `json:"average_duration"`
	SuccessRate         float64       `json:"success_rate"` // percent, denominator includes failures
	MostCommonOperation OperationKind `json:"most_common_operation"`
	LastActivity        time.Time     `json:"last_activity"`
	FrequentResources   []string      `json:"frequent_resources"` // at most 10
	ReadWriteRatio      float64       `json:"read_write_ratio"`
	AverageDataSize     float64       `json:"average_data_size"` // bytes, over sized operations
	HourlyActivity      [24]int       `json:"hourly_activity"`
}

// NetworkStatistics is the derived view over a mount's buffered samples
type NetworkStatistics struct {
	MountID           string         `json:"mount_id"`
	Quality           NetworkQuality `json:"quality"` // classification of the most recent sample
	AverageLatency    time.Duration  `json:"average_latency"`
	AverageBandwidth  float64        `json:"average_bandwidth_bps"`
	AveragePacketLoss float64        `json:"average_packet_loss_percent"`
	StabilityScore    float64        `json:"stability_score"` // 0-100
	Trend             Trend          `json:"trend"`
	SampleCount       int            `json:"sample_count"`
	LastSample        time.Time      `json:"last_sample"`
}

// CacheSettings represents the current or recommended cache configuration
// for a mount. The engine only recommends settings; applying them is the
// caller's job.
type CacheSettings struct {
	Enabled     bool          `json:"enabled"`
	MaxSize     int64         `json:"max_size"` // bytes
	TTL         time.Duration `json:"ttl"`
	Prefetch    bool          `json:"prefetch"`
	Compression bool          `json:"compression"`
}

// RecommendationCategory identifies what a recommendation would change
type RecommendationCategory string

const (
	RecCacheSize    RecommendationCategory = "cache_size"
	RecCacheTTL     RecommendationCategory = "cache_ttl"
	RecPrefetch     RecommendationCategory = "prefetch"
	RecCompression  RecommendationCategory = "compression"
	RecConnection   RecommendationCategory = "connection"
	RecFileTransfer RecommendationCategory = "file_transfer"
)

// RecommendationPriority ranks recommendations for presentation
type RecommendationPriority string

const (
	PriorityLow      RecommendationPriority = "low"
	PriorityMedium   RecommendationPriority = "medium"
	PriorityHigh     RecommendationPriority = "high"
	PriorityCritical RecommendationPriority = "critical"
)

// Rank returns a sortable weight, highest priority first.
func (p RecommendationPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Recommendation is one suggested tuning change derived from observed
// usage and network conditions.
type Recommendation struct {
	Category         RecommendationCategory `json:"category"`
	Priority         RecommendationPriority `json:"priority"`
	Description      string                 `json:"description"`
	Impact           string                 `json:"impact"`
	Implementation   string                 `json:"implementation"`
	RecommendedValue interface{}            `json:"recommended_value"`
	CurrentValue     interface{}            `json:"current_value,omitempty"`
}
