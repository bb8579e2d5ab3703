package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mountfs/mountfs/internal/telemetry"
	"github.com/mountfs/mountfs/pkg/types"
)

func newTestExporter(t *testing.T) *Exporter {
	t.Helper()
	monitor := telemetry.New(&telemetry.Config{Enabled: true}, nil)
	e, err := NewExporter(&Config{Enabled: true, Namespace: "mountfs"}, monitor, nil)
	require.NoError(t, err)
	return e
}

func TestNewExporter(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		e, err := NewExporter(nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 8080, e.config.Port)
		assert.Equal(t, "/metrics", e.config.Path)
		assert.Equal(t, "mountfs", e.config.Namespace)
	})

	t.Run("disabled exporter has no registry", func(t *testing.T) {
		e, err := NewExporter(&Config{Enabled: false}, nil, nil)
		require.NoError(t, err)
		assert.Nil(t, e.registry)
	})
}

func TestObserve(t *testing.T) {
	e := newTestExporter(t)

	e.Observe(types.OperationRecord{
		Kind:     types.OpRead,
		Duration: 20 * time.Millisecond,
		Success:  true,
		MountID:  "m",
		Size:     4096,
		CacheHit: true,
	})
	e.Observe(types.OperationRecord{
		Kind:    types.OpRead,
		Success: false,
		MountID: "m",
	})

	snap := e.Snapshot()
	require.Contains(t, snap, types.OpRead)
	assert.Equal(t, int64(2), snap[types.OpRead].Count)
	assert.Equal(t, int64(1), snap[types.OpRead].Errors)
	assert.Equal(t, 10*time.Millisecond, snap[types.OpRead].AvgDuration)

	assert.Equal(t, float64(1), testutil.ToFloat64(
		e.operationCounter.WithLabelValues("read", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		e.operationCounter.WithLabelValues("read", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		e.cacheHitCounter.WithLabelValues("hit")))
}

func TestObserveDisabled(t *testing.T) {
	e, err := NewExporter(&Config{Enabled: false}, nil, nil)
	require.NoError(t, err)

	// Must not panic and must not track.
	e.Observe(types.OperationRecord{Kind: types.OpRead, Success: true})
	assert.Empty(t, e.Snapshot())
}

func TestReset(t *testing.T) {
	e := newTestExporter(t)
	e.Observe(types.OperationRecord{Kind: types.OpWrite, Success: true})
	require.NotEmpty(t, e.Snapshot())

	e.Reset()
	assert.Empty(t, e.Snapshot())
}

func TestRefreshGauges(t *testing.T) {
	monitor := telemetry.New(&telemetry.Config{Enabled: true}, nil)
	e, err := NewExporter(&Config{Enabled: true, Namespace: "mountfs"}, monitor, nil)
	require.NoError(t, err)

	monitor.RecordOperation(types.OperationRecord{
		Kind: types.OpRead, Success: true, MountID: "mount-1", LocalURI: "/f",
	})
	monitor.RecordNetworkSample("mount-1", 800*time.Millisecond, 200_000, 15)

	e.refreshGauges()

	assert.Equal(t, float64(1), testutil.ToFloat64(
		e.qualityGauge.WithLabelValues("mount-1")), "poor maps to 1")
	assert.Equal(t, float64(1), testutil.ToFloat64(
		e.historyGauge.WithLabelValues("mount-1", "operations")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		e.historyGauge.WithLabelValues("mount-1", "network")))
}

func TestQualityValue(t *testing.T) {
	assert.Equal(t, float64(4), qualityValue(types.QualityExcellent))
	assert.Equal(t, float64(3), qualityValue(types.QualityGood))
	assert.Equal(t, float64(2), qualityValue(types.QualityFair))
	assert.Equal(t, float64(1), qualityValue(types.QualityPoor))
	assert.Equal(t, float64(0), qualityValue(types.QualityOffline))
}

func TestGather(t *testing.T) {
	e := newTestExporter(t)
	e.Observe(types.OperationRecord{Kind: types.OpList, Duration: time.Millisecond, Success: true})

	families, err := e.registry.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "mountfs_operations_total")
	assert.Contains(t, joined, "mountfs_operation_duration_seconds")
}
