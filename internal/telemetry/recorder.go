package telemetry

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mountfs/mountfs/pkg/types"
)

// DefaultOperationHistorySize bounds the per-mount operation buffer.
const DefaultOperationHistorySize = 1000

// Recorder ingests completed operation records and maintains a bounded
// per-mount history. It never parses or validates URIs; ill-formed values
// are stored as opaque strings and at worst degrade filename extraction
// in the usage analyzer.
type Recorder struct {
	mu       sync.RWMutex
	capacity int
	history  map[string]*ring[types.OperationRecord]
	logger   *zap.Logger
}

// NewRecorder creates a recorder with the given per-mount capacity.
// A non-positive capacity falls back to DefaultOperationHistorySize.
func NewRecorder(capacity int, logger *zap.Logger) *Recorder {
	if capacity <= 0 {
		capacity = DefaultOperationHistorySize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		capacity: capacity,
		history:  make(map[string]*ring[types.OperationRecord]),
		logger:   logger,
	}
}

// Record appends rec to its mount's buffer, creating the buffer on first
// use. A zero timestamp is filled with the current time. Records with an
// empty mount identifier are dropped; there is no buffer they could
// belong to.
func (r *Recorder) Record(rec types.OperationRecord) {
	if rec.MountID == "" {
		return
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	buf, ok := r.history[rec.MountID]
	if !ok {
		buf = newRing[types.OperationRecord](r.capacity)
		r.history[rec.MountID] = buf
	}
	buf.Push(rec)

	r.logger.Debug("operation recorded",
		zap.String("mount", rec.MountID),
		zap.String("kind", string(rec.Kind)),
		zap.Duration("duration", rec.Duration),
		zap.Bool("success", rec.Success))
}

// Records returns a copy of the buffered history for a mount, oldest
// first. The second return is false when the mount has no history.
func (r *Recorder) Records(mountID string) ([]types.OperationRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	buf, ok := r.history[mountID]
	if !ok || buf.Len() == 0 {
		return nil, false
	}
	return buf.Items(), true
}

// Mounts returns the identifiers of all mounts with buffered history.
func (r *Recorder) Mounts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.history))
	for id := range r.history {
		ids = append(ids, id)
	}
	return ids
}

// Len reports the number of buffered records for a mount.
func (r *Recorder) Len(mountID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if buf, ok := r.history[mountID]; ok {
		return buf.Len()
	}
	return 0
}

// Clear drops one mount's history.
func (r *Recorder) Clear(mountID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.history, mountID)
	r.logger.Debug("operation history cleared", zap.String("mount", mountID))
}

// ClearAll drops all history for all mounts.
func (r *Recorder) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = make(map[string]*ring[types.OperationRecord])
	r.logger.Debug("operation history cleared for all mounts")
}
