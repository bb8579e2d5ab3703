package telemetry

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mountfs/mountfs/pkg/types"
)

// operationStart holds the caller-invisible half of a begin/end pair.
type operationStart struct {
	kind      types.OperationKind
	localURI  string
	remoteURI string
	mountID   string
	startedAt time.Time
}

// Timer correlates asynchronous begin/end pairs into completed operation
// records. Begin hands the caller an opaque handle; End looks up the start
// time, computes the elapsed duration and forwards a single record to the
// recorder. The two calls are independent synchronous steps bridged only
// by the handle, so completion may be observed from a different call site
// than initiation.
type Timer struct {
	mu       sync.Mutex
	seq      uint64
	pending  map[string]operationStart
	recorder *Recorder
}

// NewTimer creates a timer that forwards completed operations to rec.
func NewTimer(rec *Recorder) *Timer {
	return &Timer{
		pending:  make(map[string]operationStart),
		recorder: rec,
	}
}

// Begin records a wall-clock start time and returns the handle that End
// must be called with. Handles are monotonically increasing and opaque.
func (t *Timer) Begin(kind types.OperationKind, localURI, remoteURI, mountID string) string {
	handle := fmt.Sprintf("op-%d", atomic.AddUint64(&t.seq, 1))

	t.mu.Lock()
	t.pending[handle] = operationStart{
		kind:      kind,
		localURI:  localURI,
		remoteURI: remoteURI,
		mountID:   mountID,
		startedAt: time.Now(),
	}
	t.mu.Unlock()

	return handle
}

// End completes the operation identified by handle and forwards it to the
// recorder. An empty or unknown handle is a silent no-op: mis-sequenced
// telemetry must never fail the operation it is observing. size is the
// payload in bytes, zero when the operation carried none. The pending
// entry is discarded regardless of outcome.
func (t *Timer) End(handle string, success bool, size int64) {
	if handle == "" {
		return
	}

	t.mu.Lock()
	start, ok := t.pending[handle]
	delete(t.pending, handle)
	t.mu.Unlock()

	if !ok {
		return
	}

	t.recorder.Record(types.OperationRecord{
		Kind:      start.kind,
		Duration:  time.Since(start.startedAt),
		Success:   success,
		LocalURI:  start.localURI,
		RemoteURI: start.remoteURI,
		MountID:   start.mountID,
		Size:      size,
		Timestamp: time.Now(),
	})
}

// Discard drops a pending handle without emitting a record. Used when
// monitoring was disabled between Begin and End.
func (t *Timer) Discard(handle string) {
	if handle == "" {
		return
	}
	t.mu.Lock()
	delete(t.pending, handle)
	t.mu.Unlock()
}

// PendingCount reports the number of started-but-unfinished handles.
func (t *Timer) PendingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Reset drops all pending handles without emitting records.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = make(map[string]operationStart)
}
