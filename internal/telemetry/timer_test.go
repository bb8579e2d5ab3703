package telemetry

import (
	"testing"
	"time"

	"github.com/mountfs/mountfs/pkg/types"
)

func TestTimerBeginEnd(t *testing.T) {
	t.Parallel()

	t.Run("end forwards a completed record", func(t *testing.T) {
		rec := NewRecorder(0, nil)
		timer := NewTimer(rec)

		handle := timer.Begin(types.OpWrite, "/doc.txt", "sftp://host/doc.txt", "mount-1")
		if handle == "" {
			t.Fatal("Begin() returned an empty handle while enabled")
		}
		time.Sleep(5 * time.Millisecond)
		timer.End(handle, true, 2048)

		records, ok := rec.Records("mount-1")
		if !ok || len(records) != 1 {
			t.Fatalf("expected exactly one forwarded record, got %v", records)
		}
		got := records[0]
		if got.Kind != types.OpWrite {
			t.Errorf("Kind = %q, want write", got.Kind)
		}
		if got.Duration <= 0 {
			t.Errorf("Duration = %v, want > 0", got.Duration)
		}
		if got.Size != 2048 {
			t.Errorf("Size = %d, want 2048", got.Size)
		}
		if !got.Success {
			t.Error("Success = false, want true")
		}
	})

	t.Run("handles are unique and increasing", func(t *testing.T) {
		timer := NewTimer(NewRecorder(0, nil))
		a := timer.Begin(types.OpRead, "/a", "", "m")
		b := timer.Begin(types.OpRead, "/b", "", "m")
		if a == b {
			t.Errorf("Begin() handed out duplicate handle %q", a)
		}
	})

	t.Run("end discards the pending entry", func(t *testing.T) {
		timer := NewTimer(NewRecorder(0, nil))
		handle := timer.Begin(types.OpStat, "/a", "", "m")
		timer.End(handle, true, 0)
		if n := timer.PendingCount(); n != 0 {
			t.Errorf("PendingCount() = %d after End, want 0", n)
		}
	})
}

func TestTimerEndNoOps(t *testing.T) {
	t.Parallel()

	rec := NewRecorder(0, nil)
	timer := NewTimer(rec)

	// Neither an empty nor an unknown handle may record or panic.
	timer.End("", true, 0)
	timer.End("op-9999", true, 0)

	if mounts := rec.Mounts(); len(mounts) != 0 {
		t.Errorf("no-op End() recorded history for %v", mounts)
	}
}

func TestTimerDoubleEnd(t *testing.T) {
	t.Parallel()

	rec := NewRecorder(0, nil)
	timer := NewTimer(rec)

	handle := timer.Begin(types.OpRead, "/a", "", "mount-1")
	timer.End(handle, true, 0)
	timer.End(handle, true, 0) // second End finds nothing, stays silent

	records, _ := rec.Records("mount-1")
	if len(records) != 1 {
		t.Errorf("len(records) = %d after double End, want 1", len(records))
	}
}

func TestTimerReset(t *testing.T) {
	t.Parallel()

	rec := NewRecorder(0, nil)
	timer := NewTimer(rec)

	handle := timer.Begin(types.OpList, "/dir", "", "mount-1")
	timer.Reset()

	if n := timer.PendingCount(); n != 0 {
		t.Fatalf("PendingCount() = %d after Reset, want 0", n)
	}
	timer.End(handle, true, 0)
	if _, ok := rec.Records("mount-1"); ok {
		t.Error("End() after Reset must not record")
	}
}
