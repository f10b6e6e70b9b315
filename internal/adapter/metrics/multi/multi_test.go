package multi

import (
	"testing"

	"shopeelife/internal/adapter/metrics/inmemory"
)

func TestRecorderFansOut(t *testing.T) {
	a, b := inmemory.NewRecorder(), inmemory.NewRecorder()
	m := New(a, b)

	m.RecordSuccess("chat")
	m.RecordRejected("chat", "invalid")
	m.RecordSaveFailure()

	for _, r := range []*inmemory.Recorder{a, b} {
		s := r.Snapshot()
		if s.CommandTotal != 2 || s.SaveFailure != 1 {
			t.Fatalf("unexpected snapshot %+v", s)
		}
	}
}
