package inmemory

import (
	"testing"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordSuccess("start_activity")
	r.RecordSuccess("buy_item")
	r.RecordRejected("start_activity", "not_working_hours")
	r.RecordFailure("chat")
	r.RecordSaveFailure()

	s := r.Snapshot()
	if s.CommandTotal != 4 {
		t.Fatalf("expected total 4, got %d", s.CommandTotal)
	}
	if s.CommandSuccess != 2 {
		t.Fatalf("expected success 2, got %d", s.CommandSuccess)
	}
	if s.CommandRejected != 1 {
		t.Fatalf("expected rejected 1, got %d", s.CommandRejected)
	}
	if s.CommandFailure != 1 {
		t.Fatalf("expected failure 1, got %d", s.CommandFailure)
	}
	if s.SaveFailure != 1 {
		t.Fatalf("expected save failure 1, got %d", s.SaveFailure)
	}
	if s.ByCommand["start_activity"] != 2 {
		t.Fatalf("expected start_activity count 2, got %d", s.ByCommand["start_activity"])
	}
	if s.ByRejectReason["not_working_hours"] != 1 {
		t.Fatalf("expected not_working_hours count 1")
	}
}
