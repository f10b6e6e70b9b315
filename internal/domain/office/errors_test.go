package office

import (
	"errors"
	"testing"
)

func TestRejectWithKeepsCause(t *testing.T) {
	errStale := errors.New("stale")
	err := RejectWith(ReasonInvalid, errStale, "gone: %s", "x")

	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected in chain")
	}
	if !errors.Is(err, errStale) {
		t.Fatalf("expected cause in chain")
	}
	if ReasonOf(err) != ReasonInvalid {
		t.Fatalf("reason = %q", ReasonOf(err))
	}
	if err.Error() != "gone: x" {
		t.Fatalf("message = %q", err.Error())
	}

	plain := Reject(ReasonBusy, "busy")
	if !errors.Is(plain, ErrRejected) || errors.Is(plain, errStale) {
		t.Fatalf("plain rejection chain is wrong")
	}
}
