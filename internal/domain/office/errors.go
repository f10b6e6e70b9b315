package office

import (
	"errors"
	"fmt"
)

var ErrRejected = errors.New("rejected")

type RejectReason string

const (
	ReasonBusy               RejectReason = "activity_in_progress"
	ReasonQueueFull          RejectReason = "queue_full"
	ReasonNotRunning         RejectReason = "no_activity_running"
	ReasonNotWorkingHours    RejectReason = "not_working_hours"
	ReasonNotLunchTime       RejectReason = "not_lunch_time"
	ReasonWrongLocation      RejectReason = "wrong_location"
	ReasonInsufficientEnergy RejectReason = "insufficient_energy"
	ReasonInsufficientFunds  RejectReason = "insufficient_funds"
	ReasonMissingItem        RejectReason = "missing_item"
	ReasonUnknown            RejectReason = "unknown"
	ReasonAlreadyDone        RejectReason = "already_done"
	ReasonBlocked            RejectReason = "blocked"
	ReasonInvalid            RejectReason = "invalid"
)

// RejectionError is a gating failure that leaves every piece of state
// untouched. Message is meant for the player.
type RejectionError struct {
	Reason  RejectReason
	Message string
	Cause   error
}

func (e *RejectionError) Error() string {
	return e.Message
}

func (e *RejectionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrRejected}
	}
	return []error{ErrRejected, e.Cause}
}

func Reject(reason RejectReason, format string, args ...any) error {
	return &RejectionError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// RejectWith is Reject for a rule that already has its own sentinel error.
func RejectWith(reason RejectReason, cause error, format string, args ...any) error {
	return &RejectionError{Reason: reason, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// ReasonOf returns the rejection reason carried by err, or "" when err is not
// a rejection.
func ReasonOf(err error) RejectReason {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Reason
	}
	return ""
}
