package multi

import "shopeelife/internal/app/ports"

// Recorder fans every call out to each wrapped recorder.
type Recorder []ports.CommandMetrics

func New(recorders ...ports.CommandMetrics) Recorder {
	return Recorder(recorders)
}

func (m Recorder) RecordSuccess(command string) {
	for _, r := range m {
		r.RecordSuccess(command)
	}
}

func (m Recorder) RecordRejected(command, reason string) {
	for _, r := range m {
		r.RecordRejected(command, reason)
	}
}

func (m Recorder) RecordFailure(command string) {
	for _, r := range m {
		r.RecordFailure(command)
	}
}

func (m Recorder) RecordSaveFailure() {
	for _, r := range m {
		r.RecordSaveFailure()
	}
}
