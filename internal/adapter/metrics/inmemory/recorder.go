package inmemory

import (
	"sync"
)

type Snapshot struct {
	CommandTotal    uint64            `json:"command_total"`
	CommandSuccess  uint64            `json:"command_success"`
	CommandRejected uint64            `json:"command_rejected"`
	CommandFailure  uint64            `json:"command_failure"`
	SaveFailure     uint64            `json:"save_failure"`
	ByCommand       map[string]uint64 `json:"by_command"`
	ByRejectReason  map[string]uint64 `json:"by_reject_reason"`
}

type Recorder struct {
	mu          sync.Mutex
	success     uint64
	rejected    uint64
	failure     uint64
	saveFailure uint64
	byCommand   map[string]uint64
	byReason    map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byCommand: map[string]uint64{},
		byReason:  map[string]uint64{},
	}
}

func (r *Recorder) RecordSuccess(command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	r.byCommand[command]++
}

func (r *Recorder) RecordRejected(command, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
	r.byCommand[command]++
	r.byReason[reason]++
}

func (r *Recorder) RecordFailure(command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
	r.byCommand[command]++
}

func (r *Recorder) RecordSaveFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveFailure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		CommandSuccess:  r.success,
		CommandRejected: r.rejected,
		CommandFailure:  r.failure,
		CommandTotal:    r.success + r.rejected + r.failure,
		SaveFailure:     r.saveFailure,
		ByCommand:       make(map[string]uint64, len(r.byCommand)),
		ByRejectReason:  make(map[string]uint64, len(r.byReason)),
	}
	for k, v := range r.byCommand {
		out.ByCommand[k] = v
	}
	for k, v := range r.byReason {
		out.ByRejectReason[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
