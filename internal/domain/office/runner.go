package office

import "time"

type RunState string

const (
	RunIdle      RunState = "idle"
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunCancelled RunState = "cancelled"
)

type Run struct {
	Activity  Activity  `json:"activity"`
	StartedAt time.Time `json:"started_at"`
	Progress  float64   `json:"progress"`
	State     RunState  `json:"state"`
	Golden    bool      `json:"golden"`
	applied   bool
}

func (r Run) Remaining(now time.Time) time.Duration {
	left := r.StartedAt.Add(r.Activity.Duration).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

type Completion struct {
	Activity   Activity
	Deltas     Deltas
	Golden     bool
	FinishedAt time.Time
}

// Runner enforces that at most one activity runs at a time. Further
// queueable activities wait in FIFO order; the caller starts them after a
// completion so gates are re-checked against fresh state.
type Runner struct {
	current  *Run
	queue    []Activity
	MaxQueue int
}

func (r *Runner) Busy() bool {
	return r.current != nil && r.current.State == RunRunning
}

func (r *Runner) Current() (Run, bool) {
	if !r.Busy() {
		return Run{}, false
	}
	return *r.current, true
}

func (r *Runner) Queue() []Activity {
	return append([]Activity(nil), r.queue...)
}

// Start claims the single-flight slot for a. The caller reserves the costs
// on success.
func (r *Runner) Start(a Activity, f Facts, now time.Time) (Run, error) {
	if r.Busy() {
		return Run{}, Reject(ReasonBusy, "You're still busy with %s.", r.current.Activity.Title)
	}
	if err := Check(a, f); err != nil {
		return Run{}, err
	}
	r.current = &Run{
		Activity:  a,
		StartedAt: now,
		State:     RunRunning,
		Golden:    f.GoldenHour && a.GoldenHourBonus,
	}
	if a.Duration <= 0 {
		r.current.Progress = 100
	}
	return *r.current, nil
}

// Enqueue appends a to the FIFO queue and returns its 1-based position.
func (r *Runner) Enqueue(a Activity) (int, error) {
	if !a.Queueable {
		title := ""
		if r.current != nil {
			title = r.current.Activity.Title
		}
		return 0, Reject(ReasonBusy, "You're still busy with %s.", title)
	}
	limit := r.MaxQueue
	if limit <= 0 {
		limit = MaxQueuedActivities
	}
	if len(r.queue) >= limit {
		return 0, Reject(ReasonQueueFull, "Your to-do list is full. Finish something first.")
	}
	r.queue = append(r.queue, a)
	return len(r.queue), nil
}

func (r *Runner) Dequeue() (Activity, bool) {
	if len(r.queue) == 0 {
		return Activity{}, false
	}
	next := r.queue[0]
	r.queue = r.queue[1:]
	return next, true
}

func (r *Runner) ClearQueue() []Activity {
	out := r.queue
	r.queue = nil
	return out
}

// Advance updates progress from wall time. The completion is reported at most
// once per run; later calls are no-ops.
func (r *Runner) Advance(now time.Time) (Completion, bool) {
	run := r.current
	if run == nil || run.State != RunRunning {
		return Completion{}, false
	}
	if d := run.Activity.Duration; d > 0 {
		p := float64(now.Sub(run.StartedAt)) / float64(d) * 100
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		run.Progress = p
	}
	if run.Progress < 100 || run.applied {
		return Completion{}, false
	}
	run.applied = true
	run.State = RunCompleted
	r.current = nil
	return Completion{
		Activity:   run.Activity,
		Deltas:     run.Activity.EffectiveDeltas(run.Golden),
		Golden:     run.Golden,
		FinishedAt: now,
	}, true
}

// Cancel stops the running activity without applying its deltas. The caller
// refunds the returned run's costs.
func (r *Runner) Cancel() (Run, error) {
	if !r.Busy() {
		return Run{}, Reject(ReasonNotRunning, "Nothing to cancel.")
	}
	run := r.current
	run.State = RunCancelled
	r.current = nil
	return *run, nil
}

// Restore puts back a run loaded from storage.
func (r *Runner) Restore(run Run, queue []Activity) {
	if run.State == RunRunning {
		cp := run
		r.current = &cp
	}
	r.queue = append([]Activity(nil), queue...)
}
