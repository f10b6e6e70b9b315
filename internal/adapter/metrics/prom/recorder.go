package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeFailure  = "failure"
)

// Recorder exports command outcomes as Prometheus counters.
type Recorder struct {
	commands     *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	saveFailures prometheus.Counter
}

// NewRecorder registers its collectors on reg. Passing a fresh registry keeps
// tests independent of the global one.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		commands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopeelife_commands_total",
				Help: "Total number of player commands by command and outcome.",
			},
			[]string{"command", "outcome"},
		),
		rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopeelife_command_rejections_total",
				Help: "Total number of rejected player commands by reason.",
			},
			[]string{"reason"},
		),
		saveFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopeelife_progress_save_failures_total",
			Help: "Total number of failed progress saves.",
		}),
	}
}

func (r *Recorder) RecordSuccess(command string) {
	r.commands.WithLabelValues(command, outcomeSuccess).Inc()
}

func (r *Recorder) RecordRejected(command, reason string) {
	r.commands.WithLabelValues(command, outcomeRejected).Inc()
	r.rejections.WithLabelValues(reason).Inc()
}

func (r *Recorder) RecordFailure(command string) {
	r.commands.WithLabelValues(command, outcomeFailure).Inc()
}

func (r *Recorder) RecordSaveFailure() {
	r.saveFailures.Inc()
}
