package ports

type CommandMetrics interface {
	RecordSuccess(command string)
	RecordRejected(command string, reason string)
	RecordFailure(command string)
	RecordSaveFailure()
}

type NopMetrics struct{}

func (NopMetrics) RecordSuccess(string)          {}
func (NopMetrics) RecordRejected(string, string) {}
func (NopMetrics) RecordFailure(string)          {}
func (NopMetrics) RecordSaveFailure()            {}
