package webhook

type State string

const (
	StateReceived             State = "received"
	StateValidated            State = "validated"
	StateDiscarded            State = "discarded"
	StateUserRecorded         State = "user-recorded"
	StateCompletionObtained   State = "completion-obtained"
	StateAborted              State = "aborted"
	StateConversationRecorded State = "conversation-recorded"
	StateReplied              State = "replied"
	StateAcknowledged         State = "acknowledged"
	StateConfigError          State = "configuration-error"
)

// Result: итог одного вызова.
// State: терминальное состояние, Trace: все пройденные по порядку.
// Err: причина configuration-error или aborted, Warnings: поглощённые ошибки.
type Result struct {
	InvocationID string
	State        State
	Trace        []State
	Replied      bool
	Err          error
	Warnings     []error
}

func (r Result) Acknowledged() bool {
	return r.State == StateAcknowledged
}

func (r *Result) enter(s State) {
	r.Trace = append(r.Trace, s)
}

func (r *Result) warn(err error) {
	r.Warnings = append(r.Warnings, err)
}

func (r Result) finish(s State) Result {
	r.enter(s)
	r.State = s
	return r
}
