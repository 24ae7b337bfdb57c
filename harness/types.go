package harness

// Event kinds recorded in a trace.
const (
	EventMutation = "mutation"
	EventAction   = "action"
)

// Record is an expected mutation or action.
type Record struct {
	Type    string `json:"type" yaml:"type"`
	Payload any    `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// TraceEvent is one commit or dispatch issued by the handler.
type TraceEvent struct {
	Kind       string `json:"kind"` // "mutation" or "action"
	Type       string `json:"type"`
	Payload    any    `json:"payload,omitempty"`
	HasPayload bool   `json:"-"`
	Seq        int64  `json:"seq"`
}

// Result is the outcome of one ExecuteAction run.
type Result struct {
	// RunID identifies the run in logs and snapshots.
	RunID string `json:"run_id"`

	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Trace holds every commit and dispatch in issue order.
	Trace []TraceEvent `json:"trace"`

	// Thrown is what the handler threw, if anything.
	Thrown error `json:"-"`

	// Errors holds the failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result for the run id.
func NewResult(runID string) *Result {
	return &Result{
		RunID:  runID,
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Mutations returns the committed mutations in order.
func (r *Result) Mutations() []Record {
	return r.records(EventMutation)
}

// Actions returns the dispatched actions in order.
func (r *Result) Actions() []Record {
	return r.records(EventAction)
}

func (r *Result) records(kind string) []Record {
	out := []Record{}
	for _, ev := range r.Trace {
		if ev.Kind == kind {
			out = append(out, Record{Type: ev.Type, Payload: ev.Payload})
		}
	}
	return out
}
