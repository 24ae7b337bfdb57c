package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/actioncheck/internal/canonical"
)

// Snapshot renders a result as canonical JSON for golden comparison.
// Payloads are included only for events that carried one.
func Snapshot(name string, result *Result) ([]byte, error) {
	trace := make([]any, len(result.Trace))
	for i, event := range result.Trace {
		eventMap := map[string]any{
			"kind": event.Kind,
			"type": event.Type,
			"seq":  event.Seq,
		}
		if event.HasPayload {
			eventMap["payload"] = event.Payload
		}
		trace[i] = eventMap
	}

	snapshot := map[string]any{
		"name":   name,
		"run_id": result.RunID,
		"pass":   result.Pass,
		"trace":  trace,
	}
	if result.Thrown != nil {
		snapshot["thrown"] = result.Thrown.Error()
	}
	return canonical.Marshal(snapshot)
}

// AssertGolden compares the result's snapshot against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, result *Result, opts ...goldie.Option) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	options := append([]goldie.Option{
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	}, opts...)
	g := goldie.New(t, options...)
	g.Assert(t, name, data)

	return nil
}
