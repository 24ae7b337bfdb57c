package harness

import (
	"fmt"
	"strings"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/actioncheck/internal/canonical"
)

// Assertion types reported in AssertionError.Type.
const (
	AssertUnexpectedMutation  = "unexpected_mutation"
	AssertUnexpectedAction    = "unexpected_action"
	AssertMutationType        = "mutation_type"
	AssertActionType          = "action_type"
	AssertMutationPayload     = "mutation_payload"
	AssertActionPayload       = "action_payload"
	AssertMutationCount       = "mutation_count"
	AssertActionCount         = "action_count"
	AssertUnexpectedException = "unexpected_exception"
	AssertMissingException    = "missing_exception"
	AssertExceptionKind       = "exception_kind"
	AssertInvalidAction       = "invalid_action"
)

// AssertionError is reported when an expectation fails.
// It includes the trace recorded so far to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Trace at the time of failure
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	if len(e.Trace) == 0 {
		fmt.Fprintf(&buf, "  (empty)\n")
	}
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s", event.Seq, event.Kind, event.Type)
		if event.HasPayload {
			fmt.Fprintf(&buf, " %s", canonical.String(event.Payload))
		}
		buf.WriteString("\n")
	}

	return buf.String()
}

// sequence tracks one ordered expectation list and its cursor.
type sequence struct {
	kind     string
	expected []Record
	cursor   int
}

// check verifies ev against the expected record at the cursor and advances it.
func (s *sequence) check(ev TraceEvent, trace []TraceEvent) *AssertionError {
	idx := s.cursor
	s.cursor++

	if idx >= len(s.expected) {
		return &AssertionError{
			Type:     "unexpected_" + s.kind,
			Expected: fmt.Sprintf("%d %ss", len(s.expected), s.kind),
			Actual:   fmt.Sprintf("%s dispatched but not expected: %s", s.kind, ev.Type),
			Trace:    trace,
		}
	}

	want := s.expected[idx]
	if ev.Type != want.Type {
		return &AssertionError{
			Type:     s.kind + "_type",
			Expected: fmt.Sprintf("%s[%d] of type %q", s.kind, idx, want.Type),
			Actual:   fmt.Sprintf("%s[%d] of type %q", s.kind, idx, ev.Type),
			Trace:    trace,
		}
	}

	if ev.HasPayload && !payloadEqual(want.Payload, ev.Payload) {
		return &AssertionError{
			Type:     s.kind + "_payload",
			Expected: fmt.Sprintf("%s %s with payload %s", s.kind, want.Type, canonical.String(want.Payload)),
			Actual:   fmt.Sprintf("payload %s", canonical.String(ev.Payload)),
			Trace:    trace,
		}
	}
	return nil
}

// checkCount verifies the handler issued every expected record.
func (s *sequence) checkCount(trace []TraceEvent) *AssertionError {
	if s.cursor == len(s.expected) {
		return nil
	}
	return &AssertionError{
		Type:     s.kind + "_count",
		Expected: fmt.Sprintf("%d %ss", len(s.expected), s.kind),
		Actual:   fmt.Sprintf("%d %ss", s.cursor, s.kind),
		Trace:    trace,
	}
}

// payloadEqual compares payloads deeply. Values that only differ in their Go
// representation, such as a YAML-decoded map and a struct, are compared
// through their canonical JSON form.
func payloadEqual(want, got any) bool {
	return assert.ObjectsAreEqual(want, got) || canonical.Equal(want, got)
}
