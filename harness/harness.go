package harness

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/actioncheck/check"
	"github.com/roach88/actioncheck/fault"
	"github.com/roach88/actioncheck/internal/invoke"
)

// TestingT is the assertion capability runs report to.
type TestingT = assert.TestingT

type tHelper interface {
	Helper()
}

// IDGenerator produces run identifiers.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-ordered UUIDv7 run identifiers.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Clock issues the sequence numbers stamped on trace events.
type Clock interface {
	Next() int64
}

// runClock numbers the events of a single run starting at 1.
type runClock struct {
	seq int64
}

func (c *runClock) Next() int64 {
	c.seq++
	return c.seq
}

// Config describes one handler execution and what it must do.
type Config struct {
	// Action is the handler. It is called as Action(ctx, Payload), or as
	// Action(ctx) when it takes a single parameter. It may return an error,
	// an Awaitable, or panic to throw.
	Action  any
	Payload any

	// State defaults to an empty map.
	State       map[string]any
	Getters     map[string]any
	RootState   map[string]any
	RootGetters map[string]any

	ExpectedMutations []Record
	ExpectedActions   []Record

	// ExpectedException, when set, requires the handler to throw an
	// exception of that kind or a descendant.
	ExpectedException fault.Kind

	// ExpectedErrors, when set with ExpectedException, is the exact error
	// list the thrown exception must carry.
	ExpectedErrors []fault.ExpectedError

	// Done is called exactly once when the run finishes.
	Done func()

	// Logger receives run diagnostics. nil discards them.
	Logger *slog.Logger

	// IDs generates the run ID. Defaults to UUIDv7Generator.
	IDs IDGenerator

	// Clock stamps trace events. Defaults to a fresh per-run counter.
	Clock Clock
}

// Context is the synthetic store context passed to the handler.
type Context struct {
	State       map[string]any
	Getters     map[string]any
	RootState   map[string]any
	RootGetters map[string]any

	rec *recorder
}

// Commit records a mutation. Only the first payload argument is used.
func (c *Context) Commit(typ string, payload ...any) {
	c.rec.record(c.rec.mutations, typ, payload)
}

// Dispatch records an action. Only the first payload argument is used.
func (c *Context) Dispatch(typ string, payload ...any) {
	c.rec.record(c.rec.actions, typ, payload)
}

// recorder holds the per-run logs. Handlers may commit from goroutines they
// await, so every access goes through mu.
type recorder struct {
	mu        sync.Mutex
	t         TestingT
	result    *Result
	clock     Clock
	mutations *sequence
	actions   *sequence
}

func (r *recorder) record(s *sequence, typ string, payload []any) {
	r.mu.Lock()
	ev := TraceEvent{Kind: s.kind, Type: typ, Seq: r.clock.Next()}
	if len(payload) > 0 {
		ev.Payload = payload[0]
		ev.HasPayload = true
	}
	r.result.Trace = append(r.result.Trace, ev)
	failure := s.check(ev, r.traceLocked())
	r.mu.Unlock()

	if failure != nil {
		r.fail(failure)
	}
}

func (r *recorder) traceLocked() []TraceEvent {
	return append([]TraceEvent(nil), r.result.Trace...)
}

func (r *recorder) trace() []TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.traceLocked()
}

func (r *recorder) fail(err *AssertionError) {
	r.Errorf("%s", err.Error())
}

// Errorf reports a failure to the caller's TestingT and to the result, so
// checks from package check can report through the recorder.
func (r *recorder) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.mu.Lock()
	r.result.AddError(msg)
	r.mu.Unlock()
	r.t.Errorf("%s", msg)
}

func (r *recorder) Helper() {
	if h, ok := r.t.(tHelper); ok {
		h.Helper()
	}
}

func (r *recorder) checkCounts() {
	r.mu.Lock()
	trace := r.traceLocked()
	failures := []*AssertionError{
		r.mutations.checkCount(trace),
		r.actions.checkCount(trace),
	}
	r.mu.Unlock()

	for _, f := range failures {
		if f != nil {
			r.fail(f)
		}
	}
}

func (r *recorder) checkException(kind fault.Kind, expected []fault.ExpectedError, thrown error) bool {
	if thrown == nil {
		r.fail(&AssertionError{
			Type:     AssertMissingException,
			Expected: fmt.Sprintf("exception %s", kind),
			Actual:   fmt.Sprintf("expected exception %s was not thrown", kind),
			Trace:    r.trace(),
		})
		return false
	}
	if len(expected) > 0 {
		return check.ExceptionError(r, kind, expected, thrown)
	}

	exc, ok := fault.As(thrown)
	if !ok {
		actual := fmt.Sprintf("%T: %v", thrown, thrown)
		if fault.IsNil(thrown) {
			actual = fmt.Sprintf("nil %T", thrown)
		}
		r.fail(&AssertionError{
			Type:     AssertExceptionKind,
			Expected: fmt.Sprintf("exception %s", kind),
			Actual:   actual,
			Trace:    r.trace(),
		})
		return false
	}
	if !exc.Kind().Is(kind) {
		r.fail(&AssertionError{
			Type:     AssertExceptionKind,
			Expected: fmt.Sprintf("exception %s", kind),
			Actual:   fmt.Sprintf("exception %s: %v", exc.Kind(), thrown),
			Trace:    r.trace(),
		})
		return false
	}
	return true
}

// ExecuteAction runs cfg.Action with a synthetic context and verifies its
// commits, dispatches and throw behavior against cfg.
//
// Every failure is reported to t without stopping the test and collected in
// the returned Result. Mutation and action counts are checked once the
// handler returned or threw the expected exception.
func ExecuteAction(t TestingT, cfg Config) *Result {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	ids := cfg.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = &runClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	state := cfg.State
	if state == nil {
		state = map[string]any{}
	}

	result := NewResult(ids.Generate())
	logger = logger.With("run_id", result.RunID)

	rec := &recorder{
		t:         t,
		result:    result,
		clock:     clock,
		mutations: &sequence{kind: EventMutation, expected: cfg.ExpectedMutations},
		actions:   &sequence{kind: EventAction, expected: cfg.ExpectedActions},
	}
	ctx := &Context{
		State:       state,
		Getters:     cfg.Getters,
		RootState:   cfg.RootState,
		RootGetters: cfg.RootGetters,
		rec:         rec,
	}

	logger.Debug("executing action",
		"mutations", len(cfg.ExpectedMutations),
		"actions", len(cfg.ExpectedActions),
		"exception", cfg.ExpectedException)

	args := []any{ctx, cfg.Payload}
	if invoke.NumIn(cfg.Action) == 1 {
		args = args[:1]
	}
	out, err := check.Capture(cfg.Action, args...)

	switch {
	case err != nil:
		rec.fail(&AssertionError{
			Type:     AssertInvalidAction,
			Expected: "a handler taking (ctx) or (ctx, payload)",
			Actual:   err.Error(),
		})
	case cfg.ExpectedException == "":
		if out.Threw() {
			rec.mu.Lock()
			result.Thrown = out.Thrown
			rec.mu.Unlock()
			rec.fail(&AssertionError{
				Type:     AssertUnexpectedException,
				Expected: "no exception",
				Actual:   fmt.Sprintf("%+v", out.Thrown),
				Trace:    rec.trace(),
			})
			break
		}
		rec.checkCounts()
	default:
		rec.mu.Lock()
		result.Thrown = out.Thrown
		rec.mu.Unlock()
		if rec.checkException(cfg.ExpectedException, cfg.ExpectedErrors, out.Thrown) {
			rec.checkCounts()
		}
	}

	rec.mu.Lock()
	logger.Debug("action executed",
		"pass", result.Pass,
		"events", len(result.Trace),
		"errors", len(result.Errors))
	rec.mu.Unlock()

	if cfg.Done != nil {
		cfg.Done()
	}
	return result
}
