package harness

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/actioncheck/check"
	"github.com/roach88/actioncheck/fault"
	"github.com/roach88/actioncheck/internal/testutil"
)

func requiredField() *fault.Fault {
	return fault.Business(fault.ErrorEntry{Field: "field", Code: "required", Label: "field is required"})
}

func dispatchThenCommit(ctx *Context, _ any) {
	ctx.Dispatch("monAction", 1)
	ctx.Commit("maMutation", 2)
}

func dispatchCommitThrow(ctx *Context, _ any) error {
	ctx.Dispatch("monAction")
	ctx.Commit("maMutation")
	return requiredField()
}

func TestExecuteAction_DispatchThenCommit(t *testing.T) {
	result := ExecuteAction(t, Config{
		Action:            dispatchThenCommit,
		ExpectedActions:   []Record{{Type: "monAction", Payload: 1}},
		ExpectedMutations: []Record{{Type: "maMutation", Payload: 2}},
		IDs:               testutil.NewFixedIDGenerator("run-1"),
	})

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "run-1", result.RunID)
	assert.Nil(t, result.Thrown)

	require.Len(t, result.Trace, 2)
	assert.Equal(t, TraceEvent{Kind: EventAction, Type: "monAction", Payload: 1, HasPayload: true, Seq: 1}, result.Trace[0])
	assert.Equal(t, TraceEvent{Kind: EventMutation, Type: "maMutation", Payload: 2, HasPayload: true, Seq: 2}, result.Trace[1])

	assert.Equal(t, []Record{{Type: "maMutation", Payload: 2}}, result.Mutations())
	assert.Equal(t, []Record{{Type: "monAction", Payload: 1}}, result.Actions())
}

func TestExecuteAction_ExpectedException(t *testing.T) {
	result := ExecuteAction(t, Config{
		Action:            dispatchCommitThrow,
		ExpectedActions:   []Record{{Type: "monAction"}},
		ExpectedMutations: []Record{{Type: "maMutation"}},
		ExpectedException: fault.KindBusiness,
	})

	assert.True(t, result.Pass)
	require.Error(t, result.Thrown)
	exc, ok := fault.As(result.Thrown)
	require.True(t, ok)
	assert.Equal(t, fault.KindBusiness, exc.Kind())
}

func TestExecuteAction_UnexpectedThrow(t *testing.T) {
	rt := &testutil.RecordingT{}
	result := ExecuteAction(rt, Config{
		Action:            dispatchCommitThrow,
		ExpectedActions:   []Record{{Type: "monAction"}},
		ExpectedMutations: []Record{{Type: "maMutation"}},
	})

	assert.False(t, result.Pass)
	assert.True(t, rt.Failed())
	assert.Contains(t, rt.Output(), AssertUnexpectedException)
	assert.Contains(t, rt.Output(), "field/required")
	assert.Error(t, result.Thrown)
	require.Len(t, result.Errors, 1)
}

func TestExecuteAction_ExpectedExceptionKinds(t *testing.T) {
	tests := []struct {
		name     string
		thrown   error
		kind     fault.Kind
		wantPass bool
		wantMsg  string
	}{
		{
			name:     "descendant satisfies ancestor",
			thrown:   fault.EntityNotFound(fault.ErrorEntry{Field: "id", Code: "unknown"}),
			kind:     fault.KindBusiness,
			wantPass: true,
		},
		{
			name:     "root kind accepts everything",
			thrown:   fault.Security(),
			kind:     fault.KindException,
			wantPass: true,
		},
		{
			name:    "sibling kind fails",
			thrown:  fault.Technical(),
			kind:    fault.KindBusiness,
			wantMsg: AssertExceptionKind,
		},
		{
			name:    "plain error fails",
			thrown:  errors.New("boom"),
			kind:    fault.KindBusiness,
			wantMsg: "boom",
		},
		{
			name:    "nil fault fails",
			thrown:  (*fault.Fault)(nil),
			kind:    fault.KindBusiness,
			wantMsg: "Actual: nil *fault.Fault",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &testutil.RecordingT{}
			result := ExecuteAction(rt, Config{
				Action:            func(*Context) error { return tt.thrown },
				ExpectedException: tt.kind,
			})

			assert.Equal(t, tt.wantPass, result.Pass)
			assert.Equal(t, !tt.wantPass, rt.Failed())
			if tt.wantMsg != "" {
				assert.Contains(t, rt.Output(), tt.wantMsg)
			}
		})
	}
}

func TestExecuteAction_ExpectedExceptionNotThrown(t *testing.T) {
	rt := &testutil.RecordingT{}
	result := ExecuteAction(rt, Config{
		Action:            dispatchThenCommit,
		ExpectedActions:   []Record{{Type: "monAction", Payload: 1}},
		ExpectedMutations: []Record{{Type: "maMutation", Payload: 2}},
		ExpectedException: fault.KindBusiness,
	})

	assert.False(t, result.Pass)
	assert.Contains(t, rt.Output(), "expected exception BusinessException was not thrown")
	assert.Len(t, result.Errors, 1)
}

func TestExecuteAction_ExpectedErrors(t *testing.T) {
	t.Run("matching shape", func(t *testing.T) {
		result := ExecuteAction(t, Config{
			Action:            func(*Context) error { return requiredField() },
			ExpectedException: fault.KindBusiness,
			ExpectedErrors:    []fault.ExpectedError{{Field: "field", Code: "required", Label: "field is required"}},
		})
		assert.True(t, result.Pass)
	})

	t.Run("length mismatch", func(t *testing.T) {
		rt := &testutil.RecordingT{}
		result := ExecuteAction(rt, Config{
			Action:            func(*Context) error { return requiredField() },
			ExpectedException: fault.KindBusiness,
			ExpectedErrors: []fault.ExpectedError{
				{Field: "field", Code: "required"},
				{Field: "field2", Code: "string.max"},
			},
		})
		assert.False(t, result.Pass)
		assert.True(t, rt.Failed())
		assert.NotEmpty(t, result.Errors)
		assert.Len(t, result.Errors, len(rt.Messages()))
	})
}

func TestExecuteAction_SequenceFailures(t *testing.T) {
	tests := []struct {
		name      string
		action    func(*Context)
		mutations []Record
		actions   []Record
		wantType  string
		wantMsg   string
	}{
		{
			name:     "mutation not expected",
			action:   func(ctx *Context) { ctx.Commit("extra") },
			wantType: AssertUnexpectedMutation,
			wantMsg:  "mutation dispatched but not expected: extra",
		},
		{
			name:     "action not expected",
			action:   func(ctx *Context) { ctx.Dispatch("extra") },
			wantType: AssertUnexpectedAction,
			wantMsg:  "action dispatched but not expected: extra",
		},
		{
			name:      "mutation type differs",
			action:    func(ctx *Context) { ctx.Commit("other") },
			mutations: []Record{{Type: "expected"}},
			wantType:  AssertMutationType,
			wantMsg:   `mutation[0] of type "other"`,
		},
		{
			name:      "payload passed but not expected",
			action:    func(ctx *Context) { ctx.Commit("SET", map[string]any{"a": 1}) },
			mutations: []Record{{Type: "SET"}},
			wantType:  AssertMutationPayload,
			wantMsg:   `payload {"a":1}`,
		},
		{
			name:     "action payload differs",
			action:   func(ctx *Context) { ctx.Dispatch("load", map[string]any{"id": 2}) },
			actions:  []Record{{Type: "load", Payload: map[string]any{"id": 1}}},
			wantType: AssertActionPayload,
			wantMsg:  `payload {"id":2}`,
		},
		{
			name:      "handler stops short",
			action:    func(ctx *Context) { ctx.Commit("first") },
			mutations: []Record{{Type: "first"}, {Type: "second"}},
			wantType:  AssertMutationCount,
			wantMsg:   "1 mutations",
		},
		{
			name:     "action count",
			action:   func(ctx *Context) {},
			actions:  []Record{{Type: "load"}},
			wantType: AssertActionCount,
			wantMsg:  "0 actions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &testutil.RecordingT{}
			result := ExecuteAction(rt, Config{
				Action:            tt.action,
				ExpectedMutations: tt.mutations,
				ExpectedActions:   tt.actions,
			})

			assert.False(t, result.Pass)
			assert.Contains(t, rt.Output(), "Assertion failed: "+tt.wantType)
			assert.Contains(t, rt.Output(), tt.wantMsg)
		})
	}
}

func TestExecuteAction_CursorAlwaysAdvances(t *testing.T) {
	rt := &testutil.RecordingT{}
	result := ExecuteAction(rt, Config{
		Action: func(ctx *Context) {
			ctx.Commit("wrong")
			ctx.Commit("second")
		},
		ExpectedMutations: []Record{{Type: "first"}, {Type: "second"}},
	})

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], AssertMutationType)
}

func TestExecuteAction_PayloadOnlyComparedWhenPassed(t *testing.T) {
	result := ExecuteAction(t, Config{
		Action: func(ctx *Context) {
			ctx.Commit("SET_ITEMS")
		},
		ExpectedMutations: []Record{{Type: "SET_ITEMS", Payload: []string{"a"}}},
	})

	assert.True(t, result.Pass)
	assert.False(t, result.Trace[0].HasPayload)
}

func TestExecuteAction_StructPayloadMatchesGenericPayload(t *testing.T) {
	type item struct {
		ID  int    `json:"id"`
		SKU string `json:"sku"`
	}

	result := ExecuteAction(t, Config{
		Action: func(ctx *Context, p item) {
			ctx.Commit("ADD_ITEM", p)
		},
		Payload:           item{ID: 7, SKU: "w-1"},
		ExpectedMutations: []Record{{Type: "ADD_ITEM", Payload: map[string]any{"id": 7, "sku": "w-1"}}},
	})

	assert.True(t, result.Pass)
}

func TestExecuteAction_AsyncHandler(t *testing.T) {
	t.Run("commits from awaited goroutine", func(t *testing.T) {
		result := ExecuteAction(t, Config{
			Action: func(ctx *Context, id int) *check.Future[any] {
				return check.Go(func() error {
					ctx.Dispatch("fetch", id)
					ctx.Commit("LOADED", id)
					return nil
				})
			},
			Payload:           3,
			ExpectedActions:   []Record{{Type: "fetch", Payload: 3}},
			ExpectedMutations: []Record{{Type: "LOADED", Payload: 3}},
		})
		assert.True(t, result.Pass)
	})

	t.Run("async rejection matches expected exception", func(t *testing.T) {
		result := ExecuteAction(t, Config{
			Action: func(ctx *Context) *check.Future[any] {
				return check.Go(func() error {
					ctx.Commit("LOADING")
					return requiredField()
				})
			},
			ExpectedMutations: []Record{{Type: "LOADING"}},
			ExpectedException: fault.KindBusiness,
		})
		assert.True(t, result.Pass)
	})

	t.Run("panic counts as a throw", func(t *testing.T) {
		result := ExecuteAction(t, Config{
			Action:            func(*Context) { panic(requiredField()) },
			ExpectedException: fault.KindBusiness,
		})
		assert.True(t, result.Pass)
	})
}

func TestExecuteAction_ContextFields(t *testing.T) {
	var seen *Context
	getters := map[string]any{"count": 2}
	rootState := map[string]any{"user": "alice"}

	ExecuteAction(t, Config{
		Action:      func(ctx *Context) { seen = ctx },
		Getters:     getters,
		RootState:   rootState,
		RootGetters: map[string]any{"isAdmin": false},
	})

	require.NotNil(t, seen)
	assert.NotNil(t, seen.State)
	assert.Empty(t, seen.State)
	assert.Equal(t, getters, seen.Getters)
	assert.Equal(t, rootState, seen.RootState)
	assert.Equal(t, map[string]any{"isAdmin": false}, seen.RootGetters)
}

func TestExecuteAction_DoneCalledOnce(t *testing.T) {
	t.Run("on success", func(t *testing.T) {
		calls := 0
		ExecuteAction(t, Config{
			Action: func(*Context) {},
			Done:   func() { calls++ },
		})
		assert.Equal(t, 1, calls)
	})

	t.Run("on failure", func(t *testing.T) {
		calls := 0
		rt := &testutil.RecordingT{}
		ExecuteAction(rt, Config{
			Action: func(*Context) error { return errors.New("boom") },
			Done:   func() { calls++ },
		})
		assert.True(t, rt.Failed())
		assert.Equal(t, 1, calls)
	})

	t.Run("after the handler", func(t *testing.T) {
		var order []string
		ExecuteAction(t, Config{
			Action: func(*Context) { order = append(order, "action") },
			Done:   func() { order = append(order, "done") },
		})
		assert.Equal(t, []string{"action", "done"}, order)
	})
}

func TestExecuteAction_InvalidAction(t *testing.T) {
	tests := []struct {
		name   string
		action any
	}{
		{name: "nil", action: nil},
		{name: "not a function", action: "cart/add"},
		{name: "wrong context type", action: func(string, int) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &testutil.RecordingT{}
			result := ExecuteAction(rt, Config{Action: tt.action})
			assert.False(t, result.Pass)
			assert.Contains(t, rt.Output(), AssertInvalidAction)
		})
	}
}

func TestExecuteAction_FreshStatePerRun(t *testing.T) {
	cfg := Config{
		Action:            func(ctx *Context) { ctx.Commit("ONE") },
		ExpectedMutations: []Record{{Type: "ONE"}},
	}

	first := ExecuteAction(t, cfg)
	second := ExecuteAction(t, cfg)

	assert.True(t, first.Pass)
	assert.True(t, second.Pass)
	assert.Equal(t, int64(1), second.Trace[0].Seq)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestExecuteAction_SharedClock(t *testing.T) {
	var clock testutil.SharedClock
	cfg := Config{
		Action:            func(ctx *Context) { ctx.Commit("ONE") },
		ExpectedMutations: []Record{{Type: "ONE"}},
		Clock:             &clock,
	}

	ExecuteAction(t, cfg)
	second := ExecuteAction(t, cfg)

	assert.Equal(t, int64(2), second.Trace[0].Seq)
	assert.Equal(t, int64(2), clock.Last())
}

func TestExecuteAction_DefaultRunIDIsUUIDv7(t *testing.T) {
	result := ExecuteAction(t, Config{Action: func(*Context) {}})

	id, err := uuid.Parse(result.RunID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestExecuteAction_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ExecuteAction(t, Config{
		Action: func(*Context) {},
		Logger: logger,
		IDs:    testutil.NewFixedIDGenerator("run-log"),
	})

	assert.Contains(t, buf.String(), "run_id=run-log")
	assert.Contains(t, buf.String(), "action executed")
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertMutationType,
		Expected: `mutation[0] of type "a"`,
		Actual:   `mutation[0] of type "b"`,
		Trace: []TraceEvent{
			{Kind: EventAction, Type: "load", Seq: 1},
			{Kind: EventMutation, Type: "b", Payload: map[string]any{"id": 1}, HasPayload: true, Seq: 2},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: mutation_type")
	assert.Contains(t, msg, `Expected: mutation[0] of type "a"`)
	assert.Contains(t, msg, `Actual: mutation[0] of type "b"`)
	assert.Contains(t, msg, "[1] action load\n")
	assert.Contains(t, msg, `[2] mutation b {"id":1}`)

	empty := (&AssertionError{Type: "x"}).Error()
	assert.Contains(t, empty, "(empty)")
}
