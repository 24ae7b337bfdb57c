package check

import (
	"github.com/stretchr/testify/assert"
)

// Tracker exposes the argument lists a tracked function was called with, in
// call order. *stub.Stub and stub.MockCalls implement it.
type Tracker interface {
	CallArgs() [][]any
}

// FunctionCall asserts tracked was called exactly once, with exactly args.
func FunctionCall(t TestingT, tracked Tracker, args ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if tracked == nil {
		return assert.Fail(t, "tracked function is nil")
	}

	calls := tracked.CallArgs()
	if !assert.Len(t, calls, 1, "expected exactly one call") {
		return false
	}
	return assert.Equal(t, normalizeArgs(args), normalizeArgs(calls[0]), "call arguments differ")
}

// Result calls fn(args...), awaits an Awaitable result, and asserts the value
// equals expected. A failure of fn is reported with the original error.
func Result(t TestingT, fn any, expected any, args ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	out, err := Capture(fn, args...)
	if err != nil {
		return assert.Fail(t, "cannot call function", err.Error())
	}
	if !assert.NoError(t, out.Thrown, "function failed unexpectedly") {
		return false
	}
	return assert.Equal(t, expected, out.Value)
}

// normalizeArgs makes an empty argument list compare equal to a nil one.
func normalizeArgs(args []any) []any {
	if len(args) == 0 {
		return []any{}
	}
	return args
}
