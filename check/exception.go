package check

import (
	"fmt"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/actioncheck/fault"
)

// Exception calls fn(args...) and asserts it throws an exception of kind
// (or a descendant kind) whose error list matches expected exactly.
//
// Matching is by content, not position: every expected entry must have an
// entry with the same field and code, its label must be equal when the
// expectation sets one, and the two lists must have the same length.
// Expected entries are not deduplicated.
func Exception(t TestingT, kind fault.Kind, expected []fault.ExpectedError, fn any, args ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	log().Debug("expect exception", "kind", kind, "errors", len(expected))

	out, err := Capture(fn, args...)
	if err != nil {
		return assert.Fail(t, "cannot call function", err.Error())
	}
	return ExceptionError(t, kind, expected, out.Thrown)
}

// ExceptionLike is Exception for a function without arguments, with the
// expected errors given inline.
func ExceptionLike(t TestingT, fn any, kind fault.Kind, expected ...fault.ExpectedError) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	return Exception(t, kind, expected, fn)
}

// ExceptionError applies the Exception verification to an error already in
// hand. A nil err fails: the exception was not thrown.
func ExceptionError(t TestingT, kind fault.Kind, expected []fault.ExpectedError, err error) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	if err == nil {
		return assert.Fail(t, fmt.Sprintf("expected %s to be thrown, but no exception was thrown", kind))
	}
	if fault.IsNil(err) {
		return assert.Fail(t, fmt.Sprintf("expected %s, got nil %T", kind, err))
	}
	exc, ok := fault.As(err)
	if !ok {
		return assert.Fail(t, fmt.Sprintf("expected %s, got %T", kind, err), err.Error())
	}
	if !exc.Kind().Is(kind) {
		return assert.Fail(t, fmt.Sprintf("expected %s, got %s", kind, exc.Kind()), err.Error())
	}
	return matchEntries(t, exc.Errors(), expected)
}

func matchEntries(t TestingT, actual []fault.ErrorEntry, expected []fault.ExpectedError) bool {
	ok := true
	for _, want := range expected {
		got, found := findEntry(actual, want.Field, want.Code)
		if !found {
			ok = assert.Fail(t, fmt.Sprintf("exception carries no error %s/%s", want.Field, want.Code),
				"errors: %v", actual)
			continue
		}
		if want.Label != "" && !assert.Equal(t, want.Label, got.Label, "label of error %s/%s", want.Field, want.Code) {
			ok = false
		}
	}

	if !assert.Len(t, actual, len(expected), "exception carries %d errors, expected exactly %d", len(actual), len(expected)) {
		ok = false
	}
	return ok
}

// findEntry returns the first entry with the given field and code.
func findEntry(entries []fault.ErrorEntry, field, code string) (fault.ErrorEntry, bool) {
	for _, e := range entries {
		if e.Field == field && e.Code == code {
			return e, true
		}
	}
	return fault.ErrorEntry{}, false
}
