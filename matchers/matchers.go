// Package matchers exposes the object-like and exception checks as gomega
// and gomock matchers.
package matchers

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/golang/mock/gomock"
	"github.com/onsi/gomega/format"
	"github.com/onsi/gomega/types"

	"github.com/roach88/actioncheck/check"
	"github.com/roach88/actioncheck/fault"
	"github.com/roach88/actioncheck/internal/canonical"
)

// ContainObjectLike succeeds when actual is a list holding an element that
// carries every key of partial with an equal value.
//
//	Expect(exc.Errors()).To(ContainObjectLike(map[string]any{"field": "name", "code": "required"}))
func ContainObjectLike(partial any) types.GomegaMatcher {
	return &containObjectLikeMatcher{partial: partial}
}

type containObjectLikeMatcher struct {
	partial any
}

func (m *containObjectLikeMatcher) Match(actual any) (bool, error) {
	idx, err := check.IndexObjectLike(actual, m.partial)
	if err != nil {
		return false, err
	}
	return idx >= 0, nil
}

func (m *containObjectLikeMatcher) FailureMessage(actual any) string {
	return format.Message(canonical.String(actual), "to contain an object like", canonical.String(m.partial))
}

func (m *containObjectLikeMatcher) NegatedFailureMessage(actual any) string {
	return format.Message(canonical.String(actual), "not to contain an object like", canonical.String(m.partial))
}

// BeException succeeds when actual is, or throws, an exception of kind or a
// descendant kind. actual may be an error or a function taking no arguments.
//
// With expected errors the exception's error list must match them exactly,
// following check.Exception. Without, only the kind is checked.
func BeException(kind fault.Kind, expected ...fault.ExpectedError) types.GomegaMatcher {
	return &beExceptionMatcher{kind: kind, expected: expected}
}

type beExceptionMatcher struct {
	kind     fault.Kind
	expected []fault.ExpectedError
	failures []string
}

func (m *beExceptionMatcher) Match(actual any) (bool, error) {
	thrown, err := thrownBy(actual)
	if err != nil {
		return false, err
	}

	if len(m.expected) == 0 {
		exc, ok := fault.As(thrown)
		switch {
		case thrown == nil:
			m.failures = []string{"no exception was thrown"}
		case !ok:
			m.failures = []string{fmt.Sprintf("%T is not an exception", thrown)}
		case !exc.Kind().Is(m.kind):
			m.failures = []string{fmt.Sprintf("exception kind is %s", exc.Kind())}
		default:
			m.failures = nil
			return true, nil
		}
		return false, nil
	}

	ok, failures := check.Explain(func(t check.TestingT) bool {
		return check.ExceptionError(t, m.kind, m.expected, thrown)
	})
	m.failures = failures
	return ok, nil
}

func (m *beExceptionMatcher) FailureMessage(actual any) string {
	msg := format.Message(actual, fmt.Sprintf("to be a %s exception", m.describe()))
	if len(m.failures) > 0 {
		msg += "\n" + strings.Join(m.failures, "\n")
	}
	return msg
}

func (m *beExceptionMatcher) NegatedFailureMessage(actual any) string {
	return format.Message(actual, fmt.Sprintf("not to be a %s exception", m.describe()))
}

func (m *beExceptionMatcher) describe() string {
	if len(m.expected) == 0 {
		return m.kind.String()
	}
	parts := make([]string, len(m.expected))
	for i, e := range m.expected {
		parts[i] = fault.ErrorEntry{Field: e.Field, Code: e.Code, Label: e.Label}.String()
	}
	return fmt.Sprintf("%s [%s]", m.kind, strings.Join(parts, "; "))
}

// thrownBy returns the error actual stands for: itself when it is an error,
// or what it throws when it is a function.
func thrownBy(actual any) (error, error) {
	switch v := actual.(type) {
	case nil:
		return nil, nil
	case error:
		return v, nil
	}
	if reflect.ValueOf(actual).Kind() != reflect.Func {
		return nil, fmt.Errorf("BeException expects an error or a function, got %T", actual)
	}
	out, err := check.Capture(actual)
	if err != nil {
		return nil, err
	}
	return out.Thrown, nil
}

// ObjectLike is a gomock argument matcher accepting values that carry every
// key of partial with an equal value.
//
//	store.EXPECT().Save(matchers.ObjectLike(map[string]any{"id": 7}))
func ObjectLike(partial any) gomock.Matcher {
	return objectLikeMatcher{partial: partial}
}

type objectLikeMatcher struct {
	partial any
}

func (m objectLikeMatcher) Matches(x any) bool {
	ok, err := check.IsObjectLike(x, m.partial)
	return err == nil && ok
}

func (m objectLikeMatcher) String() string {
	return "is an object like " + canonical.String(m.partial)
}
