// Package stub provides trackable stub functions and nested objects of stubs.
//
// A Stub keeps an explicit call log that verifiers read directly:
//
//	find := stub.New(user)
//	svc := NewService(find.Func())
//	svc.Load("42")
//	check.FunctionCall(t, find, "42")
package stub

import "sync"

// Call is one recorded invocation.
type Call struct {
	Args []any
}

// Stub is a function that returns a fixed value for any arguments and logs
// every call. Safe for concurrent use.
type Stub struct {
	mu    sync.Mutex
	value any
	calls []Call
}

// New returns a stub that always returns value.
func New(value any) *Stub {
	return &Stub{value: value}
}

// Call records args and returns the stub's value.
func (s *Stub) Call(args ...any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Args: append([]any(nil), args...)})
	return s.value
}

// Func returns s.Call as a plain function value.
func (s *Stub) Func() func(args ...any) any {
	return s.Call
}

// Value returns what the stub returns.
func (s *Stub) Value() any {
	return s.value
}

// Calls returns the call log in order.
func (s *Stub) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallArgs returns the argument list of every call in order.
func (s *Stub) CallArgs() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.Args
	}
	return out
}

// Reset clears the call log.
func (s *Stub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}
