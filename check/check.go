// Package check holds assertion helpers for functions under test: call
// verification, result checking, and verification of structured domain
// exceptions.
//
// Every check reports through a testify assert.TestingT (pass a *testing.T),
// never stops the test on its own, and returns whether it passed.
//
// A function under test "throws" when it panics, returns a non-nil trailing
// error, or returns an Awaitable that resolves with an error. Synchronous and
// asynchronous functions are handled the same way:
//
//	check.Exception(t, fault.KindBusiness,
//	    []fault.ExpectedError{{Field: "field", Code: "required"}},
//	    svc.Create, ctx, input)
package check

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/stretchr/testify/assert"
)

// TestingT is the assertion capability checks report to.
type TestingT = assert.TestingT

type tHelper interface {
	Helper()
}

var logger atomic.Pointer[slog.Logger]

func init() {
	SetLogger(nil)
}

// SetLogger sets the logger used for check diagnostics. nil discards them.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger.Store(l)
}

func log() *slog.Logger {
	return logger.Load()
}

// collector is a TestingT that keeps failure messages instead of reporting them.
type collector struct {
	messages []string
}

func (c *collector) Errorf(format string, args ...any) {
	c.messages = append(c.messages, fmt.Sprintf(format, args...))
}

// Explain runs a check against a private TestingT and returns its verdict
// together with the failure messages it produced.
func Explain(run func(t TestingT) bool) (bool, []string) {
	c := &collector{}
	ok := run(c)
	return ok && len(c.messages) == 0, c.messages
}
