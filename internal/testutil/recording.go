package testutil

import (
	"fmt"
	"strings"
	"sync"
)

// RecordingT is a TestingT that records failures instead of failing the test.
// Use it to assert that a check fails.
type RecordingT struct {
	mu       sync.Mutex
	messages []string
}

// Errorf records a failure.
func (r *RecordingT) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}

// Helper is a no-op; it lets checks call t.Helper().
func (r *RecordingT) Helper() {}

// Failed reports whether any failure was recorded.
func (r *RecordingT) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages) > 0
}

// Messages returns the recorded failures in order.
func (r *RecordingT) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Output joins all recorded failures.
func (r *RecordingT) Output() string {
	return strings.Join(r.Messages(), "\n")
}
