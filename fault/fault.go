// Package fault models domain exceptions that carry a list of structured,
// field-level errors.
package fault

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrorEntry is one structured error carried by an exception.
type ErrorEntry struct {
	Field string `json:"field" yaml:"field"`
	Code  string `json:"code" yaml:"code"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Path  string `json:"path,omitempty" yaml:"path,omitempty"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
	Limit any    `json:"limit,omitempty" yaml:"limit,omitempty"`
}

func (e ErrorEntry) String() string {
	if e.Label != "" {
		return fmt.Sprintf("%s/%s (%s)", e.Field, e.Code, e.Label)
	}
	return fmt.Sprintf("%s/%s", e.Field, e.Code)
}

// ExpectedError is a match predicate over ErrorEntry. Field and Code must
// match; Label is compared only when non-empty.
type ExpectedError struct {
	Field string `json:"field" yaml:"field"`
	Code  string `json:"code" yaml:"code"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Exception is implemented by errors that carry a kind and an error list.
type Exception interface {
	error
	Kind() Kind
	Errors() []ErrorEntry
}

// Fault is the stock Exception implementation.
type Fault struct {
	kind    Kind
	entries []ErrorEntry
	cause   error
}

// New returns a fault of the given kind carrying entries.
func New(kind Kind, entries ...ErrorEntry) *Fault {
	return &Fault{
		kind:    kind,
		entries: append([]ErrorEntry(nil), entries...),
	}
}

func Business(entries ...ErrorEntry) *Fault       { return New(KindBusiness, entries...) }
func EntityNotFound(entries ...ErrorEntry) *Fault { return New(KindEntityNotFound, entries...) }
func Security(entries ...ErrorEntry) *Fault       { return New(KindSecurity, entries...) }
func Technical(entries ...ErrorEntry) *Fault      { return New(KindTechnical, entries...) }

// WithCause returns a copy of f wrapping cause.
func (f *Fault) WithCause(cause error) *Fault {
	cp := *f
	cp.cause = cause
	return &cp
}

func (f *Fault) Error() string {
	if f == nil {
		return "<nil>"
	}
	if len(f.entries) == 0 {
		return string(f.kind)
	}
	parts := make([]string, len(f.entries))
	for i, e := range f.entries {
		parts[i] = e.String()
	}
	return fmt.Sprintf("%s: %s", f.kind, strings.Join(parts, "; "))
}

func (f *Fault) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.cause
}

func (f *Fault) Kind() Kind {
	if f == nil {
		return ""
	}
	return f.kind
}

// Errors returns a copy of the carried error list.
func (f *Fault) Errors() []ErrorEntry {
	if f == nil {
		return nil
	}
	return append([]ErrorEntry(nil), f.entries...)
}

// As finds the first Exception in err's chain. A nil pointer stored in an
// error interface is not an exception.
func As(err error) (Exception, bool) {
	var exc Exception
	if errors.As(err, &exc) && !isNilPointer(exc) {
		return exc, true
	}
	return nil, false
}

// IsNil reports whether err is non-nil only because it holds a nil pointer,
// as when a function returns a nil *Fault through an error result.
func IsNil(err error) bool {
	return err != nil && isNilPointer(err)
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
