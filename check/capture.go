package check

import (
	"github.com/roach88/actioncheck/internal/invoke"
)

// PanicError wraps a value recovered from a panicking function under test.
// When the value is an error, errors.As and errors.Is see through it.
type PanicError = invoke.PanicError

// Awaitable is returned by asynchronous functions under test.
type Awaitable interface {
	Await() (any, error)
}

// Future is an Awaitable backed by a goroutine.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Async runs fn in a new goroutine. A panic in fn resolves the future with a
// *PanicError.
func Async[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = &invoke.PanicError{Value: r}
			}
		}()
		f.value, f.err = fn()
	}()
	return f
}

// Go is Async for functions that only report an error.
func Go(fn func() error) *Future[any] {
	return Async(func() (any, error) {
		return nil, fn()
	})
}

// Await blocks until the future resolves.
func (f *Future[T]) Await() (any, error) {
	v, err := f.Get()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Get is Await with the result typed.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.value, f.err
}

// Outcome is what a captured invocation produced: a value on normal
// completion, or the thrown error.
type Outcome struct {
	Value  any
	Thrown error
}

// Threw reports whether the invocation failed.
func (o Outcome) Threw() bool {
	return o.Thrown != nil
}

// Capture calls fn(args...) and awaits the result when it is Awaitable.
//
// Capture never lets a failure escape: a panic, a non-nil trailing error or a
// failed await is returned in Outcome.Thrown. The error result only reports
// misuse (fn is not a function, or args do not fit it).
//
// With one non-error result Value is that result; with several it is a
// []any of them.
func Capture(fn any, args ...any) (Outcome, error) {
	values, thrown, err := invoke.Call(fn, args...)
	if err != nil {
		return Outcome{}, err
	}
	if thrown != nil {
		return Outcome{Thrown: thrown}, nil
	}

	var value any
	switch len(values) {
	case 0:
	case 1:
		value = values[0]
	default:
		value = values
	}

	if a, ok := value.(Awaitable); ok {
		v, awaitErr := await(a)
		if awaitErr != nil {
			return Outcome{Thrown: awaitErr}, nil
		}
		value = v
	}
	return Outcome{Value: value}, nil
}

func await(a Awaitable) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &invoke.PanicError{Value: r}
		}
	}()
	return a.Await()
}
