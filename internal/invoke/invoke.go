// Package invoke calls arbitrary Go functions with a runtime argument list.
//
// Call splits a function's results into plain values and a trailing error,
// and turns a panic raised during the call into a *PanicError. Callers get
// one place where "the function failed" is decided, regardless of whether the
// failure was returned or raised.
package invoke

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// PanicError wraps a value recovered from a panicking call.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return fmt.Sprintf("panic: %v", err)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error, so errors.As can
// find domain exceptions raised with panic(err).
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Call invokes fn with args.
//
// values holds fn's results without a trailing error result. thrown is set
// when fn panicked or returned a non-nil trailing error. err reports misuse:
// fn is not a function, or args do not fit its parameters.
func Call(fn any, args ...any) (values []any, thrown error, err error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, nil, fmt.Errorf("expected a function, got %T", fn)
	}
	if fv.IsNil() {
		return nil, nil, fmt.Errorf("function is nil")
	}

	in, err := prepareArgs(fv.Type(), args)
	if err != nil {
		return nil, nil, err
	}

	out, thrown := call(fv, in)
	if thrown != nil {
		return nil, thrown, nil
	}

	ft := fv.Type()
	if n := len(out); n > 0 && ft.Out(n-1) == errorType {
		if last := out[n-1]; !last.IsNil() {
			return nil, last.Interface().(error), nil
		}
		out = out[:n-1]
	}

	values = make([]any, len(out))
	for i, v := range out {
		values[i] = v.Interface()
	}
	return values, thrown, nil
}

// NumIn returns the number of parameters fn declares, or -1 when fn is not a
// function or is variadic.
func NumIn(fn any) int {
	ft := reflect.TypeOf(fn)
	if ft == nil || ft.Kind() != reflect.Func || ft.IsVariadic() {
		return -1
	}
	return ft.NumIn()
}

func call(fv reflect.Value, in []reflect.Value) (out []reflect.Value, thrown error) {
	defer func() {
		if r := recover(); r != nil {
			thrown = &PanicError{Value: r}
		}
	}()
	return fv.Call(in), nil
}

// prepareArgs converts args to reflect values matching ft's parameters.
// A nil argument becomes the zero value of its parameter type.
func prepareArgs(ft reflect.Type, args []any) ([]reflect.Value, error) {
	numIn := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, fmt.Errorf("function takes at least %d arguments, got %d", numIn-1, len(args))
		}
	} else if len(args) != numIn {
		return nil, fmt.Errorf("function takes %d arguments, got %d", numIn, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if ft.IsVariadic() && i >= numIn-1 {
			pt = ft.In(numIn - 1).Elem()
		} else {
			pt = ft.In(i)
		}

		if arg == nil {
			in[i] = reflect.Zero(pt)
			continue
		}

		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("argument %d: %T is not assignable to %s", i, arg, pt)
		}
		in[i] = v
	}
	return in, nil
}
