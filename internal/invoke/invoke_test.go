package invoke

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall_Values(t *testing.T) {
	values, thrown, err := Call(func(a string, b int) string {
		return fmt.Sprintf("%s %d", a, b)
	}, "example", 5)
	require.NoError(t, err)
	assert.NoError(t, thrown)
	assert.Equal(t, []any{"example 5"}, values)
}

func TestCall_TrailingError(t *testing.T) {
	boom := errors.New("boom")

	values, thrown, err := Call(func() (int, error) { return 0, boom })
	require.NoError(t, err)
	assert.Nil(t, values)
	assert.ErrorIs(t, thrown, boom)

	values, thrown, err = Call(func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.NoError(t, thrown)
	assert.Equal(t, []any{7}, values)
}

func TestCall_Panic(t *testing.T) {
	boom := errors.New("boom")

	_, thrown, err := Call(func() { panic(boom) })
	require.NoError(t, err)

	var pe *PanicError
	require.ErrorAs(t, thrown, &pe)
	assert.ErrorIs(t, thrown, boom)
	assert.Equal(t, "panic: boom", thrown.Error())

	_, thrown, err = Call(func() { panic("plain") })
	require.NoError(t, err)
	require.ErrorAs(t, thrown, &pe)
	assert.Equal(t, "plain", pe.Value)
	assert.Nil(t, pe.Unwrap())
}

func TestCall_Variadic(t *testing.T) {
	sum := func(base int, rest ...int) int {
		for _, r := range rest {
			base += r
		}
		return base
	}

	values, _, err := Call(sum, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{6}, values)

	values, _, err = Call(sum, 1)
	require.NoError(t, err)
	assert.Equal(t, []any{1}, values)

	_, _, err = Call(sum)
	assert.ErrorContains(t, err, "at least 1 arguments")
}

func TestCall_NilArgumentIsZeroValue(t *testing.T) {
	values, _, err := Call(func(n int, m map[string]any) bool {
		return n == 0 && m == nil
	}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{true}, values)
}

func TestCall_InterfaceParameter(t *testing.T) {
	values, _, err := Call(func(v fmt.Stringer) string { return v.String() }, stringer("hi"))
	require.NoError(t, err)
	assert.Equal(t, []any{"hi"}, values)
}

func TestCall_Misuse(t *testing.T) {
	tests := []struct {
		name    string
		fn      any
		args    []any
		wantErr string
	}{
		{"not a function", 42, nil, "expected a function, got int"},
		{"nil function", (func())(nil), nil, "function is nil"},
		{"too many args", func() {}, []any{1}, "takes 0 arguments, got 1"},
		{"too few args", func(int) {}, nil, "takes 1 arguments, got 0"},
		{"wrong type", func(int) {}, []any{"x"}, "argument 0: string is not assignable to int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Call(tt.fn, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNumIn(t *testing.T) {
	assert.Equal(t, 2, NumIn(func(int, string) {}))
	assert.Equal(t, 0, NumIn(func() {}))
	assert.Equal(t, -1, NumIn(func(...int) {}))
	assert.Equal(t, -1, NumIn("nope"))
	assert.Equal(t, -1, NumIn(nil))
}

type stringer string

func (s stringer) String() string { return string(s) }
