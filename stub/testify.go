package stub

import "github.com/stretchr/testify/mock"

// MockCalls exposes the calls a testify mock received for one method, so a
// mock.Mock method can be verified like a Stub.
type MockCalls struct {
	Mock   *mock.Mock
	Method string
}

// CallArgs returns the arguments of every call to Method in order.
func (m MockCalls) CallArgs() [][]any {
	var out [][]any
	for _, c := range m.Mock.Calls {
		if c.Method == m.Method {
			out = append(out, []any(c.Arguments))
		}
	}
	return out
}
