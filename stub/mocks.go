package stub

import "strings"

// Entry installs a stub returning Value at the dot-separated Path.
type Entry struct {
	Path  string `json:"path" yaml:"path"`
	Value any    `json:"value" yaml:"value"`
}

// Mocks is a nested object whose leaves are stubs.
type Mocks map[string]any

// Build creates a Mocks object with one stub per entry, creating
// intermediate levels as needed.
//
// Entries are applied in order and the last write wins: a stub path that
// runs through an existing stub replaces it with a new level, and a stub
// installed on an existing level replaces that level.
func Build(entries []Entry) Mocks {
	root := Mocks{}
	for _, e := range entries {
		root.set(strings.Split(e.Path, "."), New(e.Value))
	}
	return root
}

func (m Mocks) set(segments []string, s *Stub) {
	node := m
	for _, seg := range segments[:len(segments)-1] {
		next, ok := node[seg].(Mocks)
		if !ok {
			next = Mocks{}
			node[seg] = next
		}
		node = next
	}
	node[segments[len(segments)-1]] = s
}

// Lookup returns the node at path: a *Stub or a nested Mocks.
func (m Mocks) Lookup(path string) (any, bool) {
	var node any = m
	for _, seg := range strings.Split(path, ".") {
		level, ok := node.(Mocks)
		if !ok {
			return nil, false
		}
		if node, ok = level[seg]; !ok {
			return nil, false
		}
	}
	return node, true
}

// Stub returns the stub at path, or nil when path holds no stub.
func (m Mocks) Stub(path string) *Stub {
	node, ok := m.Lookup(path)
	if !ok {
		return nil
	}
	s, _ := node.(*Stub)
	return s
}
