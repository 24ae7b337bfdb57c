// Package testutil holds helpers for testing code built on actioncheck.
package testutil

// FixedIDGenerator returns the same run ID every time.
//
// Harness runs stamped with a FixedIDGenerator produce byte-identical
// traces, which golden snapshots rely on.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator returning id.
// If id is empty, Generate returns "test-run-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed run ID.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
