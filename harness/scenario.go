package harness

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/actioncheck/fault"
	"github.com/roach88/actioncheck/internal/schema"
)

// Scenario describes one ExecuteAction run in YAML.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Action is the Registry key of the handler under test.
	Action string `yaml:"action"`

	Payload     any            `yaml:"payload,omitempty"`
	State       map[string]any `yaml:"state,omitempty"`
	Getters     map[string]any `yaml:"getters,omitempty"`
	RootState   map[string]any `yaml:"root_state,omitempty"`
	RootGetters map[string]any `yaml:"root_getters,omitempty"`

	Expect Expectation `yaml:"expect,omitempty"`
}

// Expectation is what the handler must do.
type Expectation struct {
	Mutations []Record              `yaml:"mutations,omitempty"`
	Actions   []Record              `yaml:"actions,omitempty"`
	Exception fault.Kind            `yaml:"exception,omitempty"`
	Errors    []fault.ExpectedError `yaml:"errors,omitempty"`
}

// Registry maps scenario action names to handlers.
type Registry map[string]any

// Names returns the registered action names, sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownActionError is returned when a scenario names an action missing
// from the Registry.
type UnknownActionError struct {
	Scenario  string
	Action    string
	Available []string
}

// Error implements the error interface.
func (e *UnknownActionError) Error() string {
	return fmt.Sprintf(
		"scenario %q references action %q which is not registered (available: %v)",
		e.Scenario,
		e.Action,
		e.Available,
	)
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, violates the schema,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(path, data)
}

// ParseScenario parses scenario YAML. name is used in error positions.
func ParseScenario(name string, data []byte) (*Scenario, error) {
	if err := schema.Validate(name, data); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	// Strict decoding catches typos like "mutation:" vs "mutations:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks what the schema cannot: fault kinds and
// cross-field rules.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Action == "" {
		return fmt.Errorf("action is required")
	}

	for i, m := range s.Expect.Mutations {
		if m.Type == "" {
			return fmt.Errorf("expect.mutations[%d]: type is required", i)
		}
	}
	for i, a := range s.Expect.Actions {
		if a.Type == "" {
			return fmt.Errorf("expect.actions[%d]: type is required", i)
		}
	}

	if s.Expect.Exception != "" && !fault.Known(s.Expect.Exception) {
		return fmt.Errorf("expect.exception: unknown exception kind %q", s.Expect.Exception)
	}

	if len(s.Expect.Errors) > 0 && s.Expect.Exception == "" {
		return fmt.Errorf("expect.errors requires expect.exception")
	}
	for i, e := range s.Expect.Errors {
		if e.Field == "" || e.Code == "" {
			return fmt.Errorf("expect.errors[%d]: field and code are required", i)
		}
	}

	return nil
}

// Config binds the scenario to a handler from reg.
func (s *Scenario) Config(reg Registry) (Config, error) {
	action, ok := reg[s.Action]
	if !ok {
		return Config{}, &UnknownActionError{
			Scenario:  s.Name,
			Action:    s.Action,
			Available: reg.Names(),
		}
	}

	return Config{
		Action:            action,
		Payload:           s.Payload,
		State:             s.State,
		Getters:           s.Getters,
		RootState:         s.RootState,
		RootGetters:       s.RootGetters,
		ExpectedMutations: s.Expect.Mutations,
		ExpectedActions:   s.Expect.Actions,
		ExpectedException: s.Expect.Exception,
		ExpectedErrors:    s.Expect.Errors,
	}, nil
}

// RunScenario executes the scenario against its registered handler.
// opts adjust the Config before the run, for example to fix the run ID.
func RunScenario(t TestingT, s *Scenario, reg Registry, opts ...func(*Config)) (*Result, error) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	cfg, err := s.Config(reg)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return ExecuteAction(t, cfg), nil
}
