// Package schema validates action scenario files against a CUE schema.
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/encoding/yaml"
)

//go:embed scenario.cue
var scenarioSchema string

// Source returns the CUE schema scenario files are validated against.
func Source() string {
	return scenarioSchema
}

// Issue is one schema violation.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

func (i Issue) String() string {
	var b strings.Builder
	if i.Path != "" {
		b.WriteString(i.Path)
		b.WriteString(": ")
	}
	b.WriteString(i.Message)
	if i.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", i.Line)
	}
	return b.String()
}

// Error reports every schema violation found in one file.
type Error struct {
	File   string
	Issues []Issue
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("%s: %s", e.File, strings.Join(parts, "; "))
}

// Validate checks a YAML scenario document against the #Scenario definition.
// It returns a *Error describing every violation, or nil.
func Validate(filename string, data []byte) error {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileString(scenarioSchema, cue.Filename("scenario.cue"))
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}
	def := schemaVal.LookupPath(cue.ParsePath("#Scenario"))

	file, err := yaml.Extract(filename, data)
	if err != nil {
		return toError(filename, err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return toError(filename, err)
	}

	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return toError(filename, err)
	}
	return nil
}

func toError(filename string, err error) *Error {
	var issues []Issue
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		issue := Issue{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		}
		if pos := e.Position(); pos.IsValid() {
			issue.Line = pos.Line()
		}
		issues = append(issues, issue)
	}
	if len(issues) == 0 {
		issues = []Issue{{Message: err.Error()}}
	}
	return &Error{File: filename, Issues: issues}
}
