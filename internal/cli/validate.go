package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/actioncheck/harness"
	"github.com/roach88/actioncheck/internal/schema"
)

// FileResult is the validation outcome of one scenario file.
type FileResult struct {
	Path   string         `json:"path"`
	Name   string         `json:"name,omitempty"`
	Valid  bool           `json:"valid"`
	Error  string         `json:"error,omitempty"`
	Issues []schema.Issue `json:"issues,omitempty"`
}

// ValidationResult holds validation results for every file checked.
type ValidationResult struct {
	Files   []FileResult `json:"files"`
	Valid   int          `json:"valid"`
	Invalid int          `json:"invalid"`
	Total   int          `json:"total"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate scenario files",
		Long: `Validate action scenario YAML files.

Each path is a scenario file or a directory searched recursively for
.yaml and .yml files. Every file is checked against the scenario schema,
decoded strictly, and checked for known exception kinds.

Exit codes:
  0 - All scenarios valid
  1 - One or more scenarios invalid
  2 - Command error (path not found, no scenario files, etc.)

Examples:
  actioncheck validate ./scenarios
  actioncheck validate cart.yaml checkout.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format: opts.Format,
		Writer: cmd.OutOrStdout(),
	}
	log := opts.logger()

	var files []string
	for _, p := range paths {
		found, code, err := findScenarioFiles(p)
		if err != nil {
			_ = formatter.Error(code, err.Error(), nil)
			return WrapExitError(ExitCommandError, code, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		msg := fmt.Sprintf("no scenario files found in %v", paths)
		_ = formatter.Error(ErrCodeNoFiles, msg, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", ErrCodeNoFiles, msg))
	}

	log.Info("validating scenarios", "files", len(files))

	result := ValidationResult{
		Files: make([]FileResult, 0, len(files)),
		Total: len(files),
	}
	for _, path := range files {
		fr := validateFile(path)
		log.Debug("validated scenario", "path", path, "valid", fr.Valid)
		result.Files = append(result.Files, fr)
		if fr.Valid {
			result.Valid++
		} else {
			result.Invalid++
		}
	}

	if err := outputValidation(formatter, result); err != nil {
		return err
	}
	if result.Invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed: %d of %d scenario(s) invalid", result.Invalid, result.Total))
	}
	return nil
}

// validateFile loads one scenario and reports what is wrong with it.
func validateFile(path string) FileResult {
	s, err := harness.LoadScenario(path)
	if err != nil {
		fr := FileResult{Path: path, Error: err.Error()}
		var schemaErr *schema.Error
		if errors.As(err, &schemaErr) {
			fr.Issues = schemaErr.Issues
		}
		return fr
	}
	return FileResult{Path: path, Name: s.Name, Valid: true}
}

// findScenarioFiles returns path itself when it is a file, or every YAML file
// below it when it is a directory, sorted. The string is the error code when
// err is non-nil.
func findScenarioFiles(path string) ([]string, string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrCodeNotFound, fmt.Errorf("path not found: %s", path)
	}
	if err != nil {
		return nil, ErrCodeNotFound, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, "", nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		// Only process .yaml and .yml files
		if ext := filepath.Ext(p); ext == ".yaml" || ext == ".yml" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, ErrCodeScanError, fmt.Errorf("error scanning %s: %w", path, err)
	}

	sort.Strings(files)
	return files, "", nil
}

// outputValidation writes the validation report.
func outputValidation(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.JSON() {
		if result.Invalid > 0 {
			return formatter.Failure(ErrCodeInvalid,
				fmt.Sprintf("%d of %d scenario(s) invalid", result.Invalid, result.Total), result)
		}
		return formatter.Success(result)
	}

	w := formatter.Writer
	for _, fr := range result.Files {
		if fr.Valid {
			fmt.Fprintf(w, "✓ %s (%s)\n", fr.Path, fr.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", fr.Path)
		if len(fr.Issues) > 0 {
			for _, issue := range fr.Issues {
				fmt.Fprintf(w, "  %s\n", issue)
			}
		} else {
			fmt.Fprintf(w, "  %s\n", fr.Error)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d valid, %d invalid, %d total\n", result.Valid, result.Invalid, result.Total)
	return nil
}
