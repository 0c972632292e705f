package model

import (
	"fmt"
	"strings"
)

// ProjectMode is the project flavor that selects which mutators and which
// install command run. The zero value means the mode could not be determined.
type ProjectMode string

const (
	// ModeUndetermined means neither a Deno config nor a package manifest was
	// found and no explicit mode was given.
	ModeUndetermined ProjectMode = ""

	// ModeDeno configures a SvelteKit + Deno + Vite project through the
	// deno.json import map.
	ModeDeno ProjectMode = "deno"

	// ModeNPM configures a SvelteKit + npm + Vite project through package.json.
	ModeNPM ProjectMode = "npm"
)

// String returns the string representation of ProjectMode.
func (m ProjectMode) String() string {
	if m == ModeUndetermined {
		return "undetermined"
	}
	return string(m)
}

// IsValid reports whether the mode is one of the concrete project flavors.
func (m ProjectMode) IsValid() bool {
	switch m {
	case ModeDeno, ModeNPM:
		return true
	default:
		return false
	}
}

// ParseProjectMode converts a string to a ProjectMode. An empty string maps
// to ModeUndetermined so that an unset config value means "auto-detect".
func ParseProjectMode(s string) (ProjectMode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ModeUndetermined, nil
	}
	mode := ProjectMode(strings.ToLower(s))
	if !mode.IsValid() {
		return ModeUndetermined, fmt.Errorf("invalid project mode: %q (valid: deno, npm)", s)
	}
	return mode, nil
}

// MutationResult is what a single config mutator reports back.
//
// Changed is true only when the underlying file was rewritten, and every
// change is accompanied by at least one note describing it. Warnings are
// non-fatal and are collected into the end-of-run report.
type MutationResult struct {
	Changed  bool     `json:"changed" yaml:"changed"`
	Notes    []string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Note records a description of a change that was written to disk.
func (r *MutationResult) Note(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// Warn records a non-fatal problem.
func (r *MutationResult) Warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Report is the end-of-run summary printed by the CLI.
type Report struct {
	// Mode is the resolved project mode.
	Mode ProjectMode `json:"mode" yaml:"mode"`

	// Root is the absolute project directory that was configured.
	Root string `json:"root" yaml:"root"`

	// Summary lists the notes of every mutator that changed a file, plus
	// the install note when installation succeeded.
	Summary []string `json:"summary" yaml:"summary"`

	// Warnings lists every mutator warning, in mutator order.
	Warnings []string `json:"warnings" yaml:"warnings"`

	// Installed is true when the external install command succeeded.
	Installed bool `json:"installed" yaml:"installed"`
}

// Add folds a mutator result into the report. Notes only count when the
// mutator actually changed its file.
func (r *Report) Add(result MutationResult) {
	if result.Changed {
		r.Summary = append(r.Summary, result.Notes...)
	}
	r.Warnings = append(r.Warnings, result.Warnings...)
}

// ExitCode defines the process exit codes of the CLI.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConflictingModes indicates both --deno and --npm were given.
	ExitConflictingModes ExitCode = 2

	// ExitModeUndetermined indicates no project marker file was found and
	// no mode was given explicitly.
	ExitModeUndetermined ExitCode = 3

	// ExitFileAccess indicates a config file could not be read or written.
	ExitFileAccess ExitCode = 4
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
