// Package model defines the domain types and value objects for the
// css-ts-setup CLI.
//
// This package contains pure data structures with no external dependencies.
// Everything here is transient: a MutationResult lives only until the
// orchestrator folds it into the end-of-run Report, and the ProjectMode is
// computed once per run from flags and directory contents.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
