// Package main is the entry point for the css-ts-setup CLI.
//
// The binary configures SvelteKit + Vite projects for the @kt-tools/css-ts
// plugin. All functionality lives in internal/cli.
//
// Build-time variables (version, commit, date) are injected via ldflags by
// the release build. During development they default to "dev", "none", and
// "unknown".
package main

import (
	"github.com/kt-tools/css-ts-setup/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Inject build-time version info into the CLI package.
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
