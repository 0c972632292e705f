// Package install installs @kt-tools/css-ts with the project's package
// manager.
//
// Installation is best-effort: the external command's output is discarded
// and its outcome is reduced to a boolean. A failed install never stops a
// css-ts-setup run, and it is never retried.
//
// Command execution sits behind the Runner interface so that command
// construction can be tested without npx or deno on the PATH.
package install
