// Package project inspects a SvelteKit project directory: which of the
// candidate config files exist, which flavor (Deno or npm) the project is,
// and which dependency specifiers css-ts-setup writes into it.
//
// Nothing in this package writes to disk.
package project
