// Package mutate holds the three config mutators of css-ts-setup:
//
//   - DenoConfig adds the SvelteKit and css-ts entries to the deno.json import
//     map and sets nodeModulesDir to "auto".
//   - PackageManifest adds @kt-tools/css-ts to package.json dependencies.
//   - ViteConfig imports the plugin in vite.config.*, registers ct.vite() in the
//     plugin list and, for Deno projects, adds a resolve.alias entry.
//
// Every mutator is idempotent: each edit is gated on a presence check, and
// existing values (such as a version the user pinned by hand) are never
// overwritten. A mutator either rewrites its whole file once or leaves it
// untouched.
//
// Missing and unparsable files are not errors. They are reported as warnings
// in the returned model.MutationResult and the mutation is skipped. Only I/O
// failures on files that do exist are returned as errors.
package mutate
