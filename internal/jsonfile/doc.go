// Package jsonfile reads and writes the JSON configuration files that
// css-ts-setup edits: deno.json / deno.jsonc and package.json.
//
// Documents are decoded into an insertion-ordered object whose values stay
// raw JSON (github.com/wk8/go-ordered-map/v2), so a rewrite only touches the
// keys that were added or replaced and keeps the user's key order everywhere
// else.
//
// JSONC input is handled by StripComments, a single-pass scanner that drops
// // and /* */ comments while leaving comment-like sequences inside strings
// alone. When the stripped text still does not parse, ParseObjectWithComments
// retries through github.com/tidwall/jsonc, which also removes trailing commas.
package jsonfile
