package project

import (
	"os"
	"path/filepath"
)

// ManifestFile is the npm package manifest.
const ManifestFile = "package.json"

// DenoConfigCandidates lists the Deno configuration file names in priority
// order. Deno itself picks deno.json over deno.jsonc.
var DenoConfigCandidates = []string{"deno.json", "deno.jsonc"}

// ViteConfigCandidates lists the Vite configuration file names in priority
// order.
var ViteConfigCandidates = []string{
	"vite.config.ts",
	"vite.config.js",
	"vite.config.mjs",
	"vite.config.mts",
	"vite.config.cjs",
}

// FindFirst returns the path of the first candidate that exists as a
// regular file in dir. It returns false when none of them exists.
func FindFirst(dir string, candidates []string) (string, bool) {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

// fileExists reports whether path exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
