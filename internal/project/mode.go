package project

import (
	"path/filepath"

	"github.com/kt-tools/css-ts-setup/internal/model"
)

// ResolveMode decides whether root is a Deno or an npm project.
//
// An explicit mode always wins. Otherwise a package manifest makes the
// project npm-based, even when a Deno config sits next to it, and a Deno
// config alone makes it Deno-based. With neither marker the result is
// ModeUndetermined, which callers must treat as a configuration error.
func ResolveMode(root string, requested model.ProjectMode) model.ProjectMode {
	if requested.IsValid() {
		return requested
	}

	_, hasDeno := FindFirst(root, DenoConfigCandidates)
	hasManifest := fileExists(filepath.Join(root, ManifestFile))

	switch {
	case hasManifest:
		return model.ModeNPM
	case hasDeno:
		return model.ModeDeno
	default:
		return model.ModeUndetermined
	}
}
