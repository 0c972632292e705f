package mutate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kt-tools/css-ts-setup/internal/model"
	"github.com/kt-tools/css-ts-setup/internal/project"
)

// ViteConfig wires the css-ts Vite plugin into root's vite.config.* file.
//
// The file is treated as opaque text. Three edits run in order on the same
// in-memory buffer, each skipped when its marker is already present:
//  1. import ct from "@kt-tools/css-ts" (marker: the package name)
//  2. ct.vite() registered in the plugin list (marker: "ct.vite")
//  3. in Deno mode only, a resolve.alias entry from the bare package name
//     to its JSR npm name (marker: the JSR npm name)
//
// The file is written once at the end if any edit applied. Edits that find
// no place to go are reported as warnings asking for a manual change.
func ViteConfig(root string, denoMode bool) (model.MutationResult, error) {
	var result model.MutationResult

	path, ok := project.FindFirst(root, project.ViteConfigCandidates)
	if !ok {
		result.Warn("No vite.config file found. Skipped Vite plugin updates.")
		return result, nil
	}
	name := filepath.Base(path)
	slog.Debug("found Vite config", "path", path, "deno", denoMode)

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", name, err)
	}

	updated := string(data)
	changed := false

	// Step 1: import statement.
	if !strings.Contains(updated, project.PackageName) {
		updated = insertImport(updated, pluginImport)
		changed = true
		slog.Debug("inserted plugin import", "path", path)
	}

	// Step 2: plugin registration.
	if !strings.Contains(updated, pluginMarker) {
		if next, ok := registerPlugin(updated); ok {
			updated = next
			changed = true
			slog.Debug("registered plugin", "path", path)
		} else {
			result.Warn("Could not find a plugins array in vite.config. Add ct.vite() manually.")
		}
	}

	// Step 3: module alias for Deno's resolver.
	if denoMode && !strings.Contains(updated, project.JSRNPMName) {
		if next, ok := registerAlias(updated); ok {
			updated = next
			changed = true
			slog.Debug("registered resolve.alias entry", "path", path)
		} else {
			result.Warn("Could not insert Vite resolve.alias entry. Add it manually.")
		}
	}

	if !changed {
		slog.Debug("Vite config already up to date", "path", path)
		return result, nil
	}

	if err := writeFile(path, []byte(updated)); err != nil {
		return result, err
	}

	result.Changed = true
	result.Note("Updated %s with CSS-TS Vite plugin configuration.", name)
	return result, nil
}
