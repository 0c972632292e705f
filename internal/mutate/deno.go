package mutate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kt-tools/css-ts-setup/internal/jsonfile"
	"github.com/kt-tools/css-ts-setup/internal/model"
	"github.com/kt-tools/css-ts-setup/internal/project"
)

// nodeModulesDirMode is the value Vite needs so that npm: imports are
// materialized into a node_modules directory.
const nodeModulesDirMode = "auto"

// DenoConfig ensures the Deno config in root maps every required package and
// sets nodeModulesDir to "auto". selfSpecifier is the import-map value for
// @kt-tools/css-ts.
//
// The function works in three phases:
//  1. Locate deno.json / deno.jsonc and parse it with comments stripped
//  2. Add missing import-map entries and fix nodeModulesDir
//  3. Rewrite the file as indented JSON when anything changed
//
// Rewriting a deno.jsonc drops its comments; that is reported as a warning.
func DenoConfig(root, selfSpecifier string) (model.MutationResult, error) {
	var result model.MutationResult

	// Phase 1: locate and parse.
	path, ok := project.FindFirst(root, project.DenoConfigCandidates)
	if !ok {
		result.Warn("No deno.json/deno.jsonc found. Skipped Deno import map updates.")
		return result, nil
	}
	name := filepath.Base(path)
	slog.Debug("found Deno config", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", name, err)
	}

	config, err := jsonfile.ParseObjectWithComments(data)
	if err != nil {
		slog.Debug("could not parse Deno config", "path", path, "err", err)
		result.Warn("Failed to parse %s. Skipped import map updates.", name)
		return result, nil
	}

	// Phase 2: apply modifications.
	changed := applyImports(config, project.RequiredImports(selfSpecifier))

	if value, ok := config.String("nodeModulesDir"); !ok || value != nodeModulesDirMode {
		slog.Debug("setting nodeModulesDir", "path", path, "value", nodeModulesDirMode)
		config.SetString("nodeModulesDir", nodeModulesDirMode)
		changed = true
	}

	if !changed {
		slog.Debug("Deno config already up to date", "path", path)
		return result, nil
	}

	// Phase 3: re-serialize.
	out, err := jsonfile.Marshal(config)
	if err != nil {
		return result, fmt.Errorf("failed to serialize %s: %w", name, err)
	}
	if err := writeFile(path, out); err != nil {
		return result, err
	}

	result.Changed = true
	result.Note("Updated %s with import map entries and nodeModulesDir.", name)
	if filepath.Ext(path) == ".jsonc" {
		result.Warn("Rewrote %s as JSON (comments removed).", name)
	}

	return result, nil
}

// applyImports adds every entry whose name is not yet in the "imports"
// object. A missing or non-object "imports" value is replaced with an empty
// object first. Existing entries are left alone so that versions pinned by
// the user survive. It reports whether any entry was added.
func applyImports(config *jsonfile.Document, required []project.ImportEntry) bool {
	imports, _ := config.EnsureObject("imports")

	added := false
	for _, entry := range required {
		if imports.Has(entry.Name) {
			continue
		}
		slog.Debug("adding import map entry", "name", entry.Name, "specifier", entry.Specifier)
		imports.SetString(entry.Name, entry.Specifier)
		added = true
	}

	if added {
		config.SetObject("imports", imports)
	}
	return added
}

// writeFile replaces the content of an existing file.
func writeFile(path string, data []byte) error {
	// #nosec G306 -- config files are meant to stay world-readable
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
