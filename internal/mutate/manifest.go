package mutate

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kt-tools/css-ts-setup/internal/jsonfile"
	"github.com/kt-tools/css-ts-setup/internal/model"
	"github.com/kt-tools/css-ts-setup/internal/project"
)

// PackageManifest adds @kt-tools/css-ts to the "dependencies" of root's
// package.json, using selfSpecifier as its version. An existing entry is
// never changed, whatever version it names.
//
// package.json is parsed as strict JSON; manifests do not carry comments.
func PackageManifest(root, selfSpecifier string) (model.MutationResult, error) {
	var result model.MutationResult

	path, ok := project.FindFirst(root, []string{project.ManifestFile})
	if !ok {
		result.Warn("No package.json found. Skipped npm dependency updates.")
		return result, nil
	}
	slog.Debug("found package manifest", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("failed to read package.json: %w", err)
	}

	pkg, err := jsonfile.ParseObject(data)
	if err != nil {
		slog.Debug("could not parse package manifest", "path", path, "err", err)
		result.Warn("Failed to parse package.json. Skipped dependency updates.")
		return result, nil
	}

	deps, _ := pkg.EnsureObject("dependencies")
	if deps.Has(project.PackageName) {
		slog.Debug("dependency already present", "name", project.PackageName)
		return result, nil
	}

	deps.SetString(project.PackageName, selfSpecifier)
	pkg.SetObject("dependencies", deps)

	out, err := jsonfile.Marshal(pkg)
	if err != nil {
		return result, fmt.Errorf("failed to serialize package.json: %w", err)
	}
	if err := writeFile(path, out); err != nil {
		return result, err
	}

	result.Changed = true
	result.Note("Added %s to dependencies in package.json.", project.PackageName)
	return result, nil
}
