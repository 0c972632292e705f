package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/kt-tools/css-ts-setup/internal/install"
	"github.com/kt-tools/css-ts-setup/internal/model"
	"github.com/kt-tools/css-ts-setup/internal/mutate"
	"github.com/kt-tools/css-ts-setup/internal/project"
)

// mutator edits one config file of the project.
type mutator func() (model.MutationResult, error)

// runSetup configures the project described by s and prints the report to
// out.
//
// Mutators run in a fixed order: the dependency file (deno.json or
// package.json) first, then the Vite config. A mutator that fails with an
// I/O error does not stop the others; the errors are returned together
// after the report has been printed, and the install step is skipped.
func runSetup(ctx context.Context, out io.Writer, s *Settings, installer *install.Installer) error {
	mode := project.ResolveMode(s.Root, s.Mode)
	if !mode.IsValid() {
		return model.NewCLIError(model.ExitModeUndetermined,
			"Could not determine project type (no package.json or deno.json found). Use --npm or --deno.")
	}
	slog.Debug("resolved project mode", "mode", mode, "root", s.Root, "requested", s.Mode)

	lookup := project.LookupSelfVersion(s.Descriptor)
	selfSpecifier := lookup.Specifier()
	slog.Debug("resolved self specifier", "descriptor", s.Descriptor, "status", lookup.Status, "specifier", selfSpecifier)

	var steps []mutator
	if mode == model.ModeDeno {
		steps = []mutator{
			func() (model.MutationResult, error) { return mutate.DenoConfig(s.Root, selfSpecifier) },
			func() (model.MutationResult, error) { return mutate.ViteConfig(s.Root, true) },
		}
	} else {
		steps = []mutator{
			func() (model.MutationResult, error) { return mutate.PackageManifest(s.Root, selfSpecifier) },
			func() (model.MutationResult, error) { return mutate.ViteConfig(s.Root, false) },
		}
	}

	report := &model.Report{
		Mode:     mode,
		Root:     s.Root,
		Summary:  []string{},
		Warnings: []string{},
	}

	var merr error
	for _, step := range steps {
		result, err := step()
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		report.Add(result)
	}

	switch {
	case s.NoInstall:
		slog.Debug("skipping installation", "reason", "no-install")
	case merr != nil:
		slog.Warn("skipping installation after file errors")
	default:
		if note, ok := installer.Install(ctx, s.Root, mode); ok {
			report.Installed = true
			report.Summary = append(report.Summary, note)
		}
	}

	if err := printReport(out, report, s.Output); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to write report", err)
	}

	if merr != nil {
		return model.WrapCLIError(model.ExitFileAccess, "failed to update project files", merr)
	}
	return nil
}
