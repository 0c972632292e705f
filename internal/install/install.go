package install

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kt-tools/css-ts-setup/internal/model"
	"github.com/kt-tools/css-ts-setup/internal/project"
)

// PackageManager identifies the npm-compatible client a project uses.
type PackageManager string

const (
	PNPM PackageManager = "pnpm"
	Yarn PackageManager = "yarn"
	Bun  PackageManager = "bun"
	NPM  PackageManager = "npm"
)

// lockFiles maps lock files to their package manager, in detection order.
var lockFiles = []struct {
	name    string
	manager PackageManager
}{
	{"pnpm-lock.yaml", PNPM},
	{"yarn.lock", Yarn},
	{"bun.lockb", Bun},
}

// DetectPackageManager picks the package manager from the lock file present
// in root. pnpm wins over yarn, yarn over bun; without a lock file it is npm.
func DetectPackageManager(root string) PackageManager {
	for _, lf := range lockFiles {
		if _, err := os.Stat(filepath.Join(root, lf.name)); err == nil {
			return lf.manager
		}
	}
	return NPM
}

// PackageAddCommand returns the jsr CLI invocation that adds the package
// with the given package manager.
func PackageAddCommand(pm PackageManager) []string {
	return []string{"npx", "--yes", "jsr", "add", "--" + string(pm), project.PackageName}
}

// DenoAddCommand returns the deno invocation that adds the package from JSR.
func DenoAddCommand() []string {
	return []string{"deno", "add", "jsr:" + project.PackageName}
}

// Runner executes an external command in a directory.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands with os/exec. Standard output and standard error
// go to the null device.
type ExecRunner struct{}

// Run starts the command and waits for it. A non-zero exit status is
// returned as an *exec.ExitError.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	// #nosec G204 -- commands are built from fixed arguments
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Run()
}

// Installer adds @kt-tools/css-ts to a project by shelling out.
type Installer struct {
	runner Runner
}

// NewInstaller creates an Installer. A nil runner means ExecRunner.
func NewInstaller(runner Runner) *Installer {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Installer{runner: runner}
}

// Install runs the install command for mode in root. It returns the summary
// line to report and whether installation succeeded.
func (i *Installer) Install(ctx context.Context, root string, mode model.ProjectMode) (string, bool) {
	if mode == model.ModeDeno {
		if i.DenoAdd(ctx, root) {
			return "Installed " + project.PackageName + " via deno add.", true
		}
		return "", false
	}

	if i.PackageInstall(ctx, root) {
		return "Installed " + project.PackageName + " via jsr add.", true
	}
	return "", false
}

// PackageInstall adds the package with the package manager detected in
// root. It does nothing and returns false when root has no package.json.
func (i *Installer) PackageInstall(ctx context.Context, root string) bool {
	if _, err := os.Stat(filepath.Join(root, project.ManifestFile)); err != nil {
		slog.Debug("skipping package install, no package.json", "root", root)
		return false
	}

	pm := DetectPackageManager(root)
	slog.Debug("detected package manager", "manager", pm)
	return i.run(ctx, root, PackageAddCommand(pm))
}

// DenoAdd adds the package with deno add. Lock files are not consulted.
func (i *Installer) DenoAdd(ctx context.Context, root string) bool {
	return i.run(ctx, root, DenoAddCommand())
}

func (i *Installer) run(ctx context.Context, root string, command []string) bool {
	slog.Debug("running install command", "command", strings.Join(command, " "), "dir", root)
	if err := i.runner.Run(ctx, root, command[0], command[1:]...); err != nil {
		slog.Debug("install command failed", "command", strings.Join(command, " "), "err", err)
		return false
	}
	return true
}
