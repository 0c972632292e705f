package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kt-tools/css-ts-setup/internal/install"
	"github.com/kt-tools/css-ts-setup/internal/model"
)

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "no-install", envKey("CSS_TS_SETUP_NO_INSTALL"))
	assert.Equal(t, "mode", envKey("CSS_TS_SETUP_MODE"))
	assert.Equal(t, "log-level", envKey("CSS_TS_SETUP_LOG_LEVEL"))
}

func TestConfigFile_ModeAndNoInstall(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{}`)
	writeFile(t, dir, configFileName, "mode: deno\nno-install: true\n")
	runner := &recordingRunner{}

	out, err := execute(t, runner, "--cwd", dir, "--descriptor", noDescriptor(t))
	require.NoError(t, err)

	assert.Contains(t, out, "- No deno.json/deno.jsonc found. Skipped Deno import map updates.\n")
	assert.Empty(t, runner.calls)
	assert.Equal(t, `{}`, readFile(t, filepath.Join(dir, "package.json")))
}

func TestConfigFile_FlagOverridesMode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{}`)
	writeFile(t, dir, configFileName, "mode: deno\n")

	out, err := execute(t, nil, "--npm", "--no-install", "--cwd", dir, "--descriptor", noDescriptor(t))
	require.NoError(t, err)
	assert.Contains(t, out, "- Added @kt-tools/css-ts to dependencies in package.json.\n")
}

func TestConfigFile_Explicit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deno.json", `{}`)
	config := writeFile(t, t.TempDir(), "settings.yaml", "output: json\nno-install: true\n")

	out, err := execute(t, nil, "--cwd", dir, "--config", config, "--descriptor", noDescriptor(t))
	require.NoError(t, err)
	assert.Contains(t, out, `"mode": "deno"`)
}

func TestConfigFile_ExplicitMissing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{}`)

	_, err := execute(t, nil, "--cwd", dir, "--config", filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, model.ExitGeneralError, exitCode(err))
}

func TestConfigFile_InvalidMode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{}`)
	writeFile(t, dir, configFileName, "mode: bun\n")

	_, err := execute(t, nil, "--cwd", dir)
	require.Error(t, err)
	assert.Equal(t, model.ExitGeneralError, exitCode(err))
}

func TestEnvironment_Mode(t *testing.T) {
	t.Setenv("CSS_TS_SETUP_MODE", "deno")
	t.Setenv("CSS_TS_SETUP_NO_INSTALL", "true")

	dir := t.TempDir()
	runner := &recordingRunner{}

	out, err := execute(t, runner, "--cwd", dir, "--descriptor", noDescriptor(t))
	require.NoError(t, err, "the environment resolves an otherwise undetermined mode")
	assert.Contains(t, out, "Skipped Deno import map updates.")
	assert.Empty(t, runner.calls)
}

func TestEnvironment_OverridesConfigFile(t *testing.T) {
	t.Setenv("CSS_TS_SETUP_OUTPUT", "yaml")

	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{}`)
	writeFile(t, dir, configFileName, "output: json\nno-install: true\n")

	out, err := execute(t, nil, "--cwd", dir, "--descriptor", noDescriptor(t))
	require.NoError(t, err)
	assert.Contains(t, out, "mode: npm\n")
}

func TestEnvironment_FlagWins(t *testing.T) {
	t.Setenv("CSS_TS_SETUP_OUTPUT", "yaml")

	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{}`)

	out, err := execute(t, nil, "--no-install", "--cwd", dir, "--descriptor", noDescriptor(t), "--output", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "css-ts setup complete")
}

func TestNewLogHandler(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	h, err := newLogHandler(&buf, "", false)
	require.NoError(t, err)
	assert.True(t, h.Enabled(ctx, slog.LevelWarn))
	assert.False(t, h.Enabled(ctx, slog.LevelInfo), "default level is warn")

	h, err = newLogHandler(&buf, "error", true)
	require.NoError(t, err)
	assert.True(t, h.Enabled(ctx, slog.LevelDebug), "verbose forces debug")

	h, err = newLogHandler(&buf, "INFO", false)
	require.NoError(t, err)
	assert.True(t, h.Enabled(ctx, slog.LevelInfo))

	_, err = newLogHandler(&buf, "chatty", false)
	assert.Error(t, err)
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	_, err := execute(t, nil, "--cwd", t.TempDir(), "--log-level", "chatty")
	require.Error(t, err)
	assert.Equal(t, model.ExitGeneralError, exitCode(err))
}

func TestFormatTextReport(t *testing.T) {
	report := &model.Report{
		Summary:  []string{"one", "two"},
		Warnings: []string{"careful"},
	}
	assert.Equal(t, "\ncss-ts setup complete\n- one\n- two\n\nWarnings\n- careful\n", formatTextReport(report, false))

	assert.Equal(t, "\ncss-ts setup complete\n", formatTextReport(&model.Report{}, false))

	colored := formatTextReport(report, true)
	assert.Contains(t, colored, "css-ts setup complete")
	assert.Contains(t, colored, "careful")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, OutputText, "failed to update project files", errors.New("permission denied"))
	assert.Equal(t, "Error: failed to update project files: permission denied\n", buf.String())

	buf.Reset()
	printError(&buf, OutputYAML, "Choose either --deno or --npm, not both.", nil)
	assert.Equal(t, "Error: Choose either --deno or --npm, not both.\n", buf.String())

	buf.Reset()
	printError(&buf, OutputJSON, "bad", errors.New("detail"))
	assert.JSONEq(t, `{"error": {"message": "bad", "detail": "detail"}}`, buf.String())
}

func TestRun_ErrorUsesConfiguredOutputFormat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, configFileName, "output: json\n")

	cmd := newRootCommand(install.NewInstaller(&recordingRunner{}))
	var stderr bytes.Buffer
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--cwd", dir})

	code := run(cmd, &stderr)
	assert.Equal(t, model.ExitModeUndetermined, code)
	assert.JSONEq(t, `{"error": {"message": "Could not determine project type (no package.json or deno.json found). Use --npm or --deno."}}`, stderr.String())
}

func TestRun_ErrorUsesEnvironmentOutputFormat(t *testing.T) {
	t.Setenv("CSS_TS_SETUP_OUTPUT", "json")

	cmd := newRootCommand(install.NewInstaller(&recordingRunner{}))
	var stderr bytes.Buffer
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--deno", "--npm", "--cwd", t.TempDir()})

	code := run(cmd, &stderr)
	assert.Equal(t, model.ExitConflictingModes, code)
	assert.JSONEq(t, `{"error": {"message": "Choose either --deno or --npm, not both."}}`, stderr.String())
}

func TestRun_ErrorAsText(t *testing.T) {
	cmd := newRootCommand(install.NewInstaller(&recordingRunner{}))
	var stderr bytes.Buffer
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--cwd", t.TempDir()})

	code := run(cmd, &stderr)
	assert.Equal(t, model.ExitModeUndetermined, code)
	assert.Equal(t, "Error: Could not determine project type (no package.json or deno.json found). Use --npm or --deno.\n", stderr.String())
}

func TestEnvironment_FlagBeatsEnvironmentMode(t *testing.T) {
	t.Setenv("CSS_TS_SETUP_DENO", "true")

	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{}`)

	out, err := execute(t, nil, "--npm", "--no-install", "--cwd", dir, "--descriptor", noDescriptor(t))
	require.NoError(t, err)
	assert.Contains(t, out, "- Added @kt-tools/css-ts to dependencies in package.json.\n")
}

func TestEnvironment_BothModesConflict(t *testing.T) {
	t.Setenv("CSS_TS_SETUP_DENO", "true")
	t.Setenv("CSS_TS_SETUP_NPM", "true")

	_, err := execute(t, nil, "--cwd", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, model.ExitConflictingModes, exitCode(err))
	assert.Contains(t, err.Error(), "CSS_TS_SETUP_DENO")
}
