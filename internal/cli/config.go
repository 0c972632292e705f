package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/kt-tools/css-ts-setup/internal/model"
	"github.com/kt-tools/css-ts-setup/internal/project"
)

const (
	// envPrefix is the prefix of environment variables read as settings.
	// CSS_TS_SETUP_NO_INSTALL maps to the no-install key.
	envPrefix = "CSS_TS_SETUP_"

	// configFileName is looked up in the project directory when --config
	// is not given.
	configFileName = ".css-ts-setup.yaml"
)

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Settings is the fully resolved configuration of one run.
type Settings struct {
	// Root is the absolute project directory.
	Root string

	// Mode is the requested project mode. ModeUndetermined means
	// auto-detect from the files in Root.
	Mode model.ProjectMode

	// NoInstall skips the package manager invocation.
	NoInstall bool

	// Output is one of OutputText, OutputJSON, OutputYAML.
	Output string

	// Descriptor is the tool descriptor read for the self-version lookup.
	Descriptor string

	// LogLevel is the slog level name. Verbose forces debug.
	LogLevel string
	Verbose  bool
}

// loadSettings layers flag defaults, the YAML config file, CSS_TS_SETUP_*
// environment variables and explicitly set flags, in increasing order of
// precedence. It must be called after cobra has parsed the flags.
func loadSettings(cmd *cobra.Command) (*Settings, error) {
	k := koanf.New(".")

	configPath, explicit := resolveConfigPath(cmd)

	// 1. Config file. A missing default file is fine, a missing explicit one
	// is not.
	if _, statErr := os.Stat(configPath); statErr == nil || explicit {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to load config file %s", configPath), err)
		}
	}

	// 2. Environment variables.
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to load environment variables", err)
	}

	// 3. Flags. posflag only overwrites existing keys with flags that were
	// set on the command line; unset flags contribute their defaults for
	// keys nothing else provided.
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to load command flags", err)
	}

	setErrorFormat(cmd, k.String("output"))

	return buildSettings(cmd, k)
}

// envKey turns CSS_TS_SETUP_LOG_LEVEL into log-level.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", "-")
}

// resolveConfigPath returns the config file to read and whether the user
// named it explicitly.
func resolveConfigPath(cmd *cobra.Command) (string, bool) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, true
	}
	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		return path, true
	}

	dir, _ := cmd.Flags().GetString("cwd")
	if dir == "" {
		dir = os.Getenv(envPrefix + "CWD")
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, configFileName), false
}

func buildSettings(cmd *cobra.Command, k *koanf.Koanf) (*Settings, error) {
	mode, err := requestedMode(cmd, k)
	if err != nil {
		return nil, err
	}

	root, err := resolveRoot(k.String("cwd"))
	if err != nil {
		return nil, err
	}

	output := strings.ToLower(strings.TrimSpace(k.String("output")))
	switch output {
	case "":
		output = OutputText
	case OutputText, OutputJSON, OutputYAML:
	default:
		return nil, model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("invalid output format %q: valid values are text, json, yaml", output))
	}

	descriptor := k.String("descriptor")
	if descriptor == "" {
		descriptor = project.DefaultDescriptorPath()
	}

	return &Settings{
		Root:       root,
		Mode:       mode,
		NoInstall:  k.Bool("no-install"),
		Output:     output,
		Descriptor: descriptor,
		LogLevel:   k.String("log-level"),
		Verbose:    k.Bool("verbose"),
	}, nil
}

// requestedMode combines --deno, --npm and the mode key. Flags typed on the
// command line win over deno/npm values from the environment or the config
// file, and any of them wins over mode. Asking for both modes is an error.
func requestedMode(cmd *cobra.Command, k *koanf.Koanf) (model.ProjectMode, error) {
	flagDeno, flagNPM := flagSet(cmd, "deno"), flagSet(cmd, "npm")
	switch {
	case flagDeno && flagNPM:
		return model.ModeUndetermined, model.NewCLIError(model.ExitConflictingModes,
			"Choose either --deno or --npm, not both.")
	case flagDeno:
		return model.ModeDeno, nil
	case flagNPM:
		return model.ModeNPM, nil
	}

	deno, npm := k.Bool("deno"), k.Bool("npm")
	switch {
	case deno && npm:
		return model.ModeUndetermined, model.NewCLIError(model.ExitConflictingModes,
			"Choose either deno or npm, not both (set through "+envPrefix+"DENO/"+envPrefix+"NPM or the config file).")
	case deno:
		return model.ModeDeno, nil
	case npm:
		return model.ModeNPM, nil
	}

	mode, err := model.ParseProjectMode(k.String("mode"))
	if err != nil {
		return model.ModeUndetermined, model.WrapCLIError(model.ExitGeneralError, "invalid configuration", err)
	}
	return mode, nil
}

// flagSet reports whether a boolean flag was given on the command line and
// is true.
func flagSet(cmd *cobra.Command, name string) bool {
	if !cmd.Flags().Changed(name) {
		return false
	}
	v, _ := cmd.Flags().GetBool(name)
	return v
}

// resolveRoot makes dir absolute and checks that it is a directory.
func resolveRoot(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to resolve project directory %s", dir), err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", model.WrapCLIError(model.ExitFileAccess,
			fmt.Sprintf("cannot access project directory %s", abs), err)
	}
	if !info.IsDir() {
		return "", model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("project directory %s is not a directory", abs))
	}
	return abs, nil
}
