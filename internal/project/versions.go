package project

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// PackageName is the package css-ts-setup installs and configures.
const PackageName = "@kt-tools/css-ts"

// JSRNPMName is PackageName as published through JSR's npm compatibility
// registry. Vite needs it as an alias target in Deno projects.
const JSRNPMName = "@jsr/kt-tools__css-ts"

// Version ranges of the SvelteKit stack written into Deno import maps.
const (
	KitVersion              = "^2.50.2"
	VitePluginSvelteVersion = "^6.2.4"
	SvelteVersion           = "^5.49.2"
	ViteVersion             = "^7.3.1"
)

// ImportEntry is one bare-specifier mapping of a Deno import map.
type ImportEntry struct {
	Name      string
	Specifier string
}

// RequiredImports returns the import-map entries a Deno project needs, in
// the order they are added. selfSpecifier is the specifier for PackageName,
// usually VersionLookup.Specifier().
func RequiredImports(selfSpecifier string) []ImportEntry {
	return []ImportEntry{
		{Name: PackageName, Specifier: selfSpecifier},
		{Name: "@sveltejs/kit", Specifier: "npm:@sveltejs/kit@" + KitVersion},
		{Name: "@sveltejs/vite-plugin-svelte", Specifier: "npm:@sveltejs/vite-plugin-svelte@" + VitePluginSvelteVersion},
		{Name: "svelte", Specifier: "npm:svelte@" + SvelteVersion},
		{Name: "vite", Specifier: "npm:vite@" + ViteVersion},
	}
}

// LookupStatus classifies the outcome of reading the tool's own descriptor.
type LookupStatus string

const (
	// LookupFound means the descriptor carried a non-empty string version.
	LookupFound LookupStatus = "found"

	// LookupNoVersion means the descriptor parsed but its version field was
	// missing, empty, or not a string.
	LookupNoVersion LookupStatus = "no-version"

	// LookupAbsent means the descriptor could not be read.
	LookupAbsent LookupStatus = "absent"

	// LookupInvalid means the descriptor was read but is not a JSON object.
	LookupInvalid LookupStatus = "invalid"
)

// VersionLookup is the result of LookupSelfVersion.
type VersionLookup struct {
	Status  LookupStatus
	Version string
}

// Specifier returns the npm specifier for PackageName. Only a found version
// is pinned; every other status falls back to the unversioned specifier.
func (l VersionLookup) Specifier() string {
	if l.Status == LookupFound && l.Version != "" {
		return "npm:" + JSRNPMName + "@^" + l.Version
	}
	return "npm:" + JSRNPMName
}

// LookupSelfVersion reads the "version" field of the descriptor at path.
// It never fails; problems are reported through the returned status.
func LookupSelfVersion(path string) VersionLookup {
	if path == "" {
		return VersionLookup{Status: LookupAbsent}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// Unreadable counts as absent; there is nothing usable either way.
		return VersionLookup{Status: LookupAbsent}
	}

	var descriptor map[string]any
	if err := json.Unmarshal(data, &descriptor); err != nil || descriptor == nil {
		return VersionLookup{Status: LookupInvalid}
	}

	version, ok := descriptor["version"].(string)
	if !ok || version == "" {
		return VersionLookup{Status: LookupNoVersion}
	}
	return VersionLookup{Status: LookupFound, Version: version}
}

// DefaultDescriptorPath returns the descriptor that ships next to the tool:
// deno.json one directory above the directory holding the executable. It
// returns "" when the executable path cannot be determined.
func DefaultDescriptorPath() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(filepath.Dir(exe)), "deno.json")
}
