package launcher

import "slices"

// Mod describes one mod file for the update engine. The launcher never
// looks inside it.
type Mod struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	SHA1 string `json:"sha1"`
	Size int64  `json:"size"`
}

// GameConfiguration describes what to install and launch. It is implemented
// by VanillaConfig and ModdedConfig only.
type GameConfiguration interface {
	// Dir is the install directory. Its existence is not checked here.
	Dir() string
	// BaseVersion identifies the unmodified game release.
	BaseVersion() string
	// ExtraArgs are passed verbatim to the game process.
	ExtraArgs() []string

	gameConfiguration()
}

type baseConfig struct {
	dir       string
	version   string
	extraArgs []string
}

func (c baseConfig) Dir() string         { return c.dir }
func (c baseConfig) BaseVersion() string { return c.version }
func (c baseConfig) ExtraArgs() []string { return slices.Clone(c.extraArgs) }
func (baseConfig) gameConfiguration()    {}

// VanillaConfig is a plain game install.
type VanillaConfig struct {
	baseConfig
}

// NewVanillaConfig builds an immutable vanilla configuration.
func NewVanillaConfig(dir, version string, extraArgs ...string) VanillaConfig {
	return VanillaConfig{baseConfig{
		dir:       dir,
		version:   version,
		extraArgs: slices.Clone(extraArgs),
	}}
}

// ModdedConfig is a game install with a mod loader and a set of mods on top.
type ModdedConfig struct {
	baseConfig
	loader        ModLoader
	loaderVersion string
	mods          []Mod
}

// NewModdedConfig builds an immutable modded configuration. Mods keep the
// given order.
func NewModdedConfig(
	dir, version string,
	loader ModLoader,
	loaderVersion string,
	mods []Mod,
	extraArgs ...string,
) ModdedConfig {
	return ModdedConfig{
		baseConfig: baseConfig{
			dir:       dir,
			version:   version,
			extraArgs: slices.Clone(extraArgs),
		},
		loader:        loader,
		loaderVersion: loaderVersion,
		mods:          slices.Clone(mods),
	}
}

func (c ModdedConfig) Loader() ModLoader     { return c.loader }
func (c ModdedConfig) LoaderVersion() string { return c.loaderVersion }
func (c ModdedConfig) Mods() []Mod           { return slices.Clone(c.mods) }
