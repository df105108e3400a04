package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrnavastar/modlaunch/api"
	"github.com/mrnavastar/modlaunch/launcher"
	"github.com/mrnavastar/modlaunch/util"
	"github.com/mrnavastar/modlaunch/util/fileutils"
)

var (
	ErrProfileNotFound = errors.New("failed to find profile")
	ErrProfileExists   = errors.New("profile with that name already exists")

	// ErrInvalidProfileName is returned for names that are not a single path
	// element, and for stored profiles whose directory lies outside the
	// profiles dir.
	ErrInvalidProfileName = errors.New("invalid profile name")
)

// profilePath returns the directory of the named profile. The name must be
// a single element directly under the profiles dir.
func profilePath(state fileutils.State, name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidProfileName, name)
	}
	path := filepath.Join(state.ProfilesDir(), name)
	if !insideDir(state.ProfilesDir(), path) {
		return "", fmt.Errorf("%w: %q", ErrInvalidProfileName, name)
	}
	return path, nil
}

// insideDir reports whether path is strictly below root.
func insideDir(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// CreateProfile resolves "latest" versions, creates the profile directory and
// saves the new profile. An empty loader makes a vanilla profile.
func CreateProfile(ctx context.Context, state *fileutils.State, name string, version string, loader string, loaderVersion string) (util.Profile, error) {
	path, err := profilePath(*state, name)
	if err != nil {
		return util.Profile{}, err
	}
	if _, err := GetProfile(*state, name); err == nil {
		return util.Profile{}, ErrProfileExists
	}

	version, err = api.ResolveMcVersion(ctx, version)
	if err != nil {
		return util.Profile{}, err
	}

	profile := util.Profile{
		Name:    name,
		Path:    path,
		Version: version,
	}

	if loader != "" {
		kind, err := launcher.ParseModLoader(loader)
		if err != nil {
			return util.Profile{}, err
		}
		if loaderVersion == "" || loaderVersion == api.Latest {
			loaderVersion, err = api.GetLatestLoaderVersion(ctx, kind, version)
			if err != nil {
				return util.Profile{}, err
			}
		}
		profile.Loader = kind.String()
		profile.LoaderVersion = loaderVersion
	}

	if err := os.MkdirAll(profile.Path, 0o700); err != nil {
		return util.Profile{}, fmt.Errorf("create profile dir: %w", err)
	}

	now := time.Now().Format(time.RFC3339)
	profile.Created = now
	profile.LastUsed = now

	state.Profiles = append(state.Profiles, profile)
	return profile, fileutils.SaveAppState(*state)
}

func GetProfile(state fileutils.State, name string) (util.Profile, error) {
	for _, profile := range state.Profiles {
		if strings.EqualFold(profile.Name, name) {
			return profile, nil
		}
	}
	return util.Profile{}, ErrProfileNotFound
}

func GetActiveProfile(state fileutils.State) (util.Profile, error) {
	if state.ActiveProfile == "" {
		return util.Profile{}, fmt.Errorf("%w: no active profile", ErrProfileNotFound)
	}
	return GetProfile(state, state.ActiveProfile)
}

func SaveProfile(state *fileutils.State, profile util.Profile) error {
	for i, p := range state.Profiles {
		if strings.EqualFold(p.Name, profile.Name) {
			state.Profiles[i] = profile
			return fileutils.SaveAppState(*state)
		}
	}
	return ErrProfileNotFound
}

func DeleteProfile(state *fileutils.State, name string) error {
	for i, profile := range state.Profiles {
		if !strings.EqualFold(profile.Name, name) {
			continue
		}
		// the state file is user editable
		if !insideDir(state.ProfilesDir(), profile.Path) {
			return fmt.Errorf("%w: %s is outside %s", ErrInvalidProfileName, profile.Path, state.ProfilesDir())
		}
		if err := os.RemoveAll(profile.Path); err != nil {
			return fmt.Errorf("remove profile dir: %w", err)
		}
		if strings.EqualFold(state.ActiveProfile, profile.Name) {
			state.ActiveProfile = ""
		}
		state.Profiles = append(state.Profiles[:i], state.Profiles[i+1:]...)
		return fileutils.SaveAppState(*state)
	}
	return ErrProfileNotFound
}

func SetActiveProfile(state *fileutils.State, name string) error {
	if name != "" {
		profile, err := GetProfile(*state, name)
		if err != nil {
			return err
		}
		name = profile.Name
	}
	state.ActiveProfile = name
	return fileutils.SaveAppState(*state)
}

// Configuration converts a profile into the launcher's game configuration.
func Configuration(profile util.Profile) (launcher.GameConfiguration, error) {
	if profile.Loader == "" {
		return launcher.NewVanillaConfig(profile.Path, profile.Version, profile.JavaArgs...), nil
	}

	loader, err := launcher.ParseModLoader(profile.Loader)
	if err != nil {
		return nil, err
	}

	mods := make([]launcher.Mod, 0, len(profile.Mods))
	for _, mod := range profile.Mods {
		mods = append(mods, launcher.Mod{
			Name: mod.Filename,
			URL:  mod.Url,
			SHA1: mod.Sha1,
			Size: mod.Size,
		})
	}
	return launcher.NewModdedConfig(profile.Path, profile.Version, loader, profile.LoaderVersion, mods, profile.JavaArgs...), nil
}
