package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mrnavastar/modlaunch/api"
	"github.com/mrnavastar/modlaunch/launcher"
	"github.com/mrnavastar/modlaunch/util"
	"github.com/mrnavastar/modlaunch/util/fileutils"
	"golang.org/x/mod/semver"
)

var (
	ErrModAlreadyAdded = errors.New("mod already added")
	ErrModNotFound     = errors.New("no mod found")
	ErrVanillaProfile  = errors.New("vanilla profiles cannot hold mods")
)

// AddMod adds a mod to the profile. arg is a path to a local jar, a
// Modrinth slug, or a search query. Callers must save the profile
// afterwards so several mods can be batched into one write.
func AddMod(ctx context.Context, profile *util.Profile, arg string) (util.ModData, error) {
	if profile.Loader == "" {
		return util.ModData{}, ErrVanillaProfile
	}

	if strings.HasSuffix(arg, ".jar") {
		if _, err := os.Stat(arg); err == nil {
			return AddLocalMod(profile, arg)
		}
	}

	modData, err := api.GetModrinthModData(ctx, arg, profile.Version, profile.Loader)
	if err != nil {
		slug, searchErr := api.SearchModrinth(ctx, arg, profile.Loader)
		if searchErr != nil {
			return util.ModData{}, fmt.Errorf("%w: %s", ErrModNotFound, arg)
		}
		if modData, err = api.GetModrinthModData(ctx, slug, profile.Version, profile.Loader); err != nil {
			return util.ModData{}, err
		}
	}

	return modData, addModData(profile, modData)
}

// AddLocalMod adds a jar from disk, reading its metadata from fabric.mod.json
// when present.
func AddLocalMod(profile *util.Profile, path string) (util.ModData, error) {
	if profile.Loader == "" {
		return util.ModData{}, ErrVanillaProfile
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return util.ModData{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return util.ModData{}, err
	}
	sum, err := fileutils.FileSHA1(abs)
	if err != nil {
		return util.ModData{}, err
	}

	filename := filepath.Base(abs)
	modData := util.ModData{
		Platform: "local",
		Name:     strings.TrimSuffix(filename, ".jar"),
		Id:       sum,
		Url:      (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(),
		Filename: filename,
		Sha1:     sum,
		Size:     info.Size(),
	}

	modJson, err := fileutils.GetModJsonFromJar(abs)
	switch {
	case err == nil:
		if modJson.Name != "" {
			modData.Name = modJson.Name
		}
		modData.Slug = modJson.Id
		modData.Version = modJson.Version
	case !errors.Is(err, fileutils.ErrNoModJson):
		return util.ModData{}, err
	}

	return modData, addModData(profile, modData)
}

func addModData(profile *util.Profile, modData util.ModData) error {
	for _, mod := range profile.Mods {
		if strings.EqualFold(mod.Name, modData.Name) || mod.Filename == modData.Filename {
			return ErrModAlreadyAdded
		}
	}
	profile.Mods = append(profile.Mods, modData)
	return nil
}

// RemoveMod drops a mod by id, slug or name and deletes its installed file.
// Callers must save the profile afterwards.
func RemoveMod(profile *util.Profile, mod string) (util.ModData, error) {
	for i, m := range profile.Mods {
		if m.Id != mod && !strings.EqualFold(m.Slug, mod) && !strings.EqualFold(m.Name, mod) {
			continue
		}
		err := os.Remove(filepath.Join(profile.Path, "mods", m.Filename))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return util.ModData{}, err
		}
		profile.Mods = append(profile.Mods[:i], profile.Mods[i+1:]...)
		return m, nil
	}
	return util.ModData{}, fmt.Errorf("%w: %s", ErrModNotFound, mod)
}

// newerVersion reports whether latest is newer than current. Versions that
// are not semver only count as newer when they differ.
func newerVersion(current, latest string) bool {
	cv, lv := "v"+current, "v"+latest
	if semver.IsValid(cv) && semver.IsValid(lv) {
		return semver.Compare(cv, lv) < 0
	}
	return current != latest
}

// UpdateProfile moves the loader and Modrinth mods of a profile to their
// newest builds for its game version and returns what changed.
func UpdateProfile(ctx context.Context, state *fileutils.State, name string) ([]string, error) {
	profile, err := GetProfile(*state, name)
	if err != nil {
		return nil, err
	}
	if profile.Loader == "" {
		return nil, nil
	}
	profile.Mods = slices.Clone(profile.Mods)

	loader, err := launcher.ParseModLoader(profile.Loader)
	if err != nil {
		return nil, err
	}

	var changes []string
	latest, err := api.GetLatestLoaderVersion(ctx, loader, profile.Version)
	if err != nil {
		return nil, err
	}
	if newerVersion(profile.LoaderVersion, latest) {
		changes = append(changes, fmt.Sprintf("%s %s -> %s", profile.Loader, profile.LoaderVersion, latest))
		profile.LoaderVersion = latest
	}

	for i, mod := range profile.Mods {
		if mod.Platform != "modrinth" {
			continue
		}
		modData, err := api.GetModrinthModData(ctx, mod.Slug, profile.Version, profile.Loader)
		if err != nil {
			return nil, err
		}
		if modData.Id != mod.Id {
			changes = append(changes, fmt.Sprintf("%s %s -> %s", mod.Name, mod.Version, modData.Version))
			profile.Mods[i] = modData
		}
	}

	if len(changes) == 0 {
		return nil, nil
	}
	return changes, SaveProfile(state, profile)
}
