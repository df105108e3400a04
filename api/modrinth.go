package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mrnavastar/modlaunch/util"
)

type modrinthProject struct {
	Id    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type modrinthFile struct {
	Url      string `json:"url"`
	Filename string `json:"filename"`
	Primary  bool   `json:"primary"`
	Size     int64  `json:"size"`
	Hashes   struct {
		Sha1 string `json:"sha1"`
	} `json:"hashes"`
}

type modrinthVersion struct {
	Id            string         `json:"id"`
	VersionNumber string         `json:"version_number"`
	GameVersions  []string       `json:"game_versions"`
	Loaders       []string       `json:"loaders"`
	Files         []modrinthFile `json:"files"`
}

func (v modrinthVersion) primaryFile() (modrinthFile, bool) {
	for _, f := range v.Files {
		if f.Primary {
			return f, true
		}
	}
	if len(v.Files) > 0 {
		return v.Files[0], true
	}
	return modrinthFile{}, false
}

// GetModrinthModData returns the newest version of a project that supports
// both the game version and the loader.
func GetModrinthModData(ctx context.Context, slug string, gameVersion string, loader string) (util.ModData, error) {
	var project modrinthProject
	if _, err := getJSON(ctx, MODRINTH_API_BASE+"/project/"+url.PathEscape(slug), &project); err != nil {
		return util.ModData{}, err
	}

	var versions []modrinthVersion
	if _, err := getJSON(ctx, MODRINTH_API_BASE+"/project/"+url.PathEscape(slug)+"/version", &versions); err != nil {
		return util.ModData{}, err
	}

	for _, modVersion := range versions {
		if !util.Contains(modVersion.Loaders, loader) || !util.Contains(modVersion.GameVersions, gameVersion) {
			continue
		}
		file, ok := modVersion.primaryFile()
		if !ok {
			continue
		}
		return util.ModData{
			Platform: "modrinth",
			Slug:     project.Slug,
			Name:     project.Title,
			Id:       modVersion.Id,
			Version:  modVersion.VersionNumber,
			Url:      file.Url,
			Filename: file.Filename,
			Sha1:     file.Hashes.Sha1,
			Size:     file.Size,
		}, nil
	}
	return util.ModData{}, fmt.Errorf("%w: %s for %s %s", ErrVersionNotFound, slug, loader, gameVersion)
}

type searchResult struct {
	Hits []struct {
		Slug       string   `json:"slug"`
		Categories []string `json:"categories"`
	} `json:"hits"`
}

// SearchModrinth returns the slug of the first hit that supports loader.
func SearchModrinth(ctx context.Context, query string, loader string) (string, error) {
	var search searchResult
	endpoint := MODRINTH_API_BASE + "/search?query=" + url.QueryEscape(query)
	if _, err := getJSON(ctx, endpoint, &search); err != nil {
		return "", err
	}

	for _, hit := range search.Hits {
		if util.Contains(hit.Categories, loader) {
			return hit.Slug, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrModNotFound, query)
}
