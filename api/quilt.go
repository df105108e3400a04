package api

import (
	"context"
	"strings"
)

func GetLatestQuiltLoaderVersion(ctx context.Context) (string, error) {
	var loaderVersions []Version
	if _, err := getJSON(ctx, QUILT_META_BASE+"/versions/loader", &loaderVersions); err != nil {
		return "", err
	}

	// quilt meta lists newest first and has no stable flag
	for _, v := range loaderVersions {
		if !strings.Contains(v.Version, "-") {
			return v.Version, nil
		}
	}
	return "", ErrVersionNotFound
}

func IsQuiltVersionSupported(ctx context.Context, version string) (bool, error) {
	var versions []Version
	if _, err := getJSON(ctx, QUILT_META_BASE+"/versions/game", &versions); err != nil {
		return false, err
	}

	for _, v := range versions {
		if v.Version == version {
			return true, nil
		}
	}
	return false, nil
}
