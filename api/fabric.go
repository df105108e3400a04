package api

import (
	"context"
)

type LoaderVersion struct {
	Version string
	Stable  bool
}

func GetLatestFabricLoaderVersion(ctx context.Context) (string, error) {
	var loaderVersions []LoaderVersion
	if _, err := getJSON(ctx, FABRIC_META_BASE+"/versions/loader", &loaderVersions); err != nil {
		return "", err
	}

	for _, loaderVersion := range loaderVersions {
		if loaderVersion.Stable {
			return loaderVersion.Version, nil
		}
	}
	return "", ErrVersionNotFound
}

// GetLatestInstaller returns the newest stable entry of an installer
// listing shaped like the fabric meta installer endpoint.
func GetLatestInstaller(ctx context.Context, url string) (Version, error) {
	var installerVersions []Version
	if _, err := getJSON(ctx, url, &installerVersions); err != nil {
		return Version{}, err
	}

	for _, installerVersion := range installerVersions {
		if installerVersion.Stable && installerVersion.Url != "" {
			return installerVersion, nil
		}
	}
	return Version{}, ErrVersionNotFound
}
