package api

import (
	"context"
	"fmt"

	"github.com/mrnavastar/modlaunch/launcher"
)

// Latest is the version placeholder resolved against the metadata APIs.
const Latest = "latest"

// ResolveMcVersion turns "latest" into the current release and checks that
// any other id exists.
func ResolveMcVersion(ctx context.Context, version string) (string, error) {
	if version == "" || version == Latest {
		return GetLatestMcVersion(ctx)
	}
	ok, err := HasMcVersion(ctx, version)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: minecraft %s", ErrVersionNotFound, version)
	}
	return version, nil
}

// GetLatestLoaderVersion returns the newest usable build of loader for the
// given game version.
func GetLatestLoaderVersion(ctx context.Context, loader launcher.ModLoader, gameVersion string) (string, error) {
	switch loader {
	case launcher.Forge:
		return GetLatestForgeVersion(ctx, gameVersion)
	case launcher.NeoForge:
		return GetLatestNeoForgeVersion(ctx, gameVersion)
	case launcher.Fabric:
		return GetLatestFabricLoaderVersion(ctx)
	case launcher.Quilt:
		return GetLatestQuiltLoaderVersion(ctx)
	}
	return "", fmt.Errorf("%w: %s", launcher.ErrUnknownModLoader, loader)
}
