package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/buger/jsonparser"
)

// GetLatestForgeVersion returns the recommended Forge build for a game
// version, falling back to the latest one.
func GetLatestForgeVersion(ctx context.Context, gameVersion string) (string, error) {
	body, err := getJSON(ctx, FORGE_PROMOTIONS_URL, nil)
	if err != nil {
		return "", err
	}

	for _, promo := range []string{"recommended", "latest"} {
		if v, err := jsonparser.GetString(body, "promos", gameVersion+"-"+promo); err == nil && v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: forge for %s", ErrVersionNotFound, gameVersion)
}

// neoForgePrefix maps a game version to the NeoForge version line, which
// drops the leading "1.": 1.21.1 -> 21.1., 1.21 -> 21.0.
func neoForgePrefix(gameVersion string) (string, error) {
	parts := strings.Split(gameVersion, ".")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "1" {
		return "", fmt.Errorf("%w: neoforge for %s", ErrVersionNotFound, gameVersion)
	}
	minor := "0"
	if len(parts) == 3 {
		minor = parts[2]
	}
	return parts[1] + "." + minor + ".", nil
}

func GetLatestNeoForgeVersion(ctx context.Context, gameVersion string) (string, error) {
	prefix, err := neoForgePrefix(gameVersion)
	if err != nil {
		return "", err
	}

	endpoint := NEOFORGE_MAVEN_BASE + "/latest/version/releases/net/neoforged/neoforge?filter=" + url.QueryEscape(prefix)
	body, err := getJSON(ctx, endpoint, nil)
	if err != nil {
		return "", err
	}

	v, err := jsonparser.GetString(body, "version")
	if err != nil || !strings.HasPrefix(v, prefix) {
		return "", fmt.Errorf("%w: neoforge for %s", ErrVersionNotFound, gameVersion)
	}
	return v, nil
}
