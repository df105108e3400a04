package api

import (
	"context"
	"fmt"

	"github.com/buger/jsonparser"
)

func GetLatestMcVersion(ctx context.Context) (string, error) {
	body, err := getJSON(ctx, MOJANG_MANIFEST_URL, nil)
	if err != nil {
		return "", err
	}
	release, err := jsonparser.GetString(body, "latest", "release")
	if err != nil {
		return "", fmt.Errorf("read latest release: %w", err)
	}
	return release, nil
}

// HasMcVersion reports whether the version manifest lists id.
func HasMcVersion(ctx context.Context, id string) (bool, error) {
	body, err := getJSON(ctx, MOJANG_MANIFEST_URL, nil)
	if err != nil {
		return false, err
	}

	found := false
	_, err = jsonparser.ArrayEach(body, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		if v, _ := jsonparser.GetString(value, "id"); v == id {
			found = true
		}
	}, "versions")
	if err != nil {
		return false, fmt.Errorf("read versions: %w", err)
	}
	return found, nil
}
