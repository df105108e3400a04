package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

var client = resty.New().SetHeader("User-Agent", "modlaunch")

var (
	MOJANG_MANIFEST_URL  = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"
	FABRIC_META_BASE     = "https://meta.fabricmc.net/v2"
	QUILT_META_BASE      = "https://meta.quiltmc.org/v3"
	FORGE_PROMOTIONS_URL = "https://files.minecraftforge.net/net/minecraftforge/forge/promotions_slim.json"
	NEOFORGE_MAVEN_BASE  = "https://maven.neoforged.net/api/maven"
	MODRINTH_API_BASE    = "https://api.modrinth.com/v2"
)

var (
	ErrVersionNotFound = errors.New("failed to find a matching version")
	ErrModNotFound     = errors.New("no mod found")
)

type Version struct {
	Version string
	Stable  bool
	Url     string
}

// getJSON decodes the response into result, or returns the raw body when
// result is nil.
func getJSON(ctx context.Context, url string, result any) ([]byte, error) {
	req := client.R().SetContext(ctx)
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get %s: %s", url, resp.Status())
	}
	return resp.Body(), nil
}
