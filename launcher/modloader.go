package launcher

import (
	"fmt"
	"strings"
)

// ModLoader is one of the supported mod-loader frameworks.
type ModLoader int

const (
	Forge ModLoader = iota + 1
	NeoForge
	Fabric
	Quilt
)

// ModLoaders lists every supported loader in declaration order.
var ModLoaders = []ModLoader{Forge, NeoForge, Fabric, Quilt}

var modLoaderNames = map[ModLoader]string{
	Forge:    "forge",
	NeoForge: "neoforge",
	Fabric:   "fabric",
	Quilt:    "quilt",
}

func (m ModLoader) String() string {
	if name, ok := modLoaderNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ModLoader(%d)", int(m))
}

// Valid reports whether m is one of the declared loaders.
func (m ModLoader) Valid() bool {
	_, ok := modLoaderNames[m]
	return ok
}

// Kind maps a loader to the tag the process launcher understands.
func (m ModLoader) Kind() (GameKind, error) {
	switch m {
	case Forge:
		return KindForge, nil
	case NeoForge:
		return KindNeoForge, nil
	case Fabric:
		return KindFabric, nil
	case Quilt:
		return KindQuilt, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownModLoader, m)
}

func (m ModLoader) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModLoader, m)
	}
	return []byte(m.String()), nil
}

func (m *ModLoader) UnmarshalText(text []byte) error {
	loader, err := ParseModLoader(string(text))
	if err != nil {
		return err
	}
	*m = loader
	return nil
}

// ParseModLoader accepts a loader name case-insensitively ("neo_forge" is
// accepted for NeoForge).
func ParseModLoader(s string) (ModLoader, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "neo_forge" || name == "neo-forge" {
		name = "neoforge"
	}
	for loader, n := range modLoaderNames {
		if n == name {
			return loader, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModLoader, s)
}

// GameKind tags the flavour of game the process launcher has to start.
type GameKind string

const (
	KindVanilla  GameKind = "vanilla"
	KindForge    GameKind = "forge"
	KindNeoForge GameKind = "neo_forge"
	KindFabric   GameKind = "fabric"
	KindQuilt    GameKind = "quilt"
)
