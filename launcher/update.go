package launcher

import (
	"context"
	"fmt"
	"slices"
)

// VersionDescriptor identifies the base game version to install.
type VersionDescriptor struct {
	Name string
}

// LoaderDescriptor identifies a mod loader install and the mods it carries.
type LoaderDescriptor struct {
	Kind    ModLoader
	Version string
	Mods    []Mod
}

// UpdateRequest is everything the update engine needs for one run.
type UpdateRequest struct {
	Dir     string
	Version VersionDescriptor
	// Loader is nil for vanilla installs.
	Loader *LoaderDescriptor
}

// Phase names a stage of an update run.
type Phase string

const (
	PhaseResolve  Phase = "resolve"
	PhaseDownload Phase = "download"
	PhaseVerify   Phase = "verify"
	PhaseInstall  Phase = "install"
	PhaseMods     Phase = "mods"
	PhaseDone     Phase = "done"
)

// ProgressEvent reports update progress. Total is zero when unknown.
type ProgressEvent struct {
	Phase   Phase
	Item    string
	Current int64
	Total   int64
}

// ProgressSink receives progress events during an update.
type ProgressSink interface {
	Progress(event ProgressEvent)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(event ProgressEvent)

func (f ProgressFunc) Progress(event ProgressEvent) { f(event) }

type discardProgress struct{}

func (discardProgress) Progress(ProgressEvent) {}

// Updater is the update engine: it downloads, verifies and installs the
// files described by the request into req.Dir.
type Updater interface {
	Update(ctx context.Context, req UpdateRequest, sink ProgressSink) error
}

func updateRequest(cfg GameConfiguration) (UpdateRequest, error) {
	req := UpdateRequest{
		Dir:     cfg.Dir(),
		Version: VersionDescriptor{Name: cfg.BaseVersion()},
	}

	switch c := cfg.(type) {
	case VanillaConfig:
	case ModdedConfig:
		loader, err := loaderDescriptor(c.loader, c.loaderVersion, c.mods)
		if err != nil {
			return UpdateRequest{}, err
		}
		req.Loader = loader
	default:
		return UpdateRequest{}, fmt.Errorf("unsupported game configuration %T", cfg)
	}

	return req, nil
}

func loaderDescriptor(kind ModLoader, version string, mods []Mod) (*LoaderDescriptor, error) {
	switch kind {
	case Forge, NeoForge, Fabric, Quilt:
		return &LoaderDescriptor{
			Kind:    kind,
			Version: version,
			Mods:    slices.Clone(mods),
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownModLoader, kind)
}
