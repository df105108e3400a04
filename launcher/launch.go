package launcher

import (
	"context"
	"fmt"
)

// Layout names the directories and files of an install. ManagedLayout is
// the layout produced by the update engine.
type Layout struct {
	Name      string
	Libraries string
	Natives   string
	Assets    string
	ClientJar string
}

// ManagedLayout marks an install directory written by the update engine.
var ManagedLayout = Layout{
	Name:      "managed",
	Libraries: "libraries",
	Natives:   "natives",
	Assets:    "assets",
	ClientJar: "client.jar",
}

// LaunchRequest is everything the process launcher needs to start a game.
type LaunchRequest struct {
	Dir    string
	Auth   AuthResult
	Layout Layout
	// ExtraArgs go after the process launcher's own default arguments.
	ExtraArgs     []string
	BaseVersion   string
	LoaderVersion string
	Kind          GameKind
}

// Process is a running game.
type Process interface {
	Pid() int
	// Wait blocks until the process exits and returns its exit code.
	Wait() (int, error)
	Kill() error
}

// ProcessLauncher builds and starts the game process.
type ProcessLauncher interface {
	Launch(ctx context.Context, req LaunchRequest) (Process, error)
}

// Game is the handle returned by StartGame.
type Game struct {
	proc   Process
	exited chan int
}

func newGame(proc Process) *Game {
	return &Game{proc: proc, exited: make(chan int, 1)}
}

// Process returns the underlying process.
func (g *Game) Process() Process { return g.proc }

// Pid returns the process id of the game.
func (g *Game) Pid() int { return g.proc.Pid() }

// Exited delivers the exit code once and is then closed.
func (g *Game) Exited() <-chan int { return g.exited }

func launchRequest(cfg GameConfiguration, auth AuthResult) (LaunchRequest, error) {
	req := LaunchRequest{
		Dir:           cfg.Dir(),
		Auth:          auth,
		Layout:        ManagedLayout,
		ExtraArgs:     cfg.ExtraArgs(),
		BaseVersion:   cfg.BaseVersion(),
		LoaderVersion: cfg.BaseVersion(),
		Kind:          KindVanilla,
	}

	switch c := cfg.(type) {
	case VanillaConfig:
	case ModdedConfig:
		kind, err := c.loader.Kind()
		if err != nil {
			return LaunchRequest{}, err
		}
		req.LoaderVersion = c.loaderVersion
		req.Kind = kind
	default:
		return LaunchRequest{}, fmt.Errorf("unsupported game configuration %T", cfg)
	}

	return req, nil
}
