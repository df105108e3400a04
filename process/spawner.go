// Package process starts the game from an install written by the update
// engine.
//
// The install directory holds the base version profile as <version>.json
// and, for modded games, a loader profile as <kind>-<loader version>.json.
// Both follow the launcher version JSON format; only mainClass, assetIndex,
// type and the string entries of arguments.jvm / arguments.game are read.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/mrnavastar/modlaunch/launcher"
	"github.com/tidwall/gjson"
)

var ErrMissingProfile = errors.New("version profile not found")

// DefaultJVMArgs are placed before any extra arguments of a configuration.
var DefaultJVMArgs = []string{
	"-Xmx2G",
	"-XX:+UseG1GC",
	"-XX:-UseAdaptiveSizePolicy",
	"-XX:-OmitStackTraceInFastThrow",
}

type Spawner struct {
	// Java is the java binary, "java" when empty.
	Java string
	// Brand is reported to the game as the launcher name.
	Brand  string
	Stdout io.Writer
	Stderr io.Writer
}

func (s *Spawner) java() string {
	if s.Java == "" {
		return "java"
	}
	return s.Java
}

type versionProfile struct {
	json gjson.Result
}

func readProfile(path string) (versionProfile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return versionProfile{}, fmt.Errorf("%w: %s", ErrMissingProfile, path)
	}
	if err != nil {
		return versionProfile{}, err
	}
	if !gjson.ValidBytes(data) {
		return versionProfile{}, fmt.Errorf("invalid version profile %s", path)
	}
	return versionProfile{json: gjson.ParseBytes(data)}, nil
}

func (p versionProfile) str(path string) string {
	return p.json.Get(path).String()
}

// args returns the plain string entries of arguments.<side>; conditional
// rule objects are skipped.
func (p versionProfile) args(side string) []string {
	var out []string
	p.json.Get("arguments." + side).ForEach(func(_, value gjson.Result) bool {
		if value.Type == gjson.String {
			out = append(out, value.String())
		}
		return true
	})
	return out
}

// LoaderProfileName is the file name of the loader profile for a modded
// install.
func LoaderProfileName(kind launcher.GameKind, loaderVersion string) string {
	return string(kind) + "-" + loaderVersion + ".json"
}

func classpath(dir string, layout launcher.Layout) ([]string, error) {
	var jars []string
	root := filepath.Join(dir, layout.Libraries)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".jar") || strings.Contains(d.Name(), "natives-") {
			return nil
		}
		jars = append(jars, path)
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("walk libraries: %w", err)
	}
	sort.Strings(jars)
	return append(jars, filepath.Join(dir, layout.ClientJar)), nil
}

// Args assembles the full java command line for req, without the binary.
func (s *Spawner) Args(req launcher.LaunchRequest) ([]string, error) {
	dir, err := filepath.Abs(req.Dir)
	if err != nil {
		return nil, err
	}

	base, err := readProfile(filepath.Join(dir, req.BaseVersion+".json"))
	if err != nil {
		return nil, err
	}
	mainClass := base.str("mainClass")

	var loader versionProfile
	if req.Kind != launcher.KindVanilla {
		loader, err = readProfile(filepath.Join(dir, LoaderProfileName(req.Kind, req.LoaderVersion)))
		if err != nil {
			return nil, err
		}
		if mc := loader.str("mainClass"); mc != "" {
			mainClass = mc
		}
	}
	if mainClass == "" {
		return nil, fmt.Errorf("no main class for %s", req.BaseVersion)
	}

	cp, err := classpath(dir, req.Layout)
	if err != nil {
		return nil, err
	}

	args := append([]string{}, DefaultJVMArgs...)
	if runtime.GOOS == "darwin" {
		args = append(args, "-XstartOnFirstThread")
	}
	args = append(args, "-Djava.library.path="+filepath.Join(dir, req.Layout.Natives))
	if s.Brand != "" {
		args = append(args, "-Dminecraft.launcher.brand="+s.Brand)
	}
	args = append(args, loader.args("jvm")...)
	args = append(args, req.ExtraArgs...)
	args = append(args, "-cp", strings.Join(cp, string(os.PathListSeparator)), mainClass)

	assetIndex := base.str("assetIndex.id")
	if assetIndex == "" {
		assetIndex = req.BaseVersion
	}
	versionType := base.str("type")
	if versionType == "" {
		versionType = "release"
	}
	userType := "msa"
	if req.Auth.Offline {
		userType = "legacy"
	}

	args = append(args,
		"--username", req.Auth.Username,
		"--version", req.BaseVersion,
		"--gameDir", dir,
		"--assetsDir", filepath.Join(dir, req.Layout.Assets),
		"--assetIndex", assetIndex,
		"--uuid", req.Auth.UUID,
		"--accessToken", req.Auth.AccessToken,
		"--userType", userType,
		"--versionType", versionType,
	)
	if req.Auth.XUID != "" {
		args = append(args, "--xuid", req.Auth.XUID)
	}
	if req.Auth.ClientID != "" {
		args = append(args, "--clientId", req.Auth.ClientID)
	}
	return append(args, loader.args("game")...), nil
}

// Launch starts the game. The process is not bound to ctx, which only
// guards the set-up before the spawn.
func (s *Spawner) Launch(ctx context.Context, req launcher.LaunchRequest) (launcher.Process, error) {
	args, err := s.Args(req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(s.java(), args...)
	cmd.Dir = req.Dir
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start game: %w", err)
	}
	return &gameProcess{cmd: cmd}, nil
}

type gameProcess struct {
	cmd *exec.Cmd
}

func (p *gameProcess) Pid() int { return p.cmd.Process.Pid }

func (p *gameProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return 0, err
	}
	return p.cmd.ProcessState.ExitCode(), nil
}

func (p *gameProcess) Kill() error { return p.cmd.Process.Kill() }
