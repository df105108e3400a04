// Package installer runs an external headless installer as the update
// engine for a launcher.
//
// The installer is invoked as
//
//	java -jar <installer.jar> --dir <dir> --version <game version>
//	    [--loader <kind> --loader-version <version>] [--mods <manifest.json>]
//
// and may report progress by printing JSON lines of the form
// {"phase":"download","item":"client.jar","current":1,"total":10}.
// Any other output line is echoed.
package installer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mrnavastar/modlaunch/launcher"
	"github.com/mrnavastar/modlaunch/util/fileutils"
	"github.com/pterm/pterm"
	"github.com/tidwall/gjson"
	"golang.org/x/mod/semver"
)

var execCommand = exec.CommandContext

var ErrNoInstaller = errors.New("installer jar not found")

type Installer struct {
	// Java is the java binary, "java" when empty.
	Java string
	// Jar is the installer jar.
	Jar string
	// Output receives installer lines that are not progress events.
	Output io.Writer
}

func (i *Installer) java() string {
	if i.Java == "" {
		return "java"
	}
	return i.Java
}

// Args builds the installer arguments for req. modsManifest may be empty.
func (i *Installer) Args(req launcher.UpdateRequest, modsManifest string) []string {
	args := []string{"-jar", i.Jar, "--dir", req.Dir, "--version", req.Version.Name}
	if req.Loader != nil {
		args = append(args, "--loader", req.Loader.Kind.String(), "--loader-version", req.Loader.Version)
		if modsManifest != "" {
			args = append(args, "--mods", modsManifest)
		}
	}
	return args
}

// Update runs the installer for req and forwards its progress to sink.
func (i *Installer) Update(ctx context.Context, req launcher.UpdateRequest, sink launcher.ProgressSink) error {
	if _, err := os.Stat(i.Jar); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", ErrNoInstaller, i.Jar, err)
	} else if err != nil {
		return fmt.Errorf("installer jar: %w", err)
	}
	if err := os.MkdirAll(req.Dir, 0o700); err != nil {
		return fmt.Errorf("create install dir: %w", err)
	}

	var manifest string
	if req.Loader != nil && len(req.Loader.Mods) > 0 {
		path, err := writeModsManifest(req.Loader.Mods)
		if err != nil {
			return err
		}
		defer os.Remove(path)
		manifest = path
	}

	cmd := execCommand(ctx, i.java(), i.Args(req, manifest)...)
	cmd.Dir = req.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("installer stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start installer: %w", err)
	}
	scanErr := i.forward(stdout, sink)
	_, _ = io.Copy(io.Discard, stdout)
	waitErr := cmd.Wait()

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return fmt.Errorf("installer exited with code %d: %s", exitErr.ExitCode(), lastLine(stderr.String()))
	}
	if waitErr != nil {
		return fmt.Errorf("run installer: %w", waitErr)
	}
	if scanErr != nil {
		return fmt.Errorf("read installer output: %w", scanErr)
	}
	return nil
}

func (i *Installer) forward(r io.Reader, sink launcher.ProgressSink) error {
	out := i.Output
	if out == nil {
		out = io.Discard
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if event, ok := parseProgress(line); ok {
			if sink != nil {
				sink.Progress(event)
			}
			continue
		}
		fmt.Fprintln(out, line)
	}
	return scanner.Err()
}

func parseProgress(line string) (launcher.ProgressEvent, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "{") || !gjson.Valid(line) {
		return launcher.ProgressEvent{}, false
	}
	phase := gjson.Get(line, "phase")
	if !phase.Exists() {
		return launcher.ProgressEvent{}, false
	}
	return launcher.ProgressEvent{
		Phase:   launcher.Phase(phase.String()),
		Item:    gjson.Get(line, "item").String(),
		Current: gjson.Get(line, "current").Int(),
		Total:   gjson.Get(line, "total").Int(),
	}, true
}

func writeModsManifest(mods []launcher.Mod) (string, error) {
	f, err := os.CreateTemp("", "modlaunch-mods-*.json")
	if err != nil {
		return "", fmt.Errorf("create mods manifest: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(mods); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write mods manifest: %w", err)
	}
	return f.Name(), nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}

// NeedsUpdate reports whether the installer at version current should be
// replaced by latest. An empty current always needs an update.
func NeedsUpdate(current, latest string) bool {
	if current == "" {
		return true
	}
	cv, lv := "v"+current, "v"+latest
	if semver.IsValid(cv) && semver.IsValid(lv) {
		return semver.Compare(cv, lv) < 0
	}
	return current != latest
}

// Fetch downloads the installer jar to dest, reporting download progress.
func Fetch(ctx context.Context, url string, dest string, sink launcher.ProgressSink) error {
	pterm.Debug.Printfln("Fetching installer %s", url)
	item := filepath.Base(dest)
	return fileutils.DownloadFile(ctx, url, dest, func(done, total int64) {
		if sink != nil {
			sink.Progress(launcher.ProgressEvent{
				Phase:   launcher.PhaseDownload,
				Item:    item,
				Current: done,
				Total:   total,
			})
		}
	})
}
