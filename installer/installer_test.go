package installer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mrnavastar/modlaunch/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelperProcess stands in for the installer jar. It is not a real test.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	args = args[1:]

	joined := strings.Join(args, " ")
	fmt.Println("installer starting")
	fmt.Println(`{"phase":"download","item":"client.jar","current":1,"total":2}`)
	fmt.Println(`{"phase":"download","item":"assets","current":2,"total":2}`)
	for i, arg := range args {
		if arg == "--mods" {
			data, err := os.ReadFile(args[i+1])
			if err != nil {
				os.Exit(3)
			}
			var mods []launcher.Mod
			if err := json.Unmarshal(data, &mods); err != nil {
				os.Exit(3)
			}
			fmt.Printf(`{"phase":"mods","item":"%s","current":%d,"total":%d}`+"\n", mods[0].Name, len(mods), len(mods))
		}
	}
	if strings.Contains(joined, "--version broken") {
		fmt.Fprintln(os.Stderr, "checksum mismatch for client.jar")
		os.Exit(2)
	}
	fmt.Println(`{"phase":"done"}`)
	os.Exit(0)
}

func fakeExec(t *testing.T) {
	t.Helper()

	old := execCommand
	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
		return cmd
	}
	t.Cleanup(func() { execCommand = old })
}

func newInstaller(t *testing.T) (*Installer, *bytes.Buffer) {
	t.Helper()

	jar := filepath.Join(t.TempDir(), "installer.jar")
	require.NoError(t, os.WriteFile(jar, []byte("jar"), 0o600))
	var out bytes.Buffer
	return &Installer{Jar: jar, Output: &out}, &out
}

func TestArgs(t *testing.T) {
	t.Parallel()

	i := &Installer{Jar: "/opt/installer.jar"}

	vanilla := i.Args(launcher.UpdateRequest{Dir: "/g", Version: launcher.VersionDescriptor{Name: "1.20.1"}}, "")
	assert.Equal(t, []string{"-jar", "/opt/installer.jar", "--dir", "/g", "--version", "1.20.1"}, vanilla)

	modded := i.Args(launcher.UpdateRequest{
		Dir:     "/g",
		Version: launcher.VersionDescriptor{Name: "1.20.1"},
		Loader:  &launcher.LoaderDescriptor{Kind: launcher.NeoForge, Version: "20.4.1"},
	}, "/tmp/mods.json")
	assert.Equal(t, []string{
		"-jar", "/opt/installer.jar", "--dir", "/g", "--version", "1.20.1",
		"--loader", "neoforge", "--loader-version", "20.4.1", "--mods", "/tmp/mods.json",
	}, modded)
}

// Update tests swap execCommand and do not run in parallel.

func TestUpdateForwardsProgress(t *testing.T) {
	fakeExec(t)
	inst, out := newInstaller(t)

	var events []launcher.ProgressEvent
	sink := launcher.ProgressFunc(func(e launcher.ProgressEvent) { events = append(events, e) })
	req := launcher.UpdateRequest{
		Dir:     filepath.Join(t.TempDir(), "game"),
		Version: launcher.VersionDescriptor{Name: "1.20.1"},
		Loader: &launcher.LoaderDescriptor{
			Kind:    launcher.Fabric,
			Version: "0.16.5",
			Mods:    []launcher.Mod{{Name: "sodium.jar"}, {Name: "lithium.jar"}},
		},
	}

	require.NoError(t, inst.Update(context.Background(), req, sink))

	require.Len(t, events, 4)
	assert.Equal(t, launcher.ProgressEvent{Phase: launcher.PhaseDownload, Item: "client.jar", Current: 1, Total: 2}, events[0])
	assert.Equal(t, launcher.ProgressEvent{Phase: launcher.PhaseMods, Item: "sodium.jar", Current: 2, Total: 2}, events[2])
	assert.Equal(t, launcher.PhaseDone, events[3].Phase)
	assert.Contains(t, out.String(), "installer starting")
	assert.DirExists(t, req.Dir)
}

func TestUpdateFailure(t *testing.T) {
	fakeExec(t)
	inst, _ := newInstaller(t)

	err := inst.Update(context.Background(), launcher.UpdateRequest{
		Dir:     t.TempDir(),
		Version: launcher.VersionDescriptor{Name: "broken"},
	}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with code 2")
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestUpdateMissingJar(t *testing.T) {
	t.Parallel()

	inst := &Installer{Jar: filepath.Join(t.TempDir(), "missing.jar")}

	err := inst.Update(context.Background(), launcher.UpdateRequest{Dir: t.TempDir()}, nil)

	assert.ErrorIs(t, err, ErrNoInstaller)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseProgress(t *testing.T) {
	t.Parallel()

	event, ok := parseProgress(`  {"phase":"verify","item":"x","current":5,"total":9}`)
	require.True(t, ok)
	assert.Equal(t, launcher.ProgressEvent{Phase: launcher.PhaseVerify, Item: "x", Current: 5, Total: 9}, event)

	for _, line := range []string{"plain text", `{"item":"no phase"}`, `{"phase":`} {
		_, ok := parseProgress(line)
		assert.False(t, ok, line)
	}
}

func TestNeedsUpdate(t *testing.T) {
	t.Parallel()

	assert.True(t, NeedsUpdate("", "1.0.0"))
	assert.True(t, NeedsUpdate("1.0.0", "1.0.1"))
	assert.False(t, NeedsUpdate("1.0.1", "1.0.1"))
	assert.False(t, NeedsUpdate("1.1.0", "1.0.1"))
	assert.True(t, NeedsUpdate("build-7", "build-8"))
}

func TestFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("installer bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "installers", "installer.jar")
	var last launcher.ProgressEvent
	err := Fetch(context.Background(), server.URL+"/installer.jar", dest, launcher.ProgressFunc(func(e launcher.ProgressEvent) {
		last = e
	}))

	require.NoError(t, err)
	assert.FileExists(t, dest)
	assert.Equal(t, launcher.PhaseDownload, last.Phase)
	assert.Equal(t, "installer.jar", last.Item)
	assert.Equal(t, int64(len("installer bytes")), last.Current)
}
