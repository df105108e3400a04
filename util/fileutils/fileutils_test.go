package fileutils

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrnavastar/modlaunch/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupAndState(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadAppState(dir)
	require.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, Setup(dir))
	state, err := LoadAppState(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, state.Dir)
	assert.Empty(t, state.Profiles)
	assert.DirExists(t, state.ProfilesDir())

	state.ActiveProfile = "pack"
	state.Profiles = append(state.Profiles, util.Profile{Name: "pack", Version: "1.20.1"})
	require.NoError(t, SaveAppState(state))

	require.NoError(t, Setup(dir), "setup keeps an existing state")
	state, err = LoadAppState(dir)
	require.NoError(t, err)
	assert.Equal(t, "pack", state.ActiveProfile)
	require.Len(t, state.Profiles, 1)
	assert.Equal(t, "1.20.1", state.Profiles[0].Version)
}

func TestDownloadFile(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("hello installer"))
	}))
	t.Cleanup(server.Close)

	t.Run("writes_file_and_reports_progress", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "installer.jar")
		var done int64
		err := DownloadFile(context.Background(), server.URL+"/installer.jar", path, func(d, _ int64) {
			done = d
		})

		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello installer", string(data))
		assert.Equal(t, int64(len("hello installer")), done)
		assert.NoFileExists(t, path+".part")
	})

	t.Run("fails_on_http_error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "installer.jar")
		err := DownloadFile(context.Background(), server.URL+"/missing", path, nil)

		require.Error(t, err)
		assert.NoFileExists(t, path)
	})
}

func TestFileSHA1(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))

	sum, err := FileSHA1(path)

	require.NoError(t, err)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", sum)
}

func TestGetModJsonFromJar(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	withJson := writeJar(t, filepath.Join(dir, "sodium.jar"), map[string]string{
		"fabric.mod.json": `{"id":"sodium","version":"0.5.8","name":"Sodium","authors":["JellySquid",{"name":"x"}]}`,
	})
	withoutJson := writeJar(t, filepath.Join(dir, "plain.jar"), map[string]string{
		"META-INF/MANIFEST.MF": "Manifest-Version: 1.0\n",
	})

	modJson, err := GetModJsonFromJar(withJson)
	require.NoError(t, err)
	assert.Equal(t, "sodium", modJson.Id)
	assert.Equal(t, "0.5.8", modJson.Version)
	assert.Equal(t, "Sodium", modJson.Name)

	_, err = GetModJsonFromJar(withoutJson)
	assert.ErrorIs(t, err, ErrNoModJson)
}

func writeJar(t *testing.T, path string, files map[string]string) string {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for name, content := range files {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}
