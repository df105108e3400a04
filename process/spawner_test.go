package process

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/mrnavastar/modlaunch/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vanillaProfile = `{
	"id": "1.20.1",
	"type": "release",
	"mainClass": "net.minecraft.client.main.Main",
	"assetIndex": {"id": "5"}
}`

const fabricProfile = `{
	"id": "fabric-loader-0.16.5-1.20.1",
	"mainClass": "net.fabricmc.loader.impl.launch.knot.KnotClient",
	"arguments": {
		"jvm": ["-DFabricMcEmu= net.minecraft.client.main.Main ", {"rules": [], "value": "-Dskipped"}],
		"game": []
	}
}`

func writeInstall(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"1.20.1.json":                       vanillaProfile,
		"fabric-0.16.5.json":                fabricProfile,
		"libraries/org/ow2/asm/asm-9.6.jar": "",
		"libraries/com/a/lwjgl-3.3.jar":     "",
		"libraries/com/a/natives-linux.jar": "",
		"libraries/com/a/readme.txt":        "",
		"client.jar":                        "",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func request(dir string, kind launcher.GameKind, loaderVersion string) launcher.LaunchRequest {
	return launcher.LaunchRequest{
		Dir: dir,
		Auth: launcher.AuthResult{
			Username:    "Steve",
			AccessToken: "token",
			UUID:        "069a79f4-44e9-4726-a5be-fca90e38aaf5",
		},
		Layout:        launcher.ManagedLayout,
		ExtraArgs:     []string{"-Xmx6G"},
		BaseVersion:   "1.20.1",
		LoaderVersion: loaderVersion,
		Kind:          kind,
	}
}

func valueAfter(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func indexOf(args []string, value string) int {
	for i, arg := range args {
		if arg == value {
			return i
		}
	}
	return -1
}

func TestArgsVanilla(t *testing.T) {
	t.Parallel()

	dir := writeInstall(t)
	s := &Spawner{Brand: "modlaunch"}

	args, err := s.Args(request(dir, launcher.KindVanilla, "1.20.1"))
	require.NoError(t, err)

	mainIdx := indexOf(args, "net.minecraft.client.main.Main")
	require.Positive(t, mainIdx)
	extraIdx := indexOf(args, "-Xmx6G")
	assert.Greater(t, extraIdx, indexOf(args, DefaultJVMArgs[len(DefaultJVMArgs)-1]), "extra args follow defaults")
	assert.Less(t, extraIdx, mainIdx)
	assert.Contains(t, args, "-Dminecraft.launcher.brand=modlaunch")

	cp := strings.Split(valueAfter(args, "-cp"), string(os.PathListSeparator))
	require.Len(t, cp, 3)
	assert.Equal(t, filepath.Join(dir, "client.jar"), cp[2])
	for _, jar := range cp {
		assert.NotContains(t, jar, "natives-")
	}

	assert.Equal(t, "Steve", valueAfter(args, "--username"))
	assert.Equal(t, "1.20.1", valueAfter(args, "--version"))
	assert.Equal(t, "5", valueAfter(args, "--assetIndex"))
	assert.Equal(t, "token", valueAfter(args, "--accessToken"))
	assert.Equal(t, "msa", valueAfter(args, "--userType"))
	assert.Equal(t, "release", valueAfter(args, "--versionType"))
	assert.Equal(t, filepath.Join(dir, "assets"), valueAfter(args, "--assetsDir"))
	assert.NotContains(t, args, "--xuid")
}

func TestArgsModded(t *testing.T) {
	t.Parallel()

	dir := writeInstall(t)
	req := request(dir, launcher.KindFabric, "0.16.5")
	req.Auth.Offline = true
	req.Auth.XUID = "2535"
	req.Auth.ClientID = "client"

	args, err := (&Spawner{}).Args(req)
	require.NoError(t, err)

	assert.Contains(t, args, "net.fabricmc.loader.impl.launch.knot.KnotClient")
	assert.NotContains(t, args, "net.minecraft.client.main.Main")
	assert.Contains(t, args, "-DFabricMcEmu= net.minecraft.client.main.Main ")
	assert.NotContains(t, args, "-Dskipped")
	assert.Equal(t, "legacy", valueAfter(args, "--userType"))
	assert.Equal(t, "2535", valueAfter(args, "--xuid"))
	assert.Equal(t, "client", valueAfter(args, "--clientId"))
}

func TestArgsMissingProfiles(t *testing.T) {
	t.Parallel()

	dir := writeInstall(t)

	_, err := (&Spawner{}).Args(request(dir, launcher.KindQuilt, "0.26.4"))
	require.ErrorIs(t, err, ErrMissingProfile)

	req := request(dir, launcher.KindVanilla, "1.19")
	req.BaseVersion = "1.19"
	_, err = (&Spawner{}).Args(req)
	require.ErrorIs(t, err, ErrMissingProfile)
}

func TestLaunchReportsExitCode(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as java")
	}

	dir := writeInstall(t)
	java := filepath.Join(t.TempDir(), "java")
	require.NoError(t, os.WriteFile(java, []byte("#!/bin/sh\nexit 7\n"), 0o700)) //nolint:gosec // test script

	proc, err := (&Spawner{Java: java}).Launch(context.Background(), request(dir, launcher.KindVanilla, "1.20.1"))
	require.NoError(t, err)
	assert.Positive(t, proc.Pid())

	code, err := proc.Wait()
	require.NoError(t, err)
	assert.Equal(t, 7, code)
}

func TestLaunchSpawnError(t *testing.T) {
	t.Parallel()

	dir := writeInstall(t)
	s := &Spawner{Java: filepath.Join(t.TempDir(), "no-java-here")}

	_, err := s.Launch(context.Background(), request(dir, launcher.KindVanilla, "1.20.1"))

	assert.Error(t, err)
}

func TestLaunchCanceledContext(t *testing.T) {
	t.Parallel()

	dir := writeInstall(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Spawner{}).Launch(ctx, request(dir, launcher.KindVanilla, "1.20.1"))

	assert.ErrorIs(t, err, context.Canceled)
}
