package fileutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrnavastar/modlaunch/util"
)

const stateFile = "modlaunch.json"

var ErrNotInitialized = errors.New("modlaunch is not initialized, run init first")

type State struct {
	Dir              string         `json:"-"`
	InstallerVersion string         `json:"installerVersion,omitempty"`
	ActiveProfile    string         `json:"activeProfile,omitempty"`
	Profiles         []util.Profile `json:"profiles"`
}

func (s State) InstallerPath() string {
	return filepath.Join(s.Dir, "installers", "installer.jar")
}

func (s State) ProfilesDir() string {
	return filepath.Join(s.Dir, "profiles")
}

// Setup creates the home directory layout and an empty state file. An
// existing state file is left alone.
func Setup(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, "installers"), 0o700); err != nil {
		return fmt.Errorf("create home: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "profiles"), 0o700); err != nil {
		return fmt.Errorf("create profiles dir: %w", err)
	}
	if _, err := os.Stat(filepath.Join(dir, stateFile)); err == nil {
		return nil
	}
	return SaveAppState(State{Dir: dir, Profiles: []util.Profile{}})
}

func SaveAppState(state State) error {
	data, err := json.MarshalIndent(state, "", " ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(state.Dir, stateFile), data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func LoadAppState(dir string) (State, error) {
	data, err := os.ReadFile(filepath.Join(dir, stateFile))
	if errors.Is(err, os.ErrNotExist) {
		return State{}, ErrNotInitialized
	}
	if err != nil {
		return State{}, fmt.Errorf("read state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	state.Dir = dir
	return state, nil
}
