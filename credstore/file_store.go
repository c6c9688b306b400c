package credstore

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// fileStore keeps State as a YAML document on a filesystem.
type fileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore returns a Store backed by a YAML file at path on fsys.
func NewFileStore(fsys afero.Fs, path string) Store {
	return &fileStore{fs: fsys, path: path}
}

func (f *fileStore) Load() (State, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("read credentials: %w", err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("parse credentials %s: %w", f.path, err)
	}
	return state, nil
}

func (f *fileStore) Save(state State) error {
	dir := filepath.Dir(f.path)
	if dir != "" && dir != "." {
		if err := f.fs.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create credentials directory: %w", err)
		}
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := afero.WriteFile(f.fs, f.path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (f *fileStore) Delete() error {
	err := f.fs.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

func (f *fileStore) Close() error { return nil }
