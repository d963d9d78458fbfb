package adapters

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/afero"

	"cargo-set/internal/ports"
)

// FileStorageAdapter reads and overwrites manifests on an afero filesystem:
// the OS filesystem in production, a memory map in tests.
type FileStorageAdapter struct {
	Fs afero.Fs
}

func NewFileStorageAdapter() FileStorageAdapter {
	return FileStorageAdapter{Fs: afero.NewOsFs()}
}

// NewMemoryStorageAdapter returns storage backed by afero.MemMapFs, which
// guards its map with a mutex.
func NewMemoryStorageAdapter() FileStorageAdapter {
	return FileStorageAdapter{Fs: afero.NewMemMapFs()}
}

// AddFile creates path and its parent directories. Only test setups use it,
// the storage port itself never creates files.
func (a FileStorageAdapter) AddFile(path string, data []byte) error {
	if err := a.Fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return storageError("failed to create directory", err)
	}
	if err := afero.WriteFile(a.Fs, path, data, 0o644); err != nil {
		return storageError("failed to create file", err)
	}
	return nil
}

func (a FileStorageAdapter) Read(path string) ([]byte, error) {
	data, err := afero.ReadFile(a.Fs, path)
	if err != nil {
		return nil, storageError("failed to read manifest", err)
	}
	return data, nil
}

func (a FileStorageAdapter) Write(path string, data []byte) error {
	info, err := a.Fs.Stat(path)
	if err != nil {
		return storageError("failed to write manifest", err)
	}
	if info.IsDir() {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is a directory")
	}
	if err := afero.WriteFile(a.Fs, path, data, info.Mode().Perm()); err != nil {
		return storageError("failed to write manifest", err)
	}
	return nil
}

func (a FileStorageAdapter) IsDir(path string) bool {
	ok, err := afero.IsDir(a.Fs, path)
	return err == nil && ok
}

func (a FileStorageAdapter) Glob(pattern string) ([]string, error) {
	matches, err := afero.Glob(a.Fs, pattern)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid glob pattern").
			WithCause(err)
	}
	sort.Strings(matches)
	return matches, nil
}

func storageError(msg string, err error) error {
	code := errbuilder.CodeInternal
	switch {
	case errors.Is(err, fs.ErrNotExist):
		code = errbuilder.CodeNotFound
	case errors.Is(err, fs.ErrPermission):
		code = errbuilder.CodePermissionDenied
	}
	return errbuilder.New().
		WithCode(code).
		WithMsg(msg).
		WithCause(err)
}

var _ ports.StoragePort = FileStorageAdapter{}
