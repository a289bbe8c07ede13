package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// HatchFS is an afero FS with the couple of extras needed to replicate the
// OS filesystem in tests.
type HatchFS interface {
	afero.Fs
	Abs(string) (string, error)
	HomeDir() (string, error)
}

type hatchOSFS struct {
	afero.Fs
}

func NewHatchOSFS() HatchFS {
	return &hatchOSFS{
		afero.NewOsFs(),
	}
}

func (h *hatchOSFS) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

func (h *hatchOSFS) HomeDir() (string, error) {
	return os.UserHomeDir()
}

type hatchMemFS struct {
	afero.Fs
}

func NewHatchMemFS() HatchFS {
	return &hatchMemFS{
		afero.NewMemMapFs(),
	}
}

func (h *hatchMemFS) Abs(path string) (string, error) {
	return path, nil
}

func (h *hatchMemFS) HomeDir() (string, error) {
	return "/", nil
}
