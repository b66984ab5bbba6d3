package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Filesystem abstracts the handful of filesystem queries the processor
// needs, so tests can simulate missing reports and arbitrary mtimes
// without touching the disk.
type Filesystem interface {
	Stat(name string) (fs.FileInfo, error)
	Getwd() (string, error)
	Abs(path string) (string, error)
}

// DefaultFS implements Filesystem using the standard `os` and `filepath`
// packages. It represents the real filesystem of the host.
type DefaultFS struct{}

func (DefaultFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (DefaultFS) Getwd() (string, error) {
	return os.Getwd()
}

func (DefaultFS) Abs(path string) (string, error) {
	return filepath.Abs(path)
}
