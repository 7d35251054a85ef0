package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/models/mnn
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PathExists checks if the given path exists.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// ErrIsDir is returned by CheckReadableFile when the path names a directory.
var ErrIsDir = errors.New("is a directory")

// CheckReadableFile verifies path is an existing regular file the current
// process may open for reading. A missing file yields an error matching
// os.ErrNotExist; everything else (permissions, I/O) is returned as is.
func CheckReadableFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return ErrIsDir
	}
	return accessRead(path)
}

// EnsureDir creates dir and any missing parents. An existing directory is
// success.
func EnsureDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("empty directory path")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	fi, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s: not a directory", dir)
	}
	return nil
}
