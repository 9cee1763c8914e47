package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir (and parents) if it does not exist yet.
// It fails if the path exists but is not a directory.
func EnsureDir(dir string) error {
	if dir == "" {
		return &ValidationError{Field: "dir", Message: "directory path is required"}
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return &ValidationError{Field: "dir", Message: fmt.Sprintf("%s exists and is not a directory", dir)}
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to access %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	LogDebug("Created directory %s", dir)
	return nil
}

// FileExists reports whether path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// WriteFileAtomic replaces path with data so readers see either the old or the new content.
// The data is written to a sibling temp file, synced, then renamed over path.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// ExpandHomeDir expands a path if it starts with "~/"
func ExpandHomeDir(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// RemoveMatching deletes the regular files directly inside dir that match any of the glob patterns.
// It keeps going after a failed delete and returns the removed paths together with the joined errors.
func RemoveMatching(dir string, patterns []string) ([]string, error) {
	var removed []string
	var errs []error

	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			errs = append(errs, fmt.Errorf("bad pattern %q: %w", pattern, err))
			continue
		}
		for _, match := range matches {
			if !FileExists(match) {
				continue
			}
			if err := os.Remove(match); err != nil {
				errs = append(errs, fmt.Errorf("failed to delete %s: %w", match, err))
				continue
			}
			removed = append(removed, match)
		}
	}

	return removed, errors.Join(errs...)
}
