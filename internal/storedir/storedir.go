// Package storedir resolves per-user data file locations and provides
// atomic JSON file writes for the stores kept under the app config dir.
package storedir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// PathCandidates returns store file paths to try, in priority order.
func PathCandidates(app, filename string) ([]string, error) {
	if app == "" {
		return nil, errors.New("app must not be empty")
	}
	if filename == "" {
		return nil, errors.New("filename must not be empty")
	}

	var paths []string
	seen := map[string]bool{}
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		paths = append(paths, p)
	}

	// 1) HOME-style: <home>/.config/<app>/<filename>
	if home := os.Getenv("HOME"); home != "" {
		add(filepath.Join(home, ".config", app, filename))
	}

	// 2) UserConfigDir fallback: <UserConfigDir>/<app>/<filename>
	if dir, err := os.UserConfigDir(); err == nil {
		add(filepath.Join(dir, app, filename))
	} else if len(paths) == 0 {
		return nil, fmt.Errorf("UserConfigDir: %w", err)
	}

	return paths, nil
}

// Resolve picks the first existing candidate, else the first candidate
// as the target path for a file that does not exist yet.
func Resolve(app, filename string) (string, error) {
	cands, err := PathCandidates(app, filename)
	if err != nil {
		return "", err
	}
	if len(cands) == 0 {
		return "", fmt.Errorf("no store path candidates returned")
	}
	for _, p := range cands {
		if Exists(p) {
			return p, nil
		}
	}
	return cands[0], nil
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AtomicWriteFile writes data to a temp file and renames it into place.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"

	// Best effort cleanup if something already exists.
	_ = os.Remove(tmp)

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
