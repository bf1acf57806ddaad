// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

// Package xdg resolves XDG base directories from the environment.  The
// results are only ever inputs to filesystem operations; nothing here
// touches a filesystem.
package xdg

import (
	"fmt"
	"os"
	"path/filepath"
)

func resolve(envVar string, fallback ...string) (string, error) {
	if dir := os.Getenv(envVar); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error resolving %s: %w", envVar, err)
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// ConfigHome returns $XDG_CONFIG_HOME, defaulting to ~/.config.
func ConfigHome() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// CacheHome returns $XDG_CACHE_HOME, defaulting to ~/.cache.
func CacheHome() (string, error) {
	return resolve("XDG_CACHE_HOME", ".cache")
}

// DataHome returns $XDG_DATA_HOME, defaulting to ~/.local/share.
func DataHome() (string, error) {
	return resolve("XDG_DATA_HOME", ".local", "share")
}

// StateHome returns $XDG_STATE_HOME, defaulting to ~/.local/state.
func StateHome() (string, error) {
	return resolve("XDG_STATE_HOME", ".local", "state")
}

// RuntimeDir returns $XDG_RUNTIME_DIR.  There is no fallback; the
// empty string means the variable is unset.
func RuntimeDir() string {
	return os.Getenv("XDG_RUNTIME_DIR")
}
