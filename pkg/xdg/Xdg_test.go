// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplicitOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	t.Setenv("XDG_STATE_HOME", "/custom/state")

	testCases := []struct {
		name     string
		lookup   func() (string, error)
		expected string
	}{
		{name: "config", lookup: ConfigHome, expected: "/custom/config"},
		{name: "cache", lookup: CacheHome, expected: "/custom/cache"},
		{name: "data", lookup: DataHome, expected: "/custom/data"},
		{name: "state", lookup: StateHome, expected: "/custom/state"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir, err := tc.lookup()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, dir)
		})
	}
}

func TestHomeFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	testCases := []struct {
		name     string
		lookup   func() (string, error)
		expected string
	}{
		{name: "config", lookup: ConfigHome, expected: filepath.Join(home, ".config")},
		{name: "cache", lookup: CacheHome, expected: filepath.Join(home, ".cache")},
		{name: "data", lookup: DataHome, expected: filepath.Join(home, ".local", "share")},
		{name: "state", lookup: StateHome, expected: filepath.Join(home, ".local", "state")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir, err := tc.lookup()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, dir)
		})
	}
}

func TestRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	assert.Equal(t, "/run/user/1000", RuntimeDir())

	t.Setenv("XDG_RUNTIME_DIR", "")
	assert.Equal(t, "", RuntimeDir())
}
