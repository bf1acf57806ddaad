// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapSource is a LinkSource backed by a map of absolute path to
// symlink target.
type mapSource map[string]string

func (m mapSource) LinkTarget(path string) (string, bool) {
	target, ok := m[path]
	return target, ok
}

func TestResolverLexical(t *testing.T) {
	r := NewResolver()
	src := mapSource{}

	testCases := []struct {
		name     string
		cwd      string
		raw      string
		expected string
	}{
		{name: "root", cwd: "/", raw: "/", expected: "/"},
		{name: "absolute", cwd: "/", raw: "/x/y", expected: "/x/y"},
		{name: "relative", cwd: "/x", raw: "a/b", expected: "/x/a/b"},
		{name: "dot", cwd: "/x", raw: ".", expected: "/x"},
		{name: "dot segments", cwd: "/", raw: "/x/./y/.", expected: "/x/y"},
		{name: "dotdot", cwd: "/", raw: "/x/y/../z", expected: "/x/z"},
		{name: "dotdot relative", cwd: "/x/y", raw: "..", expected: "/x"},
		{name: "double slash", cwd: "/", raw: "/x//y", expected: "/x/y"},
		{name: "trailing slash", cwd: "/", raw: "/x/", expected: "/x"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			abs, err := r.Resolve(src, tc.cwd, tc.raw, true)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, abs)
		})
	}
}

func TestResolverInvalid(t *testing.T) {
	r := NewResolver()
	src := mapSource{}

	testCases := []struct {
		name string
		cwd  string
		raw  string
	}{
		{name: "empty", cwd: "/", raw: ""},
		{name: "escape above root", cwd: "/", raw: "/x/../../y"},
		{name: "root dotdot", cwd: "/", raw: "/.."},
		{name: "relative escape", cwd: "/", raw: "../y"},
		{name: "embedded nul", cwd: "/", raw: "/x\x00y"},
		{name: "relative cwd", cwd: "x", raw: "y"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Resolve(src, tc.cwd, tc.raw, true)
			require.Error(t, err)
			assert.True(t, IsInvalidPath(err))
		})
	}
}

func TestResolverSymlinks(t *testing.T) {
	r := NewResolver()

	t.Run("final followed", func(t *testing.T) {
		src := mapSource{"/a": "b"}
		abs, err := r.Resolve(src, "/", "/a", true)
		require.NoError(t, err)
		assert.Equal(t, "/b", abs)
	})

	t.Run("final not followed", func(t *testing.T) {
		src := mapSource{"/a": "b"}
		abs, err := r.Resolve(src, "/", "/a", false)
		require.NoError(t, err)
		assert.Equal(t, "/a", abs)
	})

	t.Run("intermediate always followed", func(t *testing.T) {
		src := mapSource{"/a": "/d"}
		abs, err := r.Resolve(src, "/", "/a/x", false)
		require.NoError(t, err)
		assert.Equal(t, "/d/x", abs)
	})

	t.Run("relative target against link parent", func(t *testing.T) {
		src := mapSource{"/x/l": "../y"}
		abs, err := r.Resolve(src, "/", "/x/l/f", true)
		require.NoError(t, err)
		assert.Equal(t, "/y/f", abs)
	})

	t.Run("chain", func(t *testing.T) {
		src := mapSource{"/a": "/b", "/b": "/c"}
		abs, err := r.Resolve(src, "/", "/a", true)
		require.NoError(t, err)
		assert.Equal(t, "/c", abs)
	})

	t.Run("loop", func(t *testing.T) {
		src := mapSource{"/a": "/b", "/b": "/a"}
		_, err := r.Resolve(src, "/", "/a", true)
		require.Error(t, err)
		assert.True(t, IsSymlinkLoop(err))
	})

	t.Run("self loop", func(t *testing.T) {
		src := mapSource{"/a": "a"}
		_, err := r.Resolve(src, "/", "/a", true)
		require.Error(t, err)
		assert.True(t, IsSymlinkLoop(err))
	})

	t.Run("depth bound honored", func(t *testing.T) {
		bounded := &Resolver{MaxLinkDepth: 2}
		src := mapSource{"/a": "/b", "/b": "/c", "/c": "/d"}
		_, err := bounded.Resolve(src, "/", "/a", true)
		require.Error(t, err)
		assert.True(t, IsSymlinkLoop(err))
	})
}

func TestResolverHome(t *testing.T) {
	src := mapSource{}

	t.Run("expanded", func(t *testing.T) {
		r := &Resolver{Home: "/home/u"}
		abs, err := r.Resolve(src, "/", "~/f", true)
		require.NoError(t, err)
		assert.Equal(t, "/home/u/f", abs)
	})

	t.Run("bare tilde", func(t *testing.T) {
		r := &Resolver{Home: "/home/u"}
		abs, err := r.Resolve(src, "/", "~", true)
		require.NoError(t, err)
		assert.Equal(t, "/home/u", abs)
	})

	t.Run("no home configured", func(t *testing.T) {
		r := &Resolver{}
		_, err := r.Resolve(src, "/", "~/f", true)
		require.Error(t, err)
		assert.True(t, IsInvalidPath(err))
	})

	t.Run("user form rejected", func(t *testing.T) {
		r := &Resolver{Home: "/home/u"}
		_, err := r.Resolve(src, "/", "~other/f", true)
		require.Error(t, err)
		assert.True(t, IsInvalidPath(err))
	})
}
