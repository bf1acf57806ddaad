// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package stdfs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floefs/floe/pkg/fs"
)

func newScratch(t *testing.T) *Stdfs {
	t.Helper()
	return NewWithRoot(t.TempDir())
}

func TestStdfsCreate(t *testing.T) {
	ctx := context.Background()
	s := newScratch(t)

	require.NoError(t, s.Create(ctx, "/f"))

	entry, err := s.Stat(ctx, "/f")
	require.NoError(t, err)
	assert.Equal(t, fs.KindFile, entry.Kind)
	assert.Equal(t, int64(0), entry.Size)

	err = s.Create(ctx, "/f")
	assert.True(t, fs.IsExists(err))

	err = s.Create(ctx, "/missing/f")
	assert.True(t, fs.IsNotFound(err))
}

func TestStdfsWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name string
		data []byte
	}{
		{name: "plain", data: []byte("hi")},
		{name: "empty", data: []byte{}},
		{name: "embedded nul", data: []byte("a\x00b\x00")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newScratch(t)
			require.NoError(t, s.Create(ctx, "/f"))
			require.NoError(t, s.WriteFile(ctx, "/f", tc.data))
			data, err := s.ReadFile(ctx, "/f")
			require.NoError(t, err)
			assert.Equal(t, tc.data, data)
		})
	}
}

func TestStdfsWriteRequiresFile(t *testing.T) {
	ctx := context.Background()
	s := newScratch(t)

	err := s.WriteFile(ctx, "/missing", []byte("x"))
	assert.True(t, fs.IsNotFound(err))

	require.NoError(t, s.Mkdir(ctx, "/d"))
	_, err = s.ReadFile(ctx, "/d")
	assert.True(t, fs.IsDir(err))
}

func TestStdfsAppend(t *testing.T) {
	ctx := context.Background()
	s := newScratch(t)

	require.NoError(t, s.Create(ctx, "/f"))
	require.NoError(t, s.AppendFile(ctx, "/f", []byte("hello ")))
	require.NoError(t, s.AppendFile(ctx, "/f", []byte("world")))

	data, err := s.ReadFile(ctx, "/f")
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestStdfsMkdirAll(t *testing.T) {
	ctx := context.Background()
	s := newScratch(t)

	require.NoError(t, s.MkdirAll(ctx, "/a/b/c"))

	for _, dir := range []string{"/a", "/a/b", "/a/b/c"} {
		entry, err := s.Stat(ctx, dir)
		require.NoError(t, err)
		assert.True(t, entry.IsDir(), dir)
	}

	require.NoError(t, s.MkdirAll(ctx, "/a/d"))
	err := s.MkdirAll(ctx, "/a/b")
	assert.True(t, fs.IsExists(err))
}

func TestStdfsRemove(t *testing.T) {
	ctx := context.Background()
	s := newScratch(t)

	require.NoError(t, s.MkdirAll(ctx, "/a/b"))
	require.NoError(t, s.Create(ctx, "/a/b/f"))

	err := s.Remove(ctx, "/a/b")
	assert.True(t, fs.IsDirNotEmpty(err))

	require.NoError(t, s.Remove(ctx, "/a/b/f"))
	require.NoError(t, s.Remove(ctx, "/a/b"))

	err = s.Remove(ctx, "/a/b")
	assert.True(t, fs.IsNotFound(err))
}

func TestStdfsRemoveAllIdempotence(t *testing.T) {
	ctx := context.Background()
	s := newScratch(t)

	require.NoError(t, s.MkdirAll(ctx, "/a/b"))
	require.NoError(t, s.Create(ctx, "/a/b/f"))

	require.NoError(t, s.RemoveAll(ctx, "/a"))

	err := s.RemoveAll(ctx, "/a")
	assert.True(t, fs.IsNotFound(err))
	err = s.RemoveAll(ctx, "/a")
	assert.True(t, fs.IsNotFound(err))
}

func TestStdfsRenameDifferentKind(t *testing.T) {
	ctx := context.Background()
	s := newScratch(t)

	require.NoError(t, s.Create(ctx, "/f"))
	require.NoError(t, s.WriteFile(ctx, "/f", []byte("keep")))
	require.NoError(t, s.Mkdir(ctx, "/d"))

	err := s.Rename(ctx, "/f", "/d")
	assert.True(t, fs.IsExists(err))
	err = s.Rename(ctx, "/d", "/f")
	assert.True(t, fs.IsExists(err))

	data, err := s.ReadFile(ctx, "/f")
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestStdfsSymlink(t *testing.T) {
	ctx := context.Background()
	s := newScratch(t)

	require.NoError(t, s.Symlink(ctx, "/missing", "/l"))

	target, err := s.Readlink(ctx, "/l")
	require.NoError(t, err)
	assert.Equal(t, "/missing", target)

	entry, err := s.Lstat(ctx, "/l")
	require.NoError(t, err)
	assert.Equal(t, fs.KindSymlink, entry.Kind)

	_, err = s.Stat(ctx, "/l")
	assert.True(t, fs.IsNotFound(err))
}

func TestStdfsSymlinkLoop(t *testing.T) {
	ctx := context.Background()
	s := newScratch(t)

	require.NoError(t, s.Symlink(ctx, "b", "/a"))
	require.NoError(t, s.Symlink(ctx, "a", "/b"))

	// The shared resolver bounds traversal before the host's own limit
	// is ever consulted.
	_, err := s.Stat(ctx, "/a")
	require.Error(t, err)
	assert.True(t, fs.IsSymlinkLoop(err))
}

func TestStdfsDotDotEscape(t *testing.T) {
	ctx := context.Background()
	s := newScratch(t)

	require.NoError(t, s.Mkdir(ctx, "/x"))

	_, err := s.Stat(ctx, "/x/../../y")
	assert.True(t, fs.IsInvalidPath(err))
}

func TestStdfsCwd(t *testing.T) {
	ctx := context.Background()
	s := newScratch(t)

	cwd, err := s.Cwd(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/", cwd)

	require.NoError(t, s.MkdirAll(ctx, "/a/b"))
	require.NoError(t, s.Chdir(ctx, "/a"))

	require.NoError(t, s.Create(ctx, "f"))
	_, err = s.Stat(ctx, "/a/f")
	require.NoError(t, err)

	err = s.Chdir(ctx, "/a/f")
	assert.True(t, fs.IsNotDir(err))
}

func TestStdfsReadDir(t *testing.T) {
	ctx := context.Background()
	s := newScratch(t)

	require.NoError(t, s.Mkdir(ctx, "/d"))
	for _, name := range []string{"b", "a"} {
		require.NoError(t, s.Create(ctx, "/d/"+name))
	}

	entries, err := s.ReadDir(ctx, "/d")
	require.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name)
	}
	// The host backend adopts the host's listing order, which here is
	// name order.
	assert.Equal(t, []string{"a", "b"}, names)

	_, err = s.ReadDir(ctx, "/d/a")
	assert.True(t, fs.IsNotDir(err))
}
