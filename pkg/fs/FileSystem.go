// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"context"
	"os"
	"time"
)

// FileSystem is the capability set shared by every backend.  Callers
// use identical signatures whether the backend is in-memory or backed
// by the host filesystem; only construction differs.
//
// Relative paths are resolved against the backend's own current
// working directory, never against process state, so independent
// instances do not interfere with each other.
type FileSystem interface {
	// Cwd returns the backend's current working directory.
	Cwd(ctx context.Context) (string, error)

	// Chdir changes the backend's current working directory.
	Chdir(ctx context.Context, path string) error

	// Create creates an empty file.  The parent directory must exist.
	Create(ctx context.Context, path string) error

	// Mkdir creates a single directory.  The parent directory must exist.
	Mkdir(ctx context.Context, path string) error

	// MkdirAll creates a directory along with any missing ancestors.
	// An existing leaf directory is an error; existing ancestors are not.
	MkdirAll(ctx context.Context, path string) error

	// Remove removes a file, symlink, or empty directory.
	Remove(ctx context.Context, path string) error

	// RemoveAll removes the entry and, for directories, all children
	// depth-first.  Removing an absent path is an error.
	RemoveAll(ctx context.Context, path string) error

	// Rename moves src to dst.  An existing destination of the same
	// kind is replaced; a destination of a different kind is an error
	// and is left untouched.
	Rename(ctx context.Context, src string, dst string) error

	// ReadFile returns the full content of the file.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFile replaces the content of an existing file.
	WriteFile(ctx context.Context, path string, data []byte) error

	// AppendFile appends to the content of an existing file.
	AppendFile(ctx context.Context, path string, data []byte) error

	// Symlink creates a symlink at link holding target verbatim.  The
	// target is not required to exist.
	Symlink(ctx context.Context, target string, link string) error

	// Readlink returns the stored target of a symlink.
	Readlink(ctx context.Context, path string) (string, error)

	// Stat describes the entry at path, following a final symlink.
	Stat(ctx context.Context, path string) (*Entry, error)

	// Lstat describes the entry at path without following a final symlink.
	Lstat(ctx context.Context, path string) (*Entry, error)

	// ReadDir lists the children of a directory.
	ReadDir(ctx context.Context, path string) ([]*Entry, error)

	// Chmod sets the permission bits of the entry.
	Chmod(ctx context.Context, path string, mode os.FileMode) error

	// Chown sets the numeric owner IDs of the entry.
	Chown(ctx context.Context, path string, uid uint32, gid uint32) error

	// Chtimes sets the access and modification times of the entry.
	Chtimes(ctx context.Context, path string, atime time.Time, mtime time.Time) error
}
