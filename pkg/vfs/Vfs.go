// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package vfs

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/floefs/floe/pkg/fs"
	"github.com/floefs/floe/pkg/memfs"
	"github.com/floefs/floe/pkg/stdfs"
)

// Vfs is a thin facade over exactly one backend.  It performs no
// resolution and no mutation of its own; every call is forwarded
// unchanged, so callers never branch on which backend is active.
type Vfs struct {
	backend fs.FileSystem
}

// New returns a facade over the given backend.
func New(backend fs.FileSystem) *Vfs {
	return &Vfs{
		backend: backend,
	}
}

// NewMemfs returns a facade over a fresh in-memory backend.
func NewMemfs() *Vfs {
	return New(memfs.New())
}

// NewStdfs returns a facade over the host filesystem.
func NewStdfs() (*Vfs, error) {
	backend, err := stdfs.New()
	if err != nil {
		return nil, fmt.Errorf("error constructing host backend: %w", err)
	}
	return New(backend), nil
}

// Backend returns the active backend.
func (v *Vfs) Backend() fs.FileSystem {
	return v.backend
}

// Swap replaces the active backend and returns the previous one.  Used
// for test isolation: run a scenario in memory, swap, and replay it
// against a scratch directory on the host.
func (v *Vfs) Swap(backend fs.FileSystem) fs.FileSystem {
	old := v.backend
	v.backend = backend
	return old
}

func (v *Vfs) Cwd(ctx context.Context) (string, error) {
	return v.backend.Cwd(ctx)
}

func (v *Vfs) Chdir(ctx context.Context, path string) error {
	return v.backend.Chdir(ctx, path)
}

func (v *Vfs) Create(ctx context.Context, path string) error {
	return v.backend.Create(ctx, path)
}

func (v *Vfs) Mkdir(ctx context.Context, path string) error {
	return v.backend.Mkdir(ctx, path)
}

func (v *Vfs) MkdirAll(ctx context.Context, path string) error {
	return v.backend.MkdirAll(ctx, path)
}

func (v *Vfs) Remove(ctx context.Context, path string) error {
	return v.backend.Remove(ctx, path)
}

func (v *Vfs) RemoveAll(ctx context.Context, path string) error {
	return v.backend.RemoveAll(ctx, path)
}

func (v *Vfs) Rename(ctx context.Context, src string, dst string) error {
	return v.backend.Rename(ctx, src, dst)
}

func (v *Vfs) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return v.backend.ReadFile(ctx, path)
}

func (v *Vfs) WriteFile(ctx context.Context, path string, data []byte) error {
	return v.backend.WriteFile(ctx, path, data)
}

func (v *Vfs) AppendFile(ctx context.Context, path string, data []byte) error {
	return v.backend.AppendFile(ctx, path, data)
}

func (v *Vfs) Symlink(ctx context.Context, target string, link string) error {
	return v.backend.Symlink(ctx, target, link)
}

func (v *Vfs) Readlink(ctx context.Context, path string) (string, error) {
	return v.backend.Readlink(ctx, path)
}

func (v *Vfs) Stat(ctx context.Context, path string) (*fs.Entry, error) {
	return v.backend.Stat(ctx, path)
}

func (v *Vfs) Lstat(ctx context.Context, path string) (*fs.Entry, error) {
	return v.backend.Lstat(ctx, path)
}

func (v *Vfs) ReadDir(ctx context.Context, path string) ([]*fs.Entry, error) {
	return v.backend.ReadDir(ctx, path)
}

func (v *Vfs) Chmod(ctx context.Context, path string, mode os.FileMode) error {
	return v.backend.Chmod(ctx, path, mode)
}

func (v *Vfs) Chown(ctx context.Context, path string, uid uint32, gid uint32) error {
	return v.backend.Chown(ctx, path, uid, gid)
}

func (v *Vfs) Chtimes(ctx context.Context, path string, atime time.Time, mtime time.Time) error {
	return v.backend.Chtimes(ctx, path, atime, mtime)
}

// ReadString reads the file at path as a string.
func (v *Vfs) ReadString(ctx context.Context, path string) (string, error) {
	data, err := v.backend.ReadFile(ctx, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteString replaces the content of an existing file with s.
func (v *Vfs) WriteString(ctx context.Context, path string, s string) error {
	return v.backend.WriteFile(ctx, path, []byte(s))
}

// WalkFunc is called by Walk for every visited entry.
type WalkFunc func(entry *fs.Entry) error

// Walk visits root and every entry below it, parents before children,
// in the backend's directory listing order.  Symlinks are reported and
// not followed.
func (v *Vfs) Walk(ctx context.Context, root string, fn WalkFunc) error {
	entry, err := v.backend.Lstat(ctx, root)
	if err != nil {
		return err
	}
	return v.walk(ctx, entry, fn)
}

func (v *Vfs) walk(ctx context.Context, entry *fs.Entry, fn WalkFunc) error {
	if err := fn(entry); err != nil {
		return err
	}
	if !entry.IsDir() {
		return nil
	}
	children, err := v.backend.ReadDir(ctx, entry.Path)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := v.walk(ctx, child, fn); err != nil {
			return err
		}
	}
	return nil
}
