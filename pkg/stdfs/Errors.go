// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package stdfs

import (
	"errors"
	iofs "io/fs"
	"syscall"

	"github.com/spf13/afero"

	"github.com/floefs/floe/pkg/fs"
)

// translate maps a host error onto the shared taxonomy so callers can
// handle failures without knowing which backend produced them.  Errors
// that already carry a sentinel pass through unchanged.
func translate(op string, path string, err error) error {
	if err == nil {
		return nil
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return err
	}
	switch {
	case errors.Is(err, iofs.ErrNotExist):
		return fs.NewPathError(op, path, fs.ErrNotFound)
	case errors.Is(err, iofs.ErrExist):
		return fs.NewPathError(op, path, fs.ErrExists)
	case errors.Is(err, iofs.ErrPermission), errors.Is(err, syscall.EPERM):
		return fs.NewPathError(op, path, fs.ErrPermission)
	case errors.Is(err, syscall.ENOTDIR):
		return fs.NewPathError(op, path, fs.ErrNotDir)
	case errors.Is(err, syscall.EISDIR):
		return fs.NewPathError(op, path, fs.ErrIsDir)
	case errors.Is(err, syscall.ENOTEMPTY):
		return fs.NewPathError(op, path, fs.ErrDirNotEmpty)
	case errors.Is(err, syscall.ELOOP):
		return fs.NewPathError(op, path, fs.ErrSymlinkLoop)
	case errors.Is(err, syscall.EINVAL), errors.Is(err, syscall.ENAMETOOLONG):
		return fs.NewPathError(op, path, fs.ErrInvalidPath)
	case errors.Is(err, syscall.EXDEV):
		// Cross-device renames are not papered over with copies.
		return fs.NewPathError(op, path, fs.ErrUnsupported)
	case errors.Is(err, afero.ErrNoSymlink):
		return fs.NewPathError(op, path, fs.ErrUnsupported)
	}
	return fs.NewPathError(op, path, err)
}
