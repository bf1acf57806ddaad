// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"errors"
)

// Sentinel errors shared by every backend.  Callers match on these with
// errors.Is regardless of which backend produced the failure.
var (
	ErrNotFound    = errors.New("entry not found")
	ErrExists      = errors.New("entry already exists")
	ErrNotDir      = errors.New("not a directory")
	ErrIsDir       = errors.New("is a directory")
	ErrDirNotEmpty = errors.New("directory not empty")
	ErrPermission  = errors.New("permission denied")
	ErrInvalidPath = errors.New("invalid path")
	ErrSymlinkLoop = errors.New("too many levels of symbolic links")
	ErrUnsupported = errors.New("operation not supported")
)

// PathError records an operation, the path it was attempted on, and the
// sentinel error that classifies the failure.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func NewPathError(op string, path string, err error) *PathError {
	return &PathError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsExists(err error) bool {
	return errors.Is(err, ErrExists)
}

func IsNotDir(err error) bool {
	return errors.Is(err, ErrNotDir)
}

func IsDir(err error) bool {
	return errors.Is(err, ErrIsDir)
}

func IsDirNotEmpty(err error) bool {
	return errors.Is(err, ErrDirNotEmpty)
}

func IsPermission(err error) bool {
	return errors.Is(err, ErrPermission)
}

func IsInvalidPath(err error) bool {
	return errors.Is(err, ErrInvalidPath)
}

func IsSymlinkLoop(err error) bool {
	return errors.Is(err, ErrSymlinkLoop)
}

func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
