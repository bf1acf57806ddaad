// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"os"
	"time"
)

// Entry describes a single filesystem node in a backend-independent
// shape.  Backends hand out value copies; mutating an Entry never
// mutates the filesystem it came from.
type Entry struct {
	// Path is the resolved absolute path of the entry.
	Path string

	// Name is the base name of the entry.
	Name string

	// Kind identifies the entry as a file, directory, or symlink.
	Kind EntryKind

	// Mode holds the permission and type bits.
	Mode os.FileMode

	// Size is the byte length of a file's content, or of a symlink's
	// target string.  Zero for directories.
	Size int64

	// Uid and Gid are the raw numeric owner IDs.  Name lookups are the
	// business of the identity package, never of a backend.
	Uid uint32
	Gid uint32

	// ModTime is the last content modification time.
	ModTime time.Time

	// AccessTime is the last access time where the backend tracks one.
	AccessTime time.Time

	// LinkTarget is the verbatim, unresolved target of a symlink.
	LinkTarget string
}

func (e *Entry) IsFile() bool {
	return e.Kind == KindFile
}

func (e *Entry) IsDir() bool {
	return e.Kind == KindDir
}

func (e *Entry) IsSymlink() bool {
	return e.Kind == KindSymlink
}
