// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

// EntryKind identifies what a filesystem entry is.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDir
	KindSymlink
)

func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	}
	return "unknown"
}
