// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package memfs

import (
	"time"

	"github.com/floefs/floe/pkg/fs"
)

// node is a single entry in the simulated tree.  Nodes are keyed by
// absolute path in the Memfs map rather than linked to each other, so
// symlink cycles stay logical loops instead of reference cycles.
type node struct {
	entry fs.Entry

	// data is the file content.  Unused for directories and symlinks.
	data []byte

	// children holds child names for directories in insertion order,
	// which is the visible ReadDir contract.
	children []string
}

func newNode(path string, name string, kind fs.EntryKind, now time.Time) *node {
	n := &node{
		entry: fs.Entry{
			Path:       path,
			Name:       name,
			Kind:       kind,
			ModTime:    now,
			AccessTime: now,
		},
	}
	switch kind {
	case fs.KindDir:
		n.entry.Mode = defaultDirMode
	case fs.KindSymlink:
		n.entry.Mode = defaultLinkMode
	default:
		n.entry.Mode = defaultFileMode
	}
	return n
}

func (n *node) addChild(name string, now time.Time) {
	n.children = append(n.children, name)
	n.entry.ModTime = now
}

func (n *node) removeChild(name string, now time.Time) {
	for i, c := range n.children {
		if c == name {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
	n.entry.ModTime = now
}

func (n *node) hasChild(name string) bool {
	for _, c := range n.children {
		if c == name {
			return true
		}
	}
	return false
}
