// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

//go:build !linux && !darwin

package stdfs

import (
	"os"
	"time"
)

func ownerOf(fi os.FileInfo) (uint32, uint32) {
	return 0, 0
}

func accessTimeOf(fi os.FileInfo) time.Time {
	return fi.ModTime()
}
