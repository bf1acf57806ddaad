// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package paths

import (
	"errors"
	"os"
	"path"
	"strings"
)

var (
	ErrEmpty                = errors.New("path is empty")
	ErrMultipleHomeTilde    = errors.New("path contains multiple home symbols")
	ErrInvalidHomeExpansion = errors.New("path contains an invalid home expansion")
)

// Clean normalizes the given path lexically using forward slashes,
// dropping "." elements and collapsing repeated separators.  Unlike
// resolution it never consults a filesystem.
func Clean(p string) string {
	if p == "" {
		return "."
	}
	return path.Clean(p)
}

// Join joins path elements with forward slashes and cleans the result.
func Join(elem ...string) string {
	return path.Join(elem...)
}

// Ext returns the extension of the final path element without the
// leading dot, or the empty string if there is none.
func Ext(p string) string {
	ext := path.Ext(p)
	if ext == "" {
		return ""
	}
	return ext[1:]
}

// TrimExt returns the path without the extension of its final element.
func TrimExt(p string) string {
	return strings.TrimSuffix(p, path.Ext(p))
}

// TrimProtocol returns the path without a leading protocol prefix such
// as "file://".
func TrimProtocol(p string) string {
	if i := strings.Index(p, "://"); i >= 0 {
		return p[i+len("://"):]
	}
	return p
}

// Expand replaces a leading "~" with the current user's home directory.
func Expand(p string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return ExpandWith(p, home)
}

// ExpandWith replaces a leading "~" in the path with the given home
// directory.  A "~" anywhere else in the path, more than one "~", or
// the "~user" form are rejected.
func ExpandWith(p string, home string) (string, error) {
	if p == "" {
		return "", ErrEmpty
	}
	if !strings.Contains(p, "~") {
		return p, nil
	}
	if strings.Count(p, "~") > 1 {
		return "", ErrMultipleHomeTilde
	}
	if p == "~" {
		return home, nil
	}
	if !strings.HasPrefix(p, "~/") {
		return "", ErrInvalidHomeExpansion
	}
	return Join(home, p[2:]), nil
}
