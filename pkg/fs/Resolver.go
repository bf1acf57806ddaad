// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"strings"

	"github.com/floefs/floe/pkg/paths"
)

// DefaultMaxLinkDepth bounds how many symlinks a single resolution may
// traverse before failing with ErrSymlinkLoop.
const DefaultMaxLinkDepth = 40

// LinkSource provides the only lookup the resolver needs from a
// backend: the stored target of a symlink at an absolute, already
// normalized path.  ok is false when the path does not exist or is not
// a symlink.  Implementations must not mutate any state.
type LinkSource interface {
	LinkTarget(path string) (target string, ok bool)
}

// LinkSourceFunc adapts a plain function to the LinkSource interface.
type LinkSourceFunc func(path string) (string, bool)

func (f LinkSourceFunc) LinkTarget(path string) (string, bool) {
	return f(path)
}

// Resolver turns possibly relative, possibly symlinked paths into
// canonical absolute paths.  It is pure logic over read-only LinkSource
// lookups; existence of intermediate components is enforced by the
// operations themselves so that paths which do not exist yet can still
// be resolved.
type Resolver struct {
	// MaxLinkDepth bounds symlink traversal.  Zero means
	// DefaultMaxLinkDepth.
	MaxLinkDepth int

	// Home is substituted for a leading "~".  When empty, paths using
	// "~" fail with ErrInvalidPath.
	Home string
}

func NewResolver() *Resolver {
	return &Resolver{
		MaxLinkDepth: DefaultMaxLinkDepth,
	}
}

// Resolve normalizes raw against cwd.  "." components are dropped and
// ".." components pop the previously resolved component, failing with
// ErrInvalidPath when that would escape above the root.  Symlinks in
// directory position are always dereferenced; followFinal controls
// whether a symlink in the final position is dereferenced too.
func (r *Resolver) Resolve(src LinkSource, cwd string, raw string, followFinal bool) (string, error) {
	if raw == "" || strings.ContainsRune(raw, 0) {
		return "", NewPathError("resolve", raw, ErrInvalidPath)
	}

	p := raw
	if strings.Contains(p, "~") {
		if r.Home == "" {
			return "", NewPathError("resolve", raw, ErrInvalidPath)
		}
		expanded, err := paths.ExpandWith(p, r.Home)
		if err != nil {
			return "", NewPathError("resolve", raw, ErrInvalidPath)
		}
		p = expanded
	}
	if !strings.HasPrefix(p, "/") {
		if !strings.HasPrefix(cwd, "/") {
			return "", NewPathError("resolve", raw, ErrInvalidPath)
		}
		p = cwd + "/" + p
	}

	maxDepth := r.MaxLinkDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxLinkDepth
	}

	pending := strings.Split(p, "/")
	resolved := make([]string, 0, len(pending))
	links := 0

	for len(pending) > 0 {
		c := pending[0]
		pending = pending[1:]
		switch c {
		case "", ".":
			continue
		case "..":
			if len(resolved) == 0 {
				return "", NewPathError("resolve", raw, ErrInvalidPath)
			}
			resolved = resolved[:len(resolved)-1]
			continue
		}

		candidate := "/" + strings.Join(append(resolved, c), "/")
		target, ok := src.LinkTarget(candidate)
		if !ok {
			resolved = append(resolved, c)
			continue
		}
		if len(pending) == 0 && !followFinal {
			resolved = append(resolved, c)
			continue
		}

		links++
		if links > maxDepth {
			return "", NewPathError("resolve", raw, ErrSymlinkLoop)
		}

		// An absolute target restarts from the root; a relative target
		// resolves against the link's parent directory.
		if strings.HasPrefix(target, "/") {
			resolved = resolved[:0]
		}
		pending = append(strings.Split(target, "/"), pending...)
	}

	if len(resolved) == 0 {
		return "/", nil
	}
	return "/" + strings.Join(resolved, "/"), nil
}
