// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package stdfs

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/spf13/afero"

	"github.com/floefs/floe/pkg/fs"
)

// Stdfs maps the shared capability set onto the host filesystem.  It
// owns no tree of its own: it is a stateless translator apart from its
// per-instance current working directory.
//
// Every path is routed through the shared resolver before a host call
// is issued, so ".."-escape and symlink-loop behavior match the
// in-memory backend instead of varying with the host's own limits.
type Stdfs struct {
	fs       afero.Fs
	cwd      string
	resolver *fs.Resolver
}

var _ fs.FileSystem = (*Stdfs)(nil)

// New returns a backend over the whole host filesystem, with the
// current working directory taken from the process at construction.
func New() (*Stdfs, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("error reading working directory: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &Stdfs{
		fs:  afero.NewOsFs(),
		cwd: cwd,
		resolver: &fs.Resolver{
			MaxLinkDepth: fs.DefaultMaxLinkDepth,
			Home:         home,
		},
	}, nil
}

// NewWithRoot returns a backend confined to the given host directory,
// which becomes its "/".  Used for scratch-directory scenario replay
// against the in-memory backend.
func NewWithRoot(root string) *Stdfs {
	return &Stdfs{
		fs:  afero.NewBasePathFs(afero.NewOsFs(), root),
		cwd: "/",
		resolver: &fs.Resolver{
			MaxLinkDepth: fs.DefaultMaxLinkDepth,
			Home:         "/",
		},
	}
}

// linkTarget feeds the resolver from host lstat/readlink calls.
func (s *Stdfs) linkTarget(p string) (string, bool) {
	lst, ok := s.fs.(afero.Lstater)
	if !ok {
		return "", false
	}
	fi, _, err := lst.LstatIfPossible(p)
	if err != nil || fi.Mode()&os.ModeSymlink == 0 {
		return "", false
	}
	rl, ok := s.fs.(afero.LinkReader)
	if !ok {
		return "", false
	}
	target, err := rl.ReadlinkIfPossible(p)
	if err != nil {
		return "", false
	}
	return target, true
}

func (s *Stdfs) resolve(p string, followFinal bool) (string, error) {
	return s.resolver.Resolve(fs.LinkSourceFunc(s.linkTarget), s.cwd, p, followFinal)
}

func (s *Stdfs) lstat(p string) (os.FileInfo, error) {
	if lst, ok := s.fs.(afero.Lstater); ok {
		fi, _, err := lst.LstatIfPossible(p)
		return fi, err
	}
	return s.fs.Stat(p)
}

func (s *Stdfs) entry(abs string, fi os.FileInfo) *fs.Entry {
	uid, gid := ownerOf(fi)
	e := &fs.Entry{
		Path:       abs,
		Name:       path.Base(abs),
		Mode:       fi.Mode(),
		ModTime:    fi.ModTime(),
		AccessTime: accessTimeOf(fi),
		Uid:        uid,
		Gid:        gid,
	}
	switch {
	case fi.Mode()&os.ModeSymlink != 0:
		e.Kind = fs.KindSymlink
		e.Size = fi.Size()
		if rl, ok := s.fs.(afero.LinkReader); ok {
			if target, err := rl.ReadlinkIfPossible(abs); err == nil {
				e.LinkTarget = target
			}
		}
	case fi.IsDir():
		e.Kind = fs.KindDir
	default:
		e.Kind = fs.KindFile
		e.Size = fi.Size()
	}
	return e
}

func (s *Stdfs) Cwd(ctx context.Context) (string, error) {
	return s.cwd, nil
}

func (s *Stdfs) Chdir(ctx context.Context, p string) error {
	abs, err := s.resolve(p, true)
	if err != nil {
		return err
	}
	fi, err := s.lstat(abs)
	if err != nil {
		return translate("chdir", abs, err)
	}
	if !fi.IsDir() {
		return fs.NewPathError("chdir", abs, fs.ErrNotDir)
	}
	s.cwd = abs
	return nil
}

func (s *Stdfs) Create(ctx context.Context, p string) error {
	abs, err := s.resolve(p, false)
	if err != nil {
		return err
	}
	f, err := s.fs.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return translate("create", abs, err)
	}
	return translate("create", abs, f.Close())
}

func (s *Stdfs) Mkdir(ctx context.Context, p string) error {
	abs, err := s.resolve(p, false)
	if err != nil {
		return err
	}
	return translate("mkdir", abs, s.fs.Mkdir(abs, 0755))
}

func (s *Stdfs) MkdirAll(ctx context.Context, p string) error {
	abs, err := s.resolve(p, true)
	if err != nil {
		return err
	}
	if _, err := s.lstat(abs); err == nil {
		// Existing ancestors are fine but an existing leaf is not.
		return fs.NewPathError("mkdir", abs, fs.ErrExists)
	}
	return translate("mkdir", abs, s.fs.MkdirAll(abs, 0755))
}

func (s *Stdfs) Remove(ctx context.Context, p string) error {
	abs, err := s.resolve(p, false)
	if err != nil {
		return err
	}
	if abs == "/" {
		return fs.NewPathError("remove", abs, fs.ErrInvalidPath)
	}
	return translate("remove", abs, s.fs.Remove(abs))
}

func (s *Stdfs) RemoveAll(ctx context.Context, p string) error {
	abs, err := s.resolve(p, false)
	if err != nil {
		return err
	}
	if abs == "/" {
		return fs.NewPathError("remove", abs, fs.ErrInvalidPath)
	}
	// The host treats removing an absent tree as a no-op; the shared
	// contract reports it.
	if _, err := s.lstat(abs); err != nil {
		return translate("remove", abs, err)
	}
	return translate("remove", abs, s.fs.RemoveAll(abs))
}

func (s *Stdfs) Rename(ctx context.Context, src string, dst string) error {
	srcAbs, err := s.resolve(src, false)
	if err != nil {
		return err
	}
	dstAbs, err := s.resolve(dst, false)
	if err != nil {
		return err
	}
	sfi, err := s.lstat(srcAbs)
	if err != nil {
		return translate("rename", srcAbs, err)
	}
	if dfi, err := s.lstat(dstAbs); err == nil {
		if kindOf(sfi) != kindOf(dfi) {
			return fs.NewPathError("rename", dstAbs, fs.ErrExists)
		}
	}
	return translate("rename", dstAbs, s.fs.Rename(srcAbs, dstAbs))
}

func kindOf(fi os.FileInfo) fs.EntryKind {
	switch {
	case fi.Mode()&os.ModeSymlink != 0:
		return fs.KindSymlink
	case fi.IsDir():
		return fs.KindDir
	}
	return fs.KindFile
}

func (s *Stdfs) ReadFile(ctx context.Context, p string) ([]byte, error) {
	abs, err := s.resolve(p, true)
	if err != nil {
		return nil, err
	}
	fi, err := s.lstat(abs)
	if err != nil {
		return nil, translate("read", abs, err)
	}
	if fi.IsDir() {
		return nil, fs.NewPathError("read", abs, fs.ErrIsDir)
	}
	data, err := afero.ReadFile(s.fs, abs)
	if err != nil {
		return nil, translate("read", abs, err)
	}
	return data, nil
}

func (s *Stdfs) WriteFile(ctx context.Context, p string, data []byte) error {
	return s.write("write", p, data, os.O_WRONLY|os.O_TRUNC)
}

func (s *Stdfs) AppendFile(ctx context.Context, p string, data []byte) error {
	return s.write("append", p, data, os.O_WRONLY|os.O_APPEND)
}

// write opens without O_CREATE: writing to a path that does not already
// resolve to a file is an error under the shared contract.
func (s *Stdfs) write(op string, p string, data []byte, flags int) error {
	abs, err := s.resolve(p, true)
	if err != nil {
		return err
	}
	f, err := s.fs.OpenFile(abs, flags, 0)
	if err != nil {
		return translate(op, abs, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return translate(op, abs, err)
	}
	return translate(op, abs, f.Close())
}

func (s *Stdfs) Symlink(ctx context.Context, target string, link string) error {
	if target == "" {
		return fs.NewPathError("symlink", link, fs.ErrInvalidPath)
	}
	abs, err := s.resolve(link, false)
	if err != nil {
		return err
	}
	linker, ok := s.fs.(afero.Symlinker)
	if !ok {
		return fs.NewPathError("symlink", abs, fs.ErrUnsupported)
	}
	return translate("symlink", abs, linker.SymlinkIfPossible(target, abs))
}

func (s *Stdfs) Readlink(ctx context.Context, p string) (string, error) {
	abs, err := s.resolve(p, false)
	if err != nil {
		return "", err
	}
	rl, ok := s.fs.(afero.LinkReader)
	if !ok {
		return "", fs.NewPathError("readlink", abs, fs.ErrUnsupported)
	}
	target, err := rl.ReadlinkIfPossible(abs)
	if err != nil {
		return "", translate("readlink", abs, err)
	}
	return target, nil
}

func (s *Stdfs) Stat(ctx context.Context, p string) (*fs.Entry, error) {
	return s.statEntry("stat", p, true)
}

func (s *Stdfs) Lstat(ctx context.Context, p string) (*fs.Entry, error) {
	return s.statEntry("lstat", p, false)
}

func (s *Stdfs) statEntry(op string, p string, followFinal bool) (*fs.Entry, error) {
	abs, err := s.resolve(p, followFinal)
	if err != nil {
		return nil, err
	}
	fi, err := s.lstat(abs)
	if err != nil {
		return nil, translate(op, abs, err)
	}
	return s.entry(abs, fi), nil
}

func (s *Stdfs) ReadDir(ctx context.Context, p string) ([]*fs.Entry, error) {
	abs, err := s.resolve(p, true)
	if err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(s.fs, abs)
	if err != nil {
		return nil, translate("readdir", abs, err)
	}
	entries := make([]*fs.Entry, 0, len(infos))
	for _, fi := range infos {
		child := abs + "/" + fi.Name()
		if abs == "/" {
			child = "/" + fi.Name()
		}
		entries = append(entries, s.entry(child, fi))
	}
	return entries, nil
}

func (s *Stdfs) Chmod(ctx context.Context, p string, mode os.FileMode) error {
	abs, err := s.resolve(p, true)
	if err != nil {
		return err
	}
	return translate("chmod", abs, s.fs.Chmod(abs, mode&os.ModePerm))
}

func (s *Stdfs) Chown(ctx context.Context, p string, uid uint32, gid uint32) error {
	abs, err := s.resolve(p, true)
	if err != nil {
		return err
	}
	return translate("chown", abs, s.fs.Chown(abs, int(uid), int(gid)))
}

func (s *Stdfs) Chtimes(ctx context.Context, p string, atime time.Time, mtime time.Time) error {
	abs, err := s.resolve(p, true)
	if err != nil {
		return err
	}
	return translate("chtimes", abs, s.fs.Chtimes(abs, atime, mtime))
}
