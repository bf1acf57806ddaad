// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package memfs

import (
	"context"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/floefs/floe/pkg/fs"
)

const (
	defaultFileMode = os.FileMode(0644)
	defaultDirMode  = os.ModeDir | os.FileMode(0755)
	defaultLinkMode = os.ModeSymlink | os.FileMode(0777)
)

// Memfs is an in-memory filesystem backend.  The entire tree lives in
// a path-keyed node map owned by the instance; nothing is shared
// between instances and nothing survives the instance.  A single lock
// guards the whole tree.
type Memfs struct {
	mu       sync.RWMutex
	nodes    map[string]*node
	cwd      string
	resolver *fs.Resolver
	uid      uint32
	gid      uint32
	now      func() time.Time
}

var _ fs.FileSystem = (*Memfs)(nil)

// New returns an empty Memfs containing only a synthetic root
// directory, with the current working directory set to "/".
func New() *Memfs {
	m := &Memfs{
		nodes: map[string]*node{},
		cwd:   "/",
		resolver: &fs.Resolver{
			MaxLinkDepth: fs.DefaultMaxLinkDepth,
			Home:         "/",
		},
		now: time.Now,
	}
	m.nodes["/"] = newNode("/", "/", fs.KindDir, m.now())
	return m
}

// linkTarget feeds the resolver.  Callers hold the tree lock.
func (m *Memfs) linkTarget(p string) (string, bool) {
	n, ok := m.nodes[p]
	if !ok || n.entry.Kind != fs.KindSymlink {
		return "", false
	}
	return n.entry.LinkTarget, true
}

func (m *Memfs) resolve(p string, followFinal bool) (string, error) {
	return m.resolver.Resolve(fs.LinkSourceFunc(m.linkTarget), m.cwd, p, followFinal)
}

// missing classifies a failed lookup: if the nearest existing ancestor
// of the path is not a directory the failure is ErrNotDir, otherwise
// ErrNotFound.
func (m *Memfs) missing(op string, abs string) error {
	for dir := path.Dir(abs); ; dir = path.Dir(dir) {
		if n, ok := m.nodes[dir]; ok {
			if n.entry.Kind != fs.KindDir {
				return fs.NewPathError(op, abs, fs.ErrNotDir)
			}
			break
		}
		if dir == "/" {
			break
		}
	}
	return fs.NewPathError(op, abs, fs.ErrNotFound)
}

// parent returns the parent directory node of abs.
func (m *Memfs) parent(op string, abs string) (*node, error) {
	p, ok := m.nodes[path.Dir(abs)]
	if !ok {
		return nil, fs.NewPathError(op, abs, fs.ErrNotFound)
	}
	if p.entry.Kind != fs.KindDir {
		return nil, fs.NewPathError(op, abs, fs.ErrNotDir)
	}
	return p, nil
}

func joinAbs(dir string, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}

func (m *Memfs) Cwd(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cwd, nil
}

func (m *Memfs) Chdir(ctx context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs, err := m.resolve(p, true)
	if err != nil {
		return err
	}
	n, ok := m.nodes[abs]
	if !ok {
		return m.missing("chdir", abs)
	}
	if n.entry.Kind != fs.KindDir {
		return fs.NewPathError("chdir", abs, fs.ErrNotDir)
	}
	m.cwd = abs
	return nil
}

func (m *Memfs) Create(ctx context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs, err := m.resolve(p, false)
	if err != nil {
		return err
	}
	if _, ok := m.nodes[abs]; ok {
		return fs.NewPathError("create", abs, fs.ErrExists)
	}
	parent, err := m.parent("create", abs)
	if err != nil {
		return err
	}
	now := m.now()
	n := newNode(abs, path.Base(abs), fs.KindFile, now)
	n.entry.Uid, n.entry.Gid = m.uid, m.gid
	m.nodes[abs] = n
	parent.addChild(n.entry.Name, now)
	return nil
}

func (m *Memfs) Mkdir(ctx context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs, err := m.resolve(p, false)
	if err != nil {
		return err
	}
	if _, ok := m.nodes[abs]; ok {
		return fs.NewPathError("mkdir", abs, fs.ErrExists)
	}
	parent, err := m.parent("mkdir", abs)
	if err != nil {
		return err
	}
	now := m.now()
	n := newNode(abs, path.Base(abs), fs.KindDir, now)
	n.entry.Uid, n.entry.Gid = m.uid, m.gid
	m.nodes[abs] = n
	parent.addChild(n.entry.Name, now)
	return nil
}

func (m *Memfs) MkdirAll(ctx context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs, err := m.resolve(p, true)
	if err != nil {
		return err
	}
	if _, ok := m.nodes[abs]; ok {
		// Existing ancestors are fine but an existing leaf is not.
		return fs.NewPathError("mkdir", abs, fs.ErrExists)
	}
	now := m.now()
	acc := ""
	for _, c := range strings.Split(abs, "/") {
		if c == "" {
			continue
		}
		dir := acc
		if dir == "" {
			dir = "/"
		}
		acc = joinAbs(dir, c)
		if n, ok := m.nodes[acc]; ok {
			if n.entry.Kind != fs.KindDir {
				return fs.NewPathError("mkdir", acc, fs.ErrNotDir)
			}
			continue
		}
		n := newNode(acc, c, fs.KindDir, now)
		n.entry.Uid, n.entry.Gid = m.uid, m.gid
		m.nodes[acc] = n
		m.nodes[dir].addChild(c, now)
	}
	return nil
}

func (m *Memfs) Remove(ctx context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs, err := m.resolve(p, false)
	if err != nil {
		return err
	}
	if abs == "/" {
		return fs.NewPathError("remove", abs, fs.ErrInvalidPath)
	}
	n, ok := m.nodes[abs]
	if !ok {
		return m.missing("remove", abs)
	}
	if n.entry.Kind == fs.KindDir && len(n.children) > 0 {
		return fs.NewPathError("remove", abs, fs.ErrDirNotEmpty)
	}
	delete(m.nodes, abs)
	m.nodes[path.Dir(abs)].removeChild(n.entry.Name, m.now())
	return nil
}

func (m *Memfs) RemoveAll(ctx context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs, err := m.resolve(p, false)
	if err != nil {
		return err
	}
	if abs == "/" {
		return fs.NewPathError("remove", abs, fs.ErrInvalidPath)
	}
	n, ok := m.nodes[abs]
	if !ok {
		return m.missing("remove", abs)
	}
	m.dropTree(abs, n)
	m.nodes[path.Dir(abs)].removeChild(n.entry.Name, m.now())
	return nil
}

// dropTree deletes the node and, depth-first, everything below it.
func (m *Memfs) dropTree(abs string, n *node) {
	if n.entry.Kind == fs.KindDir {
		for _, name := range append([]string(nil), n.children...) {
			child := joinAbs(abs, name)
			m.dropTree(child, m.nodes[child])
		}
	}
	delete(m.nodes, abs)
}

func (m *Memfs) Rename(ctx context.Context, src string, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	srcAbs, err := m.resolve(src, false)
	if err != nil {
		return err
	}
	dstAbs, err := m.resolve(dst, false)
	if err != nil {
		return err
	}
	if srcAbs == "/" || dstAbs == "/" {
		return fs.NewPathError("rename", srcAbs, fs.ErrInvalidPath)
	}
	sn, ok := m.nodes[srcAbs]
	if !ok {
		return m.missing("rename", srcAbs)
	}
	if srcAbs == dstAbs {
		return nil
	}
	if strings.HasPrefix(dstAbs, srcAbs+"/") {
		// Cannot move a directory below itself.
		return fs.NewPathError("rename", dstAbs, fs.ErrInvalidPath)
	}
	dn, dstExists := m.nodes[dstAbs]
	if dstExists {
		if dn.entry.Kind != sn.entry.Kind {
			return fs.NewPathError("rename", dstAbs, fs.ErrExists)
		}
		if dn.entry.Kind == fs.KindDir && len(dn.children) > 0 {
			return fs.NewPathError("rename", dstAbs, fs.ErrDirNotEmpty)
		}
	}
	dstParent, err := m.parent("rename", dstAbs)
	if err != nil {
		return err
	}
	now := m.now()
	if dstExists {
		delete(m.nodes, dstAbs)
	}

	// Rewrite the path keys of the whole subtree in one pass so no
	// partial move is ever observable.
	type move struct {
		from string
		to   string
	}
	moves := []move{{from: srcAbs, to: dstAbs}}
	prefix := srcAbs + "/"
	for key := range m.nodes {
		if strings.HasPrefix(key, prefix) {
			moves = append(moves, move{from: key, to: dstAbs + key[len(srcAbs):]})
		}
	}
	for _, mv := range moves {
		n := m.nodes[mv.from]
		delete(m.nodes, mv.from)
		n.entry.Path = mv.to
		n.entry.Name = path.Base(mv.to)
		m.nodes[mv.to] = n
	}

	m.nodes[path.Dir(srcAbs)].removeChild(path.Base(srcAbs), now)
	// An overwritten destination keeps its slot in the parent's order.
	if !dstParent.hasChild(path.Base(dstAbs)) {
		dstParent.addChild(path.Base(dstAbs), now)
	}
	return nil
}

func (m *Memfs) ReadFile(ctx context.Context, p string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs, err := m.resolve(p, true)
	if err != nil {
		return nil, err
	}
	n, ok := m.nodes[abs]
	if !ok {
		return nil, m.missing("read", abs)
	}
	if n.entry.Kind == fs.KindDir {
		return nil, fs.NewPathError("read", abs, fs.ErrIsDir)
	}
	n.entry.AccessTime = m.now()
	return append([]byte(nil), n.data...), nil
}

func (m *Memfs) WriteFile(ctx context.Context, p string, data []byte) error {
	return m.write(ctx, "write", p, data, false)
}

func (m *Memfs) AppendFile(ctx context.Context, p string, data []byte) error {
	return m.write(ctx, "append", p, data, true)
}

func (m *Memfs) write(ctx context.Context, op string, p string, data []byte, appendTo bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs, err := m.resolve(p, true)
	if err != nil {
		return err
	}
	n, ok := m.nodes[abs]
	if !ok {
		return m.missing(op, abs)
	}
	if n.entry.Kind == fs.KindDir {
		return fs.NewPathError(op, abs, fs.ErrIsDir)
	}
	if appendTo {
		n.data = append(n.data, data...)
	} else {
		n.data = append([]byte(nil), data...)
	}
	n.entry.Size = int64(len(n.data))
	n.entry.ModTime = m.now()
	return nil
}

func (m *Memfs) Symlink(ctx context.Context, target string, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if target == "" {
		return fs.NewPathError("symlink", link, fs.ErrInvalidPath)
	}
	abs, err := m.resolve(link, false)
	if err != nil {
		return err
	}
	if _, ok := m.nodes[abs]; ok {
		return fs.NewPathError("symlink", abs, fs.ErrExists)
	}
	parent, err := m.parent("symlink", abs)
	if err != nil {
		return err
	}
	now := m.now()
	n := newNode(abs, path.Base(abs), fs.KindSymlink, now)
	n.entry.Uid, n.entry.Gid = m.uid, m.gid
	n.entry.LinkTarget = target
	n.entry.Size = int64(len(target))
	m.nodes[abs] = n
	parent.addChild(n.entry.Name, now)
	return nil
}

func (m *Memfs) Readlink(ctx context.Context, p string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	abs, err := m.resolve(p, false)
	if err != nil {
		return "", err
	}
	n, ok := m.nodes[abs]
	if !ok {
		return "", m.missing("readlink", abs)
	}
	if n.entry.Kind != fs.KindSymlink {
		return "", fs.NewPathError("readlink", abs, fs.ErrInvalidPath)
	}
	return n.entry.LinkTarget, nil
}

func (m *Memfs) Stat(ctx context.Context, p string) (*fs.Entry, error) {
	return m.stat("stat", p, true)
}

func (m *Memfs) Lstat(ctx context.Context, p string) (*fs.Entry, error) {
	return m.stat("lstat", p, false)
}

func (m *Memfs) stat(op string, p string, followFinal bool) (*fs.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	abs, err := m.resolve(p, followFinal)
	if err != nil {
		return nil, err
	}
	n, ok := m.nodes[abs]
	if !ok {
		return nil, m.missing(op, abs)
	}
	e := n.entry
	return &e, nil
}

func (m *Memfs) ReadDir(ctx context.Context, p string) ([]*fs.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	abs, err := m.resolve(p, true)
	if err != nil {
		return nil, err
	}
	n, ok := m.nodes[abs]
	if !ok {
		return nil, m.missing("readdir", abs)
	}
	if n.entry.Kind != fs.KindDir {
		return nil, fs.NewPathError("readdir", abs, fs.ErrNotDir)
	}
	entries := make([]*fs.Entry, 0, len(n.children))
	for _, name := range n.children {
		e := m.nodes[joinAbs(abs, name)].entry
		entries = append(entries, &e)
	}
	return entries, nil
}

func (m *Memfs) Chmod(ctx context.Context, p string, mode os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs, err := m.resolve(p, true)
	if err != nil {
		return err
	}
	n, ok := m.nodes[abs]
	if !ok {
		return m.missing("chmod", abs)
	}
	n.entry.Mode = (n.entry.Mode &^ os.ModePerm) | (mode & os.ModePerm)
	return nil
}

func (m *Memfs) Chown(ctx context.Context, p string, uid uint32, gid uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs, err := m.resolve(p, true)
	if err != nil {
		return err
	}
	n, ok := m.nodes[abs]
	if !ok {
		return m.missing("chown", abs)
	}
	n.entry.Uid = uid
	n.entry.Gid = gid
	return nil
}

func (m *Memfs) Chtimes(ctx context.Context, p string, atime time.Time, mtime time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs, err := m.resolve(p, true)
	if err != nil {
		return err
	}
	n, ok := m.nodes[abs]
	if !ok {
		return m.missing("chtimes", abs)
	}
	n.entry.AccessTime = atime
	n.entry.ModTime = mtime
	return nil
}
