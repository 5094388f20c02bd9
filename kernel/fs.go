package kernel

import (
	"path"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrUnknownPath = errors.New("unknown path")
	ErrNotDir      = errors.New("not a directory")
	ErrIsDir       = errors.New("is a directory")
	ErrExists      = errors.New("path already exists")
)

type InodeType uint8

const (
	RegularFile InodeType = iota
	Directory
)

type Inode struct {
	mu sync.Mutex

	Ino   uint64
	Type  InodeType
	Nlink uint32

	entries map[string]*Inode
	data    []byte
}

func (i *Inode) IsDir() bool {
	return i.Type == Directory
}

func (i *Inode) Size() int64 {
	i.mu.Lock()
	defer i.mu.Unlock()

	return int64(len(i.data))
}

func (i *Inode) ReadAt(b []byte, off int64) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if off >= int64(len(i.data)) {
		return 0, nil
	}

	return copy(b, i.data[off:]), nil
}

func (i *Inode) WriteAt(b []byte, off int64) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if grow := off + int64(len(b)) - int64(len(i.data)); grow > 0 {
		i.data = append(i.data, make([]byte, grow)...)
	}

	return copy(i.data[off:], b), nil
}

type DirEntry struct {
	Name string
	Ino  uint64
	Type InodeType
}

func (i *Inode) Entries() []DirEntry {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]DirEntry, 0, len(i.entries))
	for name, child := range i.entries {
		out = append(out, DirEntry{Name: name, Ino: child.Ino, Type: child.Type})
	}

	return out
}

// Filesystem is the in-memory tree backing the filesystem syscalls. It
// stands in for the real block-device filesystems, which mount onto it.
type Filesystem struct {
	mu      sync.Mutex
	root    *Inode
	nextIno uint64

	mounts map[string]string
}

func NewFilesystem() *Filesystem {
	fs := &Filesystem{
		nextIno: 2,
		mounts:  make(map[string]string),
	}

	fs.root = &Inode{
		Ino:     1,
		Type:    Directory,
		Nlink:   2,
		entries: make(map[string]*Inode),
	}

	return fs
}

func (fs *Filesystem) Root() *Inode {
	return fs.root
}

func (fs *Filesystem) resolve(p, cwd string) string {
	if !path.IsAbs(p) {
		p = path.Join(cwd, p)
	}

	return path.Clean(p)
}

func (fs *Filesystem) walk(abs string) (*Inode, error) {
	cur := fs.root

	if abs == "/" {
		return cur, nil
	}

	for _, part := range strings.Split(strings.TrimPrefix(abs, "/"), "/") {
		if !cur.IsDir() {
			return nil, ErrNotDir
		}

		next, ok := cur.entries[part]
		if !ok {
			return nil, ErrUnknownPath
		}

		cur = next
	}

	return cur, nil
}

func (fs *Filesystem) Lookup(p, cwd string) (*Inode, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.walk(fs.resolve(p, cwd))
}

func (fs *Filesystem) Create(p, cwd string, typ InodeType) (*Inode, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	abs := fs.resolve(p, cwd)

	parent, err := fs.walk(path.Dir(abs))
	if err != nil {
		return nil, err
	}

	if !parent.IsDir() {
		return nil, ErrNotDir
	}

	name := path.Base(abs)

	if _, ok := parent.entries[name]; ok {
		return nil, ErrExists
	}

	node := &Inode{
		Ino:   fs.nextIno,
		Type:  typ,
		Nlink: 1,
	}
	fs.nextIno++

	if typ == Directory {
		node.Nlink = 2
		node.entries = make(map[string]*Inode)
	}

	parent.entries[name] = node

	return node, nil
}

// Link makes newpath a hard link to the inode at oldpath.
func (fs *Filesystem) Link(oldpath, newpath, cwd string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	node, err := fs.walk(fs.resolve(oldpath, cwd))
	if err != nil {
		return err
	}

	if node.IsDir() {
		return ErrIsDir
	}

	abs := fs.resolve(newpath, cwd)

	parent, err := fs.walk(path.Dir(abs))
	if err != nil {
		return err
	}

	name := path.Base(abs)

	if _, ok := parent.entries[name]; ok {
		return ErrExists
	}

	parent.entries[name] = node
	node.Nlink++

	return nil
}

// Mount records source as mounted at target. The target must exist and
// be a directory; the actual filesystem drivers live outside this layer.
func (fs *Filesystem) Mount(source, target, cwd string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	abs := fs.resolve(target, cwd)

	node, err := fs.walk(abs)
	if err != nil {
		return err
	}

	if !node.IsDir() {
		return ErrNotDir
	}

	if _, ok := fs.mounts[abs]; ok {
		return ErrExists
	}

	fs.mounts[abs] = source

	return nil
}
