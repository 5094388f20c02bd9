package kernel

import (
	"io"
	"sync"

	"github.com/pkg/errors"
)

var ErrUnknownFile = errors.New("unknown file")

const (
	SeekSet = 0
	SeekCur = 1
	SeekEnd = 2
)

// File is one open file description. It is either backed by an Inode
// (with a seekable position) or by a raw reader/writer pair (console,
// pipe ends). Fork shares descriptions, so they are reference counted.
type File struct {
	mu          sync.Mutex
	refs        int
	CloseOnExec bool

	Node *Inode
	pos  int64

	r io.ReadCloser
	w io.WriteCloser
}

func NewNodeFile(node *Inode) *File {
	return &File{refs: 1, Node: node}
}

func NewStreamFile(r io.ReadCloser, w io.WriteCloser) *File {
	return &File{refs: 1, r: r, w: w}
}

func (f *File) incRef() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.refs++
}

func (f *File) Read(b []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Node != nil {
		if f.Node.IsDir() {
			return 0, ErrIsDir
		}

		n, err := f.Node.ReadAt(b, f.pos)
		f.pos += int64(n)
		return n, err
	}

	if f.r == nil {
		return 0, errors.Wrap(ErrUnknownFile, "file not open for reading")
	}

	return f.r.Read(b)
}

func (f *File) Write(b []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Node != nil {
		if f.Node.IsDir() {
			return 0, ErrIsDir
		}

		n, err := f.Node.WriteAt(b, f.pos)
		f.pos += int64(n)
		return n, err
	}

	if f.w == nil {
		return 0, errors.Wrap(ErrUnknownFile, "file not open for writing")
	}

	return f.w.Write(b)
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Node == nil {
		return 0, errors.Wrap(ErrUnknownFile, "stream is not seekable")
	}

	var base int64

	switch whence {
	case SeekSet:
		base = 0
	case SeekCur:
		base = f.pos
	case SeekEnd:
		base = f.Node.Size()
	default:
		return 0, errors.Errorf("bad seek whence: %d", whence)
	}

	pos := base + offset
	if pos < 0 {
		return 0, errors.Errorf("seek before start of file: %d", pos)
	}

	f.pos = pos

	return pos, nil
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.refs--
	if f.refs > 0 {
		return nil
	}

	var err error

	if f.r != nil {
		if se := f.r.Close(); se != nil {
			err = se
		}
	}

	if f.w != nil {
		if se := f.w.Close(); se != nil {
			err = se
		}
	}

	return err
}
