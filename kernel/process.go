package kernel

import (
	"context"
	"encoding/binary"
	"io"
	"sync"

	"github.com/Oyami-Srk/ark-kernel/pkg/ilist"
	"github.com/pkg/errors"
)

var ErrNoChildren = errors.New("no children to wait for")

type prockey struct{}

func GetTask(ctx context.Context) (*Task, bool) {
	if v := ctx.Value(prockey{}); v != nil {
		return v.(*Task), true
	}

	return nil, false
}

func SetTask(ctx context.Context, t *Task) context.Context {
	return context.WithValue(ctx, prockey{}, t)
}

// Task is the per-trap view of a process: the identity and privilege
// context a syscall executes under.
type Task struct {
	*Process
}

type ProcessStatus int

const (
	Init    ProcessStatus = 0
	Running ProcessStatus = 1
	Dead    ProcessStatus = 2
)

type ExitStatus struct {
	Code  int
	Signo int
}

func (e ExitStatus) Status() int32 {
	return ((int32(e.Code) & 0xff) << 8) | (int32(e.Signo) & 0xff)
}

type Process struct {
	parent *Process
	pg     *ProcessGroup

	// Used by pg to keep Processes in the group as a list. Protected by
	// pg's mu.
	ilist.Entry

	Kernel *Kernel
	Pid    int
	Mem    *AddressSpace

	status     ProcessStatus
	exitStatus ExitStatus
	fds        []*File
	cwd        string

	mu sync.Mutex
}

func (p *Process) Ppid() int {
	if p.parent == nil {
		return 0
	}

	return p.parent.Pid
}

func (p *Process) Status() ProcessStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.status
}

func (p *Process) Curwd() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cwd
}

func (p *Process) Chdir(path string) error {
	node, err := p.Kernel.Fs.Lookup(path, p.Curwd())
	if err != nil {
		return err
	}

	if !node.IsDir() {
		return ErrNotDir
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.cwd = p.Kernel.Fs.resolve(path, p.cwd)

	return nil
}

// AddFile installs f at the lowest free descriptor and returns it.
func (p *Process) AddFile(f *File) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, cur := range p.fds {
		if cur == nil {
			p.fds[i] = f
			return i
		}
	}

	p.fds = append(p.fds, f)

	return len(p.fds) - 1
}

func (p *Process) GetFile(fd int) (*File, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if fd < 0 || fd >= len(p.fds) || p.fds[fd] == nil {
		return nil, false
	}

	return p.fds[fd], true
}

func (p *Process) CloseFile(fd int) error {
	p.mu.Lock()

	if fd < 0 || fd >= len(p.fds) || p.fds[fd] == nil {
		p.mu.Unlock()
		return ErrUnknownFile
	}

	f := p.fds[fd]
	p.fds[fd] = nil

	p.mu.Unlock()

	return f.Close()
}

func (p *Process) HookupStdio(stdin, stdout, stderr *File) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.fds = append([]*File{stdin, stdout, stderr}, p.fds...)
}

type memAdapter struct {
	mem    *AddressSpace
	offset int64
}

func (m memAdapter) Read(b []byte) (int, error) {
	n, err := m.mem.ReadAt(b, m.offset)
	m.offset += int64(n)
	return n, err
}

func (m memAdapter) Write(b []byte) (int, error) {
	n, err := m.mem.WriteAt(b, m.offset)
	m.offset += int64(n)
	return n, err
}

func (p *Process) ReadAt(b []byte, off int64) (int, error) {
	return p.Mem.ReadAt(b, off)
}

func (p *Process) WriteAt(b []byte, off int64) (int, error) {
	return p.Mem.WriteAt(b, off)
}

func (p *Process) ReadCString(addr uint64) ([]byte, error) {
	return p.Mem.ReadCString(addr)
}

// CopyIn decodes a little-endian value from user memory at addr.
func (p *Process) CopyIn(addr uint64, v interface{}) error {
	return binary.Read(memAdapter{mem: p.Mem, offset: int64(addr)}, binary.LittleEndian, v)
}

// CopyOut encodes v little-endian into user memory at addr.
func (p *Process) CopyOut(addr uint64, v interface{}) error {
	return binary.Write(memAdapter{mem: p.Mem, offset: int64(addr)}, binary.LittleEndian, v)
}

var _ io.Reader = memAdapter{}

// Fork creates a child sharing open files and cwd with a copied address
// space, in the parent's process group.
func (p *Process) Fork() (*Process, error) {
	p.mu.Lock()

	child := &Process{
		parent: p,
		pg:     p.pg,
		Kernel: p.Kernel,
		Mem:    p.Mem.Clone(),
		status: Running,
		cwd:    p.cwd,
		fds:    make([]*File, len(p.fds)),
	}

	for i, f := range p.fds {
		if f != nil {
			f.incRef()
			child.fds[i] = f
		}
	}

	p.mu.Unlock()

	p.Kernel.processes.AssignPid(child)
	p.pg.Add(child)

	return child, nil
}

// Exec replaces the process image with the program at path. The program
// loader proper is outside this layer; path resolution, fd semantics,
// and the address space reset happen here.
func (p *Process) Exec(path string, argv, envp []string) error {
	node, err := p.Kernel.Fs.Lookup(path, p.Curwd())
	if err != nil {
		return err
	}

	if node.IsDir() {
		return ErrIsDir
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for i, f := range p.fds {
		if f != nil && f.CloseOnExec {
			f.Close()
			p.fds[i] = nil
		}
	}

	p.Mem = NewAddressSpace(p.Mem.Size())

	return nil
}

func (p *Process) Exit(code int) {
	p.mu.Lock()

	if p.status == Dead {
		p.mu.Unlock()
		return
	}

	p.status = Dead
	p.exitStatus = ExitStatus{Code: code}

	fds := p.fds
	p.fds = nil

	p.mu.Unlock()

	for _, f := range fds {
		if f != nil {
			f.Close()
		}
	}

	p.pg.NotifyExit()
}

// WaitAnyChild reaps a dead child, blocking until one exits when block
// is set. Returns pid 0 when children are live but none has exited and
// block is not set; ErrNoChildren when there are no children at all.
func (p *Process) WaitAnyChild(ctx context.Context, block bool) (int, ExitStatus, error) {
	// Register before checking so an exit between the check and the wait
	// is not lost.
	c := make(chan struct{}, 1)

	e := p.pg.events.RegisterChannel(ProcessExited, c)
	defer p.pg.events.Unregister(e)

	for {
		child := p.pg.reapChildOf(p)
		if child != nil {
			return child.Pid, child.exitStatus, nil
		}

		if !p.pg.hasChildOf(p) {
			return 0, ExitStatus{}, ErrNoChildren
		}

		if !block {
			return 0, ExitStatus{}, nil
		}

		select {
		case <-c:
		case <-ctx.Done():
			return 0, ExitStatus{}, errors.Wrap(ctx.Err(), "interrupted waiting for child")
		}
	}
}
