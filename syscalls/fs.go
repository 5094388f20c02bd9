package syscalls

import (
	"context"
	"sort"

	"github.com/Oyami-Srk/ark-kernel/abi"
	"github.com/Oyami-Srk/ark-kernel/kernel"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

const (
	oCreat     = 0x40
	oDirectory = 0x200000

	atFdcwd = -100
)

func fsErrno(err error) abi.Errno {
	switch errors.Cause(err) {
	case kernel.ErrUnknownPath:
		return abi.ENOENT
	case kernel.ErrNotDir:
		return abi.ENOTDIR
	case kernel.ErrIsDir:
		return abi.EISDIR
	case kernel.ErrExists:
		return abi.EEXIST
	case kernel.ErrUnknownFile:
		return abi.EBADF
	case kernel.ErrBadAddress:
		return abi.EFAULT
	case kernel.ErrPipeClosed:
		return abi.EPIPE
	}

	return abi.ENOSYS
}

// userBuffer allocates a transfer buffer for a user-supplied size,
// refusing sizes no address space could back.
func userBuffer(task *kernel.Task, sz uint64) ([]byte, bool) {
	if sz > uint64(task.Mem.Size()) {
		return nil, false
	}

	return make([]byte, sz), true
}

func sysOpenat(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		dirfd = int64(args.Args.R0)
		ptr   = args.Args.R1
		flags = args.Args.R2
	)

	if int32(dirfd) != atFdcwd {
		l.Warn("openat with explicit dirfd, resolving against cwd", "dirfd", int32(dirfd))
	}

	path, err := task.ReadCString(ptr)
	if err != nil {
		l.Error("error reading open path", "error", err)
		return abi.Fail(abi.EFAULT)
	}

	l.Trace("open file", "path", string(path), "flags", flags)

	node, err := task.Kernel.Fs.Lookup(string(path), task.Curwd())
	if err != nil {
		if errors.Cause(err) != kernel.ErrUnknownPath || flags&oCreat == 0 {
			return abi.Fail(fsErrno(err))
		}

		node, err = task.Kernel.Fs.Create(string(path), task.Curwd(), kernel.RegularFile)
		if err != nil {
			return abi.Fail(fsErrno(err))
		}
	}

	if flags&oDirectory != 0 && !node.IsDir() {
		return abi.Fail(abi.ENOTDIR)
	}

	fd := task.AddFile(kernel.NewNodeFile(node))

	return abi.OK(int64(fd))
}

func sysClose(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		fd = args.Args.R0
	)

	if err := task.CloseFile(int(int64(fd))); err != nil {
		return abi.Fail(abi.EBADF)
	}

	return abi.OK(0)
}

func sysRead(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		fd  = args.Args.R0
		ptr = args.Args.R1
		sz  = args.Args.R2
	)

	f, ok := task.GetFile(int(int64(fd)))
	if !ok {
		return abi.Fail(abi.EBADF)
	}

	data, ok := userBuffer(task, sz)
	if !ok {
		return abi.Fail(abi.EFAULT)
	}

	n, err := f.Read(data)
	if err != nil {
		return abi.Fail(fsErrno(err))
	}

	if _, err := task.WriteAt(data[:n], int64(ptr)); err != nil {
		l.Error("error writing data to userspace", "error", err)
		return abi.Fail(abi.EFAULT)
	}

	return abi.OK(int64(n))
}

func sysWrite(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		fd  = args.Args.R0
		ptr = args.Args.R1
		sz  = args.Args.R2
	)

	f, ok := task.GetFile(int(int64(fd)))
	if !ok {
		return abi.Fail(abi.EBADF)
	}

	data, ok := userBuffer(task, sz)
	if !ok {
		return abi.Fail(abi.EFAULT)
	}

	if _, err := task.ReadAt(data, int64(ptr)); err != nil {
		l.Error("error reading data from userspace", "error", err)
		return abi.Fail(abi.EFAULT)
	}

	n, err := f.Write(data)
	if err != nil {
		return abi.Fail(fsErrno(err))
	}

	return abi.OK(int64(n))
}

func sysLseek(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		fd     = args.Args.R0
		off    = int64(args.Args.R1)
		whence = args.Args.R2
	)

	f, ok := task.GetFile(int(int64(fd)))
	if !ok {
		return abi.Fail(abi.EBADF)
	}

	pos, err := f.Seek(off, int(whence))
	if err != nil {
		return abi.Fail(abi.EINVAL)
	}

	return abi.OK(pos)
}

type iovec struct {
	Base uint64
	Len  uint64
}

func sysReadv(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		fd  = args.Args.R0
		iov = args.Args.R1
		cnt = args.Args.R2
	)

	f, ok := task.GetFile(int(int64(fd)))
	if !ok {
		return abi.Fail(abi.EBADF)
	}

	var ret int64

	for i := uint64(0); i < cnt; i++ {
		var v iovec

		if err := task.CopyIn(iov+i*16, &v); err != nil {
			return abi.Fail(abi.EFAULT)
		}

		data, ok := userBuffer(task, v.Len)
		if !ok {
			return abi.Fail(abi.EFAULT)
		}

		n, err := f.Read(data)
		if err != nil {
			return abi.Fail(fsErrno(err))
		}

		if _, err := task.WriteAt(data[:n], int64(v.Base)); err != nil {
			return abi.Fail(abi.EFAULT)
		}

		ret += int64(n)

		if uint64(n) < v.Len {
			break
		}
	}

	return abi.OK(ret)
}

func sysWritev(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		fd  = args.Args.R0
		iov = args.Args.R1
		cnt = args.Args.R2
	)

	f, ok := task.GetFile(int(int64(fd)))
	if !ok {
		return abi.Fail(abi.EBADF)
	}

	var ret int64

	for i := uint64(0); i < cnt; i++ {
		var v iovec

		if err := task.CopyIn(iov+i*16, &v); err != nil {
			return abi.Fail(abi.EFAULT)
		}

		data, ok := userBuffer(task, v.Len)
		if !ok {
			return abi.Fail(abi.EFAULT)
		}

		if _, err := task.ReadAt(data, int64(v.Base)); err != nil {
			return abi.Fail(abi.EFAULT)
		}

		n, err := f.Write(data)
		if err != nil {
			return abi.Fail(fsErrno(err))
		}

		ret += int64(n)
	}

	return abi.OK(ret)
}

func sysMkdirat(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		ptr = args.Args.R1
	)

	path, err := task.ReadCString(ptr)
	if err != nil {
		return abi.Fail(abi.EFAULT)
	}

	if _, err := task.Kernel.Fs.Create(string(path), task.Curwd(), kernel.Directory); err != nil {
		return abi.Fail(fsErrno(err))
	}

	return abi.OK(0)
}

func sysLinkat(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		oldPtr = args.Args.R1
		newPtr = args.Args.R3
	)

	oldPath, err := task.ReadCString(oldPtr)
	if err != nil {
		return abi.Fail(abi.EFAULT)
	}

	newPath, err := task.ReadCString(newPtr)
	if err != nil {
		return abi.Fail(abi.EFAULT)
	}

	if err := task.Kernel.Fs.Link(string(oldPath), string(newPath), task.Curwd()); err != nil {
		return abi.Fail(fsErrno(err))
	}

	return abi.OK(0)
}

func sysMount(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		srcPtr    = args.Args.R0
		targetPtr = args.Args.R1
	)

	source, err := task.ReadCString(srcPtr)
	if err != nil {
		return abi.Fail(abi.EFAULT)
	}

	target, err := task.ReadCString(targetPtr)
	if err != nil {
		return abi.Fail(abi.EFAULT)
	}

	l.Info("mount", "source", string(source), "target", string(target))

	if err := task.Kernel.Fs.Mount(string(source), string(target), task.Curwd()); err != nil {
		return abi.Fail(fsErrno(err))
	}

	return abi.OK(0)
}

const (
	modeRegular   = 0x8000
	modeDirectory = 0x4000
)

// linuxStat is the riscv64 struct stat layout.
type linuxStat struct {
	Dev     uint64
	Ino     uint64
	Mode    uint32
	Nlink   uint32
	UID     uint32
	GID     uint32
	Rdev    uint64
	Pad1    uint64
	Size    int64
	Blksize int32
	Pad2    int32
	Blocks  int64
	ATime   int64
	ATimeNs int64
	MTime   int64
	MTimeNs int64
	CTime   int64
	CTimeNs int64
	Unused  [2]uint32
}

func statNode(node *kernel.Inode) linuxStat {
	var mode uint32

	if node.IsDir() {
		mode = modeDirectory | 0755
	} else {
		mode = modeRegular | 0644
	}

	return linuxStat{
		Ino:     node.Ino,
		Mode:    mode,
		Nlink:   node.Nlink,
		Size:    node.Size(),
		Blksize: kernel.PageSize,
		Blocks:  (node.Size() + 511) / 512,
	}
}

func sysFstat(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		fd  = args.Args.R0
		buf = args.Args.R1
	)

	f, ok := task.GetFile(int(int64(fd)))
	if !ok {
		return abi.Fail(abi.EBADF)
	}

	if f.Node == nil {
		return abi.Fail(abi.EINVAL)
	}

	if err := task.CopyOut(buf, statNode(f.Node)); err != nil {
		return abi.Fail(abi.EFAULT)
	}

	return abi.OK(0)
}

func sysNewfstatat(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		ptr = args.Args.R1
		buf = args.Args.R2
	)

	path, err := task.ReadCString(ptr)
	if err != nil {
		return abi.Fail(abi.EFAULT)
	}

	node, err := task.Kernel.Fs.Lookup(string(path), task.Curwd())
	if err != nil {
		return abi.Fail(fsErrno(err))
	}

	if err := task.CopyOut(buf, statNode(node)); err != nil {
		return abi.Fail(abi.EFAULT)
	}

	return abi.OK(0)
}

const (
	dtDir = 4
	dtReg = 8
)

// direntHeader is the fixed prefix of linux_dirent64; the name follows,
// NUL terminated.
type direntHeader struct {
	Ino    uint64
	Off    int64
	Reclen uint16
	Type   uint8
}

const direntHeaderSize = 19

func sysGetdents64(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		fd  = args.Args.R0
		buf = args.Args.R1
		sz  = args.Args.R2
	)

	f, ok := task.GetFile(int(int64(fd)))
	if !ok {
		return abi.Fail(abi.EBADF)
	}

	if f.Node == nil || !f.Node.IsDir() {
		return abi.Fail(abi.ENOTDIR)
	}

	entries := f.Node.Entries()
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	// The file position is the index of the next entry to emit.
	idx, err := f.Seek(0, kernel.SeekCur)
	if err != nil {
		return abi.Fail(abi.EINVAL)
	}

	var written uint64

	for ; idx < int64(len(entries)); idx++ {
		e := entries[idx]

		reclen := uint16(direntHeaderSize + len(e.Name) + 1)
		// 8-byte align the record
		reclen = (reclen + 7) &^ 7

		if written+uint64(reclen) > sz {
			break
		}

		typ := uint8(dtReg)
		if e.Type == kernel.Directory {
			typ = dtDir
		}

		hdr := direntHeader{
			Ino:    e.Ino,
			Off:    idx + 1,
			Reclen: reclen,
			Type:   typ,
		}

		if err := task.CopyOut(buf+written, hdr); err != nil {
			return abi.Fail(abi.EFAULT)
		}

		name := append([]byte(e.Name), 0)
		if _, err := task.WriteAt(name, int64(buf+written+direntHeaderSize)); err != nil {
			return abi.Fail(abi.EFAULT)
		}

		written += uint64(reclen)
	}

	if _, err := f.Seek(idx, kernel.SeekSet); err != nil {
		return abi.Fail(abi.EINVAL)
	}

	return abi.OK(int64(written))
}

func sysPipe2(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		ptr = args.Args.R0
	)

	r, w := kernel.NewPipe()

	fds := [2]int32{
		int32(task.AddFile(r)),
		int32(task.AddFile(w)),
	}

	if err := task.CopyOut(ptr, fds); err != nil {
		task.CloseFile(int(fds[0]))
		task.CloseFile(int(fds[1]))
		return abi.Fail(abi.EFAULT)
	}

	return abi.OK(0)
}

func registerFileSystem(r *Registry) {
	r.Register(SysOpenat, sysOpenat)
	r.Register(SysClose, sysClose)
	r.Register(SysRead, sysRead)
	r.Register(SysWrite, sysWrite)
	r.Register(SysLseek, sysLseek)
	r.Register(SysReadv, sysReadv)
	r.Register(SysWritev, sysWritev)
	r.Register(SysMkdirat, sysMkdirat)
	r.Register(SysLinkat, sysLinkat)
	r.Register(SysMount, sysMount)
	r.Register(SysFstat, sysFstat)
	r.Register(SysNewfstatat, sysNewfstatat)
	r.Register(SysGetdents64, sysGetdents64)
	r.Register(SysPipe2, sysPipe2)
}
