package syscalls

import (
	"context"

	"github.com/Oyami-Srk/ark-kernel/abi"
	"github.com/Oyami-Srk/ark-kernel/kernel"
	hclog "github.com/hashicorp/go-hclog"
)

type utsName struct {
	Sysname    [65]byte
	Nodename   [65]byte
	Release    [65]byte
	Version    [65]byte
	Machine    [65]byte
	Domainname [65]byte
}

func utsField(s string) (f [65]byte) {
	copy(f[:64], s)
	return
}

func newUtsName() utsName {
	return utsName{
		Sysname:    utsField("ARK"),
		Nodename:   utsField("ark"),
		Release:    utsField("5.0.0-ark"),
		Version:    utsField("#1"),
		Machine:    utsField("riscv64"),
		Domainname: utsField("(none)"),
	}
}

func sysUname(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		buf = args.Args.R0
	)

	if err := task.CopyOut(buf, newUtsName()); err != nil {
		return abi.Fail(abi.EFAULT)
	}

	return abi.OK(0)
}

func sysGetcwd(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		buf = args.Args.R0
		sz  = args.Args.R1
	)

	cwd := append([]byte(task.Curwd()), 0)

	if uint64(len(cwd)) > sz {
		return abi.Fail(abi.ENOMEM)
	}

	if buf == 0 {
		// The kernel-allocated variant is not supported; callers must
		// hand in a buffer.
		return abi.Fail(abi.EINVAL)
	}

	if _, err := task.WriteAt(cwd, int64(buf)); err != nil {
		return abi.Fail(abi.EFAULT)
	}

	return abi.OK(int64(buf))
}

func sysChdir(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		ptr = args.Args.R0
	)

	path, err := task.ReadCString(ptr)
	if err != nil {
		return abi.Fail(abi.EFAULT)
	}

	if err := task.Chdir(string(path)); err != nil {
		return abi.Fail(fsErrno(err))
	}

	return abi.OK(0)
}

func registerMisc(r *Registry) {
	r.Register(SysUname, sysUname)
	r.Register(SysGetcwd, sysGetcwd)
	r.Register(SysChdir, sysChdir)
}
