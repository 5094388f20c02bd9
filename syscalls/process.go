package syscalls

import (
	"context"
	"runtime"

	"github.com/Oyami-Srk/ark-kernel/abi"
	"github.com/Oyami-Srk/ark-kernel/kernel"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

const sigchld = 17

func sysExit(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		code = args.Args.R0
	)

	task.Exit(int(int64(code)))

	return abi.OK(0)
}

func sysClone(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		flags = args.Args.R0
	)

	if flags != sigchld {
		l.Warn("clone flags other than SIGCHLD are ignored", "flags", flags)
	}

	child, err := task.Fork()
	if err != nil {
		l.Error("error forking process", "error", err)
		return abi.Fail(abi.EAGAIN)
	}

	return abi.OK(int64(child.Pid))
}

func copyStringArray(task *kernel.Task, addr uint64) ([]string, error) {
	if addr == 0 {
		return nil, nil
	}

	var out []string

	for ptr := addr; ; ptr += 8 {
		var strAddr uint64

		if err := task.CopyIn(ptr, &strAddr); err != nil {
			return nil, err
		}

		if strAddr == 0 {
			break
		}

		str, err := task.ReadCString(strAddr)
		if err != nil {
			return nil, err
		}

		out = append(out, string(str))
	}

	return out, nil
}

func sysExecve(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		pathAddr = args.Args.R0
		argvAddr = args.Args.R1
		envpAddr = args.Args.R2
	)

	path, err := task.ReadCString(pathAddr)
	if err != nil {
		l.Error("error reading exec path", "error", err)
		return abi.Fail(abi.EFAULT)
	}

	argv, err := copyStringArray(task, argvAddr)
	if err != nil {
		return abi.Fail(abi.EFAULT)
	}

	envp, err := copyStringArray(task, envpAddr)
	if err != nil {
		return abi.Fail(abi.EFAULT)
	}

	l.Info("execve", "pid", task.Pid, "path", string(path), "argv", argv)

	if err := task.Exec(string(path), argv, envp); err != nil {
		return abi.Fail(fsErrno(err))
	}

	return abi.OK(0)
}

const wnohang = 1

func sysWait4(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		pid      = int64(args.Args.R0)
		statAddr = args.Args.R1
		options  = args.Args.R2
	)

	if int32(pid) != -1 {
		l.Warn("wait4 for a specific pid is not supported yet", "pid", int32(pid))
		return abi.Fail(abi.ENOSYS)
	}

	cpid, status, err := task.WaitAnyChild(ctx, options&wnohang == 0)
	if err != nil {
		switch errors.Cause(err) {
		case kernel.ErrNoChildren:
			return abi.Fail(abi.ECHILD)
		case context.Canceled, context.DeadlineExceeded:
			return abi.Fail(abi.EINTR)
		}

		l.Error("error waiting for any child process", "error", err)
		return abi.Fail(abi.ECHILD)
	}

	if cpid == 0 {
		// children exist but none has exited yet
		return abi.OK(0)
	}

	if statAddr != 0 {
		if err := task.CopyOut(statAddr, status.Status()); err != nil {
			return abi.Fail(abi.EFAULT)
		}
	}

	return abi.OK(int64(cpid))
}

func sysGetpid(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	return abi.OK(int64(task.Pid))
}

func sysGetppid(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	return abi.OK(int64(task.Ppid()))
}

func sysSchedYield(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	runtime.Gosched()

	return abi.OK(0)
}

func registerProcess(r *Registry) {
	r.Register(SysExit, sysExit)
	r.Register(SysClone, sysClone)
	r.Register(SysExecve, sysExecve)
	r.Register(SysWait4, sysWait4)
	r.Register(SysGetpid, sysGetpid)
	r.Register(SysGetppid, sysGetppid)
	r.Register(SysSchedYield, sysSchedYield)
}
