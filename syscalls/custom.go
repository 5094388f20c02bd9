package syscalls

import (
	"context"

	"github.com/Oyami-Srk/ark-kernel/abi"
	"github.com/Oyami-Srk/ark-kernel/kernel"
	hclog "github.com/hashicorp/go-hclog"
)

// ARK extension syscalls. They live far outside the conventional Linux
// number range so they can never collide with it.

func sysArkSleepTicks(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		ticks = args.Args.R0
	)

	now, err := task.Kernel.Clock.SleepTicks(ctx, ticks)
	if err != nil {
		return abi.Fail(abi.EINTR)
	}

	return abi.OK(int64(now))
}

func sysArkBreakpoint(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		id   = args.Args.R0
		data = args.Args.R1
	)

	var msg string

	if id == 0 && data != 0 {
		str, err := task.ReadCString(data)
		if err != nil {
			return abi.Fail(abi.EFAULT)
		}

		msg = string(str)
		l.Warn("breakpoint with string", "msg", msg)
	}

	task.Kernel.BreakpointHook(id, msg)

	return abi.OK(0)
}

func registerCustom(r *Registry) {
	r.Register(SysArkSleepTicks, sysArkSleepTicks)
	r.Register(SysArkBreakpoint, sysArkBreakpoint)
}
