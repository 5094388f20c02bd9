package syscalls

import (
	"context"

	"github.com/Oyami-Srk/ark-kernel/abi"
	"github.com/Oyami-Srk/ark-kernel/kernel"
	hclog "github.com/hashicorp/go-hclog"
)

func sysBrk(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		addr = args.Args.R0
	)

	return abi.OK(int64(task.Mem.Brk(addr)))
}

func sysMmap(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		addr   = args.Args.R0
		length = args.Args.R1
	)

	mapped, err := task.Mem.Mmap(addr, length)
	if err != nil {
		l.Error("error mapping memory", "error", err, "addr", addr, "length", length)
		return abi.Fail(abi.ENOMEM)
	}

	return abi.OK(int64(mapped))
}

func sysMunmap(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
	var (
		addr   = args.Args.R0
		length = args.Args.R1
	)

	if err := task.Mem.Munmap(addr, length); err != nil {
		return abi.Fail(abi.EINVAL)
	}

	return abi.OK(0)
}

func registerMemory(r *Registry) {
	r.Register(SysBrk, sysBrk)
	r.Register(SysMmap, sysMmap)
	r.Register(SysMunmap, sysMunmap)
}
