// Package boundary adapts the architecture trap entry to the dispatch
// layer. The real entry lives in assembly and architecture code; this
// package owns the register-level calling convention: the syscall
// number arrives in a7, arguments in a0-a5, and the result word is
// written back to a0 unaltered.
package boundary

import (
	"context"

	"github.com/Oyami-Srk/ark-kernel/abi"
	"github.com/Oyami-Srk/ark-kernel/kernel"
	"github.com/Oyami-Srk/ark-kernel/syscalls"
	hclog "github.com/hashicorp/go-hclog"
)

// RISC-V integer register numbers used by the syscall convention.
const (
	RegA0 = 10
	RegA1 = 11
	RegA2 = 12
	RegA3 = 13
	RegA4 = 14
	RegA5 = 15
	RegA7 = 17
)

// TrapFrame is the register state captured on a user trap.
type TrapFrame struct {
	Regs [32]uint64
	Sepc uint64
}

type Invoker interface {
	Dispatch(ctx context.Context, args syscalls.SysArgs) abi.Result
}

type TrapEntry struct {
	L       hclog.Logger
	Invoker Invoker
}

// UserEnvCall handles an environment-call-from-U-mode exception: decode
// the frame, dispatch, step past the ecall instruction, and write the
// marshalled word to a0.
func (t *TrapEntry) UserEnvCall(ctx context.Context, frame *TrapFrame) {
	args := syscalls.SysArgs{
		Index: int64(frame.Regs[RegA7]),
		Args: syscalls.SyscallRequest{
			R0: frame.Regs[RegA0],
			R1: frame.Regs[RegA1],
			R2: frame.Regs[RegA2],
			R3: frame.Regs[RegA3],
			R4: frame.Regs[RegA4],
			R5: frame.Regs[RegA5],
		},
	}

	if p, ok := kernel.GetTask(ctx); ok {
		t.L.Trace("trap", "pid", p.Pid, "id", args.Index)
	}

	frame.Sepc += 4

	res := t.Invoker.Dispatch(ctx, args)

	frame.Regs[RegA0] = uint64(res.Word())
}
