// Package syscalls implements the syscall dispatch layer: the numeric
// table, the boot-time handler registry, and the dispatcher that turns a
// decoded trap into a single result word.
package syscalls

import (
	"context"

	"github.com/Oyami-Srk/ark-kernel/abi"
	"github.com/Oyami-Srk/ark-kernel/kernel"
	hclog "github.com/hashicorp/go-hclog"
)

// SysArgs is one decoded syscall: the number from a7 and the argument
// words from a0-a5. Built by the trap entry, discarded after dispatch.
type SysArgs struct {
	Index int64
	Args  SyscallRequest
}

type SyscallRequest struct {
	R0, R1, R2, R3, R4, R5 uint64
}

// Handler is the single capability a subsystem implements to back a
// syscall. It must return exactly one Result and must not assume
// anything about concurrent invocation beyond its own locking.
type Handler func(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result
