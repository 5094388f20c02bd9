package boundary

import (
	"context"
	"testing"

	"github.com/Oyami-Srk/ark-kernel/kernel"
	"github.com/Oyami-Srk/ark-kernel/syscalls"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
	"github.com/vektra/neko"
)

func TestUserEnvCall(t *testing.T) {
	n := neko.Modern(t)

	boot := func(t *testing.T) (context.Context, *kernel.Task, *TrapEntry) {
		k, err := kernel.NewKernel()
		require.NoError(t, err)

		proc, err := k.InitProcess(context.Background())
		require.NoError(t, err)

		task := &kernel.Task{Process: proc}
		ctx := kernel.SetTask(context.Background(), task)

		entry := &TrapEntry{
			L:       hclog.NewNullLogger(),
			Invoker: syscalls.NewDispatcher(syscalls.BootTable(), hclog.NewNullLogger()),
		}

		return ctx, task, entry
	}

	n.It("decodes a7/a0-a5 and writes the result word to a0", func(t *testing.T) {
		ctx, task, entry := boot(t)

		var frame TrapFrame
		frame.Regs[RegA7] = syscalls.SysGetpid

		entry.UserEnvCall(ctx, &frame)

		require.Equal(t, uint64(task.Pid), frame.Regs[RegA0])
	})

	n.It("steps sepc past the ecall instruction", func(t *testing.T) {
		ctx, _, entry := boot(t)

		frame := TrapFrame{Sepc: 0x8000}
		frame.Regs[RegA7] = syscalls.SysGetpid

		entry.UserEnvCall(ctx, &frame)

		require.Equal(t, uint64(0x8004), frame.Sepc)
	})

	n.It("writes a negative word for an unknown syscall", func(t *testing.T) {
		ctx, _, entry := boot(t)

		var frame TrapFrame
		frame.Regs[RegA7] = 9999999
		frame.Regs[RegA0] = 123

		entry.UserEnvCall(ctx, &frame)

		require.Equal(t, int64(-38), int64(frame.Regs[RegA0]))
	})

	n.Meow()
}
