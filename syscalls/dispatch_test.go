package syscalls

import (
	"context"
	"testing"
	"time"

	"github.com/Oyami-Srk/ark-kernel/abi"
	"github.com/Oyami-Srk/ark-kernel/kernel"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
	"github.com/vektra/neko"
)

func bootKernel(t *testing.T) (context.Context, *kernel.Task, *kernel.Kernel) {
	k, err := kernel.NewKernel()
	require.NoError(t, err)

	ctx := context.Background()

	proc, err := k.InitProcess(ctx)
	require.NoError(t, err)

	task := &kernel.Task{Process: proc}

	return kernel.SetTask(ctx, task), task, k
}

func call(ctx context.Context, d *Dispatcher, id int64, args ...uint64) abi.Result {
	var req SyscallRequest

	regs := []*uint64{&req.R0, &req.R1, &req.R2, &req.R3, &req.R4, &req.R5}
	for i, a := range args {
		*regs[i] = a
	}

	return d.Dispatch(ctx, SysArgs{Index: id, Args: req})
}

// pokeString stages a NUL-terminated string in user memory.
func pokeString(t *testing.T, task *kernel.Task, addr uint64, s string) {
	_, err := task.WriteAt(append([]byte(s), 0), int64(addr))
	require.NoError(t, err)
}

func TestDispatch(t *testing.T) {
	n := neko.Modern(t)

	n.It("invokes the bound handler for an implemented syscall", func(t *testing.T) {
		ctx, task, _ := bootKernel(t)
		d := NewDispatcher(BootTable(), hclog.NewNullLogger())

		res := call(ctx, d, SysGetpid)
		require.False(t, res.Failed())
		require.Equal(t, int64(task.Pid), res.Value())
	})

	n.It("returns the fixed stub value no matter the arguments", func(t *testing.T) {
		ctx, _, _ := bootKernel(t)
		d := NewDispatcher(BootTable(), hclog.NewNullLogger())

		for _, args := range [][]uint64{
			{},
			{3, 1, 0},
			{99, 1024, 0xdeadbeef},
			{^uint64(0), ^uint64(0), ^uint64(0)},
		} {
			res := call(ctx, d, SysFcntl64, args...)
			require.False(t, res.Failed())
			require.Equal(t, int64(0), res.Value())
			require.Equal(t, int64(0), res.Word())
		}
	})

	n.It("fails with ENOSYS for a number the table has never heard of", func(t *testing.T) {
		ctx, _, _ := bootKernel(t)
		d := NewDispatcher(BootTable(), hclog.NewNullLogger())

		res := call(ctx, d, 9999999, 1, 2, 3)
		require.True(t, res.Failed())
		require.Equal(t, abi.ENOSYS, res.Errno())
		require.Equal(t, int64(-38), res.Word())
	})

	n.It("is safe for negative and absurd numbers", func(t *testing.T) {
		ctx, _, _ := bootKernel(t)
		d := NewDispatcher(BootTable(), hclog.NewNullLogger())

		for _, id := range []int64{-1, -172, 0, 1 << 62} {
			res := d.Dispatch(ctx, SysArgs{Index: id})
			require.Equal(t, abi.ENOSYS, res.Errno())
		}
	})

	n.It("treats planned and low-priority numbers exactly like unknown ones", func(t *testing.T) {
		ctx, _, _ := bootKernel(t)
		d := NewDispatcher(BootTable(), hclog.NewNullLogger())

		unknown := call(ctx, d, 9999999)

		for _, id := range []int64{SysDup, SysRtSigaction, SysDup3, SysNanosleep, SysPpoll} {
			res := call(ctx, d, id)
			require.Equal(t, unknown.Word(), res.Word())
		}
	})

	n.It("fails with ENOSYS when an implemented entry was never bound", func(t *testing.T) {
		ctx, _, _ := bootKernel(t)
		d := NewDispatcher(NewRegistry().Freeze(), hclog.NewNullLogger())

		res := call(ctx, d, SysGetpid)
		require.Equal(t, abi.ENOSYS, res.Errno())
	})

	n.It("fails with ENOSYS when no task rides the context", func(t *testing.T) {
		d := NewDispatcher(BootTable(), hclog.NewNullLogger())

		res := call(context.Background(), d, SysGetpid)
		require.Equal(t, abi.ENOSYS, res.Errno())
	})

	n.It("contains a panicking handler instead of crashing", func(t *testing.T) {
		ctx, _, _ := bootKernel(t)

		r := NewRegistry()
		r.Register(SysGetpid, func(ctx context.Context, l hclog.Logger, task *kernel.Task, args SysArgs) abi.Result {
			panic("handler exploded")
		})

		d := NewDispatcher(r.Freeze(), hclog.NewNullLogger())

		require.NotPanics(t, func() {
			res := call(ctx, d, SysGetpid)
			require.Equal(t, abi.EFAULT, res.Errno())
		})
	})

	n.It("runs the breakpoint extension's debug side effect", func(t *testing.T) {
		ctx, task, k := bootKernel(t)
		d := NewDispatcher(BootTable(), hclog.NewNullLogger())

		var gotID uint64
		var gotMsg string
		var fired bool

		k.BreakpointHook = func(id uint64, msg string) {
			fired = true
			gotID = id
			gotMsg = msg
		}

		pokeString(t, task, 0x2000, "checkpoint alpha")

		res := call(ctx, d, SysArkBreakpoint, 0, 0x2000)
		require.False(t, res.Failed())
		require.Equal(t, int64(0), res.Value())
		require.True(t, fired)
		require.Equal(t, uint64(0), gotID)
		require.Equal(t, "checkpoint alpha", gotMsg)
	})

	n.It("sleeps for the requested number of ticks", func(t *testing.T) {
		ctx, _, k := bootKernel(t)
		d := NewDispatcher(BootTable(), hclog.NewNullLogger())

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 5; i++ {
				time.Sleep(10 * time.Millisecond)
				k.Clock.Tick()
			}
		}()

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		res := call(ctx, d, SysArkSleepTicks, 3)
		require.False(t, res.Failed())
		require.GreaterOrEqual(t, res.Value(), int64(3))

		<-done
	})

	n.It("rate limits but still answers repeated unknown numbers", func(t *testing.T) {
		ctx, _, _ := bootKernel(t)
		d := NewDispatcher(BootTable(), hclog.NewNullLogger())

		for i := 0; i < 10; i++ {
			res := call(ctx, d, 9999999)
			require.Equal(t, abi.ENOSYS, res.Errno())
		}
	})

	n.Meow()
}
