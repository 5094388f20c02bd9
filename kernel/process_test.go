package kernel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vektra/neko"
)

func TestWait(t *testing.T) {
	n := neko.Modern(t)

	n.It("detects another process has exited", func(t *testing.T) {
		k, err := NewKernel()
		require.NoError(t, err)

		parent := &Process{
			Kernel: k,
			Pid:    1,
			pg:     &ProcessGroup{},
		}

		parent.pg.Add(parent)

		child := &Process{
			Kernel: k,
			parent: parent,
			Pid:    2,
			pg:     parent.pg,
		}

		parent.pg.Add(child)

		child.Exit(1)

		ctx := context.Background()
		ctx, f := context.WithTimeout(ctx, 2*time.Second)
		defer f()

		pid, ret, err := parent.WaitAnyChild(ctx, true)
		require.NoError(t, err)

		require.Equal(t, 2, pid)

		require.Equal(t, 1, ret.Code)
	})

	n.It("waits for a child to exit", func(t *testing.T) {
		k, err := NewKernel()
		require.NoError(t, err)

		parent := &Process{
			Kernel: k,
			Pid:    1,
			pg:     &ProcessGroup{},
		}

		parent.pg.Add(parent)

		child := &Process{
			Kernel: k,
			parent: parent,
			Pid:    2,
			pg:     parent.pg,
		}

		parent.pg.Add(child)

		go func() {
			time.Sleep(100 * time.Millisecond)
			child.Exit(1)
		}()

		ctx := context.Background()
		ctx, f := context.WithTimeout(ctx, 5*time.Second)
		defer f()

		pid, ret, err := parent.WaitAnyChild(ctx, true)
		require.NoError(t, err)

		require.Equal(t, 2, pid)

		require.Equal(t, 1, ret.Code)
	})

	n.It("returns immediately while children are live and not blocking", func(t *testing.T) {
		k, err := NewKernel()
		require.NoError(t, err)

		parent := &Process{
			Kernel: k,
			Pid:    1,
			pg:     &ProcessGroup{},
		}

		parent.pg.Add(parent)

		child := &Process{
			Kernel: k,
			parent: parent,
			Pid:    2,
			pg:     parent.pg,
			status: Running,
		}

		parent.pg.Add(child)

		pid, _, err := parent.WaitAnyChild(context.Background(), false)
		require.NoError(t, err)
		require.Equal(t, 0, pid)
	})

	n.It("reports when there are no children at all", func(t *testing.T) {
		k, err := NewKernel()
		require.NoError(t, err)

		parent := &Process{
			Kernel: k,
			Pid:    1,
			pg:     &ProcessGroup{},
		}

		parent.pg.Add(parent)

		_, _, err = parent.WaitAnyChild(context.Background(), false)
		require.Equal(t, ErrNoChildren, err)
	})

	n.Meow()
}

func TestFork(t *testing.T) {
	n := neko.Modern(t)

	n.It("gives the child its own pid and a copied address space", func(t *testing.T) {
		k, err := NewKernel()
		require.NoError(t, err)

		parent, err := k.InitProcess(context.Background())
		require.NoError(t, err)

		_, err = parent.WriteAt([]byte("shared"), 0x1000)
		require.NoError(t, err)

		child, err := parent.Fork()
		require.NoError(t, err)

		require.NotEqual(t, parent.Pid, child.Pid)
		require.Equal(t, parent.Pid, child.Ppid())

		buf := make([]byte, 6)
		_, err = child.ReadAt(buf, 0x1000)
		require.NoError(t, err)
		require.Equal(t, "shared", string(buf))

		// writes after the fork stay private
		_, err = parent.WriteAt([]byte("parent"), 0x1000)
		require.NoError(t, err)

		_, err = child.ReadAt(buf, 0x1000)
		require.NoError(t, err)
		require.Equal(t, "shared", string(buf))
	})

	n.It("shares open file descriptions with the child", func(t *testing.T) {
		k, err := NewKernel()
		require.NoError(t, err)

		parent, err := k.InitProcess(context.Background())
		require.NoError(t, err)

		node, err := k.Fs.Create("/f", "/", RegularFile)
		require.NoError(t, err)

		fd := parent.AddFile(NewNodeFile(node))

		child, err := parent.Fork()
		require.NoError(t, err)

		f, ok := child.GetFile(fd)
		require.True(t, ok)
		require.Same(t, node, f.Node)

		// closing in the parent must not tear it down for the child
		require.NoError(t, parent.CloseFile(fd))

		_, err = f.Write([]byte("x"))
		require.NoError(t, err)
	})

	n.Meow()
}

func TestUserMemory(t *testing.T) {
	n := neko.Modern(t)

	n.It("round-trips structured data through copy in and out", func(t *testing.T) {
		k, err := NewKernel()
		require.NoError(t, err)

		p, err := k.InitProcess(context.Background())
		require.NoError(t, err)

		type pair struct {
			A uint64
			B int32
		}

		require.NoError(t, p.CopyOut(0x2000, pair{A: 7, B: -9}))

		var got pair
		require.NoError(t, p.CopyIn(0x2000, &got))
		require.Equal(t, pair{A: 7, B: -9}, got)
	})

	n.It("reads NUL-terminated strings", func(t *testing.T) {
		k, err := NewKernel()
		require.NoError(t, err)

		p, err := k.InitProcess(context.Background())
		require.NoError(t, err)

		_, err = p.WriteAt(append([]byte("/etc/rc"), 0), 0x2000)
		require.NoError(t, err)

		s, err := p.ReadCString(0x2000)
		require.NoError(t, err)
		require.Equal(t, "/etc/rc", string(s))
	})

	n.It("rejects reads outside the address space", func(t *testing.T) {
		k, err := NewKernel()
		require.NoError(t, err)

		p, err := k.InitProcess(context.Background())
		require.NoError(t, err)

		buf := make([]byte, 16)
		_, err = p.ReadAt(buf, int64(p.Mem.Size()))
		require.Error(t, err)

		_, err = p.Mem.ReadCString(uint64(p.Mem.Size()) + 1)
		require.Error(t, err)
	})

	n.Meow()
}
