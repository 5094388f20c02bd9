package syscalls

import (
	"context"

	"github.com/Oyami-Srk/ark-kernel/abi"
	"github.com/Oyami-Srk/ark-kernel/kernel"
	"github.com/davecgh/go-spew/spew"
	hclog "github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru"
)

// Dispatcher resolves syscall numbers against a frozen Table. It is
// total: any number and any argument words produce exactly one Result,
// never a kernel crash.
type Dispatcher struct {
	table *Table

	l hclog.Logger

	// Numbers we already complained about, so a userland spinning on an
	// unknown syscall cannot flood the console.
	warned *lru.Cache
}

func NewDispatcher(table *Table, l hclog.Logger) *Dispatcher {
	warned, _ := lru.New(128)

	return &Dispatcher{
		table:  table,
		l:      l,
		warned: warned,
	}
}

func (d *Dispatcher) Table() *Table {
	return d.table
}

func (d *Dispatcher) Dispatch(ctx context.Context, args SysArgs) (res abi.Result) {
	defer func() {
		if r := recover(); r != nil {
			d.l.Error("panic in syscall handler", "id", args.Index, "name", d.table.Name(args.Index), "panic", r)
			res = abi.Fail(abi.EFAULT)
		}
	}()

	desc, ok := d.table.Lookup(args.Index)
	if !ok {
		d.warnUnknown(args.Index)
		return abi.Fail(abi.ENOSYS)
	}

	switch desc.Readiness {
	case Implemented:
		if desc.Handler == nil {
			d.l.Error("implemented syscall has no handler bound", "id", desc.ID, "name", desc.Name)
			return abi.Fail(abi.ENOSYS)
		}

		task, ok := kernel.GetTask(ctx)
		if !ok {
			return abi.Fail(abi.ENOSYS)
		}

		if d.l.IsTrace() {
			d.l.Trace("syscall", "pid", task.Pid, "id", desc.ID, "name", desc.Name, "args", spew.Sdump(args.Args))
		}

		return desc.Handler(ctx, d.l, task, args)
	case Stub:
		d.l.Debug("returning stub result for syscall", "name", desc.Name, "value", desc.StubValue)
		return abi.OK(desc.StubValue)
	default:
		// Planned and LowPriority look exactly like an unknown number
		// from userspace.
		return abi.Fail(abi.ENOSYS)
	}
}

func (d *Dispatcher) warnUnknown(id int64) {
	if d.warned.Contains(id) {
		return
	}

	d.warned.Add(id, struct{}{})

	d.l.Warn("unknown syscall", "id", id)
}
