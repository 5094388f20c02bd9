package kernel

import (
	"context"

	"github.com/Oyami-Srk/ark-kernel/log"
)

// DefaultAddressSpaceSize is the user image size given to new processes
// by the host-backed shim.
const DefaultAddressSpaceSize = 16 << 20

type Kernel struct {
	Fs    *Filesystem
	Clock *Clock

	processes *ProcessManager

	// BreakpointHook runs the debug-trap side effect of ark_breakpoint.
	// On hardware this issues an ebreak; hosted it defaults to a log
	// line and may be replaced by a debugger attachment.
	BreakpointHook func(id uint64, msg string)
}

func NewKernel() (*Kernel, error) {
	k := &Kernel{
		Fs:        NewFilesystem(),
		Clock:     NewClock(),
		processes: NewProcessManager(),
	}

	k.BreakpointHook = func(id uint64, msg string) {
		log.L.Warn("breakpoint trap", "id", id, "msg", msg)
	}

	return k, nil
}

func (k *Kernel) Processes() *ProcessManager {
	return k.processes
}

// InitProcess creates pid 1 with console stdio, rooted at /.
func (k *Kernel) InitProcess(ctx context.Context) (*Process, error) {
	proc := &Process{
		Kernel: k,
		pg:     NewProcessGroup(),
		Mem:    NewAddressSpace(DefaultAddressSpaceSize),
		status: Running,
		cwd:    "/",
	}

	k.processes.AssignPid(proc)
	proc.pg.Add(proc)

	stdin, stdout, stderr := NewConsoleFiles()
	proc.HookupStdio(stdin, stdout, stderr)

	return proc, nil
}
