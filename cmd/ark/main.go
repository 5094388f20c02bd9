package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Oyami-Srk/ark-kernel/boundary"
	"github.com/Oyami-Srk/ark-kernel/kernel"
	clog "github.com/Oyami-Srk/ark-kernel/log"
	"github.com/Oyami-Srk/ark-kernel/syscalls"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"
)

var (
	fTrace = pflag.BoolP("trace", "t", false, "enable trace logging")
	fTable = pflag.Bool("table", false, "dump the syscall table and exit")
)

func dumpTable(table *syscalls.Table) {
	for _, d := range table.Descriptors() {
		fmt.Printf("%10d  %-16s %-12s %s\n", d.ID, d.Name, d.Category, d.Readiness)
	}
}

func main() {
	pflag.Parse()

	clog.EnableDebug()

	if *fTrace {
		clog.L.SetLevel(hclog.Trace)
	}

	table := syscalls.BootTable()

	if *fTable {
		dumpTable(table)
		return
	}

	clog.L.Info("syscall table frozen", "entries", table.Len())

	k, err := kernel.NewKernel()
	if err != nil {
		clog.L.Error("error creating kernel", "error", err)
		os.Exit(1)
	}

	k.Clock.Start()
	defer k.Clock.Stop()

	ctx := context.Background()

	proc, err := k.InitProcess(ctx)
	if err != nil {
		clog.L.Error("error creating init process", "error", err)
		os.Exit(1)
	}

	ctx = kernel.SetTask(ctx, &kernel.Task{Process: proc})

	entry := &boundary.TrapEntry{
		L: clog.L,
		Invoker: syscalls.NewDispatcher(table, clog.L),
	}

	// Hosted boot smoke: run init's first few syscalls through the full
	// trap path the way the architecture layer would.
	banner := []byte("ARK: init is alive\n")

	const bannerAddr = 0x1000
	if _, err := proc.WriteAt(banner, bannerAddr); err != nil {
		clog.L.Error("error staging banner", "error", err)
		os.Exit(1)
	}

	var frame boundary.TrapFrame
	frame.Regs[boundary.RegA7] = syscalls.SysWrite
	frame.Regs[boundary.RegA0] = 1
	frame.Regs[boundary.RegA1] = bannerAddr
	frame.Regs[boundary.RegA2] = uint64(len(banner))

	entry.UserEnvCall(ctx, &frame)

	if ret := int64(frame.Regs[boundary.RegA0]); ret < 0 {
		clog.L.Error("init write failed", "ret", ret)
		os.Exit(1)
	}

	frame = boundary.TrapFrame{}
	frame.Regs[boundary.RegA7] = syscalls.SysGetpid

	entry.UserEnvCall(ctx, &frame)

	clog.L.Info("init running", "pid", int64(frame.Regs[boundary.RegA0]))
}
