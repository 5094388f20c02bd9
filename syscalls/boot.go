package syscalls

// BootTable binds every subsystem's handlers and freezes the result.
// Called exactly once, from single-threaded boot, before any process
// can trap. Any registration error panics and aborts the boot.
func BootTable() *Table {
	r := NewRegistry()

	registerFileSystem(r)
	registerProcess(r)
	registerMemory(r)
	registerMisc(r)
	registerCustom(r)

	return r.Freeze()
}
