package syscalls

// Syscall numbers follow the riscv64 Linux convention. The kernel adopts
// these values, it never renumbers them. ARK extensions live in their
// own reserved ranges: lightweight extensions around 1000, the debug
// trap at an isolated very large number.
const (
	SysGetcwd        = 17
	SysDup           = 23
	SysDup3          = 24
	SysFcntl64       = 25
	SysIoctl         = 29
	SysMkdirat       = 34
	SysUnlinkat      = 35
	SysLinkat        = 37
	SysUmount2       = 39
	SysMount         = 40
	SysChdir         = 49
	SysOpenat        = 56
	SysClose         = 57
	SysPipe2         = 59
	SysGetdents64    = 61
	SysLseek         = 62
	SysRead          = 63
	SysWrite         = 64
	SysReadv         = 65
	SysWritev        = 66
	SysPpoll         = 73
	SysNewfstatat    = 79
	SysFstat         = 80
	SysExit          = 93
	SysExitGroup     = 94
	SysSetTidAddress = 96
	SysNanosleep     = 101
	SysClockGettime  = 113
	SysSchedYield    = 124
	SysRtSigaction   = 134
	SysRtSigprocmask = 135
	SysSetgid        = 144
	SysSetuid        = 146
	SysTimes         = 153
	SysUname         = 160
	SysGettimeofday  = 169
	SysGetpid        = 172
	SysGetppid       = 173
	SysGetuid        = 174
	SysGeteuid       = 175
	SysGetgid        = 176
	SysGetegid       = 177
	SysGettid        = 178
	SysBrk           = 214
	SysMunmap        = 215
	SysClone         = 220
	SysExecve        = 221
	SysMmap          = 222
	SysWait4         = 260

	SysArkSleepTicks = 1002
	SysArkBreakpoint = 20010125
)

// linuxTable declares every number the kernel publishes, with its
// readiness. Implemented entries get their handlers bound by the
// subsystems during boot; Stub entries answer with StubValue; Planned
// and LowPriority answer ENOSYS until someone builds them.
var linuxTable = []Descriptor{
	{ID: SysOpenat, Name: "openat", Category: FileSystem, Readiness: Implemented},
	{ID: SysRead, Name: "read", Category: FileSystem, Readiness: Implemented},
	{ID: SysWrite, Name: "write", Category: FileSystem, Readiness: Implemented},
	{ID: SysLseek, Name: "lseek", Category: FileSystem, Readiness: Implemented},
	{ID: SysClose, Name: "close", Category: FileSystem, Readiness: Implemented},
	{ID: SysMkdirat, Name: "mkdirat", Category: FileSystem, Readiness: Implemented},
	{ID: SysMount, Name: "mount", Category: FileSystem, Readiness: Implemented},
	{ID: SysFstat, Name: "fstat", Category: FileSystem, Readiness: Implemented},
	{ID: SysReadv, Name: "readv", Category: FileSystem, Readiness: Implemented},
	{ID: SysWritev, Name: "writev", Category: FileSystem, Readiness: Implemented},
	{ID: SysNewfstatat, Name: "newfstatat", Category: FileSystem, Readiness: Implemented},
	{ID: SysGetdents64, Name: "getdents64", Category: FileSystem, Readiness: Implemented},
	{ID: SysLinkat, Name: "linkat", Category: FileSystem, Readiness: Implemented},
	{ID: SysPipe2, Name: "pipe2", Category: FileSystem, Readiness: Implemented},

	{ID: SysExit, Name: "exit", Category: Process, Readiness: Implemented},
	{ID: SysClone, Name: "clone", Category: Process, Readiness: Implemented},
	{ID: SysExecve, Name: "execve", Category: Process, Readiness: Implemented},
	{ID: SysWait4, Name: "wait4", Category: Process, Readiness: Implemented},
	{ID: SysGetpid, Name: "getpid", Category: Process, Readiness: Implemented},
	{ID: SysGetppid, Name: "getppid", Category: Process, Readiness: Implemented},
	{ID: SysSchedYield, Name: "sched_yield", Category: Process, Readiness: Implemented},

	{ID: SysBrk, Name: "brk", Category: Memory, Readiness: Implemented},
	{ID: SysMmap, Name: "mmap", Category: Memory, Readiness: Implemented},
	{ID: SysMunmap, Name: "munmap", Category: Memory, Readiness: Implemented},

	{ID: SysArkSleepTicks, Name: "ark_sleep_ticks", Category: CustomExtension, Readiness: Implemented},
	{ID: SysArkBreakpoint, Name: "ark_breakpoint", Category: CustomExtension, Readiness: Implemented},

	{ID: SysUname, Name: "uname", Category: Miscellaneous, Readiness: Implemented},
	{ID: SysGetcwd, Name: "getcwd", Category: Miscellaneous, Readiness: Implemented},
	{ID: SysChdir, Name: "chdir", Category: Miscellaneous, Readiness: Implemented},

	{ID: SysGetuid, Name: "getuid", Category: Process, Readiness: Stub},
	{ID: SysGeteuid, Name: "geteuid", Category: Process, Readiness: Stub},
	{ID: SysGetgid, Name: "getgid", Category: Process, Readiness: Stub},
	{ID: SysGetegid, Name: "getegid", Category: Process, Readiness: Stub},
	{ID: SysGettid, Name: "gettid", Category: Process, Readiness: Stub},
	{ID: SysSetuid, Name: "setuid", Category: Process, Readiness: Stub},
	{ID: SysSetgid, Name: "setgid", Category: Process, Readiness: Stub},
	{ID: SysExitGroup, Name: "exit_group", Category: Process, Readiness: Stub},
	{ID: SysSetTidAddress, Name: "set_tid_address", Category: Process, Readiness: Stub},
	{ID: SysIoctl, Name: "ioctl", Category: FileSystem, Readiness: Stub},
	{ID: SysFcntl64, Name: "fcntl64", Category: FileSystem, Readiness: Stub},
	{ID: SysClockGettime, Name: "clock_gettime", Category: Miscellaneous, Readiness: Stub},

	{ID: SysDup, Name: "dup", Category: FileSystem, Readiness: Planned},
	{ID: SysRtSigaction, Name: "rt_sigaction", Category: Process, Readiness: Planned},
	{ID: SysRtSigprocmask, Name: "rt_sigprocmask", Category: Process, Readiness: Planned},

	{ID: SysDup3, Name: "dup3", Category: FileSystem, Readiness: LowPriority},
	{ID: SysUnlinkat, Name: "unlinkat", Category: FileSystem, Readiness: LowPriority},
	{ID: SysUmount2, Name: "umount2", Category: FileSystem, Readiness: LowPriority},
	{ID: SysTimes, Name: "times", Category: Process, Readiness: LowPriority},
	{ID: SysGettimeofday, Name: "gettimeofday", Category: Miscellaneous, Readiness: LowPriority},
	{ID: SysNanosleep, Name: "nanosleep", Category: Process, Readiness: LowPriority},
	{ID: SysPpoll, Name: "ppoll", Category: FileSystem, Readiness: LowPriority},
}
