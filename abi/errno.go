package abi

// Errno is a kernel error code. The values match the Linux numbering so
// the words handed back to userspace are the conventional negatives.
type Errno int32

const (
	EPERM   Errno = 1
	ENOENT  Errno = 2
	EINTR   Errno = 4
	EBADF   Errno = 9
	ECHILD  Errno = 10
	EAGAIN  Errno = 11
	ENOMEM  Errno = 12
	EFAULT  Errno = 14
	EBUSY   Errno = 16
	EEXIST  Errno = 17
	ENOTDIR Errno = 20
	EISDIR  Errno = 21
	EINVAL  Errno = 22
	EPIPE   Errno = 32
	ENOSYS  Errno = 38
)

var errnoNames = map[Errno]string{
	EPERM:   "EPERM",
	ENOENT:  "ENOENT",
	EINTR:   "EINTR",
	EBADF:   "EBADF",
	ECHILD:  "ECHILD",
	EAGAIN:  "EAGAIN",
	ENOMEM:  "ENOMEM",
	EFAULT:  "EFAULT",
	EBUSY:   "EBUSY",
	EEXIST:  "EEXIST",
	ENOTDIR: "ENOTDIR",
	EISDIR:  "EISDIR",
	EINVAL:  "EINVAL",
	EPIPE:   "EPIPE",
	ENOSYS:  "ENOSYS",
}

func (e Errno) String() string {
	if name, ok := errnoNames[e]; ok {
		return name
	}

	return "EUNKNOWN"
}
