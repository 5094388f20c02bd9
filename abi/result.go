package abi

import "fmt"

// Result is the outcome of one syscall. It is either a success carrying a
// non-negative value or a failure carrying an Errno, never both.
type Result struct {
	errno Errno
	value int64
}

func OK(v int64) Result {
	return Result{value: v}
}

func Fail(e Errno) Result {
	if e <= 0 {
		e = ENOSYS
	}

	return Result{errno: e}
}

func (r Result) Failed() bool {
	return r.errno != 0
}

func (r Result) Errno() Errno {
	return r.errno
}

func (r Result) Value() int64 {
	return r.value
}

// Word marshals the result into the single signed word written back to
// the caller's return register. Failures are negative errno values,
// successes are non-negative. A handler that produced a negative success
// value is broken; surface it as EINVAL rather than let it impersonate
// an arbitrary errno.
func (r Result) Word() int64 {
	if r.errno != 0 {
		return -int64(r.errno)
	}

	if r.value < 0 {
		return -int64(EINVAL)
	}

	return r.value
}

func (r Result) String() string {
	if r.errno != 0 {
		return fmt.Sprintf("Failure(%s)", r.errno)
	}

	return fmt.Sprintf("Success(%d)", r.value)
}
