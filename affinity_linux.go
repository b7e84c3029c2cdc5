//go:build linux

package corebench

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// pinCPU pins the calling OS thread to the given core via
// sched_setaffinity(2). The caller must have locked the goroutine to its
// thread first.
func pinCPU(core int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(core)

	return unix.SchedSetaffinity(0, &set)
}

// currentCPU returns the core the calling thread is running on, or -1 if
// it cannot be determined.
func currentCPU() int {
	var cpu uint32
	_, _, errno := unix.Syscall(unix.SYS_GETCPU, uintptr(unsafe.Pointer(&cpu)), 0, 0)
	if errno != 0 {
		return -1
	}

	return int(cpu)
}
