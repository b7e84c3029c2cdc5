//go:build !linux

package corebench

// pinCPU is a no-op where sched_setaffinity(2) is unavailable. Workers
// still run on locked OS threads; the kernel chooses their cores.
func pinCPU(core int) error {
	return nil
}

// currentCPU reports -1 on platforms without a getcpu call, disabling the
// remote-first release heuristic.
func currentCPU() int {
	return -1
}
