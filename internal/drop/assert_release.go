//go:build !dropdebug

package drop

func assertAligned(*Scheduler) {}
