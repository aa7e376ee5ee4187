//go:build dropdebug

package drop

func assertAligned(s *Scheduler) {
	if !s.aligned() {
		panic("drop: registry sequences out of alignment")
	}
}
