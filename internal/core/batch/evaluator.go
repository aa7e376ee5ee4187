package batch

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Kernel maps one input element to one result.
type Kernel[In, Out any] func(in In) Out

// Evaluator runs a Kernel over a bound input buffer as a parallel-for, writing
// into a bound output buffer. One batch is submitted at a synchronization
// point and joined at the next one.
//
// With workers == 0 the batch runs inline inside Submit; the submit/join
// contract is the same either way.
type Evaluator[In, Out any] struct {
	workers  int
	minChunk int
	in       []In
	out      []Out
}

// NewEvaluator builds an evaluator. workers < 0 means GOMAXPROCS.
func NewEvaluator[In, Out any](workers, minChunk int) *Evaluator[In, Out] {
	if workers < 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if minChunk < 1 {
		minChunk = 1
	}
	return &Evaluator[In, Out]{workers: workers, minChunk: minChunk}
}

// Bind points the evaluator at the full backing arrays of in and out.
// Required after either buffer reallocated.
func (e *Evaluator[In, Out]) Bind(in *Buffer[In], out *Buffer[Out]) {
	e.in = in.full()
	e.out = out.full()
}

// Handle is one submitted batch.
type Handle[Out any] struct {
	done chan struct{}
	out  []Out
}

// Join blocks until the batch completes and returns its results.
func (h *Handle[Out]) Join() []Out {
	<-h.done
	return h.out
}

// Done reports completion without blocking.
func (h *Handle[Out]) Done() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Submit starts computing out[i] = k(in[i]) for i in [0, n). The input views
// must not be resized by the caller until the handle is joined.
func (e *Evaluator[In, Out]) Submit(n int, k Kernel[In, Out]) *Handle[Out] {
	if n > len(e.in) || n > len(e.out) {
		panic("batch: submit beyond bound buffers, missing Bind")
	}
	in, out := e.in[:n], e.out[:n]
	h := &Handle[Out]{done: make(chan struct{}), out: out}

	if e.workers == 0 || n <= e.minChunk {
		run(in, out, k)
		close(h.done)
		return h
	}

	chunk := (n + e.workers - 1) / e.workers
	if chunk < e.minChunk {
		chunk = e.minChunk
	}
	go func() {
		defer close(h.done)
		var g errgroup.Group
		g.SetLimit(e.workers)
		for start := 0; start < n; start += chunk {
			end := min(start+chunk, n)
			g.Go(func() error {
				run(in[start:end], out[start:end], k)
				return nil
			})
		}
		_ = g.Wait()
	}()
	return h
}

func run[In, Out any](in []In, out []Out, k Kernel[In, Out]) {
	for i := range in {
		out[i] = k(in[i])
	}
}
