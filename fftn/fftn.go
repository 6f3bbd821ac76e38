package fftn

import (
	"errors"
	"sync"

	"github.com/wd15/pymks-clean/ndarray"
)

// Errors returned by transforms.
var (
	ErrNilInput = errors.New("fftn: input array is nil")
	ErrNoAxes   = errors.New("fftn: at least one transform axis is required")
	ErrAxes     = errors.New("fftn: transform axes out of range or repeated")
)

// Transformer applies n-dimensional DFTs over selected axes.
// It is safe for concurrent use.
type Transformer struct {
	backend Backend
	workers int
}

// New creates a Transformer with the given options.
func New(opts ...Option) *Transformer {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Transformer{backend: cfg.backend, workers: cfg.workers}
}

// Forward returns the unnormalized DFT of x over the given axes.
func (t *Transformer) Forward(x *ndarray.Complex, axes []int) (*ndarray.Complex, error) {
	return t.transform(x, axes, false)
}

// Inverse returns the inverse DFT of x over the given axes, scaled by 1/N
// where N is the product of the transformed extents.
func (t *Transformer) Inverse(x *ndarray.Complex, axes []int) (*ndarray.Complex, error) {
	return t.transform(x, axes, true)
}

func (t *Transformer) transform(x *ndarray.Complex, axes []int, inverse bool) (*ndarray.Complex, error) {
	if x == nil {
		return nil, ErrNilInput
	}
	if len(axes) == 0 {
		return nil, ErrNoAxes
	}
	seen := make(map[int]bool, len(axes))
	for _, ax := range axes {
		if ax < 0 || ax >= x.Rank() || seen[ax] {
			return nil, ErrAxes
		}
		seen[ax] = true
	}

	out := x.Clone()
	for _, ax := range axes {
		if err := t.transformAxis(out, ax, inverse); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// transformAxis runs a 1-d transform along every line of x parallel to axis,
// in place.
func (t *Transformer) transformAxis(x *ndarray.Complex, axis int, inverse bool) error {
	n := x.Shape[axis]
	starts, stride, err := ndarray.Lines(x.Shape, axis)
	if err != nil {
		return err
	}

	workers := t.workers
	if workers > len(starts) {
		workers = len(starts)
	}
	if workers < 1 {
		workers = 1
	}

	chunk := (len(starts) + workers - 1) / workers
	errs := make([]error, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(starts) {
			hi = len(starts)
		}
		if lo >= hi {
			break
		}

		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			errs[w] = t.transformLines(x, starts[lo:hi], stride, n, inverse)
		}(w, lo, hi)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Transformer) transformLines(x *ndarray.Complex, starts []int, stride, n int, inverse bool) error {
	plan, err := newPlan(t.backend, n)
	if err != nil {
		return err
	}

	src := make([]complex128, n)
	dst := make([]complex128, n)

	for _, start := range starts {
		for i := 0; i < n; i++ {
			src[i] = x.Data[start+i*stride]
		}

		if inverse {
			err = plan.inverse(dst, src)
		} else {
			err = plan.forward(dst, src)
		}
		if err != nil {
			return err
		}

		for i := 0; i < n; i++ {
			x.Data[start+i*stride] = dst[i]
		}
	}
	return nil
}
