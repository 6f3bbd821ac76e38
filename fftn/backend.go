package fftn

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/wd15/pymks-clean/internal/core"
)

// plan1d performs forward and inverse 1-d transforms of a fixed length.
// The inverse is normalized by 1/n.
type plan1d interface {
	forward(dst, src []complex128) error
	inverse(dst, src []complex128) error
}

// newPlan builds a plan for length n under the configured backend. Plans are
// not safe for concurrent use; every worker goroutine builds its own.
func newPlan(backend Backend, n int) (plan1d, error) {
	if backend == BackendAlgoFFT && core.IsPowerOf2(n) {
		p, err := algofft.NewPlan64(n)
		if err != nil {
			return nil, fmt.Errorf("fftn: failed to create algo-fft plan: %w", err)
		}
		return &algoPlan{plan: p}, nil
	}
	return &gonumPlan{fft: fourier.NewCmplxFFT(n), n: n}, nil
}

type gonumPlan struct {
	fft *fourier.CmplxFFT
	n   int
}

func (p *gonumPlan) forward(dst, src []complex128) error {
	p.fft.Coefficients(dst, src)
	return nil
}

func (p *gonumPlan) inverse(dst, src []complex128) error {
	p.fft.Sequence(dst, src)
	// gonum's inverse is unnormalized.
	scale := complex(1/float64(p.n), 0)
	for i := range dst {
		dst[i] *= scale
	}
	return nil
}

// fftPlan is the subset of the algo-fft plan API this package relies on.
// The algo-fft inverse already carries the 1/n normalization.
type fftPlan interface {
	Forward(dst, src []complex128) error
	Inverse(dst, src []complex128) error
}

type algoPlan struct {
	plan fftPlan
}

func (p *algoPlan) forward(dst, src []complex128) error {
	if err := p.plan.Forward(dst, src); err != nil {
		return fmt.Errorf("fftn: forward FFT failed: %w", err)
	}
	return nil
}

func (p *algoPlan) inverse(dst, src []complex128) error {
	if err := p.plan.Inverse(dst, src); err != nil {
		return fmt.Errorf("fftn: inverse FFT failed: %w", err)
	}
	return nil
}
