package localization

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/wd15/pymks-clean/internal/core"
)

// ErrSVDFailed reports a failed factorization in the per-frequency solve.
var ErrSVDFailed = errors.New("localization: SVD of the frequency-space system failed")

// machEps is the float64 machine epsilon used for the rank cutoff.
const machEps = 2.220446049250313e-16

// emptySystemTol is the relative magnitude below which a per-frequency
// system counts as empty, matching the correlation normalizer cutoff.
const emptySystemTol = 1e-9

// lstsqSolver computes minimum-norm least-squares solutions of complex
// systems through the real 2m x 2n embedding
//
//	[ Re(A) -Im(A) ] [ Re(x) ]   [ Re(b) ]
//	[ Im(A)  Re(A) ] [ Im(x) ] = [ Im(b) ]
//
// whose SVD-based minimum-norm solution coincides with the complex one.
// Buffers are reused across frequencies.
//
// scale carries the largest matrix magnitude across all frequencies of the
// calibration. Systems whose singular values all sit below emptySystemTol
// of that scale hold nothing but transform roundoff and solve to zero.
type lstsqSolver struct {
	scale float64

	a   *mat.Dense
	b   *mat.VecDense
	u   mat.Dense
	v   mat.Dense
	s   []float64
	x   []float64
	sol []complex128
}

// solve regresses rhs against the rows of a (an m x n complex matrix in
// row-major order) and returns the minimum-norm least-squares coefficients.
// Singular values below eps * max(2m, 2n) * s_max, or below emptySystemTol
// of the global scale, are treated as zero, so rank-deficient systems
// (including analytically empty frequencies) stay finite.
func (ls *lstsqSolver) solve(a []complex128, m, n int, rhs []complex128) ([]complex128, error) {
	m2, n2 := 2*m, 2*n

	if ls.a == nil || ls.a.RawMatrix().Rows != m2 || ls.a.RawMatrix().Cols != n2 {
		ls.a = mat.NewDense(m2, n2, nil)
		ls.b = mat.NewVecDense(m2, nil)
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			re, im := real(a[i*n+j]), imag(a[i*n+j])
			ls.a.Set(i, j, re)
			ls.a.Set(i, n+j, -im)
			ls.a.Set(m+i, j, im)
			ls.a.Set(m+i, n+j, re)
		}
		ls.b.SetVec(i, real(rhs[i]))
		ls.b.SetVec(m+i, imag(rhs[i]))
	}

	var svd mat.SVD
	if ok := svd.Factorize(ls.a, mat.SVDThin); !ok {
		return nil, ErrSVDFailed
	}
	minDim := m2
	if n2 < minDim {
		minDim = n2
	}
	ls.s = core.EnsureLen(ls.s, minDim)
	ls.s = svd.Values(ls.s)
	ls.u.Reset()
	ls.v.Reset()
	svd.UTo(&ls.u)
	svd.VTo(&ls.v)

	maxDim := m2
	if n2 > maxDim {
		maxDim = n2
	}
	tol := 0.0
	if len(ls.s) > 0 {
		tol = machEps * float64(maxDim) * ls.s[0]
	}
	if floor := emptySystemTol * ls.scale; tol < floor {
		tol = floor
	}

	ls.x = core.EnsureLen(ls.x, n2)
	x := ls.x
	core.Zero(x)
	for k := range ls.s {
		if ls.s[k] <= tol {
			continue
		}
		var dot float64
		for i := 0; i < m2; i++ {
			dot += ls.u.At(i, k) * ls.b.AtVec(i)
		}
		dot /= ls.s[k]
		for j := 0; j < n2; j++ {
			x[j] += dot * ls.v.At(j, k)
		}
	}

	ls.sol = core.EnsureLenComplex(ls.sol, n)
	sol := ls.sol
	for j := 0; j < n; j++ {
		sol[j] = complex(x[j], x[n+j])
	}
	return sol, nil
}
