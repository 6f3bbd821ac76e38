package stats

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/wd15/pymks-clean/basis"
	"github.com/wd15/pymks-clean/ndarray"
)

// twoPhase returns the 5x4 two-phase microstructure used by the reference
// vectors below, with phase 1 occupying an L-shaped region in the top rows.
func twoPhase(t *testing.T) *ndarray.Array {
	t.Helper()
	X, err := ndarray.New([]int{1, 5, 4}, []float64{
		1, 0, 1, 1,
		1, 0, 1, 1,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
	})
	if err != nil {
		t.Fatal(err)
	}
	return X
}

// checkerboard returns a 3x3 checkerboard with phase 0 in the corners.
func checkerboard(t *testing.T) *ndarray.Array {
	t.Helper()
	X, err := ndarray.New([]int{1, 3, 3}, []float64{
		0, 1, 0,
		1, 0, 1,
		0, 1, 0,
	})
	if err != nil {
		t.Fatal(err)
	}
	return X
}

func twoStates(t *testing.T) basis.Basis {
	t.Helper()
	b, err := basis.NewDiscreteIndicator(2)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// checkChannel compares one trailing-axis channel against want, row major
// over the spatial axes.
func checkChannel(t *testing.T, got *ndarray.Array, sample, channel int, want []float64) {
	t.Helper()
	rank := got.Rank()
	channels := got.Shape[rank-1]
	nSpatial := ndarray.Size(got.Shape[1 : rank-1])
	if len(want) != nSpatial {
		t.Fatalf("want has %d entries for %d lags", len(want), nSpatial)
	}
	for p := 0; p < nSpatial; p++ {
		g := got.Data[(sample*nSpatial+p)*channels+channel]
		if math.Abs(g-want[p]) > 1e-10 {
			t.Errorf("lag %d: got %v, want %v", p, g, want[p])
		}
	}
}

func TestNonperiodicAutocorrelation(t *testing.T) {
	got, err := Autocorrelate(twoPhase(t), twoStates(t))
	if err != nil {
		t.Fatal(err)
	}
	if !ndarray.ShapeEqual(got.Shape, []int{1, 5, 4, 2}) {
		t.Fatalf("shape: got %v, want [1 5 4 2]", got.Shape)
	}
	checkChannel(t, got, 0, 1, []float64{
		0, 0, 0, 0,
		1. / 8, 1. / 12, 3. / 16, 1. / 12,
		0.2, 2. / 15, 0.3, 2. / 15,
		1. / 8, 1. / 12, 3. / 16, 1. / 12,
		0, 0, 0, 0,
	})
}

func TestPeriodicAutocorrelation(t *testing.T) {
	got, err := Autocorrelate(twoPhase(t), twoStates(t), Periodic(0, 1))
	if err != nil {
		t.Fatal(err)
	}
	checkChannel(t, got, 0, 1, []float64{
		0, 0, 0, 0,
		0.1, 0.1, 0.15, 0.1,
		0.2, 0.2, 0.3, 0.2,
		0.1, 0.1, 0.15, 0.1,
		0, 0, 0, 0,
	})
}

func TestNonperiodicCrosscorrelation(t *testing.T) {
	got, err := Crosscorrelate(twoPhase(t), twoStates(t))
	if err != nil {
		t.Fatal(err)
	}
	if !ndarray.ShapeEqual(got.Shape, []int{1, 5, 4, 1}) {
		t.Fatalf("shape: got %v, want [1 5 4 1]", got.Shape)
	}
	checkChannel(t, got, 0, 0, []float64{
		1. / 3, 4. / 9, 0.5, 4. / 9,
		1. / 8, 0.25, 3. / 16, 0.25,
		0, 2. / 15, 0, 2. / 15,
		0, 1. / 12, 0, 1. / 12,
		0, 0, 0, 0,
	})
}

func TestPeriodicCrosscorrelation(t *testing.T) {
	got, err := Crosscorrelate(twoPhase(t), twoStates(t), Periodic(0, 1))
	if err != nil {
		t.Fatal(err)
	}
	checkChannel(t, got, 0, 0, []float64{
		0.3, 0.3, 0.3, 0.3,
		0.2, 0.2, 0.15, 0.2,
		0.1, 0.1, 0, 0.1,
		0.2, 0.2, 0.15, 0.2,
		0.3, 0.3, 0.3, 0.3,
	})
}

func TestCorrelateConcatenatesAutosAndCrosses(t *testing.T) {
	X, err := ndarray.New([]int{2, 5, 4}, []float64{
		0, 0, 1, 0,
		0, 0, 1, 0,
		0, 0, 1, 0,
		0, 0, 0, 0,
		0, 0, 1, 0,

		0, 1, 0, 0,
		0, 1, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, 0,
		0, 1, 0, 0,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := Correlate(X, twoStates(t))
	if err != nil {
		t.Fatal(err)
	}
	if !ndarray.ShapeEqual(got.Shape, []int{2, 5, 4, 3}) {
		t.Fatalf("shape: got %v, want [2 5 4 3]", got.Shape)
	}

	// Channel 0 is the phase-0 autocorrelation of the first sample.
	checkChannel(t, got, 0, 0, []float64{
		2. / 3, 4. / 9, 0.75, 4. / 9,
		5. / 8, 0.5, 0.75, 0.5,
		0.6, 7. / 15, 0.8, 7. / 15,
		5. / 8, 0.5, 0.75, 0.5,
		0.5, 4. / 9, 0.75, 4. / 9,
	})
}

func TestPeriodicCorrelate(t *testing.T) {
	X, err := ndarray.New([]int{1, 5, 4}, []float64{
		0, 0, 1, 0,
		0, 0, 1, 0,
		0, 0, 1, 0,
		0, 0, 0, 0,
		0, 0, 1, 0,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := Correlate(X, twoStates(t), Periodic(0, 1))
	if err != nil {
		t.Fatal(err)
	}
	checkChannel(t, got, 0, 0, []float64{
		0.6, 0.6, 0.75, 0.6,
		0.6, 0.6, 0.75, 0.6,
		0.6, 0.6, 0.8, 0.6,
		0.6, 0.6, 0.75, 0.6,
		0.6, 0.6, 0.75, 0.6,
	})
}

func maskedCheckerboard(t *testing.T) (*ndarray.Array, *ndarray.Array) {
	t.Helper()
	X := checkerboard(t)
	mask := ndarray.Zeros(1, 3, 3)
	for i := range mask.Data {
		mask.Data[i] = 1
	}
	mask.Data[0] = 0
	return X, mask
}

func TestPeriodicMaskedAutocorrelation(t *testing.T) {
	X, mask := maskedCheckerboard(t)
	got, err := Autocorrelate(X, twoStates(t), Periodic(0, 1), WithConfidence(mask))
	if err != nil {
		t.Fatal(err)
	}
	checkChannel(t, got, 0, 0, []float64{
		1. / 7, 1. / 7, 3. / 7,
		1. / 7, 0.5, 1. / 7,
		3. / 7, 1. / 7, 1. / 7,
	})
	checkChannel(t, got, 0, 1, []float64{
		2. / 7, 1. / 7, 2. / 7,
		1. / 7, 0.5, 1. / 7,
		2. / 7, 1. / 7, 2. / 7,
	})
}

func TestNonperiodicMaskedAutocorrelation(t *testing.T) {
	X, mask := maskedCheckerboard(t)
	got, err := Autocorrelate(X, twoStates(t), WithConfidence(mask))
	if err != nil {
		t.Fatal(err)
	}
	checkChannel(t, got, 0, 0, []float64{
		1. / 3, 0, 0.5,
		0, 0.5, 0,
		0.5, 0, 1. / 3,
	})
	checkChannel(t, got, 0, 1, []float64{
		2. / 3, 0, 0.5,
		0, 0.5, 0,
		0.5, 0, 2. / 3,
	})
}

func TestMixedPeriodicMaskedAutocorrelation(t *testing.T) {
	X, mask := maskedCheckerboard(t)
	got, err := Autocorrelate(X, twoStates(t), Periodic(0), WithConfidence(mask))
	if err != nil {
		t.Fatal(err)
	}
	checkChannel(t, got, 0, 0, []float64{
		1. / 5, 1. / 7, 2. / 5,
		0, 0.5, 0,
		2. / 5, 1. / 7, 1. / 5,
	})
	checkChannel(t, got, 0, 1, []float64{
		2. / 5, 1. / 7, 2. / 5,
		0, 0.5, 0,
		2. / 5, 1. / 7, 2. / 5,
	})
}

func TestUniformPhaseHasUnitZeroLag(t *testing.T) {
	X := ndarray.Zeros(1, 3, 3)
	for i := range X.Data {
		X.Data[i] = 1
	}

	// Zero lag of a single-phase structure is the phase fraction (here 1)
	// under both normalization conventions.
	for _, opts := range [][]Option{nil, {Periodic(0, 1)}} {
		got, err := Autocorrelate(X, twoStates(t), opts...)
		if err != nil {
			t.Fatal(err)
		}
		if v := got.At(0, 1, 1, 1); math.Abs(v-1) > 1e-10 {
			t.Errorf("zero lag state 1: got %v, want 1", v)
		}
		if v := got.At(0, 1, 1, 0); math.Abs(v) > 1e-10 {
			t.Errorf("zero lag state 0: got %v, want 0", v)
		}
	}
}

func TestPairLabels(t *testing.T) {
	tests := []struct {
		nStates int
		want    [][2]int
	}{
		{2, [][2]int{{0, 1}}},
		{3, [][2]int{{0, 1}, {1, 2}, {2, 0}}},
		{4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 2}, {1, 3}}},
	}
	for _, tc := range tests {
		got := PairLabels(tc.nStates)
		if len(got) != tc.nStates*(tc.nStates-1)/2 {
			t.Fatalf("nStates=%d: %d pairs, want %d",
				tc.nStates, len(got), tc.nStates*(tc.nStates-1)/2)
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("nStates=%d pair %d: got %v, want %v",
					tc.nStates, i, got[i], tc.want[i])
			}
		}
	}
}

// bruteCorrelation computes f_{ll'}(r) directly from the definition:
// the confidence-weighted count of (s, s+r) pairs in states (l, l'), divided
// by the weighted count of valid pairs at that lag. Periodic axes wrap,
// non-periodic axes truncate.
func bruteCorrelation(X, mask *ndarray.Array, l0, l1 int, periodic []int) *ndarray.Array {
	spatial := X.Shape[1:]
	wraps := make([]bool, len(spatial))
	for _, ax := range periodic {
		wraps[ax] = true
	}

	out := ndarray.Zeros(X.Shape...)
	samples := X.Shape[0]
	nSpatial := ndarray.Size(spatial)
	strides := ndarray.Strides(spatial)

	coords := func(p int) []int {
		c := make([]int, len(spatial))
		for d := range spatial {
			c[d] = (p / strides[d]) % spatial[d]
		}
		return c
	}

	for s := 0; s < samples; s++ {
		for p := 0; p < nSpatial; p++ {
			lag := coords(p)
			for d := range lag {
				lag[d] -= spatial[d] / 2
			}
			var num, den float64
			for q := 0; q < nSpatial; q++ {
				src := coords(q)
				tgt := make([]int, len(src))
				valid := true
				for d := range src {
					tgt[d] = src[d] + lag[d]
					if wraps[d] {
						tgt[d] = ((tgt[d] % spatial[d]) + spatial[d]) % spatial[d]
					} else if tgt[d] < 0 || tgt[d] >= spatial[d] {
						valid = false
						break
					}
				}
				if !valid {
					continue
				}
				qi, ti := s*nSpatial, s*nSpatial
				for d := range src {
					qi += src[d] * strides[d]
					ti += tgt[d] * strides[d]
				}
				w := mask.Data[qi] * mask.Data[ti]
				den += w
				if int(X.Data[qi]) == l0 && int(X.Data[ti]) == l1 {
					num += w
				}
			}
			if math.Abs(den) < zeroPairTol {
				out.Data[s*nSpatial+p] = 0
			} else {
				out.Data[s*nSpatial+p] = num / den
			}
		}
	}
	return out
}

func TestAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	X := ndarray.Zeros(2, 4, 5)
	for i := range X.Data {
		X.Data[i] = float64(rng.Intn(2))
	}
	mask := ndarray.Zeros(2, 4, 5)
	for i := range mask.Data {
		if rng.Float64() < 0.8 {
			mask.Data[i] = 1
		}
	}

	cases := []struct {
		name     string
		periodic []int
	}{
		{"nonperiodic", nil},
		{"periodic", []int{0, 1}},
		{"mixed", []int{1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := []Option{WithConfidence(mask)}
			if tc.periodic != nil {
				opts = append(opts, Periodic(tc.periodic...))
			}

			auto, err := Autocorrelate(X, twoStates(t), opts...)
			if err != nil {
				t.Fatal(err)
			}
			cross, err := Crosscorrelate(X, twoStates(t), opts...)
			if err != nil {
				t.Fatal(err)
			}

			for l := 0; l < 2; l++ {
				want := bruteCorrelation(X, mask, l, l, tc.periodic)
				for s := 0; s < 2; s++ {
					checkChannel(t, auto, s, l, want.Data[s*20:(s+1)*20])
				}
			}
			want := bruteCorrelation(X, mask, 0, 1, tc.periodic)
			for s := 0; s < 2; s++ {
				checkChannel(t, cross, s, 0, want.Data[s*20:(s+1)*20])
			}
		})
	}
}

func TestValidationErrors(t *testing.T) {
	b := twoStates(t)
	X := checkerboard(t)

	if _, err := Autocorrelate(nil, b); !errors.Is(err, ErrNilInput) {
		t.Errorf("nil input: got %v, want ErrNilInput", err)
	}
	if _, err := Autocorrelate(ndarray.Zeros(3), b); !errors.Is(err, ErrNoSpatialAxes) {
		t.Errorf("rank 1: got %v, want ErrNoSpatialAxes", err)
	}
	if _, err := Autocorrelate(X, nil); !errors.Is(err, ErrNilBasis) {
		t.Errorf("nil basis: got %v, want ErrNilBasis", err)
	}
	if _, err := Autocorrelate(X, b, Periodic(2)); !errors.Is(err, ErrPeriodicAxes) {
		t.Errorf("axis range: got %v, want ErrPeriodicAxes", err)
	}
	if _, err := Autocorrelate(X, b, Periodic(0, 0)); !errors.Is(err, ErrPeriodicAxes) {
		t.Errorf("repeated axis: got %v, want ErrPeriodicAxes", err)
	}
	if _, err := Autocorrelate(X, b, WithConfidence(ndarray.Zeros(1, 4, 3))); !errors.Is(err, ErrMaskShape) {
		t.Errorf("mask shape: got %v, want ErrMaskShape", err)
	}
}
