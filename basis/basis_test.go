package basis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wd15/pymks-clean/ndarray"
)

func TestDiscreteIndicatorOneHot(t *testing.T) {
	b, err := NewDiscreteIndicator(3)
	require.NoError(t, err)

	X, err := ndarray.New([]int{1, 4}, []float64{0, 2, 1, 2})
	require.NoError(t, err)

	got, err := b.Discretize(X)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 4, 3}, got.Shape)
	want := []float64{
		1, 0, 0,
		0, 0, 1,
		0, 1, 0,
		0, 0, 1,
	}
	assert.Equal(t, want, got.Data)
}

func TestDiscreteIndicatorRejectsBadLabels(t *testing.T) {
	b, err := NewDiscreteIndicator(2)
	require.NoError(t, err)

	for _, bad := range []float64{-1, 2, 0.5} {
		X, err := ndarray.New([]int{1, 1}, []float64{bad})
		require.NoError(t, err)

		_, err = b.Discretize(X)
		assert.ErrorIs(t, err, ErrStateOutOfRange, "label %v", bad)
	}
}

func TestContinuousIndicatorNodes(t *testing.T) {
	b, err := NewContinuousIndicator(3, 0, 1)
	require.NoError(t, err)

	X, err := ndarray.New([]int{1, 3}, []float64{0.5, 0.25, 1})
	require.NoError(t, err)

	got, err := b.Discretize(X)
	require.NoError(t, err)

	want := []float64{
		0, 1, 0, // exactly on the middle node
		0.5, 0.5, 0, // halfway between the first two nodes
		0, 0, 1, // upper domain edge
	}
	assert.InDeltaSlice(t, want, got.Data, 1e-12)
}

func TestContinuousIndicatorClampsOutOfDomain(t *testing.T) {
	b, err := NewContinuousIndicator(2, 0, 1)
	require.NoError(t, err)

	X, err := ndarray.New([]int{1, 2}, []float64{-3, 7})
	require.NoError(t, err)

	got, err := b.Discretize(X)
	require.NoError(t, err)

	want := []float64{
		1, 0,
		0, 1,
	}
	assert.InDeltaSlice(t, want, got.Data, 1e-12)
}

func TestIndicatorPartitionOfUnity(t *testing.T) {
	rng := rand.New(rand.NewSource(17))

	X := ndarray.Zeros(2, 5, 4)
	for i := range X.Data {
		X.Data[i] = rng.Float64()
	}

	for _, nStates := range []int{2, 3, 6} {
		b, err := NewContinuousIndicator(nStates, 0, 1)
		require.NoError(t, err)

		got, err := b.Discretize(X)
		require.NoError(t, err)

		for v := 0; v < X.Size(); v++ {
			sum := 0.0
			for h := 0; h < nStates; h++ {
				sum += got.Data[v*nStates+h]
			}
			assert.InDelta(t, 1.0, sum, 1e-10, "nStates=%d voxel=%d", nStates, v)
		}
	}
}

func TestLegendreValues(t *testing.T) {
	b, err := NewLegendre(3, 0, 1)
	require.NoError(t, err)

	X, err := ndarray.New([]int{1, 2}, []float64{1, 0.5})
	require.NoError(t, err)

	got, err := b.Discretize(X)
	require.NoError(t, err)

	// x=1 maps to 1 on [-1,1]: P = (1, 1, 1), weights (1/2, 3/2, 5/2),
	// emitted highest degree first. x=0.5 maps to 0: P = (1, 0, -1/2).
	want := []float64{
		2.5, 1.5, 0.5,
		-1.25, 0, 0.5,
	}
	assert.InDeltaSlice(t, want, got.Data, 1e-12)
}

func TestLegendreRecurrenceHighOrder(t *testing.T) {
	b, err := NewLegendre(5, -1, 1)
	require.NoError(t, err)

	x := 0.3
	X, err := ndarray.New([]int{1, 1}, []float64{x})
	require.NoError(t, err)

	got, err := b.Discretize(X)
	require.NoError(t, err)

	// P_3(x) = (5x^3 - 3x)/2, P_4(x) = (35x^4 - 30x^2 + 3)/8. Degree 4
	// sits in state 0, degree 3 in state 1.
	p3 := (5*x*x*x - 3*x) / 2
	p4 := (35*x*x*x*x - 30*x*x + 3) / 8
	assert.InDelta(t, 4.5*p4, got.Data[0], 1e-12)
	assert.InDelta(t, 3.5*p3, got.Data[1], 1e-12)
}

func TestConstructorErrors(t *testing.T) {
	_, err := NewDiscreteIndicator(1)
	assert.ErrorIs(t, err, ErrTooFewStates)

	_, err = NewContinuousIndicator(2, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidDomain)

	_, err = NewLegendre(2, 2, -2)
	assert.ErrorIs(t, err, ErrInvalidDomain)
}

func TestDiscretizeInputErrors(t *testing.T) {
	b, err := NewDiscreteIndicator(2)
	require.NoError(t, err)

	_, err = b.Discretize(nil)
	assert.ErrorIs(t, err, ErrNilInput)

	scalar := ndarray.Zeros(3)
	_, err = b.Discretize(scalar)
	assert.ErrorIs(t, err, ErrNoSpatialAxes)
}
