package localization_test

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/wd15/pymks-clean/basis"
	"github.com/wd15/pymks-clean/localization"
	"github.com/wd15/pymks-clean/ndarray"
)

func ExampleModel() {
	rng := rand.New(rand.NewSource(1))

	// A linear filter acting on the microstructure generates the responses.
	kernel := []float64{0.5, 0.25, 0.125, 0.0625}
	X := ndarray.Zeros(10, 21)
	y := ndarray.Zeros(10, 21)
	for s := 0; s < 10; s++ {
		for i := 0; i < 21; i++ {
			X.Set(rng.Float64(), s, i)
		}
		for i := 0; i < 21; i++ {
			var acc float64
			for j, k := range kernel {
				acc += k * X.At(s, (i+j)%21)
			}
			y.Set(acc, s, i)
		}
	}

	b, _ := basis.NewContinuousIndicator(3, 0, 1)
	m := localization.New(b)
	if err := m.Fit(X, y); err != nil {
		fmt.Println(err)
		return
	}

	pred, _ := m.Predict(X)
	var maxErr float64
	for i := range y.Data {
		maxErr = math.Max(maxErr, math.Abs(pred.Data[i]-y.Data[i]))
	}
	fmt.Println(maxErr < 1e-10)
	// Output:
	// true
}
