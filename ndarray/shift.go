package ndarray

// FFTShift returns a copy of c with the zero-frequency component moved to the
// center index (n/2) of every listed axis.
func FFTShift(c *Complex, axes []int) (*Complex, error) {
	return shiftComplex(c, axes, false)
}

// IFFTShift is the inverse of FFTShift. The two differ for odd extents.
func IFFTShift(c *Complex, axes []int) (*Complex, error) {
	return shiftComplex(c, axes, true)
}

// FFTShiftReal is FFTShift for real arrays.
func FFTShiftReal(a *Array, axes []int) (*Array, error) {
	return shiftReal(a, axes, false)
}

// IFFTShiftReal is IFFTShift for real arrays.
func IFFTShiftReal(a *Array, axes []int) (*Array, error) {
	return shiftReal(a, axes, true)
}

// shiftMaps returns, per axis, the source index feeding each destination
// index. Unshifted axes map to themselves.
func shiftMaps(shape []int, axes []int, inverse bool) ([][]int, error) {
	if !validAxes(len(shape), axes) {
		return nil, ErrAxisRange
	}
	shifted := make([]bool, len(shape))
	for _, ax := range axes {
		shifted[ax] = true
	}

	maps := make([][]int, len(shape))
	for d, n := range shape {
		m := make([]int, n)
		for i := 0; i < n; i++ {
			if !shifted[d] {
				m[i] = i
				continue
			}
			if inverse {
				m[i] = (i + n/2) % n
			} else {
				m[i] = ((i-n/2)%n + n) % n
			}
		}
		maps[d] = m
	}
	return maps, nil
}

func shiftComplex(c *Complex, axes []int, inverse bool) (*Complex, error) {
	maps, err := shiftMaps(c.Shape, axes, inverse)
	if err != nil {
		return nil, err
	}
	out := ZerosComplex(c.Shape...)
	strides := Strides(c.Shape)
	idx := make([]int, len(c.Shape))
	for dst := range out.Data {
		src := 0
		for d := range idx {
			src += maps[d][idx[d]] * strides[d]
		}
		out.Data[dst] = c.Data[src]
		advance(idx, c.Shape)
	}
	return out, nil
}

func shiftReal(a *Array, axes []int, inverse bool) (*Array, error) {
	maps, err := shiftMaps(a.Shape, axes, inverse)
	if err != nil {
		return nil, err
	}
	out := Zeros(a.Shape...)
	strides := Strides(a.Shape)
	idx := make([]int, len(a.Shape))
	for dst := range out.Data {
		src := 0
		for d := range idx {
			src += maps[d][idx[d]] * strides[d]
		}
		out.Data[dst] = a.Data[src]
		advance(idx, a.Shape)
	}
	return out, nil
}

// advance increments a row-major multi-index.
func advance(idx, shape []int) {
	for d := len(idx) - 1; d >= 0; d-- {
		idx[d]++
		if idx[d] < shape[d] {
			return
		}
		idx[d] = 0
	}
}
