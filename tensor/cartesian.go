package tensor

import (
	"fmt"
)

// CartesianProductArray stores dim independent per-direction sequences of
// possibly different lengths, representing their cartesian product without
// materializing it. Direction data is replaced wholesale via
// CopyDataDirection.
type CartesianProductArray[T any] struct {
	data [][]T
}

// NewCartesianProductArray allocates the per-direction sequences with the
// given sizes. A size of zero leaves the direction undeclared until the
// first CopyDataDirection.
func NewCartesianProductArray[T any](sizes ...int) (cpa *CartesianProductArray[T]) {
	cpa = &CartesianProductArray[T]{
		data: make([][]T, len(sizes)),
	}
	for k, n := range sizes {
		if n < 0 {
			err := fmt.Errorf("invalid direction size: direction %d has size %d", k, n)
			panic(err)
		}
		cpa.data[k] = make([]T, n)
	}
	return
}

func NewCartesianProductArrayFromData[T any](data [][]T) (cpa *CartesianProductArray[T]) {
	cpa = &CartesianProductArray[T]{
		data: make([][]T, len(data)),
	}
	for k, seq := range data {
		cpa.data[k] = make([]T, len(seq))
		copy(cpa.data[k], seq)
	}
	return
}

func (cpa *CartesianProductArray[T]) Dim() int { return len(cpa.data) }

// CopyDataDirection replaces direction k's sequence. If the direction was
// already sized, the replacement must match that size.
func (cpa *CartesianProductArray[T]) CopyDataDirection(k int, seq []T) {
	cpa.checkDirection(k)
	if n := len(cpa.data[k]); n != 0 && n != len(seq) {
		err := fmt.Errorf("direction %d size mismatch: declared = %d, supplied = %d", k, n, len(seq))
		panic(err)
	}
	cpa.data[k] = make([]T, len(seq))
	copy(cpa.data[k], seq)
}

// Resize redeclares direction k's size, discarding its data.
func (cpa *CartesianProductArray[T]) Resize(k, n int) {
	cpa.checkDirection(k)
	if n < 0 {
		err := fmt.Errorf("invalid direction size: direction %d has size %d", k, n)
		panic(err)
	}
	cpa.data[k] = make([]T, n)
}

// DataDirection returns direction k's sequence. The returned slice is a
// read-only view; callers must not mutate it.
func (cpa *CartesianProductArray[T]) DataDirection(k int) []T {
	cpa.checkDirection(k)
	return cpa.data[k]
}

func (cpa *CartesianProductArray[T]) Size(k int) int {
	cpa.checkDirection(k)
	return len(cpa.data[k])
}

func (cpa *CartesianProductArray[T]) TensorSize() (sz TensorSize) {
	sz = make(TensorSize, len(cpa.data))
	for k, seq := range cpa.data {
		sz[k] = len(seq)
	}
	return
}

func (cpa *CartesianProductArray[T]) FlatSize() (fs int) {
	fs = 1
	for _, seq := range cpa.data {
		fs *= len(seq)
	}
	return
}

// Tuple gathers the dim-tuple selected by ti, one entry per direction.
func (cpa *CartesianProductArray[T]) Tuple(ti TensorIndex) (tuple []T) {
	cpa.TensorSize().CheckIndex(ti)
	tuple = make([]T, len(cpa.data))
	for k, i := range ti {
		tuple[k] = cpa.data[k][i]
	}
	return
}

func (cpa *CartesianProductArray[T]) checkDirection(k int) {
	if k < 0 || k >= len(cpa.data) {
		err := fmt.Errorf("direction out of range: direction = %d, dim = %d", k, len(cpa.data))
		panic(err)
	}
}

// TensorProductArray represents scalar values y_{i0..id} = Π_k y_{k,i_k}
// without storing the product; quadrature weights are the main client.
type TensorProductArray struct {
	*CartesianProductArray[float64]
}

func NewTensorProductArray(sizes ...int) (tpa *TensorProductArray) {
	tpa = &TensorProductArray{NewCartesianProductArray[float64](sizes...)}
	return
}

// At lazily computes the product entry for ti.
func (tpa *TensorProductArray) At(ti TensorIndex) (val float64) {
	val = 1
	for _, y := range tpa.Tuple(ti) {
		val *= y
	}
	return
}

// Materialize expands the full product into a flat buffer in the global
// row-major ordering. Used once per element when all weights are consumed.
func (tpa *TensorProductArray) Materialize() (vals []float64) {
	var (
		sz = tpa.TensorSize()
		fs = sz.FlatSize()
	)
	vals = make([]float64, fs)
	for f := 0; f < fs; f++ {
		vals[f] = tpa.At(sz.FlatToTensor(f))
	}
	return
}
