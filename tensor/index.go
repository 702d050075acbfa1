/*
Package tensor provides the multi-dimensional index and container types
underlying the grid, quadrature and basis value storage.

All containers share one flat ordering convention: row-major, with the
first index slowest-varying and the last index fastest-varying, so that
flat = ((i0*n1 + i1)*n2 + i2)*... Every cache level relies on this ordering
being identical everywhere; it is fixed here and nowhere else.
*/
package tensor

import (
	"fmt"
)

// TensorIndex is an ordered dim-tuple of integers addressing one entry of a
// dim-dimensional container. Components are valid in [0, extent_k).
type TensorIndex []int

// TensorSize holds the per-direction extents of a dim-dimensional container.
type TensorSize []int

func NewTensorIndex(components ...int) (ti TensorIndex) {
	ti = make(TensorIndex, len(components))
	copy(ti, components)
	return
}

func NewTensorSize(extents ...int) (sz TensorSize) {
	for _, n := range extents {
		if n <= 0 {
			err := fmt.Errorf("invalid extent: all extents must be positive, have %v", extents)
			panic(err)
		}
	}
	sz = make(TensorSize, len(extents))
	copy(sz, extents)
	return
}

// ConstTensorSize builds a size with the same extent in every direction.
func ConstTensorSize(dim, n int) (sz TensorSize) {
	sz = make(TensorSize, dim)
	for k := range sz {
		sz[k] = n
	}
	return
}

func (sz TensorSize) Dim() int { return len(sz) }

func (sz TensorSize) FlatSize() (fs int) {
	fs = 1
	for _, n := range sz {
		fs *= n
	}
	return
}

func (sz TensorSize) Copy() (R TensorSize) {
	R = make(TensorSize, len(sz))
	copy(R, sz)
	return
}

// TensorToFlat converts a tensor index to its flat offset under the global
// row-major convention (first index slowest-varying).
func (sz TensorSize) TensorToFlat(ti TensorIndex) (flat int) {
	sz.CheckIndex(ti)
	for k, n := range sz {
		flat = flat*n + ti[k]
	}
	return
}

// FlatToTensor is the inverse of TensorToFlat.
func (sz TensorSize) FlatToTensor(flat int) (ti TensorIndex) {
	if flat < 0 || flat >= sz.FlatSize() {
		err := fmt.Errorf("flat index out of range: index = %d, flat size = %d", flat, sz.FlatSize())
		panic(err)
	}
	ti = make(TensorIndex, len(sz))
	for k := len(sz) - 1; k >= 0; k-- {
		ti[k] = flat % sz[k]
		flat /= sz[k]
	}
	return
}

// CheckIndex panics when ti is outside the declared extents. Out of range
// access is a programming error, not a recoverable condition.
func (sz TensorSize) CheckIndex(ti TensorIndex) {
	if len(ti) != len(sz) {
		err := fmt.Errorf("tensor index dimension mismatch: index dim = %d, size dim = %d", len(ti), len(sz))
		panic(err)
	}
	for k, i := range ti {
		if i < 0 || i >= sz[k] {
			err := fmt.Errorf("tensor index out of range: component %d = %d, extent = %d", k, i, sz[k])
			panic(err)
		}
	}
}

func (ti TensorIndex) Copy() (R TensorIndex) {
	R = make(TensorIndex, len(ti))
	copy(R, ti)
	return
}
