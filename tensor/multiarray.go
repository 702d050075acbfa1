package tensor

import (
	"fmt"
)

// MultiArray owns a flat buffer of FlatSize() elements addressable by flat
// or tensor index. The fixed variant refuses Resize, standing in for the
// compile-time-extent arrays used in codes where dim is a template
// parameter.
type MultiArray[T any] struct {
	extents TensorSize
	data    []T
	fixed   bool
}

func NewMultiArray[T any](extents TensorSize) (ma *MultiArray[T]) {
	ma = &MultiArray[T]{
		extents: extents.Copy(),
		data:    make([]T, extents.FlatSize()),
	}
	return
}

// NewFixedMultiArray produces an array whose extents can never change.
func NewFixedMultiArray[T any](extents TensorSize) (ma *MultiArray[T]) {
	ma = NewMultiArray[T](extents)
	ma.fixed = true
	return
}

func (ma *MultiArray[T]) Extents() TensorSize { return ma.extents.Copy() }
func (ma *MultiArray[T]) FlatSize() int       { return len(ma.data) }
func (ma *MultiArray[T]) Dim() int            { return ma.extents.Dim() }

// Resize reallocates storage, discarding previous contents and invalidating
// previously computed flat indices.
func (ma *MultiArray[T]) Resize(extents TensorSize) {
	if ma.fixed {
		err := fmt.Errorf("attempt to resize a fixed size multi array of extents %v", ma.extents)
		panic(err)
	}
	ma.extents = extents.Copy()
	ma.data = make([]T, extents.FlatSize())
}

func (ma *MultiArray[T]) At(ti TensorIndex) T {
	return ma.data[ma.extents.TensorToFlat(ti)]
}

func (ma *MultiArray[T]) AtFlat(flat int) T {
	return ma.data[flat]
}

func (ma *MultiArray[T]) Set(ti TensorIndex, val T) {
	ma.data[ma.extents.TensorToFlat(ti)] = val
}

func (ma *MultiArray[T]) SetFlat(flat int, val T) {
	ma.data[flat] = val
}

// DataP exposes the flat backing buffer in the global row-major ordering.
func (ma *MultiArray[T]) DataP() []T { return ma.data }
