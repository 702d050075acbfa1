package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatTensorRoundTrip(t *testing.T) {
	sz := NewTensorSize(2, 3, 4)
	require.Equal(t, 24, sz.FlatSize())

	// flat -> tensor -> flat over the full range
	for f := 0; f < sz.FlatSize(); f++ {
		ti := sz.FlatToTensor(f)
		assert.Equal(t, f, sz.TensorToFlat(ti))
	}
	// tensor -> flat -> tensor over the full range
	for i0 := 0; i0 < 2; i0++ {
		for i1 := 0; i1 < 3; i1++ {
			for i2 := 0; i2 < 4; i2++ {
				ti := NewTensorIndex(i0, i1, i2)
				assert.Equal(t, ti, sz.FlatToTensor(sz.TensorToFlat(ti)))
			}
		}
	}

	// Convention: first index slowest-varying, last index fastest-varying
	sz = NewTensorSize(2, 3)
	assert.Equal(t, 5, sz.TensorToFlat(NewTensorIndex(1, 2)))
	assert.Equal(t, 1, sz.TensorToFlat(NewTensorIndex(0, 1)))
	assert.Equal(t, NewTensorIndex(1, 0), sz.FlatToTensor(3))
}

func TestIndexBounds(t *testing.T) {
	sz := NewTensorSize(2, 3)
	assert.Panics(t, func() { sz.TensorToFlat(NewTensorIndex(2, 0)) })
	assert.Panics(t, func() { sz.TensorToFlat(NewTensorIndex(0, -1)) })
	assert.Panics(t, func() { sz.TensorToFlat(NewTensorIndex(0)) })
	assert.Panics(t, func() { sz.FlatToTensor(6) })
	assert.Panics(t, func() { NewTensorSize(2, 0) })
}

func TestMultiArray(t *testing.T) {
	ma := NewMultiArray[float64](NewTensorSize(2, 3))
	require.Equal(t, 6, ma.FlatSize())

	ma.Set(NewTensorIndex(1, 2), 42)
	assert.Equal(t, 42., ma.At(NewTensorIndex(1, 2)))
	assert.Equal(t, 42., ma.AtFlat(5))

	ma.Resize(NewTensorSize(4, 4))
	require.Equal(t, 16, ma.FlatSize())
	assert.Equal(t, 0., ma.AtFlat(5)) // resize discards contents

	fixed := NewFixedMultiArray[int](NewTensorSize(3))
	assert.Panics(t, func() { fixed.Resize(NewTensorSize(4)) })
}

func TestCartesianProductArray(t *testing.T) {
	cpa := NewCartesianProductArray[float64](2, 3)
	require.Equal(t, 6, cpa.FlatSize())

	cpa.CopyDataDirection(0, []float64{0, 1})
	cpa.CopyDataDirection(1, []float64{0, 0.5, 1})
	assert.Equal(t, []float64{0, 0.5, 1}, cpa.DataDirection(1))
	assert.Equal(t, []float64{1, 0.5}, cpa.Tuple(NewTensorIndex(1, 1)))

	// declared size must be respected
	assert.Panics(t, func() { cpa.CopyDataDirection(0, []float64{0, 1, 2}) })

	// resize changes the product size
	cpa.Resize(1, 5)
	assert.Equal(t, 10, cpa.FlatSize())
	cpa.CopyDataDirection(1, []float64{0, .25, .5, .75, 1})
	assert.Equal(t, 10, cpa.FlatSize())
}

func TestTensorProductArray(t *testing.T) {
	tpa := NewTensorProductArray(2, 2)
	tpa.CopyDataDirection(0, []float64{2, 3})
	tpa.CopyDataDirection(1, []float64{5, 7})

	assert.Equal(t, 10., tpa.At(NewTensorIndex(0, 0)))
	assert.Equal(t, 21., tpa.At(NewTensorIndex(1, 1)))

	// materialized product follows the row-major convention
	assert.Equal(t, []float64{10, 14, 15, 21}, tpa.Materialize())
}
