package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix(t *testing.T) {
	A := NewMatrix(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	nr, nc := A.Dims()
	require.Equal(t, 2, nr)
	require.Equal(t, 3, nc)
	assert.Equal(t, 6., A.At(1, 2))

	At := A.Transpose()
	nr, nc = At.Dims()
	require.Equal(t, 3, nr)
	require.Equal(t, 2, nc)
	assert.Equal(t, 6., At.At(2, 1))
	assert.Equal(t, 2., At.At(1, 0))

	// A * At is symmetric
	B := A.Mul(At)
	assert.Equal(t, B.At(0, 1), B.At(1, 0))
	assert.Equal(t, 14., B.At(0, 0))
	assert.Equal(t, 32., B.At(0, 1))

	V := A.MulVec(NewVector(3).Set(1))
	assert.Equal(t, 6., V.AtVec(0))
	assert.Equal(t, 15., V.AtVec(1))

	R := A.SliceRows(Index{1})
	nr, nc = R.Dims()
	require.Equal(t, 1, nr)
	require.Equal(t, 3, nc)
	assert.Equal(t, 4., R.At(0, 0))

	C := A.SliceCols(Index{0, 2})
	nr, nc = C.Dims()
	require.Equal(t, 2, nr)
	require.Equal(t, 2, nc)
	assert.Equal(t, 3., C.At(0, 1))

	assert.Equal(t, 1., A.Min())
	assert.Equal(t, 6., A.Max())
	assert.Equal(t, []float64{6, 15}, A.SumRows().DataP())
}

func TestMatrixInverse(t *testing.T) {
	A := NewMatrix(2, 2, []float64{
		4, 7,
		2, 6,
	})
	Ainv, err := A.Inverse()
	require.NoError(t, err)
	I := A.Mul(Ainv)
	assert.InDelta(t, 1., I.At(0, 0), 1.e-14)
	assert.InDelta(t, 0., I.At(0, 1), 1.e-14)
	assert.InDelta(t, 0., I.At(1, 0), 1.e-14)
	assert.InDelta(t, 1., I.At(1, 1), 1.e-14)
	assert.InDelta(t, 10., A.Det(), 1.e-14)

	S := NewMatrix(2, 2, []float64{
		1, 2,
		2, 4,
	})
	_, err = S.Inverse()
	assert.Error(t, err)
}

func TestMatrixReadOnly(t *testing.T) {
	A := NewMatrix(2, 2)
	A.SetReadOnly("A")
	assert.Panics(t, func() { A.Set(0, 0, 1) })
	A.SetWritable()
	assert.NotPanics(t, func() { A.Set(0, 0, 1) })
}

func TestVector(t *testing.T) {
	N := 3
	v1 := NewVector(N).Set(1)
	require.Equal(t, 1., v1.DataP()[N-1])
	v1.Set(2)
	require.Equal(t, 2., v1.DataP()[N-1])
	assert.Equal(t, 6., v1.Sum())

	v2 := NewVector(2, []float64{3, 4})
	assert.Equal(t, 4., v2.Max())
	assert.Equal(t, 3., v2.Min())

	A := v1.Outer(v2)
	nr, nc := A.Dims()
	require.Equal(t, N, nr)
	require.Equal(t, 2, nc)
	assert.Equal(t, 8., A.At(2, 1))

	// Linspace
	req := NewVector(2).Linspace(-1, 1)
	assert.Equal(t, -1., req.AtVec(0))
	assert.Equal(t, 1., req.AtVec(1))
	req = NewVector(3).Linspace(-1, 1)
	assert.Equal(t, 0., req.AtVec(1))

	w := NewVector(3, []float64{1, 2, 3})
	assert.Equal(t, 12., w.Dot(NewVector(3).Set(2)))

	c := w.Copy().Scale(2)
	assert.Equal(t, 6., c.AtVec(2))
	assert.Equal(t, 3., w.AtVec(2)) // copy does not alias
}

func TestIndex(t *testing.T) {
	I := NewRange(0, 3)
	require.Equal(t, Index{0, 1, 2, 3}, I)
	assert.Equal(t, Index{2, 3, 4, 5}, I.Add(2))
	assert.Equal(t, Index{3, 1}, I.Subset(Index{3, 1}))
	assert.True(t, I.Contains(2))
	assert.False(t, I.Contains(5))
	assert.Equal(t, 3, I.Max())
}
