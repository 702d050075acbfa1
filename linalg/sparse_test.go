package linalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/goiga/utils"
)

func TestAddBlock(t *testing.T) {
	A := NewSystemMatrix(3, 3)
	block := utils.NewMatrix(2, 2, []float64{1, 2, 3, 4})

	A.AddBlock(utils.Index{0, 1}, utils.Index{0, 1}, block)
	A.AddBlock(utils.Index{1, 2}, utils.Index{1, 2}, block)

	// overlapping entries accumulate
	assert.Equal(t, 1., A.At(0, 0))
	assert.Equal(t, 5., A.At(1, 1))
	assert.Equal(t, 4., A.At(2, 2))
	assert.Equal(t, 0., A.At(0, 2))

	assert.Panics(t, func() { A.AddBlock(utils.Index{0}, utils.Index{0, 1}, block) })
	assert.Panics(t, func() { A.AddBlock(utils.Index{0, 3}, utils.Index{0, 1}, block) })

	A.SetReadOnly("A")
	assert.Panics(t, func() { A.AddBlock(utils.Index{0, 1}, utils.Index{0, 1}, block) })
}

func TestMulVecAndSolve(t *testing.T) {
	A := NewSystemMatrix(2, 2)
	A.AddBlock(utils.Index{0, 1}, utils.Index{0, 1},
		utils.NewMatrix(2, 2, []float64{2, 1, 1, 3}))

	x := utils.NewVector(2, []float64{1, 2})
	b := A.MulVec(x)
	assert.InDelta(t, 4., b.AtVec(0), 1.e-14)
	assert.InDelta(t, 7., b.AtVec(1), 1.e-14)

	sol, err := A.SolveDense(b)
	require.NoError(t, err)
	assert.InDelta(t, 1., sol.AtVec(0), 1.e-13)
	assert.InDelta(t, 2., sol.AtVec(1), 1.e-13)

	_, err = A.SolveDense(utils.NewVector(3))
	require.Error(t, err)
}

func TestSystemVector(t *testing.T) {
	b := NewSystemVector(3)
	b.AddBlock(utils.Index{0, 1}, []float64{1, 2})
	b.AddBlock(utils.Index{1, 2}, []float64{3, 4})

	assert.Equal(t, 1., b.V.AtVec(0))
	assert.Equal(t, 5., b.V.AtVec(1))
	assert.Equal(t, 4., b.V.AtVec(2))

	assert.Panics(t, func() { b.AddBlock(utils.Index{3}, []float64{1}) })
	assert.Panics(t, func() { b.AddBlock(utils.Index{0}, []float64{1, 2}) })
}
