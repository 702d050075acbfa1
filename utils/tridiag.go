package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NewSymTriDiagonal builds a symmetric tridiagonal matrix from the main
// diagonal d0 and the first super/sub diagonal d1, len(d1) == len(d0)-1.
// Used by the Golub-Welsch quadrature point generation.
func NewSymTriDiagonal(d0, d1 []float64) (J *mat.SymBandDense) {
	var (
		n = len(d0)
	)
	if len(d1) != n-1 {
		err := fmt.Errorf("diagonal size mismatch: len(d0) = %v, len(d1) = %v, need len(d1) = len(d0)-1", len(d0), len(d1))
		panic(err)
	}
	data := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		data[2*i] = d0[i]
		if i < n-1 {
			data[2*i+1] = d1[i]
		}
	}
	J = mat.NewSymBandDense(n, 1, data)
	return
}
