package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

type Matrix struct {
	M        *mat.Dense
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v\n", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{
		m,
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }
func (m Matrix) DataP() []float64          { return m.M.RawMatrix().Data }

func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m *Matrix) SetWritable() Matrix {
	m.readOnly = false
	return *m
}

func (m Matrix) IsEmpty() bool {
	return m.M == nil
}

// Chainable methods that do not change the receiver
func (m Matrix) Copy() (R Matrix) {
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nr, nc)
	copy(R.DataP(), m.DataP())
	return
}

func (m Matrix) Transpose() (R Matrix) {
	var (
		nr, nc = m.Dims()
		data   = m.DataP()
	)
	R = NewMatrix(nc, nr)
	dataR := R.DataP()
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			dataR[j*nr+i] = data[i*nc+j]
		}
	}
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) {
	var (
		nrM, _ = m.M.Dims()
		_, ncA = A.M.Dims()
	)
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return
}

func (m Matrix) MulVec(v Vector) (R Vector) {
	var (
		nr, _ = m.Dims()
	)
	R = NewVector(nr)
	R.V.MulVec(m.M, v.V)
	return
}

func (m Matrix) SliceRows(I Index) (R Matrix) {
	// I should contain a list of row indices into M
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(len(I), nc)
	for iNewRow, i := range I {
		if i > nr-1 || i < 0 {
			err := fmt.Errorf("index out of bounds: index = %d, max_bounds = %d", i, nr-1)
			panic(err)
		}
		R.M.SetRow(iNewRow, m.M.RawRowView(i))
	}
	return
}

func (m Matrix) SliceCols(I Index) (R Matrix) {
	// I should contain a list of column indices into M
	var (
		nr, nc = m.Dims()
		dataM  = m.DataP()
		nI     = len(I)
	)
	R = NewMatrix(nr, nI)
	dataR := R.DataP()
	for jNewCol, j := range I {
		if j > nc-1 || j < 0 {
			err := fmt.Errorf("index out of bounds: index = %d, max_bounds = %d", j, nc-1)
			panic(err)
		}
		for i := 0; i < nr; i++ {
			dataR[i*nI+jNewCol] = dataM[i*nc+j]
		}
	}
	return
}

func (m Matrix) Row(i int) (V Vector) {
	var (
		_, nc = m.Dims()
	)
	V = NewVector(nc)
	copy(V.DataP(), m.M.RawRowView(i))
	return
}

func (m Matrix) Col(j int) (V Vector) {
	var (
		nr, nc = m.Dims()
		data   = m.DataP()
	)
	V = NewVector(nr)
	vData := V.DataP()
	for i := 0; i < nr; i++ {
		vData[i] = data[i*nc+j]
	}
	return
}

// Chainable methods that change the receiver
func (m Matrix) Set(i, j int, val float64) Matrix {
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) SetRow(i int, data []float64) Matrix {
	m.checkWritable()
	m.M.SetRow(i, data)
	return m
}

func (m Matrix) SetCol(j int, data []float64) Matrix {
	m.checkWritable()
	m.M.SetCol(j, data)
	return m
}

func (m Matrix) Scale(a float64) Matrix {
	var (
		data = m.DataP()
	)
	m.checkWritable()
	for i := range data {
		data[i] *= a
	}
	return m
}

func (m Matrix) Add(A Matrix) Matrix {
	var (
		dataM = m.DataP()
		dataA = A.DataP()
	)
	m.checkWritable()
	for i, val := range dataA {
		dataM[i] += val
	}
	return m
}

func (m Matrix) Subtract(A Matrix) Matrix {
	var (
		dataM = m.DataP()
		dataA = A.DataP()
	)
	m.checkWritable()
	for i, val := range dataA {
		dataM[i] -= val
	}
	return m
}

func (m Matrix) ElMul(A Matrix) Matrix {
	var (
		dataM = m.DataP()
		dataA = A.DataP()
	)
	m.checkWritable()
	for i, val := range dataA {
		dataM[i] *= val
	}
	return m
}

func (m Matrix) Apply(f func(float64) float64) Matrix {
	var (
		data = m.DataP()
	)
	m.checkWritable()
	for i, val := range data {
		data[i] = f(val)
	}
	return m
}

func (m Matrix) POW(p int) Matrix {
	var (
		data = m.DataP()
	)
	m.checkWritable()
	for i, val := range data {
		data[i] = POW(val, p)
	}
	return m
}

// Non chainable methods
func (m Matrix) Inverse() (R Matrix, err error) {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("unable to invert, matrix is not square: nr,nc = %v,%v", nr, nc)
		return
	}
	R = m.Copy()
	iPiv := make([]int, nr)
	if ok := lapack64.Getrf(R.RawMatrix(), iPiv); !ok {
		err = fmt.Errorf("unable to invert, matrix is singular")
		return
	}
	work := make([]float64, nr*nc)
	if ok := lapack64.Getri(R.RawMatrix(), iPiv, work, nr*nc); !ok {
		err = fmt.Errorf("unable to invert, matrix is singular")
	}
	return
}

func (m Matrix) Det() (d float64) {
	d = mat.Det(m.M)
	return
}

func (m Matrix) Min() (min float64) {
	var (
		data = m.DataP()
	)
	min = data[0]
	for _, val := range data {
		if val < min {
			min = val
		}
	}
	return
}

func (m Matrix) Max() (max float64) {
	var (
		data = m.DataP()
	)
	max = data[0]
	for _, val := range data {
		if val > max {
			max = val
		}
	}
	return
}

func (m Matrix) SumRows() (V Vector) {
	var (
		nr, nc = m.Dims()
		data   = m.DataP()
	)
	V = NewVector(nr)
	vData := V.DataP()
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			vData[i] += data[i*nc+j]
		}
	}
	return
}

func (m Matrix) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}
