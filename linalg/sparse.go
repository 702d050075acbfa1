/*
Package linalg holds the global sparse operators the assembly loop writes
into: a DOK-backed global matrix and a dense global vector, both accepting
per-element blocks addressed by local-to-global index lists, plus a dense
direct solve for small systems.
*/
package linalg

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/goiga/utils"
)

// SystemMatrix is the global sparse matrix under assembly. DOK storage
// while elements contribute, converted to CSR for products once assembled.
type SystemMatrix struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewSystemMatrix(nr, nc int) (R SystemMatrix) {
	R = SystemMatrix{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m SystemMatrix) Dims() (r, c int)    { return m.M.Dims() }
func (m SystemMatrix) At(i, j int) float64 { return m.M.At(i, j) }
func (m SystemMatrix) T() mat.Matrix       { return m.M.T() }

func (m *SystemMatrix) SetReadOnly(name ...string) SystemMatrix {
	if len(name) > 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

// AddBlock accumulates a dense local block into the global matrix:
// M[rows[i], cols[j]] += block[i, j].
func (m SystemMatrix) AddBlock(rows, cols utils.Index, block utils.Matrix) SystemMatrix {
	m.checkWritable()
	var (
		nr, nc = block.Dims()
		gr, gc = m.Dims()
	)
	if len(rows) != nr || len(cols) != nc {
		err := fmt.Errorf("block size mismatch: block is %dx%d, %d row and %d col indices given",
			nr, nc, len(rows), len(cols))
		panic(err)
	}
	for i, r := range rows {
		for j, c := range cols {
			if r < 0 || r >= gr || c < 0 || c >= gc {
				err := fmt.Errorf("global index out of range: row,col = %v,%v, matrix is %dx%d", r, c, gr, gc)
				panic(err)
			}
			m.M.Set(r, c, m.M.At(r, c)+block.At(i, j))
		}
	}
	return m
}

func (m SystemMatrix) ToCSR() *sparse.CSR { return m.M.ToCSR() }

// ToDense materializes the matrix for direct solves.
func (m SystemMatrix) ToDense() (R utils.Matrix) {
	var (
		nr, nc = m.Dims()
	)
	R = utils.NewMatrix(nr, nc)
	m.M.DoNonZero(func(i, j int, v float64) {
		R.Set(i, j, v)
	})
	return
}

// MulVec multiplies through the CSR form.
func (m SystemMatrix) MulVec(v utils.Vector) (R utils.Vector) {
	var (
		nr, _ = m.Dims()
		res   mat.VecDense
	)
	res.MulVec(m.ToCSR(), v.V)
	R = utils.NewVector(nr, res.RawVector().Data)
	return
}

// SolveDense solves M x = b directly through a dense LU factorization.
// Meant for the moderate systems of the examples and tests.
func (m SystemMatrix) SolveDense(b utils.Vector) (x utils.Vector, err error) {
	var (
		nr, nc = m.Dims()
		res    mat.VecDense
	)
	if nr != nc {
		err = fmt.Errorf("dense solve needs a square matrix, have %dx%d", nr, nc)
		return
	}
	if b.Len() != nr {
		err = fmt.Errorf("right-hand side length mismatch: matrix is %dx%d, vector has %d entries", nr, nc, b.Len())
		return
	}
	if err = res.SolveVec(m.ToDense().M, b.V); err != nil {
		err = fmt.Errorf("global system solve failed: %w", err)
		return
	}
	x = utils.NewVector(nr, res.RawVector().Data)
	return
}

func (m SystemMatrix) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

// SystemVector is the global right-hand side under assembly.
type SystemVector struct {
	V utils.Vector
}

func NewSystemVector(n int) (R SystemVector) {
	R = SystemVector{utils.NewVector(n)}
	return
}

func (v SystemVector) Len() int { return v.V.Len() }

// AddBlock accumulates a local vector block: V[rows[i]] += vals[i].
func (v SystemVector) AddBlock(rows utils.Index, vals []float64) SystemVector {
	if len(rows) != len(vals) {
		err := fmt.Errorf("block size mismatch: %d indices, %d values", len(rows), len(vals))
		panic(err)
	}
	for i, r := range rows {
		if r < 0 || r >= v.V.Len() {
			err := fmt.Errorf("global index out of range: row = %v, vector has %d entries", r, v.V.Len())
			panic(err)
		}
		v.V.SetVec(r, v.V.AtVec(r)+vals[i])
	}
	return v
}
