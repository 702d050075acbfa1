package basis

import (
	"fmt"

	"github.com/notargets/goiga/grid"
	"github.com/notargets/goiga/tensor"
	"github.com/notargets/goiga/utils"
)

// Kind tags the two concrete space variants. Handlers dispatch on the tag
// once, at construction.
type Kind uint8

const (
	BSplineKind Kind = iota
	NURBSKind
)

func (k Kind) String() string {
	switch k {
	case BSplineKind:
		return "BSpline"
	case NURBSKind:
		return "NURBS"
	}
	return "unknown"
}

// Space is a scalar tensor-product spline space over a grid: one knot
// vector per direction, global functions numbered row-major over the
// per-direction function indices. A NURBS space additionally carries one
// positive weight per global function.
type Space struct {
	kind        Kind
	grid        *grid.Grid
	kvs         []*KnotVector
	numFuncsDir tensor.TensorSize
	weights     []float64 // nil for BSpline
}

// NewBSplineSpace builds a B-spline space with open knot vectors on the
// grid's break points, degrees[k] in direction k.
func NewBSplineSpace(g *grid.Grid, degrees []int) (s *Space, err error) {
	var (
		dim = g.Dim()
	)
	if len(degrees) != dim {
		err = fmt.Errorf("degree count mismatch: grid dim = %d, degrees given = %d", dim, len(degrees))
		return
	}
	kvs := make([]*KnotVector, dim)
	for k := range kvs {
		if kvs[k], err = NewOpenKnotVector(degrees[k], g.Breaks(k)); err != nil {
			err = fmt.Errorf("direction %d: %w", k, err)
			return
		}
	}
	return NewBSplineSpaceFromKnots(g, kvs)
}

// NewBSplineSpaceFromKnots builds a B-spline space from explicit knot
// vectors, whose break points must coincide with the grid's.
func NewBSplineSpaceFromKnots(g *grid.Grid, kvs []*KnotVector) (s *Space, err error) {
	var (
		dim = g.Dim()
	)
	if len(kvs) != dim {
		err = fmt.Errorf("knot vector count mismatch: grid dim = %d, knot vectors given = %d", dim, len(kvs))
		return
	}
	numFuncsDir := make(tensor.TensorSize, dim)
	for k, kv := range kvs {
		gb := g.Breaks(k)
		kb := kv.Breaks()
		if len(gb) != len(kb) {
			err = fmt.Errorf("direction %d: knot breaks do not match the grid: %d vs %d break points",
				k, len(kb), len(gb))
			return
		}
		for i := range gb {
			if gb[i] != kb[i] {
				err = fmt.Errorf("direction %d: knot break %d differs from the grid: %v vs %v",
					k, i, kb[i], gb[i])
				return
			}
		}
		numFuncsDir[k] = kv.NumFunctions()
	}
	s = &Space{
		kind:        BSplineKind,
		grid:        g,
		kvs:         kvs,
		numFuncsDir: numFuncsDir,
	}
	return
}

// NewNURBSSpace builds a NURBS space: a B-spline space rationalized by one
// positive weight per global function, in the global row-major numbering.
func NewNURBSSpace(g *grid.Grid, degrees []int, weights []float64) (s *Space, err error) {
	if s, err = NewBSplineSpace(g, degrees); err != nil {
		return
	}
	if len(weights) != s.NumFunctions() {
		err = fmt.Errorf("weight count mismatch: space has %d functions, %d weights given",
			s.NumFunctions(), len(weights))
		s = nil
		return
	}
	for i, w := range weights {
		if w <= 0 {
			err = fmt.Errorf("weights must be positive, have %v at function %d", w, i)
			s = nil
			return
		}
	}
	s.kind = NURBSKind
	s.weights = append([]float64{}, weights...)
	return
}

func (s *Space) Kind() Kind       { return s.kind }
func (s *Space) Grid() *grid.Grid { return s.grid }
func (s *Space) Dim() int         { return s.grid.Dim() }

func (s *Space) Degree(k int) int { return s.kvs[k].Degree() }

func (s *Space) KnotVector(k int) *KnotVector { return s.kvs[k] }

// NumFunctions returns the global dimension of the space.
func (s *Space) NumFunctions() int { return s.numFuncsDir.FlatSize() }

func (s *Space) NumFunctionsDir() tensor.TensorSize { return s.numFuncsDir.Copy() }

// NumLocalFunctions returns the number of functions alive on any one
// element, the product of degree+1 over the directions.
func (s *Space) NumLocalFunctions() (n int) {
	n = 1
	for _, kv := range s.kvs {
		n *= kv.Degree() + 1
	}
	return
}

// LocalSize returns degree+1 per direction, the tensor shape of the local
// function set.
func (s *Space) LocalSize() (sz tensor.TensorSize) {
	sz = make(tensor.TensorSize, len(s.kvs))
	for k, kv := range s.kvs {
		sz[k] = kv.Degree() + 1
	}
	return
}

// Weight returns the NURBS weight of global function fn (1 for B-splines).
func (s *Space) Weight(fn int) float64 {
	if s.weights == nil {
		return 1
	}
	return s.weights[fn]
}

// LocalToGlobal returns, for the element at tensor position elemTI, the
// global function index of each local function, ordered row-major over the
// local tensor indices.
func (s *Space) LocalToGlobal(elemTI tensor.TensorIndex) (dofs utils.Index) {
	var (
		localSize = s.LocalSize()
		nLocal    = localSize.FlatSize()
		first     = make([]int, len(s.kvs))
	)
	for k, kv := range s.kvs {
		first[k] = kv.FirstFunction(elemTI[k])
	}
	dofs = make(utils.Index, nLocal)
	for lf := 0; lf < nLocal; lf++ {
		lfTI := localSize.FlatToTensor(lf)
		gTI := make(tensor.TensorIndex, len(lfTI))
		for k := range lfTI {
			gTI[k] = first[k] + lfTI[k]
		}
		dofs[lf] = s.numFuncsDir.TensorToFlat(gTI)
	}
	return
}
