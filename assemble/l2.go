/*
Package assemble runs finite-element-style assembly loops over the element
cache pipeline. The L2 projector is the reference client: it walks the
elements with reset, init and fill, accumulates local mass-matrix and load
blocks into the global sparse system and solves for the coefficients of the
projected field.
*/
package assemble

import (
	"fmt"

	"github.com/notargets/goiga/basis"
	"github.com/notargets/goiga/function"
	"github.com/notargets/goiga/linalg"
	"github.com/notargets/goiga/quadrature"
	"github.com/notargets/goiga/utils"
	"github.com/notargets/goiga/values"
)

// L2Projector projects scalar fields onto a spline space in the L2 sense
// over the parametric domain.
type L2Projector struct {
	space *basis.Space
	rule  *quadrature.Rule
}

// NewL2Projector builds a projector integrating with numQuadPerDir Gauss
// points per direction. Exact for the mass matrix when numQuadPerDir is at
// least degree+1 in every direction.
func NewL2Projector(s *basis.Space, numQuadPerDir int) (p *L2Projector, err error) {
	if numQuadPerDir < 1 {
		err = fmt.Errorf("invalid quadrature order: %d points per direction", numQuadPerDir)
		return
	}
	n := make([]int, s.Dim())
	for k := range n {
		n[k] = numQuadPerDir
	}
	p = &L2Projector{
		space: s,
		rule:  quadrature.NewGaussRule(n...),
	}
	return
}

func (p *L2Projector) Space() *basis.Space { return p.space }

// Project assembles and solves the mass system M c = b with
// M_ij = int B_i B_j and b_i = int B_i f, returning the projected field.
func (p *L2Projector) Project(f func(x []float64) float64) (proj *function.Function, err error) {
	var (
		s      = p.space
		dim    = s.Dim()
		n      = s.NumFunctions()
		nLocal = s.NumLocalFunctions()

		A = linalg.NewSystemMatrix(n, n)
		b = linalg.NewSystemVector(n)
		h = basis.NewHandler(s)
	)
	h.Reset(values.BasisValue|values.BasisPoint|values.BasisWMeasure, p.rule)

	x := make([]float64, dim)
	e := s.Begin()
	for {
		h.InitCache(e, dim, 0)
		h.FillCache(e, dim, 0)

		var (
			v    = e.Values()
			pts  = e.Points()
			w    = e.WMeasures()
			dofs = e.LocalToGlobal()

			local = utils.NewMatrix(nLocal, nLocal)
			load  = make([]float64, nLocal)
		)
		for pt := 0; pt < v.NumPoints(); pt++ {
			wq := w.Value(0, pt)
			for k := 0; k < dim; k++ {
				x[k] = pts.At(0, pt, k)
			}
			fx := f(x)
			for i := 0; i < nLocal; i++ {
				vi := v.Value(i, pt)
				load[i] += wq * vi * fx
				for j := 0; j < nLocal; j++ {
					local.Set(i, j, local.At(i, j)+wq*vi*v.Value(j, pt))
				}
			}
		}
		A.AddBlock(dofs, dofs, local)
		b.AddBlock(dofs, load)

		if !e.Advance() {
			break
		}
	}

	coeffs, err := A.SolveDense(b.V)
	if err != nil {
		return
	}
	return function.NewFunction(s, coeffs)
}
