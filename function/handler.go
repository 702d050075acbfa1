package function

import (
	"fmt"

	"github.com/notargets/goiga/basis"
	"github.com/notargets/goiga/quadrature"
	"github.com/notargets/goiga/values"
)

// Handler fills field value caches by contracting the basis tables with
// the coefficient vector.
type Handler struct {
	fn           *Function
	flags        values.FuncFlags
	cacheFlags   values.FuncCacheFlags
	withPoints   bool
	basisHandler *basis.Handler
	rule         *quadrature.Rule
}

func NewHandler(f *Function) (h *Handler) {
	h = &Handler{
		fn:           f,
		basisHandler: basis.NewHandler(f.space),
	}
	return
}

func (h *Handler) Function() *Function { return h.fn }

// Reset fixes the requested field quantities and the evaluation points.
// withPoints additionally requests the evaluation point coordinates, used
// by plotting.
func (h *Handler) Reset(flags values.FuncFlags, rule *quadrature.Rule, withPoints bool) {
	if flags == values.FuncNone {
		err := fmt.Errorf("function handler reset with no flags requested")
		panic(err)
	}
	h.flags = flags
	h.cacheFlags, _ = values.FuncActivate(flags)
	h.withPoints = withPoints
	h.rule = rule

	var bf values.BasisFlags
	if h.cacheFlags.Contains(values.FuncValue) {
		bf |= values.BasisValue
	}
	if h.cacheFlags.Contains(values.FuncGradient) {
		bf |= values.BasisGradient
	}
	if h.cacheFlags.Contains(values.FuncD2) {
		bf |= values.BasisHessian
	}
	if withPoints {
		bf |= values.BasisPoint
	}
	h.basisHandler.Reset(bf, rule)
}

func (h *Handler) tableSizer(bit uint64) (nFuncs, nComps int) {
	var (
		dim = h.fn.space.Dim()
	)
	switch values.FuncFlags(bit) {
	case values.FuncValue:
		return 1, 1
	case values.FuncGradient:
		return 1, dim
	case values.FuncD2:
		return 1, dim * dim
	}
	err := fmt.Errorf("no function table for quantity %v", values.FuncFlags(bit))
	panic(err)
}

// InitCache allocates the element's caches for one sub-element topology.
func (h *Handler) InitCache(e *Element, subDim, subID int) {
	h.basisHandler.InitCache(e.be, subDim, subID)
	c := e.Cache().Cache(subDim, subID)
	c.Allocate(uint64(h.cacheFlags), h.rule.ID(), h.numPoints(subDim, subID), h.tableSizer)
}

func (h *Handler) numPoints(subDim, subID int) (n int) {
	n = h.rule.TotalPoints()
	if subDim == h.fn.space.Dim()-1 {
		n /= h.rule.NumPoints()[subID/2]
	}
	return
}

// FillCache evaluates the field on the current element for one sub-element
// topology and marks the caches filled.
func (h *Handler) FillCache(e *Element, subDim, subID int) {
	h.basisHandler.FillCache(e.be, subDim, subID)
	var (
		dim    = h.fn.space.Dim()
		nLocal = h.fn.space.NumLocalFunctions()
		c      = e.Cache().Cache(subDim, subID)
		bc     = e.be.Cache().Cache(subDim, subID)
		dofs   = e.be.LocalToGlobal()
		coeffs = h.fn.coeffs
		nPts   = h.numPoints(subDim, subID)
	)
	if h.cacheFlags.Contains(values.FuncValue) {
		var (
			vt = c.MutableTable(uint64(values.FuncValue))
			bv = bc.Table(uint64(values.BasisValue))
		)
		for pt := 0; pt < nPts; pt++ {
			var v float64
			for lf := 0; lf < nLocal; lf++ {
				v += coeffs.AtVec(dofs[lf]) * bv.Value(lf, pt)
			}
			vt.Set(0, pt, 0, v)
		}
	}
	if h.cacheFlags.Contains(values.FuncGradient) {
		var (
			vt = c.MutableTable(uint64(values.FuncGradient))
			bg = bc.Table(uint64(values.BasisGradient))
		)
		for pt := 0; pt < nPts; pt++ {
			for d := 0; d < dim; d++ {
				var v float64
				for lf := 0; lf < nLocal; lf++ {
					v += coeffs.AtVec(dofs[lf]) * bg.At(lf, pt, d)
				}
				vt.Set(0, pt, d, v)
			}
		}
	}
	if h.cacheFlags.Contains(values.FuncD2) {
		var (
			vt = c.MutableTable(uint64(values.FuncD2))
			bh = bc.Table(uint64(values.BasisHessian))
		)
		for pt := 0; pt < nPts; pt++ {
			for comp := 0; comp < dim*dim; comp++ {
				var v float64
				for lf := 0; lf < nLocal; lf++ {
					v += coeffs.AtVec(dofs[lf]) * bh.At(lf, pt, comp)
				}
				vt.Set(0, pt, comp, v)
			}
		}
	}
	c.MarkFilled()
}
