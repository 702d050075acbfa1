package basis

import (
	"fmt"

	"github.com/notargets/goiga/grid"
	"github.com/notargets/goiga/quadrature"
	"github.com/notargets/goiga/values"
)

// Handler drives basis evaluation over elements. Reset validates the
// requested quantities against the space kind, builds the per-direction
// univariate value caches (shared by every element in a knot interval) and
// wires the grid-level pass-through quantities; InitCache and FillCache
// then run per element, combining the cached univariate values via tensor
// products into the multi-dimensional tables.
type Handler struct {
	space       *Space
	gridHandler *grid.Handler

	flags       values.BasisFlags
	cacheFlags  values.BasisCacheFlags
	domainFlags values.DomainFlags
	gridFlags   values.GridFlags

	rule      *quadrature.Rule
	faceRules []*quadrature.Rule
	maxDer    int

	univVol  [][]*BasisValues1D   // [direction][interval]
	univFace [][][]*BasisValues1D // [face][direction][interval]
}

// NewHandler builds the handler matching the concrete space variant. All
// per-element dispatch is resolved here, once.
func NewHandler(s *Space) (h *Handler) {
	h = &Handler{
		space:       s,
		gridHandler: grid.NewHandler(s.Grid()),
	}
	return
}

func (h *Handler) Space() *Space { return h.space }

// Reset fixes the requested quantities and the quadrature rule, and
// precomputes the univariate basis values for every knot interval.
// Quantities the space variant cannot provide are rejected here, not at
// fill time.
func (h *Handler) Reset(flags values.BasisFlags, rule *quadrature.Rule) {
	var (
		s   = h.space
		dim = s.Dim()
	)
	if flags == values.BasisNone {
		err := fmt.Errorf("basis handler reset with no flags requested")
		panic(err)
	}
	if rule.Dim() != dim {
		err := fmt.Errorf("quadrature rule dimension mismatch: rule dim = %d, space dim = %d", rule.Dim(), dim)
		panic(err)
	}
	if s.Kind() == NURBSKind && flags.Contains(values.BasisHessian) {
		err := fmt.Errorf("configuration error: %s not supported for a %s space",
			values.BasisHessian, s.Kind())
		panic(err)
	}
	h.flags = flags
	h.cacheFlags, h.domainFlags = values.BasisActivate(flags)
	h.rule = rule
	h.faceRules = make([]*quadrature.Rule, 2*dim)
	for f := range h.faceRules {
		h.faceRules[f] = rule.Collapse(f/2, f%2)
	}

	h.maxDer = 0
	if h.cacheFlags.Contains(values.BasisGradient) || h.cacheFlags.Contains(values.BasisDivergence) {
		h.maxDer = 1
	}
	if h.cacheFlags.Contains(values.BasisHessian) {
		h.maxDer = 2
	}

	h.univVol = h.buildUniv(rule)
	h.univFace = make([][][]*BasisValues1D, len(h.faceRules))
	for f, fr := range h.faceRules {
		h.univFace[f] = h.buildUniv(fr)
	}

	// point and weighted-measure requests pass through to the grid level
	h.gridFlags = values.GridNone
	if h.domainFlags.Contains(values.DomainPoint) {
		h.gridFlags |= values.GridPoint
	}
	if h.domainFlags.Contains(values.DomainWMeasure) {
		h.gridFlags |= values.GridWeight
	}
	if h.gridFlags != values.GridNone {
		h.gridHandler.Reset(h.gridFlags, rule)
	}
}

func (h *Handler) buildUniv(rule *quadrature.Rule) (univ [][]*BasisValues1D) {
	var (
		s = h.space
	)
	univ = make([][]*BasisValues1D, s.Dim())
	for k := range univ {
		var (
			kv  = s.KnotVector(k)
			pts = rule.PointsDirection(k)
		)
		univ[k] = make([]*BasisValues1D, kv.NumIntervals())
		for i := range univ[k] {
			univ[k][i] = kv.EvalInterval(i, pts, h.maxDer)
		}
	}
	return
}

func (h *Handler) ruleFor(subDim, subID int) (rule *quadrature.Rule) {
	var (
		dim = h.space.Dim()
	)
	if h.rule == nil {
		err := fmt.Errorf("basis handler used before Reset")
		panic(err)
	}
	switch {
	case subDim == dim && subID == 0:
		rule = h.rule
	case subDim == dim-1 && subID >= 0 && subID < 2*dim:
		rule = h.faceRules[subID]
	default:
		err := fmt.Errorf("unsupported sub-element topology: subDim,subID = %v,%v (space dim %d)",
			subDim, subID, dim)
		panic(err)
	}
	return
}

func (h *Handler) univFor(subDim, subID int) [][]*BasisValues1D {
	if subDim == h.space.Dim() {
		return h.univVol
	}
	return h.univFace[subID]
}

func (h *Handler) tableSizer(bit uint64) (nFuncs, nComps int) {
	var (
		s   = h.space
		dim = s.Dim()
	)
	switch values.BasisFlags(bit) {
	case values.BasisValue, values.BasisDivergence:
		return s.NumLocalFunctions(), 1
	case values.BasisGradient:
		return s.NumLocalFunctions(), dim
	case values.BasisHessian:
		return s.NumLocalFunctions(), dim * dim
	}
	err := fmt.Errorf("no basis table for quantity %v", values.BasisFlags(bit))
	panic(err)
}

// InitCache allocates the element's caches for one sub-element topology.
func (h *Handler) InitCache(e *Element, subDim, subID int) {
	rule := h.ruleFor(subDim, subID)
	if h.cacheFlags != values.BasisNone {
		c := e.Cache().Cache(subDim, subID)
		c.Allocate(uint64(h.cacheFlags), rule.ID(), rule.TotalPoints(), h.tableSizer)
	}
	if h.gridFlags != values.GridNone {
		h.gridHandler.InitCache(e.GridElement(), subDim, subID)
	}
}

// FillCache computes the active basis quantities on the current element for
// one sub-element topology and marks the caches filled.
func (h *Handler) FillCache(e *Element, subDim, subID int) {
	if h.gridFlags != values.GridNone {
		h.gridHandler.FillCache(e.GridElement(), subDim, subID)
	}
	if h.cacheFlags == values.BasisNone {
		return
	}
	var (
		s      = h.space
		dim    = s.Dim()
		rule   = h.ruleFor(subDim, subID)
		univ   = h.univFor(subDim, subID)
		c      = e.Cache().Cache(subDim, subID)
		elemTI = e.TensorIndex()

		localSize = s.LocalSize()
		nLocal    = localSize.FlatSize()
		ptsSize   = rule.NumPoints()
		nPts      = ptsSize.FlatSize()
	)

	// tensor positions of every local function and point, precomputed once
	lfTI := make([][]int, nLocal)
	for lf := range lfTI {
		lfTI[lf] = localSize.FlatToTensor(lf)
	}
	ptTI := make([][]int, nPts)
	for pt := range ptTI {
		ptTI[pt] = ptsSize.FlatToTensor(pt)
	}

	needGrad := h.cacheFlags.Contains(values.BasisGradient) || h.cacheFlags.Contains(values.BasisDivergence)
	needHess := h.cacheFlags.Contains(values.BasisHessian)

	// non-rational tensor products first
	N := make([][]float64, nLocal)
	var G [][][]float64
	var H [][][]float64
	if needGrad {
		G = make([][][]float64, nLocal)
	}
	if needHess {
		H = make([][][]float64, nLocal)
	}
	for lf := 0; lf < nLocal; lf++ {
		N[lf] = make([]float64, nPts)
		if needGrad {
			G[lf] = zeros2D(nPts, dim)
		}
		if needHess {
			H[lf] = zeros2D(nPts, dim*dim)
		}
		for pt := 0; pt < nPts; pt++ {
			N[lf][pt] = h.tensorProduct(univ, elemTI, lfTI[lf], ptTI[pt], -1, -1)
			if needGrad {
				for d := 0; d < dim; d++ {
					G[lf][pt][d] = h.tensorProduct(univ, elemTI, lfTI[lf], ptTI[pt], d, -1)
				}
			}
			if needHess {
				for d1 := 0; d1 < dim; d1++ {
					for d2 := 0; d2 < dim; d2++ {
						H[lf][pt][d1*dim+d2] = h.tensorProduct(univ, elemTI, lfTI[lf], ptTI[pt], d1, d2)
					}
				}
			}
		}
	}

	if s.Kind() == NURBSKind {
		h.rationalize(e, N, G, nLocal, nPts, dim)
	}

	if h.cacheFlags.Contains(values.BasisValue) {
		vt := c.MutableTable(uint64(values.BasisValue))
		for lf := 0; lf < nLocal; lf++ {
			for pt := 0; pt < nPts; pt++ {
				vt.Set(lf, pt, 0, N[lf][pt])
			}
		}
	}
	if h.cacheFlags.Contains(values.BasisGradient) {
		vt := c.MutableTable(uint64(values.BasisGradient))
		for lf := 0; lf < nLocal; lf++ {
			for pt := 0; pt < nPts; pt++ {
				for d := 0; d < dim; d++ {
					vt.Set(lf, pt, d, G[lf][pt][d])
				}
			}
		}
	}
	if h.cacheFlags.Contains(values.BasisHessian) {
		vt := c.MutableTable(uint64(values.BasisHessian))
		for lf := 0; lf < nLocal; lf++ {
			for pt := 0; pt < nPts; pt++ {
				for comp := 0; comp < dim*dim; comp++ {
					vt.Set(lf, pt, comp, H[lf][pt][comp])
				}
			}
		}
	}
	if h.cacheFlags.Contains(values.BasisDivergence) {
		vt := c.MutableTable(uint64(values.BasisDivergence))
		for lf := 0; lf < nLocal; lf++ {
			for pt := 0; pt < nPts; pt++ {
				var div float64
				for d := 0; d < dim; d++ {
					div += G[lf][pt][d]
				}
				vt.Set(lf, pt, 0, div)
			}
		}
	}
	c.MarkFilled()
}

// tensorProduct multiplies one univariate factor per direction: derivative
// order 0 everywhere, raised by one for each of d1, d2 (pass -1 to skip).
func (h *Handler) tensorProduct(univ [][]*BasisValues1D, elemTI, lfTI, ptTI []int, d1, d2 int) (v float64) {
	v = 1
	for k := range lfTI {
		order := 0
		if k == d1 {
			order++
		}
		if k == d2 {
			order++
		}
		v *= univ[k][elemTI[k]].Der(order).At(lfTI[k], ptTI[k])
	}
	return
}

// rationalize converts B-spline values and gradients in place into NURBS
// ones: R_i = w_i N_i / W with W = sum_j w_j N_j, gradients by the quotient
// rule.
func (h *Handler) rationalize(e *Element, N [][]float64, G [][][]float64, nLocal, nPts, dim int) {
	var (
		s    = h.space
		dofs = e.LocalToGlobal()
		wloc = make([]float64, nLocal)
	)
	for lf := range wloc {
		wloc[lf] = s.Weight(dofs[lf])
	}
	for pt := 0; pt < nPts; pt++ {
		var (
			W  float64
			Wd = make([]float64, dim)
		)
		for lf := 0; lf < nLocal; lf++ {
			W += wloc[lf] * N[lf][pt]
			if G != nil {
				for d := 0; d < dim; d++ {
					Wd[d] += wloc[lf] * G[lf][pt][d]
				}
			}
		}
		for lf := 0; lf < nLocal; lf++ {
			wN := wloc[lf] * N[lf][pt]
			if G != nil {
				for d := 0; d < dim; d++ {
					G[lf][pt][d] = (wloc[lf]*G[lf][pt][d]*W - wN*Wd[d]) / (W * W)
				}
			}
			N[lf][pt] = wN / W
		}
	}
}
