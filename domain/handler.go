package domain

import (
	"fmt"
	"math"

	"github.com/notargets/goiga/basis"
	"github.com/notargets/goiga/grid"
	"github.com/notargets/goiga/quadrature"
	"github.com/notargets/goiga/utils"
	"github.com/notargets/goiga/values"
)

// FuncHandler fills the grid-function derivative caches: D0 (mapped
// points), D1 (jacobian) and D2 at quadrature points. The identity variant
// computes them in closed form; the IgMapping variant delegates the basis
// evaluation to a basis handler and contracts with the control points.
type FuncHandler struct {
	fn         *GridFunction
	flags      values.GridFuncFlags
	cacheFlags values.GridFuncCacheFlags

	rule      *quadrature.Rule
	faceRules []*quadrature.Rule

	basisHandler *basis.Handler // IgMapping only
}

func NewFuncHandler(fn *GridFunction) (h *FuncHandler) {
	h = &FuncHandler{fn: fn}
	return
}

func (h *FuncHandler) GridFunction() *GridFunction { return h.fn }

// Reset fixes the requested derivative orders and the quadrature rule. For
// an IgMapping the underlying basis handler is reset with the matching
// basis quantities; a NURBS mapping rejects D2 there as a configuration
// error.
func (h *FuncHandler) Reset(flags values.GridFuncFlags, rule *quadrature.Rule) {
	var (
		dim = h.fn.DomainDim()
	)
	if flags == values.GridFuncNone {
		err := fmt.Errorf("grid function handler reset with no flags requested")
		panic(err)
	}
	if rule.Dim() != dim {
		err := fmt.Errorf("quadrature rule dimension mismatch: rule dim = %d, domain dim = %d", rule.Dim(), dim)
		panic(err)
	}
	h.flags = flags
	h.cacheFlags, _ = values.GridFuncActivate(flags)
	h.rule = rule
	h.faceRules = make([]*quadrature.Rule, 2*dim)
	for f := range h.faceRules {
		h.faceRules[f] = rule.Collapse(f/2, f%2)
	}
	if h.fn.Kind() == IgMappingKind {
		var bf values.BasisFlags
		if h.cacheFlags.Contains(values.GridFuncD0) {
			bf |= values.BasisValue
		}
		if h.cacheFlags.Contains(values.GridFuncD1) {
			bf |= values.BasisGradient
		}
		if h.cacheFlags.Contains(values.GridFuncD2) {
			bf |= values.BasisHessian
		}
		h.basisHandler = basis.NewHandler(h.fn.Space())
		h.basisHandler.Reset(bf, rule)
	}
}

func (h *FuncHandler) ruleFor(subDim, subID int) (rule *quadrature.Rule) {
	var (
		dim = h.fn.DomainDim()
	)
	if h.rule == nil {
		err := fmt.Errorf("grid function handler used before Reset")
		panic(err)
	}
	switch {
	case subDim == dim && subID == 0:
		rule = h.rule
	case subDim == dim-1 && subID >= 0 && subID < 2*dim:
		rule = h.faceRules[subID]
	default:
		err := fmt.Errorf("unsupported sub-element topology: subDim,subID = %v,%v (domain dim %d)",
			subDim, subID, dim)
		panic(err)
	}
	return
}

func (h *FuncHandler) tableSizer(bit uint64) (nFuncs, nComps int) {
	var (
		dim = h.fn.DomainDim()
		rd  = h.fn.RangeDim()
	)
	switch values.GridFuncFlags(bit) {
	case values.GridFuncD0:
		return 1, rd
	case values.GridFuncD1:
		return 1, rd * dim
	case values.GridFuncD2:
		return 1, rd * dim * dim
	}
	err := fmt.Errorf("no grid function table for quantity %v", values.GridFuncFlags(bit))
	panic(err)
}

// InitCache allocates the element's grid-function cache for one
// sub-element topology.
func (h *FuncHandler) InitCache(e *Element, subDim, subID int) {
	rule := h.ruleFor(subDim, subID)
	c := e.FuncCache().Cache(subDim, subID)
	c.Allocate(uint64(h.cacheFlags), rule.ID(), rule.TotalPoints(), h.tableSizer)
	if h.basisHandler != nil {
		h.basisHandler.InitCache(e.be, subDim, subID)
	}
}

// FillCache computes the active derivative tables on the current element
// for one sub-element topology and marks the cache filled.
func (h *FuncHandler) FillCache(e *Element, subDim, subID int) {
	switch h.fn.Kind() {
	case IdentityKind:
		h.fillIdentity(e, subDim, subID)
	case IgMappingKind:
		h.fillIgMapping(e, subDim, subID)
	}
	e.FuncCache().Cache(subDim, subID).MarkFilled()
}

func (h *FuncHandler) fillIdentity(e *Element, subDim, subID int) {
	var (
		dim  = h.fn.DomainDim()
		rule = h.ruleFor(subDim, subID)
		c    = e.FuncCache().Cache(subDim, subID)
		ge   = e.ge
	)
	if h.cacheFlags.Contains(values.GridFuncD0) {
		vt := c.MutableTable(uint64(values.GridFuncD0))
		for pt := 0; pt < rule.TotalPoints(); pt++ {
			u := rule.Point(pt)
			for k := 0; k < dim; k++ {
				x0, _ := ge.Interval(k)
				vt.Set(0, pt, k, x0+ge.Size(k)*u[k])
			}
		}
	}
	if h.cacheFlags.Contains(values.GridFuncD1) {
		vt := c.MutableTable(uint64(values.GridFuncD1))
		for pt := 0; pt < rule.TotalPoints(); pt++ {
			for r := 0; r < dim; r++ {
				for d := 0; d < dim; d++ {
					var v float64
					if r == d {
						v = 1
					}
					vt.Set(0, pt, r*dim+d, v)
				}
			}
		}
	}
	if h.cacheFlags.Contains(values.GridFuncD2) {
		vt := c.MutableTable(uint64(values.GridFuncD2))
		for pt := 0; pt < rule.TotalPoints(); pt++ {
			for comp := 0; comp < dim*dim*dim; comp++ {
				vt.Set(0, pt, comp, 0)
			}
		}
	}
}

func (h *FuncHandler) fillIgMapping(e *Element, subDim, subID int) {
	var (
		dim  = h.fn.DomainDim()
		rd   = h.fn.RangeDim()
		rule = h.ruleFor(subDim, subID)
		c    = e.FuncCache().Cache(subDim, subID)
		nPts = rule.TotalPoints()
		C    = h.fn.controlPoints
	)
	h.basisHandler.FillCache(e.be, subDim, subID)
	var (
		bc   = e.be.Cache().Cache(subDim, subID)
		dofs = e.be.LocalToGlobal()
	)
	if h.cacheFlags.Contains(values.GridFuncD0) {
		var (
			vt = c.MutableTable(uint64(values.GridFuncD0))
			bv = bc.Table(uint64(values.BasisValue))
		)
		for pt := 0; pt < nPts; pt++ {
			for r := 0; r < rd; r++ {
				var v float64
				for lf, g := range dofs {
					v += C.At(g, r) * bv.Value(lf, pt)
				}
				vt.Set(0, pt, r, v)
			}
		}
	}
	if h.cacheFlags.Contains(values.GridFuncD1) {
		var (
			vt = c.MutableTable(uint64(values.GridFuncD1))
			bg = bc.Table(uint64(values.BasisGradient))
		)
		for pt := 0; pt < nPts; pt++ {
			for r := 0; r < rd; r++ {
				for d := 0; d < dim; d++ {
					var v float64
					for lf, g := range dofs {
						v += C.At(g, r) * bg.At(lf, pt, d)
					}
					vt.Set(0, pt, r*dim+d, v)
				}
			}
		}
	}
	if h.cacheFlags.Contains(values.GridFuncD2) {
		var (
			vt = c.MutableTable(uint64(values.GridFuncD2))
			bh = bc.Table(uint64(values.BasisHessian))
		)
		for pt := 0; pt < nPts; pt++ {
			for r := 0; r < rd; r++ {
				for comp := 0; comp < dim*dim; comp++ {
					var v float64
					for lf, g := range dofs {
						v += C.At(g, r) * bh.At(lf, pt, comp)
					}
					vt.Set(0, pt, r*dim*dim+comp, v)
				}
			}
		}
	}
}

// Handler composes the grid-function derivatives into the physical domain
// quantities: measure, weighted measure, inverse jacobian, inverse hessian
// and boundary normals. Codimension zero only; the exterior normal of an
// embedded domain is rejected at Reset.
type Handler struct {
	domain     *Domain
	flags      values.DomainFlags
	cacheFlags values.DomainCacheFlags
	gfFlags    values.GridFuncFlags
	gridFlags  values.GridFlags

	fnHandler   *FuncHandler
	gridHandler *grid.Handler
}

func NewHandler(d *Domain) (h *Handler) {
	h = &Handler{
		domain:      d,
		fnHandler:   NewFuncHandler(d.GridFunction()),
		gridHandler: grid.NewHandler(d.Grid()),
	}
	return
}

func (h *Handler) Domain() *Domain { return h.domain }

// Reset fixes the requested quantities and the quadrature rule, and
// propagates the implied requirements to the grid-function and grid
// handlers.
func (h *Handler) Reset(flags values.DomainFlags, rule *quadrature.Rule) {
	var (
		d   = h.domain
		dim = d.Dim()
	)
	if flags == values.DomainNone {
		err := fmt.Errorf("domain handler reset with no flags requested")
		panic(err)
	}
	if flags.Contains(values.DomainExtNormal) {
		err := fmt.Errorf("configuration error: %s requires positive codimension, domain has codimension 0",
			values.DomainExtNormal)
		panic(err)
	}
	if d.GridFunction().RangeDim() != dim {
		err := fmt.Errorf("configuration error: domain handler requires codimension 0, mapping is %d -> %d",
			dim, d.GridFunction().RangeDim())
		panic(err)
	}
	h.flags = flags
	h.cacheFlags, h.gfFlags, h.gridFlags = values.DomainActivate(flags)
	if h.gfFlags != values.GridFuncNone {
		h.fnHandler.Reset(h.gfFlags, rule)
	}
	if h.gridFlags != values.GridNone {
		h.gridHandler.Reset(h.gridFlags, rule)
	}
}

func (h *Handler) tableSizer(bit uint64) (nFuncs, nComps int) {
	var (
		dim = h.domain.Dim()
	)
	switch values.DomainFlags(bit) {
	case values.DomainMeasure:
		return 1, 1
	case values.DomainInvJacobian:
		return 1, dim * dim
	case values.DomainInvHessian:
		return 1, dim * dim * dim
	case values.DomainBoundaryNormal:
		return 1, dim
	}
	err := fmt.Errorf("no domain table for quantity %v", values.DomainFlags(bit))
	panic(err)
}

// InitCache allocates the element's caches at every level for one
// sub-element topology.
func (h *Handler) InitCache(e *Element, subDim, subID int) {
	if h.gfFlags != values.GridFuncNone {
		h.fnHandler.InitCache(e, subDim, subID)
	}
	if h.gridFlags != values.GridNone {
		h.gridHandler.InitCache(e.ge, subDim, subID)
	}
	if h.cacheFlags != values.DomainNone {
		rule := h.fnHandler.ruleFor(subDim, subID)
		c := e.Cache().Cache(subDim, subID)
		c.Allocate(uint64(h.cacheFlags), rule.ID(), rule.TotalPoints(), h.tableSizer)
	}
}

// FillCache fills the lower-level caches, then composes the domain
// quantities from them.
func (h *Handler) FillCache(e *Element, subDim, subID int) {
	if h.gfFlags != values.GridFuncNone {
		h.fnHandler.FillCache(e, subDim, subID)
	}
	if h.gridFlags != values.GridNone {
		h.gridHandler.FillCache(e.ge, subDim, subID)
	}
	if h.cacheFlags == values.DomainNone {
		return
	}
	var (
		dim  = h.domain.Dim()
		rule = h.fnHandler.ruleFor(subDim, subID)
		nPts = rule.TotalPoints()
		c    = e.Cache().Cache(subDim, subID)
		gfc  = e.FuncCache().Cache(subDim, subID)
		d1   = gfc.Table(uint64(values.GridFuncD1))
	)
	jac := func(pt int) (J utils.Matrix) {
		J = utils.NewMatrix(dim, dim)
		for r := 0; r < dim; r++ {
			for d := 0; d < dim; d++ {
				J.Set(r, d, d1.At(0, pt, r*dim+d))
			}
		}
		return
	}

	if h.cacheFlags.Contains(values.DomainMeasure) {
		vt := c.MutableTable(uint64(values.DomainMeasure))
		for pt := 0; pt < nPts; pt++ {
			vt.Set(0, pt, 0, h.measure(jac(pt), subDim, subID))
		}
	}
	if h.cacheFlags.Contains(values.DomainInvJacobian) {
		vt := c.MutableTable(uint64(values.DomainInvJacobian))
		for pt := 0; pt < nPts; pt++ {
			Jinv, err := jac(pt).Inverse()
			if err != nil {
				err = fmt.Errorf("singular jacobian on element %d, point %d: %w", e.FlatIndex(), pt, err)
				panic(err)
			}
			for r := 0; r < dim; r++ {
				for d := 0; d < dim; d++ {
					vt.Set(0, pt, r*dim+d, Jinv.At(r, d))
				}
			}
		}
	}
	if h.cacheFlags.Contains(values.DomainInvHessian) {
		var (
			vt   = c.MutableTable(uint64(values.DomainInvHessian))
			vtJi = c.MutableTable(uint64(values.DomainInvJacobian))
			d2   = gfc.Table(uint64(values.GridFuncD2))
		)
		for pt := 0; pt < nPts; pt++ {
			// d(J^-1)/du_k = -J^-1 (dJ/du_k) J^-1
			Jinv := utils.NewMatrix(dim, dim)
			for r := 0; r < dim; r++ {
				for d := 0; d < dim; d++ {
					Jinv.Set(r, d, vtJi.At(0, pt, r*dim+d))
				}
			}
			for k := 0; k < dim; k++ {
				dJ := utils.NewMatrix(dim, dim)
				for r := 0; r < dim; r++ {
					for d := 0; d < dim; d++ {
						dJ.Set(r, d, d2.At(0, pt, r*dim*dim+d*dim+k))
					}
				}
				M := Jinv.Mul(dJ).Mul(Jinv).Scale(-1)
				for r := 0; r < dim; r++ {
					for d := 0; d < dim; d++ {
						vt.Set(0, pt, r*dim*dim+d*dim+k, M.At(r, d))
					}
				}
			}
		}
	}
	if h.cacheFlags.Contains(values.DomainBoundaryNormal) && subDim == dim-1 {
		var (
			vt   = c.MutableTable(uint64(values.DomainBoundaryNormal))
			vtJi = c.MutableTable(uint64(values.DomainInvJacobian))
			dir  = subID / 2
			sign = float64(2*(subID%2) - 1) // -1 on the lower face, +1 on the upper
		)
		for pt := 0; pt < nPts; pt++ {
			// n = J^-T n_ref, normalized; row `dir` of J^-1
			var norm float64
			n := make([]float64, dim)
			for i := 0; i < dim; i++ {
				n[i] = sign * vtJi.At(0, pt, dir*dim+i)
				norm += n[i] * n[i]
			}
			norm = math.Sqrt(norm)
			for i := 0; i < dim; i++ {
				vt.Set(0, pt, i, n[i]/norm)
			}
		}
	}
	c.MarkFilled()
}

// measure returns |det J| on the element interior and the Gram measure of
// the tangential jacobian on a face.
func (h *Handler) measure(J utils.Matrix, subDim, subID int) float64 {
	var (
		dim = h.domain.Dim()
	)
	if subDim == dim {
		return math.Abs(J.Det())
	}
	// face: drop the collapsed direction, keep the tangential columns
	tangent := make(utils.Index, 0, dim-1)
	for d := 0; d < dim; d++ {
		if d != subID/2 {
			tangent = append(tangent, d)
		}
	}
	if len(tangent) == 0 {
		return 1 // vertex of a 1-D domain
	}
	Jt := J.SliceCols(tangent)
	G := utils.NewMatrix(len(tangent), len(tangent))
	for i := range tangent {
		for j := range tangent {
			var v float64
			for r := 0; r < dim; r++ {
				v += Jt.At(r, i) * Jt.At(r, j)
			}
			G.Set(i, j, v)
		}
	}
	return math.Sqrt(G.Det())
}
