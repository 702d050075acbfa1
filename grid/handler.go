package grid

import (
	"fmt"

	"github.com/notargets/goiga/quadrature"
	"github.com/notargets/goiga/values"
)

// Handler drives the grid-level evaluation pipeline: Reset fixes the
// requested quantities and the quadrature rule, InitCache sizes an element's
// caches, FillCache computes quadrature points mapped into the current cell
// and the scaled quadrature weights. Higher-level handlers delegate their
// grid quantities here.
type Handler struct {
	grid       *Grid
	flags      values.GridFlags
	cacheFlags values.GridCacheFlags
	rule       *quadrature.Rule
	faceRules  []*quadrature.Rule
}

func NewHandler(g *Grid) (h *Handler) {
	h = &Handler{grid: g}
	return
}

func (h *Handler) Grid() *Grid { return h.grid }

// Reset fixes the requested quantities and the volume rule. Face rules are
// derived by collapsing the volume rule onto each face. Caches filled under
// a previous Reset are detected as stale through the rule's point-set id.
func (h *Handler) Reset(flags values.GridFlags, rule *quadrature.Rule) {
	if flags == values.GridNone {
		err := fmt.Errorf("grid handler reset with no flags requested")
		panic(err)
	}
	if rule.Dim() != h.grid.Dim() {
		err := fmt.Errorf("quadrature rule dimension mismatch: rule dim = %d, grid dim = %d",
			rule.Dim(), h.grid.Dim())
		panic(err)
	}
	h.flags = flags
	h.cacheFlags = values.GridActivate(flags)
	h.rule = rule
	h.faceRules = make([]*quadrature.Rule, 2*h.grid.Dim())
	for f := range h.faceRules {
		h.faceRules[f] = rule.Collapse(f/2, f%2)
	}
}

// RuleFor returns the rule in effect for a sub-element topology: the volume
// rule for subDim == dim, the collapsed face rule for subDim == dim-1.
func (h *Handler) RuleFor(subDim, subID int) (rule *quadrature.Rule) {
	var (
		dim = h.grid.Dim()
	)
	if h.rule == nil {
		err := fmt.Errorf("grid handler used before Reset")
		panic(err)
	}
	switch {
	case subDim == dim && subID == 0:
		rule = h.rule
	case subDim == dim-1 && subID >= 0 && subID < 2*dim:
		rule = h.faceRules[subID]
	default:
		err := fmt.Errorf("unsupported sub-element topology: subDim,subID = %v,%v (grid dim %d)",
			subDim, subID, dim)
		panic(err)
	}
	return
}

func (h *Handler) tableSizer(bit uint64) (nFuncs, nComps int) {
	switch values.GridFlags(bit) {
	case values.GridPoint:
		return 1, h.grid.Dim()
	case values.GridWeight:
		return 1, 1
	}
	err := fmt.Errorf("no grid table for quantity %v", values.GridFlags(bit))
	panic(err)
}

// InitCache allocates the element's cache for one sub-element topology.
func (h *Handler) InitCache(e *Element, subDim, subID int) {
	rule := h.RuleFor(subDim, subID)
	c := e.Cache().Cache(subDim, subID)
	c.Allocate(uint64(h.cacheFlags), rule.ID(), rule.TotalPoints(), h.tableSizer)
}

// InitAllCaches allocates the volume cache and every face cache.
func (h *Handler) InitAllCaches(e *Element) {
	var (
		dim = h.grid.Dim()
	)
	h.InitCache(e, dim, 0)
	for f := 0; f < 2*dim; f++ {
		h.InitCache(e, dim-1, f)
	}
}

// FillCache computes the grid quantities on the current cell of e for one
// sub-element topology and marks the cache filled.
func (h *Handler) FillCache(e *Element, subDim, subID int) {
	var (
		dim  = h.grid.Dim()
		rule = h.RuleFor(subDim, subID)
		c    = e.Cache().Cache(subDim, subID)
	)
	if h.cacheFlags.Contains(values.GridPoint) {
		vt := c.MutableTable(uint64(values.GridPoint))
		for pt := 0; pt < rule.TotalPoints(); pt++ {
			u := rule.Point(pt)
			for k := 0; k < dim; k++ {
				x0, _ := e.Interval(k)
				vt.Set(0, pt, k, x0+e.Size(k)*u[k])
			}
		}
	}
	if h.cacheFlags.Contains(values.GridWeight) {
		var (
			vt    = c.MutableTable(uint64(values.GridWeight))
			w     = rule.Weights()
			scale = h.weightScale(e, subDim, subID)
		)
		for pt, wp := range w {
			vt.Set(0, pt, 0, wp*scale)
		}
	}
	c.MarkFilled()
}

// weightScale maps unit-cube weights onto the cell: the product of the cell
// extents over the directions the topology integrates. A face skips its
// normal direction.
func (h *Handler) weightScale(e *Element, subDim, subID int) (scale float64) {
	var (
		dim = h.grid.Dim()
	)
	scale = 1
	for k := 0; k < dim; k++ {
		if subDim == dim-1 && k == subID/2 {
			continue
		}
		scale *= e.Size(k)
	}
	return
}
