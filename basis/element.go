package basis

import (
	"github.com/notargets/goiga/cache"
	"github.com/notargets/goiga/grid"
	"github.com/notargets/goiga/tensor"
	"github.com/notargets/goiga/utils"
	"github.com/notargets/goiga/values"
)

// Element is the space-level accessor: it walks the grid cells and carries
// both the basis value caches and the underlying grid caches of the current
// element.
type Element struct {
	space *Space
	ge    *grid.Element
	lc    *cache.LocalCache
}

func basisQuantityName(bit uint64) string { return values.BasisFlags(bit).String() }

// Element positions a fresh accessor on cell flat.
func (s *Space) Element(flat int) (e *Element) {
	e = &Element{
		space: s,
		ge:    s.grid.Element(flat),
		lc:    cache.NewLocalCache(basisQuantityName),
	}
	return
}

// Begin positions a fresh accessor on the first cell.
func (s *Space) Begin() *Element { return s.Element(0) }

func (e *Element) Space() *Space { return e.space }

// GridElement exposes the underlying grid accessor, whose caches hold the
// point and weight quantities.
func (e *Element) GridElement() *grid.Element { return e.ge }

func (e *Element) FlatIndex() int                  { return e.ge.FlatIndex() }
func (e *Element) TensorIndex() tensor.TensorIndex { return e.ge.TensorIndex() }
func (e *Element) HasNext() bool                   { return e.ge.HasNext() }

// Advance moves to the next cell in flat order, invalidating all caches.
func (e *Element) Advance() bool {
	if !e.ge.Advance() {
		return false
	}
	e.lc.Invalidate()
	return true
}

// MoveTo repositions the accessor on an arbitrary cell, invalidating all
// caches.
func (e *Element) MoveTo(flat int) {
	e.ge.MoveTo(flat)
	e.lc.Invalidate()
}

// Cache exposes the basis-level value caches.
func (e *Element) Cache() *cache.LocalCache { return e.lc }

// LocalToGlobal returns the global function index of each local function on
// the current element.
func (e *Element) LocalToGlobal() utils.Index {
	return e.space.LocalToGlobal(e.ge.TensorIndex())
}

// NumLocalFunctions returns the number of functions alive on the element.
func (e *Element) NumLocalFunctions() int { return e.space.NumLocalFunctions() }

func (e *Element) volumeTable(flag values.BasisFlags) *cache.ValueTable {
	dim := e.space.Dim()
	return e.lc.Cache(dim, 0).Table(uint64(flag))
}

// Values returns the filled basis value table of the element interior: one
// row per local function, one column per quadrature point.
func (e *Element) Values() *cache.ValueTable { return e.volumeTable(values.BasisValue) }

// Gradients returns the filled gradient table: dim components per point.
func (e *Element) Gradients() *cache.ValueTable { return e.volumeTable(values.BasisGradient) }

// Hessians returns the filled hessian table: dim*dim components per point.
func (e *Element) Hessians() *cache.ValueTable { return e.volumeTable(values.BasisHessian) }

// Divergences returns the filled divergence table.
func (e *Element) Divergences() *cache.ValueTable { return e.volumeTable(values.BasisDivergence) }

// Points returns the quadrature points of the element interior, served from
// the underlying grid cache.
func (e *Element) Points() *cache.ValueTable {
	dim := e.space.Dim()
	return e.ge.Cache().Cache(dim, 0).Table(uint64(values.GridPoint))
}

// WMeasures returns the quadrature weights scaled by the element measure,
// served from the underlying grid cache.
func (e *Element) WMeasures() *cache.ValueTable {
	dim := e.space.Dim()
	return e.ge.Cache().Cache(dim, 0).Table(uint64(values.GridWeight))
}

// Clone duplicates the accessor at its current position under the given
// cache copy policy.
func (e *Element) Clone(policy cache.CopyPolicy) (R *Element) {
	R = &Element{
		space: e.space,
		ge:    e.ge.Clone(policy),
		lc:    e.lc.Copy(policy),
	}
	return
}
