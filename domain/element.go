package domain

import (
	"github.com/notargets/goiga/basis"
	"github.com/notargets/goiga/cache"
	"github.com/notargets/goiga/grid"
	"github.com/notargets/goiga/tensor"
	"github.com/notargets/goiga/values"
)

// Domain is a physical domain: the image of a grid under a GridFunction.
// Codimension zero (rangeDim == grid dim) is assumed by the handler.
type Domain struct {
	fn *GridFunction
}

func NewDomain(fn *GridFunction) (d *Domain) {
	d = &Domain{fn: fn}
	return
}

func (d *Domain) GridFunction() *GridFunction { return d.fn }
func (d *Domain) Grid() *grid.Grid            { return d.fn.Grid() }
func (d *Domain) Dim() int                    { return d.fn.DomainDim() }

func gridFuncQuantityName(bit uint64) string { return values.GridFuncFlags(bit).String() }
func domainQuantityName(bit uint64) string   { return values.DomainFlags(bit).String() }

// Element is the domain-level accessor. It carries three cache levels: the
// grid caches of the underlying cell, the grid-function derivative caches,
// and the composed domain-quantity caches. An IgMapping element also keeps
// a basis accessor in step for the mapping evaluation.
type Element struct {
	domain *Domain
	ge     *grid.Element
	be     *basis.Element // nil for the identity mapping
	gfc    *cache.LocalCache
	dc     *cache.LocalCache
}

// Element positions a fresh accessor on cell flat.
func (d *Domain) Element(flat int) (e *Element) {
	e = &Element{
		domain: d,
		ge:     d.Grid().Element(flat),
		gfc:    cache.NewLocalCache(gridFuncQuantityName),
		dc:     cache.NewLocalCache(domainQuantityName),
	}
	if d.fn.Kind() == IgMappingKind {
		e.be = d.fn.Space().Element(flat)
	}
	return
}

// Begin positions a fresh accessor on the first cell.
func (d *Domain) Begin() *Element { return d.Element(0) }

func (e *Element) Domain() *Domain            { return e.domain }
func (e *Element) GridElement() *grid.Element { return e.ge }

func (e *Element) FlatIndex() int                  { return e.ge.FlatIndex() }
func (e *Element) TensorIndex() tensor.TensorIndex { return e.ge.TensorIndex() }
func (e *Element) HasNext() bool                   { return e.ge.HasNext() }

// Advance moves to the next cell in flat order, invalidating all cache
// levels.
func (e *Element) Advance() bool {
	if !e.ge.Advance() {
		return false
	}
	if e.be != nil {
		e.be.MoveTo(e.ge.FlatIndex())
	}
	e.gfc.Invalidate()
	e.dc.Invalidate()
	return true
}

// MoveTo repositions the accessor on an arbitrary cell, invalidating all
// cache levels.
func (e *Element) MoveTo(flat int) {
	e.ge.MoveTo(flat)
	if e.be != nil {
		e.be.MoveTo(flat)
	}
	e.gfc.Invalidate()
	e.dc.Invalidate()
}

// FuncCache exposes the grid-function derivative caches.
func (e *Element) FuncCache() *cache.LocalCache { return e.gfc }

// Cache exposes the domain-quantity caches.
func (e *Element) Cache() *cache.LocalCache { return e.dc }

func (e *Element) volumeFuncTable(flag values.GridFuncFlags) *cache.ValueTable {
	dim := e.domain.Dim()
	return e.gfc.Cache(dim, 0).Table(uint64(flag))
}

func (e *Element) volumeTable(flag values.DomainFlags) *cache.ValueTable {
	dim := e.domain.Dim()
	return e.dc.Cache(dim, 0).Table(uint64(flag))
}

// Points returns the mapped quadrature points of the element interior:
// rangeDim components per point.
func (e *Element) Points() *cache.ValueTable { return e.volumeFuncTable(values.GridFuncD0) }

// Jacobians returns the mapping jacobian at each interior point, row-major
// rangeDim x dim components.
func (e *Element) Jacobians() *cache.ValueTable { return e.volumeFuncTable(values.GridFuncD1) }

// Hessians returns the mapping second derivatives, rangeDim x dim x dim
// components.
func (e *Element) Hessians() *cache.ValueTable { return e.volumeFuncTable(values.GridFuncD2) }

// Measures returns |det J| at each interior point.
func (e *Element) Measures() *cache.ValueTable { return e.volumeTable(values.DomainMeasure) }

// WMeasures returns the quadrature weight times |det J| at each interior
// point, the integration measure of the physical element. It composes the
// cached measures with the grid weights on read; no table of its own is
// stored.
func (e *Element) WMeasures() (w []float64) {
	var (
		dim = e.domain.Dim()
		ms  = e.volumeTable(values.DomainMeasure)
		gw  = e.ge.Cache().Cache(dim, 0).Table(uint64(values.GridWeight))
	)
	w = make([]float64, ms.NumPoints())
	for pt := range w {
		w[pt] = ms.Value(0, pt) * gw.Value(0, pt)
	}
	return
}

// InvJacobians returns the inverse jacobian at each interior point,
// row-major dim x rangeDim components.
func (e *Element) InvJacobians() *cache.ValueTable { return e.volumeTable(values.DomainInvJacobian) }

// InvHessians returns the derivative of the inverse jacobian at each
// interior point.
func (e *Element) InvHessians() *cache.ValueTable { return e.volumeTable(values.DomainInvHessian) }

// BoundaryNormals returns the outward unit normals on face f.
func (e *Element) BoundaryNormals(f int) *cache.ValueTable {
	dim := e.domain.Dim()
	return e.dc.Cache(dim-1, f).Table(uint64(values.DomainBoundaryNormal))
}

// Clone duplicates the accessor at its current position under the given
// cache copy policy.
func (e *Element) Clone(policy cache.CopyPolicy) (R *Element) {
	R = &Element{
		domain: e.domain,
		ge:     e.ge.Clone(policy),
		gfc:    e.gfc.Copy(policy),
		dc:     e.dc.Copy(policy),
	}
	if e.be != nil {
		R.be = e.be.Clone(policy)
	}
	return
}
