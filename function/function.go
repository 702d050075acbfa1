/*
Package function implements scalar spline fields: a coefficient vector over
a basis space, evaluated per element through the cache pipeline into value,
gradient and second-derivative tables, plus a uniform-grid evaluation used
for plotting.
*/
package function

import (
	"fmt"

	"github.com/notargets/goiga/basis"
	"github.com/notargets/goiga/cache"
	"github.com/notargets/goiga/utils"
	"github.com/notargets/goiga/values"
)

// Function is a scalar field sum_i c_i B_i over a spline space.
type Function struct {
	space  *basis.Space
	coeffs utils.Vector
}

func NewFunction(s *basis.Space, coeffs utils.Vector) (f *Function, err error) {
	if coeffs.Len() != s.NumFunctions() {
		err = fmt.Errorf("coefficient count mismatch: space has %d functions, %d coefficients given",
			s.NumFunctions(), coeffs.Len())
		return
	}
	f = &Function{space: s, coeffs: coeffs}
	return
}

func (f *Function) Space() *basis.Space  { return f.space }
func (f *Function) Coeffs() utils.Vector { return f.coeffs }

func funcQuantityName(bit uint64) string { return values.FuncFlags(bit).String() }

// Element is the field-level accessor: it walks the elements carrying the
// basis accessor and the field value caches.
type Element struct {
	fn *Function
	be *basis.Element
	lc *cache.LocalCache
}

// Element positions a fresh accessor on cell flat.
func (f *Function) Element(flat int) (e *Element) {
	e = &Element{
		fn: f,
		be: f.space.Element(flat),
		lc: cache.NewLocalCache(funcQuantityName),
	}
	return
}

// Begin positions a fresh accessor on the first cell.
func (f *Function) Begin() *Element { return f.Element(0) }

func (e *Element) Function() *Function          { return e.fn }
func (e *Element) BasisElement() *basis.Element { return e.be }
func (e *Element) FlatIndex() int               { return e.be.FlatIndex() }
func (e *Element) HasNext() bool                { return e.be.HasNext() }

// Advance moves to the next cell in flat order, invalidating all caches.
func (e *Element) Advance() bool {
	if !e.be.Advance() {
		return false
	}
	e.lc.Invalidate()
	return true
}

// Cache exposes the field-level value caches.
func (e *Element) Cache() *cache.LocalCache { return e.lc }

func (e *Element) volumeTable(flag values.FuncFlags) *cache.ValueTable {
	dim := e.fn.space.Dim()
	return e.lc.Cache(dim, 0).Table(uint64(flag))
}

// Values returns the field values at the interior quadrature points.
func (e *Element) Values() *cache.ValueTable { return e.volumeTable(values.FuncValue) }

// Gradients returns the field gradients, dim components per point.
func (e *Element) Gradients() *cache.ValueTable { return e.volumeTable(values.FuncGradient) }

// D2s returns the field second derivatives, dim*dim components per point.
func (e *Element) D2s() *cache.ValueTable { return e.volumeTable(values.FuncD2) }

// Points returns the evaluation points, served from the basis accessor.
func (e *Element) Points() *cache.ValueTable { return e.be.Points() }
