/*
Package cache holds the per-element value storage of the evaluation
pipeline: dense ValueTables of computed quantities, grouped per sub-element
topology, with an explicit fill state machine. A table can be read only
after the owning cache was filled for the element the iterator currently
points at; anything else is a programming error and panics rather than
returning stale data.
*/
package cache

import (
	"fmt"

	"github.com/notargets/goiga/utils"
)

// ValueTable stores one computed quantity: one row per basis function (or a
// single row for plain element quantities), one column group per evaluation
// point, nComps scalar components per point (1 for scalars, dim for
// gradients, dim*dim for hessians).
type ValueTable struct {
	nFuncs, nPoints, nComps int
	M                       utils.Matrix
}

func NewValueTable(nFuncs, nPoints, nComps int) (vt *ValueTable) {
	if nFuncs < 1 || nPoints < 1 || nComps < 1 {
		err := fmt.Errorf("invalid value table size: nFuncs,nPoints,nComps = %v,%v,%v", nFuncs, nPoints, nComps)
		panic(err)
	}
	vt = &ValueTable{
		nFuncs:  nFuncs,
		nPoints: nPoints,
		nComps:  nComps,
		M:       utils.NewMatrix(nFuncs, nPoints*nComps),
	}
	return
}

func (vt *ValueTable) NumFuncs() int  { return vt.nFuncs }
func (vt *ValueTable) NumPoints() int { return vt.nPoints }
func (vt *ValueTable) NumComps() int  { return vt.nComps }

// At returns component comp of function fn at point pt.
func (vt *ValueTable) At(fn, pt, comp int) float64 {
	vt.checkIndex(fn, pt, comp)
	return vt.M.At(fn, pt*vt.nComps+comp)
}

// Value returns the scalar value of function fn at point pt.
func (vt *ValueTable) Value(fn, pt int) float64 { return vt.At(fn, pt, 0) }

func (vt *ValueTable) Set(fn, pt, comp int, val float64) {
	vt.checkIndex(fn, pt, comp)
	vt.M.Set(fn, pt*vt.nComps+comp, val)
}

// Components returns all components of function fn at point pt.
func (vt *ValueTable) Components(fn, pt int) (comps []float64) {
	vt.checkIndex(fn, pt, 0)
	comps = make([]float64, vt.nComps)
	data := vt.M.DataP()
	copy(comps, data[fn*vt.nPoints*vt.nComps+pt*vt.nComps:][:vt.nComps])
	return
}

func (vt *ValueTable) Copy() (R *ValueTable) {
	R = &ValueTable{
		nFuncs:  vt.nFuncs,
		nPoints: vt.nPoints,
		nComps:  vt.nComps,
		M:       vt.M.Copy(),
	}
	return
}

func (vt *ValueTable) checkIndex(fn, pt, comp int) {
	if fn < 0 || fn >= vt.nFuncs || pt < 0 || pt >= vt.nPoints || comp < 0 || comp >= vt.nComps {
		err := fmt.Errorf("value table index out of range: fn,pt,comp = %v,%v,%v, size = %v,%v,%v",
			fn, pt, comp, vt.nFuncs, vt.nPoints, vt.nComps)
		panic(err)
	}
}
