package grid

import (
	"fmt"

	"github.com/notargets/goiga/cache"
	"github.com/notargets/goiga/tensor"
	"github.com/notargets/goiga/values"
)

// Element is a forward accessor over the cells of a Grid. It keeps the flat
// and tensor indices of the current cell consistent and owns the local value
// caches filled by the handlers.
type Element struct {
	grid *Grid
	flat int
	ti   tensor.TensorIndex
	lc   *cache.LocalCache
}

// Element positions a fresh accessor on cell flat.
func (g *Grid) Element(flat int) (e *Element) {
	if flat < 0 || flat >= g.NumElements() {
		err := fmt.Errorf("element index out of range: flat = %d, elements = %d", flat, g.NumElements())
		panic(err)
	}
	e = &Element{
		grid: g,
		flat: flat,
		ti:   g.numCells.FlatToTensor(flat),
		lc:   cache.NewLocalCache(gridQuantityName),
	}
	return
}

// Begin positions a fresh accessor on the first cell.
func (g *Grid) Begin() *Element { return g.Element(0) }

func gridQuantityName(bit uint64) string { return values.GridFlags(bit).String() }

func (e *Element) Grid() *Grid { return e.grid }

func (e *Element) FlatIndex() int { return e.flat }

func (e *Element) TensorIndex() tensor.TensorIndex { return e.ti.Copy() }

// Interval returns the bounds of the current cell in direction k.
func (e *Element) Interval(k int) (x0, x1 float64) {
	return e.grid.Interval(k, e.ti[k])
}

// Size returns the length of the current cell in direction k.
func (e *Element) Size(k int) float64 {
	x0, x1 := e.Interval(k)
	return x1 - x0
}

// Measure returns the volume of the current cell in the parametric domain.
func (e *Element) Measure() (vol float64) {
	vol = 1
	for k := 0; k < e.grid.Dim(); k++ {
		vol *= e.Size(k)
	}
	return
}

func (e *Element) NumFaces() int { return 2 * e.grid.Dim() }

// FaceDirection returns the direction normal to face f.
func (e *Element) FaceDirection(f int) int { return f / 2 }

// FaceSide returns 0 for the lower face of its direction, 1 for the upper.
func (e *Element) FaceSide(f int) int { return f % 2 }

// IsBoundaryFace reports whether face f lies on the grid boundary.
func (e *Element) IsBoundaryFace(f int) bool {
	var (
		k    = e.FaceDirection(f)
		side = e.FaceSide(f)
	)
	if f < 0 || f >= e.NumFaces() {
		err := fmt.Errorf("face index out of range: face = %d, faces = %d", f, e.NumFaces())
		panic(err)
	}
	if side == 0 {
		return e.ti[k] == 0
	}
	return e.ti[k] == e.grid.numCells[k]-1
}

// HasNext reports whether a cell follows the current one in flat order.
func (e *Element) HasNext() bool { return e.flat+1 < e.grid.NumElements() }

// Advance moves the accessor to the next cell in flat order and invalidates
// the caches. It returns false past the last cell.
func (e *Element) Advance() bool {
	if !e.HasNext() {
		return false
	}
	e.flat++
	e.ti = e.grid.numCells.FlatToTensor(e.flat)
	e.lc.Invalidate()
	return true
}

// MoveTo repositions the accessor on an arbitrary cell, invalidating the
// caches.
func (e *Element) MoveTo(flat int) {
	if flat < 0 || flat >= e.grid.NumElements() {
		err := fmt.Errorf("element index out of range: flat = %d, elements = %d", flat, e.grid.NumElements())
		panic(err)
	}
	e.flat = flat
	e.ti = e.grid.numCells.FlatToTensor(flat)
	e.lc.Invalidate()
}

// Cache exposes the local value caches of the accessor.
func (e *Element) Cache() *cache.LocalCache { return e.lc }

// Clone duplicates the accessor at its current position. With DeepCopy the
// clone can be filled independently; with ShallowCopy the tables are shared.
func (e *Element) Clone(policy cache.CopyPolicy) (R *Element) {
	R = &Element{
		grid: e.grid,
		flat: e.flat,
		ti:   e.ti.Copy(),
		lc:   e.lc.Copy(policy),
	}
	return
}
