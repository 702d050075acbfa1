/*
Package grid implements the tensor-product mesh of intervals underlying
every spline space: per-direction break points, flat/tensor element
numbering under the global row-major convention, a forward element
iterator, and the grid-level element handler producing quadrature point
and weight caches.
*/
package grid

import (
	"fmt"

	"github.com/notargets/goiga/tensor"
	"github.com/notargets/goiga/utils"
)

const (
	PropertyActive   = "active"
	PropertyBoundary = "boundary"
)

type Grid struct {
	breaks     *tensor.CartesianProductArray[float64]
	numCells   tensor.TensorSize
	properties map[string]utils.Index
}

// NewGrid builds a grid from per-direction break point sequences. Each
// direction needs at least two strictly increasing breaks.
func NewGrid(breaks [][]float64) (g *Grid, err error) {
	var (
		dim = len(breaks)
	)
	if dim < 1 {
		err = fmt.Errorf("grid needs at least one direction, have %d", dim)
		return
	}
	numCells := make(tensor.TensorSize, dim)
	for k, b := range breaks {
		if len(b) < 2 {
			err = fmt.Errorf("direction %d: need at least 2 break points, have %d", k, len(b))
			return
		}
		for i := 1; i < len(b); i++ {
			if b[i] <= b[i-1] {
				err = fmt.Errorf("direction %d: break points must be strictly increasing, have %v <= %v at position %d",
					k, b[i], b[i-1], i)
				return
			}
		}
		numCells[k] = len(b) - 1
	}
	g = &Grid{
		breaks:     tensor.NewCartesianProductArrayFromData(breaks),
		numCells:   numCells,
		properties: make(map[string]utils.Index),
	}
	g.properties[PropertyActive] = utils.NewRange(0, g.NumElements()-1)
	g.properties[PropertyBoundary] = g.boundaryElements()
	return
}

// NewUniformGrid builds a dim-dimensional grid of nCells uniform cells per
// direction on the unit hypercube.
func NewUniformGrid(dim, nCells int) (g *Grid) {
	var (
		breaks = make([][]float64, dim)
		err    error
	)
	for k := range breaks {
		breaks[k] = utils.Linspace(0, 1, nCells+1)
	}
	if g, err = NewGrid(breaks); err != nil {
		panic(err)
	}
	return
}

func (g *Grid) Dim() int { return g.numCells.Dim() }

func (g *Grid) NumElements() int { return g.numCells.FlatSize() }

func (g *Grid) NumElementsDir() tensor.TensorSize { return g.numCells.Copy() }

// Breaks returns the break point sequence of direction k (read-only view).
func (g *Grid) Breaks(k int) []float64 { return g.breaks.DataDirection(k) }

// Interval returns the bounds of cell i in direction k.
func (g *Grid) Interval(k, i int) (x0, x1 float64) {
	b := g.breaks.DataDirection(k)
	if i < 0 || i >= len(b)-1 {
		err := fmt.Errorf("cell index out of range: direction %d, cell = %d, cells = %d", k, i, len(b)-1)
		panic(err)
	}
	return b[i], b[i+1]
}

// SetProperty records a named element set.
func (g *Grid) SetProperty(name string, elems utils.Index) {
	g.properties[name] = elems
}

// ElementsWithProperty returns the element set registered under name.
func (g *Grid) ElementsWithProperty(name string) (elems utils.Index) {
	elems, ok := g.properties[name]
	if !ok {
		err := fmt.Errorf("unknown element property: %q", name)
		panic(err)
	}
	return
}

func (g *Grid) boundaryElements() (elems utils.Index) {
	var (
		n = g.NumElements()
	)
	for f := 0; f < n; f++ {
		ti := g.numCells.FlatToTensor(f)
		for k, i := range ti {
			if i == 0 || i == g.numCells[k]-1 {
				elems = append(elems, f)
				break
			}
		}
	}
	return
}
