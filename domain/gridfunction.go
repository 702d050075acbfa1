/*
Package domain implements the physical-domain layer of the evaluation
pipeline: a GridFunction maps the parametric grid into physical space
(identity or spline/NURBS mapping), and the Domain handler composes its
cached derivatives into jacobians, measures, inverse jacobians and boundary
normals at quadrature points.
*/
package domain

import (
	"fmt"

	"github.com/notargets/goiga/basis"
	"github.com/notargets/goiga/grid"
	"github.com/notargets/goiga/utils"
)

// GridFuncKind tags the concrete grid-function variants.
type GridFuncKind uint8

const (
	IdentityKind GridFuncKind = iota
	IgMappingKind
)

func (k GridFuncKind) String() string {
	switch k {
	case IdentityKind:
		return "Identity"
	case IgMappingKind:
		return "IgMapping"
	}
	return "unknown"
}

// GridFunction maps the parametric domain of a grid into R^rangeDim. The
// identity variant is the parametric domain itself; the IgMapping variant
// is a spline (or NURBS) geometry with one control point per basis
// function.
type GridFunction struct {
	kind     GridFuncKind
	grid     *grid.Grid
	rangeDim int

	// IgMapping only
	space         *basis.Space
	controlPoints utils.Matrix // NumFunctions x rangeDim
}

// NewIdentityGridFunction builds the identity mapping of the grid's
// parametric domain.
func NewIdentityGridFunction(g *grid.Grid) (gf *GridFunction) {
	gf = &GridFunction{
		kind:     IdentityKind,
		grid:     g,
		rangeDim: g.Dim(),
	}
	return
}

// NewIgMappingGridFunction builds the spline geometry sum_i C_i B_i with
// control points C (one row per global basis function).
func NewIgMappingGridFunction(s *basis.Space, controlPoints utils.Matrix) (gf *GridFunction, err error) {
	nr, nc := controlPoints.Dims()
	if nr != s.NumFunctions() {
		err = fmt.Errorf("control point count mismatch: space has %d functions, %d control points given",
			s.NumFunctions(), nr)
		return
	}
	if nc < 1 {
		err = fmt.Errorf("control points need at least one coordinate, have %d", nc)
		return
	}
	gf = &GridFunction{
		kind:          IgMappingKind,
		grid:          s.Grid(),
		rangeDim:      nc,
		space:         s,
		controlPoints: controlPoints,
	}
	return
}

func (gf *GridFunction) Kind() GridFuncKind { return gf.kind }
func (gf *GridFunction) Grid() *grid.Grid   { return gf.grid }
func (gf *GridFunction) DomainDim() int     { return gf.grid.Dim() }
func (gf *GridFunction) RangeDim() int      { return gf.rangeDim }

// Space returns the basis of an IgMapping (nil for the identity).
func (gf *GridFunction) Space() *basis.Space { return gf.space }
