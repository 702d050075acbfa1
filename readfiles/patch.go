/*
Package readfiles loads spline patch descriptions from YAML files and
builds the grid, space and geometry they declare. Malformed files fail with
a descriptive error before any grid is constructed.
*/
package readfiles

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"

	"github.com/notargets/goiga/basis"
	"github.com/notargets/goiga/domain"
	"github.com/notargets/goiga/grid"
	"github.com/notargets/goiga/utils"
)

// PatchParameters is the YAML patch description: per-direction degree,
// unique break points and knot multiplicities, plus optional control points
// and NURBS weights for a geometry mapping.
type PatchParameters struct {
	Title          string      `yaml:"Title"`
	Dim            int         `yaml:"Dim"`
	Degrees        []int       `yaml:"Degrees"`
	Breaks         [][]float64 `yaml:"Breaks"`
	Multiplicities [][]int     `yaml:"Multiplicities"` // empty: open knot vectors
	ControlPoints  [][]float64 `yaml:"ControlPoints"`  // empty: identity geometry
	Weights        []float64   `yaml:"Weights"`        // empty: polynomial B-splines
}

func (pp *PatchParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, pp)
}

func (pp *PatchParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", pp.Title)
	fmt.Printf("[%d]\t\t\t= Dim\n", pp.Dim)
	fmt.Printf("%v\t\t= Degrees\n", pp.Degrees)
	for k, b := range pp.Breaks {
		fmt.Printf("direction %d: %d breaks, %v\n", k, len(b), b)
	}
	if len(pp.Weights) != 0 {
		fmt.Printf("[NURBS]\t\t\t= %d weights\n", len(pp.Weights))
	}
}

// Patch is the constructed result: the grid, the spline space over it and
// the geometry mapping (identity when the file declares no control points).
type Patch struct {
	Params   PatchParameters
	Grid     *grid.Grid
	Space    *basis.Space
	Geometry *domain.GridFunction
}

// ReadPatchFile loads and builds a patch from a YAML file.
func ReadPatchFile(filename string) (p *Patch, err error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		err = fmt.Errorf("unable to read patch file %q: %w", filename, err)
		return
	}
	var pp PatchParameters
	if err = pp.Parse(data); err != nil {
		err = fmt.Errorf("unable to parse patch file %q: %w", filename, err)
		return
	}
	return BuildPatch(pp)
}

// BuildPatch validates the declared sizes against each other and constructs
// the grid, space and geometry.
func BuildPatch(pp PatchParameters) (p *Patch, err error) {
	if pp.Dim < 1 {
		err = fmt.Errorf("patch %q: dimension must be positive, have %d", pp.Title, pp.Dim)
		return
	}
	if len(pp.Degrees) != pp.Dim {
		err = fmt.Errorf("patch %q: declared dim %d but %d degrees given", pp.Title, pp.Dim, len(pp.Degrees))
		return
	}
	if len(pp.Breaks) != pp.Dim {
		err = fmt.Errorf("patch %q: declared dim %d but %d break sequences given", pp.Title, pp.Dim, len(pp.Breaks))
		return
	}
	if len(pp.Multiplicities) != 0 && len(pp.Multiplicities) != pp.Dim {
		err = fmt.Errorf("patch %q: declared dim %d but %d multiplicity sequences given",
			pp.Title, pp.Dim, len(pp.Multiplicities))
		return
	}

	g, err := grid.NewGrid(pp.Breaks)
	if err != nil {
		err = fmt.Errorf("patch %q: %w", pp.Title, err)
		return
	}

	var s *basis.Space
	if len(pp.Multiplicities) != 0 {
		kvs := make([]*basis.KnotVector, pp.Dim)
		for k := range kvs {
			if kvs[k], err = basis.NewKnotVector(pp.Degrees[k], pp.Breaks[k], pp.Multiplicities[k]); err != nil {
				err = fmt.Errorf("patch %q: direction %d: %w", pp.Title, k, err)
				return
			}
		}
		if s, err = basis.NewBSplineSpaceFromKnots(g, kvs); err != nil {
			err = fmt.Errorf("patch %q: %w", pp.Title, err)
			return
		}
		if len(pp.Weights) != 0 {
			err = fmt.Errorf("patch %q: NURBS weights with explicit multiplicities are not supported", pp.Title)
			return
		}
	} else if len(pp.Weights) != 0 {
		if s, err = basis.NewNURBSSpace(g, pp.Degrees, pp.Weights); err != nil {
			err = fmt.Errorf("patch %q: %w", pp.Title, err)
			return
		}
	} else {
		if s, err = basis.NewBSplineSpace(g, pp.Degrees); err != nil {
			err = fmt.Errorf("patch %q: %w", pp.Title, err)
			return
		}
	}

	geom := domain.NewIdentityGridFunction(g)
	if len(pp.ControlPoints) != 0 {
		if len(pp.ControlPoints) != s.NumFunctions() {
			err = fmt.Errorf("patch %q: space has %d functions but %d control points given",
				pp.Title, s.NumFunctions(), len(pp.ControlPoints))
			return
		}
		nc := len(pp.ControlPoints[0])
		flat := make([]float64, 0, len(pp.ControlPoints)*nc)
		for i, row := range pp.ControlPoints {
			if len(row) != nc {
				err = fmt.Errorf("patch %q: control point %d has %d coordinates, expected %d",
					pp.Title, i, len(row), nc)
				return
			}
			flat = append(flat, row...)
		}
		C := utils.NewMatrix(s.NumFunctions(), nc, flat)
		if geom, err = domain.NewIgMappingGridFunction(s, C); err != nil {
			err = fmt.Errorf("patch %q: %w", pp.Title, err)
			return
		}
	}

	p = &Patch{
		Params:   pp,
		Grid:     g,
		Space:    s,
		Geometry: geom,
	}
	return
}
