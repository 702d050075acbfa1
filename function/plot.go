package function

import (
	"fmt"

	"github.com/notargets/goiga/quadrature"
	"github.com/notargets/goiga/utils"
	"github.com/notargets/goiga/values"
)

// EvaluateOnGrid samples the field on a uniform lattice of nPlotPerDir
// points per direction within every element, returning the sample
// coordinates (one row per point) and the field values. Interior element
// boundaries are sampled from both sides.
func (f *Function) EvaluateOnGrid(nPlotPerDir int) (points utils.Matrix, vals utils.Vector) {
	var (
		dim = f.space.Dim()
	)
	if nPlotPerDir < 2 {
		err := fmt.Errorf("plot grid needs at least 2 points per direction, have %d", nPlotPerDir)
		panic(err)
	}
	unit := make([][]float64, dim)
	for k := range unit {
		unit[k] = utils.Linspace(0, 1, nPlotPerDir)
	}
	rule := quadrature.NewRuleFromPoints(unit)

	h := NewHandler(f)
	h.Reset(values.FuncValue, rule, true)

	var (
		nElemPts = rule.TotalPoints()
		nTotal   = f.space.Grid().NumElements() * nElemPts
		row      int
	)
	points = utils.NewMatrix(nTotal, dim)
	vals = utils.NewVector(nTotal)

	e := f.Begin()
	for {
		h.InitCache(e, dim, 0)
		h.FillCache(e, dim, 0)
		var (
			pts = e.Points()
			v   = e.Values()
		)
		for pt := 0; pt < nElemPts; pt++ {
			for k := 0; k < dim; k++ {
				points.Set(row, k, pts.At(0, pt, k))
			}
			vals.SetVec(row, v.Value(0, pt))
			row++
		}
		if !e.Advance() {
			break
		}
	}
	return
}
