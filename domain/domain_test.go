package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/goiga/basis"
	"github.com/notargets/goiga/grid"
	"github.com/notargets/goiga/quadrature"
	"github.com/notargets/goiga/utils"
	"github.com/notargets/goiga/values"
)

func identityDomain(t *testing.T, dim, nCells int) *Domain {
	t.Helper()
	return NewDomain(NewIdentityGridFunction(grid.NewUniformGrid(dim, nCells)))
}

// scalingDomain maps the unit square onto [0,sx] x [0,sy] with a bilinear
// spline geometry.
func scalingDomain(t *testing.T, sx, sy float64) *Domain {
	t.Helper()
	g := grid.NewUniformGrid(2, 1)
	s, err := basis.NewBSplineSpace(g, []int{1, 1})
	require.NoError(t, err)
	C := utils.NewMatrix(4, 2, []float64{
		0, 0,
		0, sy,
		sx, 0,
		sx, sy,
	})
	gf, err := NewIgMappingGridFunction(s, C)
	require.NoError(t, err)
	return NewDomain(gf)
}

func TestIdentityDomain(t *testing.T) {
	d := identityDomain(t, 2, 2)
	h := NewHandler(d)
	h.Reset(values.DomainPoint|values.DomainMeasure|values.DomainWMeasure|values.DomainInvJacobian,
		quadrature.NewGaussRule(2, 2))

	var wsum float64
	e := d.Begin()
	for {
		h.InitCache(e, 2, 0)
		h.FillCache(e, 2, 0)

		pts := e.Points()
		ms := e.Measures()
		ji := e.InvJacobians()
		for pt := 0; pt < pts.NumPoints(); pt++ {
			// identity: points stay in the cell, measure 1, J^-1 = I
			x0, x1 := e.GridElement().Interval(0)
			assert.GreaterOrEqual(t, pts.At(0, pt, 0), x0)
			assert.LessOrEqual(t, pts.At(0, pt, 0), x1)
			assert.InDelta(t, 1., ms.Value(0, pt), 1.e-14)
			assert.InDelta(t, 1., ji.At(0, pt, 0), 1.e-14)
			assert.InDelta(t, 0., ji.At(0, pt, 1), 1.e-14)
			assert.InDelta(t, 1., ji.At(0, pt, 3), 1.e-14)
		}
		for _, w := range e.WMeasures() {
			wsum += w
		}
		if !e.Advance() {
			break
		}
	}
	assert.InDelta(t, 1., wsum, 1.e-13) // unit square area
}

func TestWMeasureActivationChain(t *testing.T) {
	// requesting the weighted measure alone must allocate the measure table
	// at the domain level, D1 at the grid-function level and the weights at
	// the grid level
	d := identityDomain(t, 2, 1)
	h := NewHandler(d)
	h.Reset(values.DomainWMeasure, quadrature.NewGaussRule(2, 2))

	e := d.Begin()
	h.InitCache(e, 2, 0)

	assert.Equal(t, uint64(values.DomainMeasure), e.Cache().Cache(2, 0).ActiveFlags())
	assert.Equal(t, uint64(values.GridFuncD1), e.FuncCache().Cache(2, 0).ActiveFlags())
	assert.Equal(t, uint64(values.GridWeight), e.GridElement().Cache().Cache(2, 0).ActiveFlags())
}

func TestBoundaryNormalClosure(t *testing.T) {
	// the boundary normal pulls in the inverse jacobian cache, which in turn
	// needs D1 below
	d := identityDomain(t, 2, 1)
	h := NewHandler(d)
	h.Reset(values.DomainBoundaryNormal, quadrature.NewGaussRule(2, 2))

	e := d.Begin()
	h.InitCache(e, 1, 0)
	h.FillCache(e, 1, 0)

	active := values.DomainFlags(e.Cache().Cache(1, 0).ActiveFlags())
	assert.True(t, active.Contains(values.DomainInvJacobian))
	assert.True(t, active.Contains(values.DomainBoundaryNormal))

	n := e.BoundaryNormals(0) // left face of the unit square
	for pt := 0; pt < n.NumPoints(); pt++ {
		assert.InDelta(t, -1., n.At(0, pt, 0), 1.e-14)
		assert.InDelta(t, 0., n.At(0, pt, 1), 1.e-14)
	}
}

func TestScalingMapQuantities(t *testing.T) {
	d := scalingDomain(t, 2, 3)
	h := NewHandler(d)
	h.Reset(values.DomainPoint|values.DomainMeasure|values.DomainWMeasure|values.DomainJacobian,
		quadrature.NewGaussRule(2, 2))

	e := d.Begin()
	h.InitCache(e, 2, 0)
	h.FillCache(e, 2, 0)

	var (
		pts = e.Points()
		jc  = e.Jacobians()
		ms  = e.Measures()
	)
	for pt := 0; pt < pts.NumPoints(); pt++ {
		// jacobian is diag(2,3), measure its determinant
		assert.InDelta(t, 2., jc.At(0, pt, 0), 1.e-13)
		assert.InDelta(t, 0., jc.At(0, pt, 1), 1.e-13)
		assert.InDelta(t, 0., jc.At(0, pt, 2), 1.e-13)
		assert.InDelta(t, 3., jc.At(0, pt, 3), 1.e-13)
		assert.InDelta(t, 6., ms.Value(0, pt), 1.e-13)
		assert.LessOrEqual(t, pts.At(0, pt, 0), 2.)
		assert.LessOrEqual(t, pts.At(0, pt, 1), 3.)
	}
	var wsum float64
	for _, w := range e.WMeasures() {
		wsum += w
	}
	assert.InDelta(t, 6., wsum, 1.e-12) // mapped area
}

func TestScalingMapFace(t *testing.T) {
	d := scalingDomain(t, 2, 3)
	h := NewHandler(d)
	h.Reset(values.DomainBoundaryNormal|values.DomainWMeasure, quadrature.NewGaussRule(3, 3))

	e := d.Begin()
	h.InitCache(e, 1, 1) // right face, x fixed at 2
	h.FillCache(e, 1, 1)

	n := e.BoundaryNormals(1)
	ms := e.Cache().Cache(1, 1).Table(uint64(values.DomainMeasure))
	gw := e.GridElement().Cache().Cache(1, 1).Table(uint64(values.GridWeight))
	var wsum float64
	for pt := 0; pt < n.NumPoints(); pt++ {
		assert.InDelta(t, 1., n.At(0, pt, 0), 1.e-13)
		assert.InDelta(t, 0., n.At(0, pt, 1), 1.e-13)
		// tangential stretch of the right face is the y scaling
		assert.InDelta(t, 3., ms.Value(0, pt), 1.e-13)
		wsum += ms.Value(0, pt) * gw.Value(0, pt)
	}
	assert.InDelta(t, 3., wsum, 1.e-12) // physical face length
}

func TestInverseHessianQuadraticMap(t *testing.T) {
	// F(u) = u^2 via a degree-2 spline: inv jacobian 1/(2u), its derivative
	// -1/(2u^2)
	g, err := grid.NewGrid([][]float64{{0, 1}})
	require.NoError(t, err)
	s, err := basis.NewBSplineSpace(g, []int{2})
	require.NoError(t, err)
	C := utils.NewMatrix(3, 1, []float64{0, 0, 1})
	gf, err := NewIgMappingGridFunction(s, C)
	require.NoError(t, err)

	d := NewDomain(gf)
	h := NewHandler(d)
	h.Reset(values.DomainInvJacobian|values.DomainInvHessian, quadrature.NewGaussRule(4))

	e := d.Begin()
	h.InitCache(e, 1, 0)
	h.FillCache(e, 1, 0)

	var (
		rule = quadrature.NewGaussRule(4)
		ji   = e.InvJacobians()
		ih   = e.InvHessians()
	)
	for pt := 0; pt < 4; pt++ {
		u := rule.Point(pt)[0]
		assert.InDelta(t, 1/(2*u), ji.Value(0, pt), 1.e-11)
		assert.InDelta(t, -1/(2*u*u), ih.Value(0, pt), 1.e-10)
	}
}

func TestConfigurationErrors(t *testing.T) {
	d := identityDomain(t, 2, 1)
	h := NewHandler(d)
	assert.Panics(t, func() { h.Reset(values.DomainExtNormal, quadrature.NewGaussRule(2, 2)) })
	assert.Panics(t, func() { h.Reset(values.DomainNone, quadrature.NewGaussRule(2, 2)) })

	// an embedded mapping (codimension 1) is rejected up front
	g1 := grid.NewUniformGrid(1, 1)
	s, err := basis.NewBSplineSpace(g1, []int{1})
	require.NoError(t, err)
	C := utils.NewMatrix(2, 2, []float64{0, 0, 1, 1})
	gf, err := NewIgMappingGridFunction(s, C)
	require.NoError(t, err)
	hc := NewHandler(NewDomain(gf))
	assert.Panics(t, func() { hc.Reset(values.DomainMeasure, quadrature.NewGaussRule(2)) })

	// NURBS geometry cannot provide second derivatives
	gn := grid.NewUniformGrid(1, 1)
	sn, err := basis.NewNURBSSpace(gn, []int{1}, []float64{1, 2})
	require.NoError(t, err)
	Cn := utils.NewMatrix(2, 1, []float64{0, 1})
	gfn, err := NewIgMappingGridFunction(sn, Cn)
	require.NoError(t, err)
	fh := NewFuncHandler(gfn)
	assert.Panics(t, func() { fh.Reset(values.GridFuncD2, quadrature.NewGaussRule(2)) })
}

func TestDomainCacheDiscipline(t *testing.T) {
	d := identityDomain(t, 1, 2)
	h := NewHandler(d)
	h.Reset(values.DomainMeasure, quadrature.NewGaussRule(2))

	e := d.Begin()
	h.InitCache(e, 1, 0)
	assert.Panics(t, func() { e.Measures() })
	h.FillCache(e, 1, 0)
	e.Measures()

	require.True(t, e.Advance())
	assert.Panics(t, func() { e.Measures() })
	h.InitCache(e, 1, 0)
	h.FillCache(e, 1, 0)
	e.Measures()
}
