package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/goiga/cache"
	"github.com/notargets/goiga/quadrature"
	"github.com/notargets/goiga/tensor"
	"github.com/notargets/goiga/utils"
	"github.com/notargets/goiga/values"
)

func TestGridConstruction(t *testing.T) {
	g, err := NewGrid([][]float64{{0, 0.5, 1}, {0, 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, g.Dim())
	assert.Equal(t, 2, g.NumElements())
	assert.Equal(t, tensor.TensorSize{2, 1}, g.NumElementsDir())

	x0, x1 := g.Interval(0, 1)
	assert.Equal(t, 0.5, x0)
	assert.Equal(t, 1., x1)

	// validation failures carry descriptive messages
	_, err = NewGrid([][]float64{{0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 break points")

	_, err = NewGrid([][]float64{{0, 1, 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strictly increasing")

	_, err = NewGrid(nil)
	require.Error(t, err)
}

func TestGridProperties(t *testing.T) {
	g := NewUniformGrid(2, 3) // 3x3 cells, only the center is interior
	active := g.ElementsWithProperty(PropertyActive)
	assert.Equal(t, utils.NewRange(0, 8), active)

	boundary := g.ElementsWithProperty(PropertyBoundary)
	assert.Equal(t, 8, len(boundary))
	assert.False(t, boundary.Contains(4))

	g.SetProperty("marked", utils.Index{0, 4})
	assert.Equal(t, utils.Index{0, 4}, g.ElementsWithProperty("marked"))
	assert.Panics(t, func() { g.ElementsWithProperty("missing") })
}

func TestElementIteration(t *testing.T) {
	g := NewUniformGrid(2, 2)
	e := g.Begin()

	var flats []int
	var last tensor.TensorIndex
	for {
		flats = append(flats, e.FlatIndex())
		last = e.TensorIndex()
		if !e.Advance() {
			break
		}
	}
	assert.Equal(t, []int{0, 1, 2, 3}, flats)
	// row-major: first index slowest
	assert.Equal(t, tensor.TensorIndex{1, 1}, last)

	e.MoveTo(2)
	assert.Equal(t, tensor.TensorIndex{1, 0}, e.TensorIndex())

	assert.Panics(t, func() { g.Element(4) })
	assert.Panics(t, func() { e.MoveTo(-1) })
}

func TestElementGeometry(t *testing.T) {
	g, err := NewGrid([][]float64{{0, 0.25, 1}, {0, 2}})
	require.NoError(t, err)

	e := g.Element(1) // cell [0.25,1] x [0,2]
	assert.InDelta(t, 0.75, e.Size(0), 1.e-14)
	assert.InDelta(t, 1.5, e.Measure(), 1.e-14)

	assert.Equal(t, 4, e.NumFaces())
	assert.Equal(t, 1, e.FaceDirection(3))
	assert.Equal(t, 1, e.FaceSide(3))
	assert.False(t, e.IsBoundaryFace(0)) // lower x face is interior
	assert.True(t, e.IsBoundaryFace(1))
	assert.True(t, e.IsBoundaryFace(2))
}

func TestHandlerPointsAndWeights(t *testing.T) {
	// two unit-interval halves, 2-point Gauss per cell
	g, err := NewGrid([][]float64{{0, 0.5, 1}})
	require.NoError(t, err)

	h := NewHandler(g)
	h.Reset(values.GridPoint|values.GridWeight, quadrature.NewGaussRule(2))

	e := g.Begin()
	var pts, wts []float64
	for {
		h.InitCache(e, 1, 0)
		h.FillCache(e, 1, 0)
		c := e.Cache().Cache(1, 0)
		pt := c.Table(uint64(values.GridPoint))
		wt := c.Table(uint64(values.GridWeight))
		for p := 0; p < pt.NumPoints(); p++ {
			pts = append(pts, pt.At(0, p, 0))
			wts = append(wts, wt.Value(0, p))
		}
		if !e.Advance() {
			break
		}
	}

	// weights sum to the domain length, points are ordered and interior
	var wsum float64
	for _, w := range wts {
		wsum += w
	}
	assert.InDelta(t, 1.0, wsum, 1.e-14)
	require.Equal(t, 4, len(pts))
	for i := 1; i < len(pts); i++ {
		assert.Greater(t, pts[i], pts[i-1])
	}
	assert.Greater(t, pts[0], 0.)
	assert.Less(t, pts[1], 0.5)
	assert.Greater(t, pts[2], 0.5)
	assert.Less(t, pts[3], 1.)
}

func TestHandlerFaces(t *testing.T) {
	g := NewUniformGrid(2, 2)
	h := NewHandler(g)
	h.Reset(values.GridPoint|values.GridWeight, quadrature.NewGaussRule(3, 3))

	e := g.Element(3) // upper-right cell [0.5,1]^2
	h.InitCache(e, 1, 1)
	h.FillCache(e, 1, 1) // right face: x fixed at 1

	c := e.Cache().Cache(1, 1)
	pt := c.Table(uint64(values.GridPoint))
	wt := c.Table(uint64(values.GridWeight))
	require.Equal(t, 3, pt.NumPoints())

	var wsum float64
	for p := 0; p < 3; p++ {
		assert.InDelta(t, 1.0, pt.At(0, p, 0), 1.e-14)
		assert.Greater(t, pt.At(0, p, 1), 0.5)
		assert.Less(t, pt.At(0, p, 1), 1.)
		wsum += wt.Value(0, p)
	}
	assert.InDelta(t, 0.5, wsum, 1.e-14) // face length

	assert.Panics(t, func() { h.RuleFor(0, 0) })
}

func TestHandlerCacheDiscipline(t *testing.T) {
	g := NewUniformGrid(1, 2)
	h := NewHandler(g)
	h.Reset(values.GridPoint, quadrature.NewGaussRule(2))

	e := g.Begin()
	h.InitCache(e, 1, 0)
	c := e.Cache().Cache(1, 0)

	// allocated but unfilled: reads fail fast
	assert.Panics(t, func() { c.Table(uint64(values.GridPoint)) })
	// weight was not requested
	h.FillCache(e, 1, 0)
	assert.Panics(t, func() { c.Table(uint64(values.GridWeight)) })

	// advancing invalidates; a fresh fill is required
	first := c.Table(uint64(values.GridPoint)).At(0, 0, 0)
	require.True(t, e.Advance())
	assert.Panics(t, func() { c.Table(uint64(values.GridPoint)) })
	h.InitCache(e, 1, 0)
	h.FillCache(e, 1, 0)
	assert.InDelta(t, first+0.5, c.Table(uint64(values.GridPoint)).At(0, 0, 0), 1.e-14)
}

func TestElementClone(t *testing.T) {
	g := NewUniformGrid(1, 2)
	h := NewHandler(g)
	h.Reset(values.GridPoint, quadrature.NewGaussRule(1))

	e := g.Begin()
	h.InitCache(e, 1, 0)
	h.FillCache(e, 1, 0)

	clone := e.Clone(cache.DeepCopy)
	require.True(t, clone.Advance())
	h.InitCache(clone, 1, 0)
	h.FillCache(clone, 1, 0)

	// the original accessor's filled cache is untouched by the deep clone
	orig := e.Cache().Cache(1, 0).Table(uint64(values.GridPoint)).At(0, 0, 0)
	moved := clone.Cache().Cache(1, 0).Table(uint64(values.GridPoint)).At(0, 0, 0)
	assert.InDelta(t, 0.25, orig, 1.e-14)
	assert.InDelta(t, 0.75, moved, 1.e-14)
}
