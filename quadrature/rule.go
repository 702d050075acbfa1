/*
Package quadrature builds tensor-product Gauss rules on the unit hypercube.

Per-direction points live in a CartesianProductArray and weights in a
TensorProductArray, so a dim-dimensional rule stores only the univariate
data. Every rule carries a unique point-set id that the element caches use
to detect stale fills.
*/
package quadrature

import (
	"fmt"

	"github.com/notargets/goiga/tensor"
)

var pointSetCounter uint64 // single-threaded library, plain counter suffices

type Rule struct {
	points  *tensor.CartesianProductArray[float64]
	weights *tensor.TensorProductArray
	id      uint64
}

// NewGaussRule builds a tensor-product Gauss-Legendre rule on [0,1]^dim with
// numPoints[k] points in direction k.
func NewGaussRule(numPoints ...int) (q *Rule) {
	q = &Rule{
		points:  tensor.NewCartesianProductArray[float64](numPoints...),
		weights: tensor.NewTensorProductArray(numPoints...),
	}
	for k, n := range numPoints {
		if n < 1 {
			err := fmt.Errorf("invalid quadrature order: direction %d has %d points", k, n)
			panic(err)
		}
		p, w := GaussLegendre(n)
		q.points.CopyDataDirection(k, p)
		q.weights.CopyDataDirection(k, w)
	}
	pointSetCounter++
	q.id = pointSetCounter
	return
}

// NewRuleFromPoints builds a rule from caller-specified per-direction unit
// interval points, all weights one. Used for plot point evaluation where no
// integration takes place.
func NewRuleFromPoints(points [][]float64) (q *Rule) {
	var (
		sizes = make([]int, len(points))
	)
	for k, p := range points {
		sizes[k] = len(p)
	}
	q = &Rule{
		points:  tensor.NewCartesianProductArray[float64](sizes...),
		weights: tensor.NewTensorProductArray(sizes...),
	}
	for k, p := range points {
		for _, x := range p {
			if x < 0 || x > 1 {
				err := fmt.Errorf("evaluation point outside the unit interval: direction %d, point %v", k, x)
				panic(err)
			}
		}
		q.points.CopyDataDirection(k, p)
		ones := make([]float64, len(p))
		for i := range ones {
			ones[i] = 1
		}
		q.weights.CopyDataDirection(k, ones)
	}
	pointSetCounter++
	q.id = pointSetCounter
	return
}

func (q *Rule) Dim() int                    { return q.points.Dim() }
func (q *Rule) ID() uint64                  { return q.id }
func (q *Rule) NumPoints() tensor.TensorSize { return q.points.TensorSize() }
func (q *Rule) TotalPoints() int            { return q.points.FlatSize() }

// PointsDirection returns the unit-interval points of direction k.
func (q *Rule) PointsDirection(k int) []float64 { return q.points.DataDirection(k) }

// WeightsDirection returns the univariate weights of direction k.
func (q *Rule) WeightsDirection(k int) []float64 { return q.weights.DataDirection(k) }

// Point returns the unit-cube coordinates of the flat point index.
func (q *Rule) Point(flat int) (pt []float64) {
	ti := q.points.TensorSize().FlatToTensor(flat)
	pt = q.points.Tuple(ti)
	return
}

// Weights materializes the full tensor-product weight vector in the global
// row-major point ordering.
func (q *Rule) Weights() []float64 { return q.weights.Materialize() }

// Collapse restricts the rule to the face of the unit cube where direction
// dir is fixed at side (0 or 1). The collapsed direction holds the single
// fixed coordinate with unit weight, so the rule integrates over the face.
func (q *Rule) Collapse(dir, side int) (r *Rule) {
	var (
		dim = q.Dim()
	)
	if dir < 0 || dir >= dim {
		err := fmt.Errorf("collapse direction out of range: direction = %d, dim = %d", dir, dim)
		panic(err)
	}
	if side != 0 && side != 1 {
		err := fmt.Errorf("collapse side must be 0 or 1, have %d", side)
		panic(err)
	}
	sizes := make([]int, dim)
	for k := 0; k < dim; k++ {
		sizes[k] = q.points.Size(k)
	}
	sizes[dir] = 1
	r = &Rule{
		points:  tensor.NewCartesianProductArray[float64](sizes...),
		weights: tensor.NewTensorProductArray(sizes...),
	}
	for k := 0; k < dim; k++ {
		if k == dir {
			r.points.CopyDataDirection(k, []float64{float64(side)})
			r.weights.CopyDataDirection(k, []float64{1})
			continue
		}
		r.points.CopyDataDirection(k, q.points.DataDirection(k))
		r.weights.CopyDataDirection(k, q.weights.DataDirection(k))
	}
	pointSetCounter++
	r.id = pointSetCounter
	return
}
