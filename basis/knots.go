/*
Package basis implements tensor-product B-spline and NURBS spaces over a
grid: univariate knot vectors and Cox-de-Boor evaluation per direction, a
Space describing the global basis with its local-to-global numbering, and
the element handler that combines cached univariate values into
multi-dimensional basis value, gradient and hessian tables at quadrature
points.
*/
package basis

import (
	"fmt"
)

// KnotVector is the non-decreasing knot sequence of one direction, stored
// together with its unique break points and their multiplicities.
type KnotVector struct {
	degree int
	breaks []float64
	mult   []int
	knots  []float64
}

// NewKnotVector builds a knot vector of the given degree from unique break
// points and per-break multiplicities. End multiplicities of degree+1 give
// the usual open (clamped) vector.
func NewKnotVector(degree int, breaks []float64, mult []int) (kv *KnotVector, err error) {
	if degree < 0 {
		err = fmt.Errorf("negative spline degree: %d", degree)
		return
	}
	if len(breaks) < 2 {
		err = fmt.Errorf("knot vector needs at least 2 break points, have %d", len(breaks))
		return
	}
	if len(mult) != len(breaks) {
		err = fmt.Errorf("multiplicity count mismatch: %d breaks, %d multiplicities", len(breaks), len(mult))
		return
	}
	for i := 1; i < len(breaks); i++ {
		if breaks[i] <= breaks[i-1] {
			err = fmt.Errorf("break points must be strictly increasing, have %v <= %v at position %d",
				breaks[i], breaks[i-1], i)
			return
		}
	}
	var total int
	for i, m := range mult {
		if m < 1 || m > degree+1 {
			err = fmt.Errorf("multiplicity out of range at break %d: have %d, admissible 1..%d", i, m, degree+1)
			return
		}
		total += m
	}
	knots := make([]float64, 0, total)
	for i, m := range mult {
		for r := 0; r < m; r++ {
			knots = append(knots, breaks[i])
		}
	}
	if len(knots) < 2*(degree+1) {
		err = fmt.Errorf("knot vector too short for degree %d: %d knots, need at least %d",
			degree, len(knots), 2*(degree+1))
		return
	}
	kv = &KnotVector{
		degree: degree,
		breaks: append([]float64{}, breaks...),
		mult:   append([]int{}, mult...),
		knots:  knots,
	}
	return
}

// NewOpenKnotVector builds the standard open knot vector: end breaks
// repeated degree+1 times, interior breaks simple.
func NewOpenKnotVector(degree int, breaks []float64) (kv *KnotVector, err error) {
	mult := make([]int, len(breaks))
	for i := range mult {
		mult[i] = 1
	}
	if len(breaks) > 0 {
		mult[0] = degree + 1
		mult[len(breaks)-1] = degree + 1
	}
	return NewKnotVector(degree, breaks, mult)
}

func (kv *KnotVector) Degree() int { return kv.degree }

// NumFunctions returns the dimension of the univariate spline space.
func (kv *KnotVector) NumFunctions() int { return len(kv.knots) - kv.degree - 1 }

func (kv *KnotVector) NumIntervals() int { return len(kv.breaks) - 1 }

// Knots returns the full knot sequence (read-only view).
func (kv *KnotVector) Knots() []float64 { return kv.knots }

// Breaks returns the unique break points (read-only view).
func (kv *KnotVector) Breaks() []float64 { return kv.breaks }

// Interval returns the bounds of knot interval i.
func (kv *KnotVector) Interval(i int) (x0, x1 float64) {
	kv.checkInterval(i)
	return kv.breaks[i], kv.breaks[i+1]
}

// SpanForInterval returns the knot span index s of interval i, such that
// knots[s] <= u < knots[s+1] for u inside the interval.
func (kv *KnotVector) SpanForInterval(i int) (span int) {
	kv.checkInterval(i)
	for j := 0; j <= i; j++ {
		span += kv.mult[j]
	}
	span--
	return
}

// FirstFunction returns the index of the first univariate basis function
// supported on interval i. Functions FirstFunction(i)..FirstFunction(i)+degree
// are the degree+1 functions alive there.
func (kv *KnotVector) FirstFunction(i int) int {
	return kv.SpanForInterval(i) - kv.degree
}

// IntervalOf locates the knot interval containing u; u equal to the last
// break belongs to the last interval.
func (kv *KnotVector) IntervalOf(u float64) (i int) {
	var (
		n = kv.NumIntervals()
	)
	if u < kv.breaks[0] || u > kv.breaks[n] {
		err := fmt.Errorf("parameter outside the knot range: u = %v, range [%v,%v]", u, kv.breaks[0], kv.breaks[n])
		panic(err)
	}
	for i = 0; i < n-1; i++ {
		if u < kv.breaks[i+1] {
			return
		}
	}
	return n - 1
}

func (kv *KnotVector) checkInterval(i int) {
	if i < 0 || i >= kv.NumIntervals() {
		err := fmt.Errorf("knot interval out of range: interval = %d, intervals = %d", i, kv.NumIntervals())
		panic(err)
	}
}
