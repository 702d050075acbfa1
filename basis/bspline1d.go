package basis

import (
	"fmt"

	"github.com/notargets/goiga/utils"
)

// BasisValues1D caches the univariate basis values and derivatives of one
// (direction, knot interval) pair at a fixed set of points: Der(k) is a
// (degree+1) x numPoints matrix holding the k-th derivative of the degree+1
// functions alive on the interval. Built once per Reset and read-only
// afterward, shared by every element sitting in the interval.
type BasisValues1D struct {
	ders []utils.Matrix
}

// Der returns the matrix of derivative order k.
func (bv *BasisValues1D) Der(k int) utils.Matrix {
	if k < 0 || k >= len(bv.ders) {
		err := fmt.Errorf("derivative order out of range: order = %d, cached orders = %d", k, len(bv.ders))
		panic(err)
	}
	return bv.ders[k]
}

func (bv *BasisValues1D) MaxDer() int { return len(bv.ders) - 1 }

// EvalInterval evaluates the degree+1 basis functions alive on knot interval
// i, with derivatives up to maxDer, at the unit-interval points unitPts
// mapped into the interval. Derivatives are taken with respect to the
// parametric coordinate.
func (kv *KnotVector) EvalInterval(i int, unitPts []float64, maxDer int) (bv *BasisValues1D) {
	var (
		p    = kv.degree
		span = kv.SpanForInterval(i)
		nPts = len(unitPts)
	)
	if maxDer < 0 {
		err := fmt.Errorf("negative derivative order: %d", maxDer)
		panic(err)
	}
	bv = &BasisValues1D{ders: make([]utils.Matrix, maxDer+1)}
	for k := range bv.ders {
		bv.ders[k] = utils.NewMatrix(p+1, nPts)
	}
	x0, x1 := kv.Interval(i)
	for pt, t := range unitPts {
		if t < 0 || t > 1 {
			err := fmt.Errorf("evaluation point outside the unit interval: %v", t)
			panic(err)
		}
		u := x0 + (x1-x0)*t
		ders := dersBasisFuns(span, u, p, maxDer, kv.knots)
		// orders beyond the degree vanish identically and stay zero
		for k := 0; k < len(ders); k++ {
			for fn := 0; fn <= p; fn++ {
				bv.ders[k].Set(fn, pt, ders[k][fn])
			}
		}
	}
	for k := range bv.ders {
		bv.ders[k].SetReadOnly("BasisValues1D")
	}
	return
}

// dersBasisFuns computes the non-vanishing basis functions and their
// derivatives up to order n at u in the given knot span (The NURBS Book,
// algorithm A2.3). Row k of the result holds the k-th derivatives of the
// p+1 functions.
func dersBasisFuns(span int, u float64, p, n int, knots []float64) (ders [][]float64) {
	var (
		ndu   = zeros2D(p+1, p+1)
		left  = make([]float64, p+1)
		right = make([]float64, p+1)
	)
	if n > p {
		n = p // higher derivatives vanish identically
	}
	ndu[0][0] = 1
	for j := 1; j <= p; j++ {
		left[j] = u - knots[span+1-j]
		right[j] = knots[span+j] - u
		var saved float64
		for r := 0; r < j; r++ {
			ndu[j][r] = right[r+1] + left[j-r]
			temp := ndu[r][j-1] / ndu[j][r]
			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}

	ders = zeros2D(n+1, p+1)
	for j := 0; j <= p; j++ {
		ders[0][j] = ndu[j][p]
	}

	a := zeros2D(2, p+1)
	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1
		for k := 1; k <= n; k++ {
			var (
				d      float64
				rk     = r - k
				pk     = p - k
				j1, j2 int
			)
			if r >= k {
				a[s2][0] = a[s1][0] / ndu[pk+1][rk]
				d = a[s2][0] * ndu[rk][pk]
			}
			if rk >= -1 {
				j1 = 1
			} else {
				j1 = -rk
			}
			if r-1 <= pk {
				j2 = k - 1
			} else {
				j2 = p - r
			}
			for j := j1; j <= j2; j++ {
				a[s2][j] = (a[s1][j] - a[s1][j-1]) / ndu[pk+1][rk+j]
				d += a[s2][j] * ndu[rk+j][pk]
			}
			if r <= pk {
				a[s2][k] = -a[s1][k-1] / ndu[pk+1][r]
				d += a[s2][k] * ndu[r][pk]
			}
			ders[k][r] = d
			s1, s2 = s2, s1
		}
	}

	acc := p
	for k := 1; k <= n; k++ {
		for j := 0; j <= p; j++ {
			ders[k][j] *= float64(acc)
		}
		acc *= p - k
	}
	return
}

func zeros2D(n, m int) (R [][]float64) {
	R = make([][]float64, n)
	for i := range R {
		R[i] = make([]float64, m)
	}
	return
}
