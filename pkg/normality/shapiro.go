package normality

import (
	"fmt"
	"math"
	"sort"

	"github.com/BTBurke/spc/pkg/stat"
)

// Sample size bounds of Royston's approximation
const (
	ShapiroWilkMin = 3
	ShapiroWilkMax = 5000
)

// Polynomial coefficients from Royston (1995), algorithm AS R94
var (
	swG  = []float64{-2.273, 0.459}
	swC1 = []float64{0.0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0.0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
)

// ShapiroWilk computes the W statistic and its p-value using Royston's normalizing transformation
func ShapiroWilk(obs []float64) (Result, error) {
	n := len(obs)
	if n < ShapiroWilkMin || n > ShapiroWilkMax {
		return Result{}, sizeError(ShapiroWilkTest, n, ShapiroWilkMin, ShapiroWilkMax)
	}
	if err := stat.CheckFinite(obs); err != nil {
		return Result{}, err
	}
	x := append([]float64(nil), obs...)
	sort.Float64s(x)
	if x[n-1]-x[0] <= 0 {
		return Result{}, stat.DegenerateVarianceError{Msg: fmt.Sprintf("%s: all %d observations are identical", ShapiroWilkTest, n)}
	}

	mean := stat.Mean(x)
	ss := 0.0
	for _, v := range x {
		ss += (v - mean) * (v - mean)
	}
	a := swCoefficients(n)
	num := 0.0
	for i, ai := range a {
		num += ai * (x[n-1-i] - x[i])
	}
	w := math.Min(num*num/ss, 1.0)

	return Result{
		Test:      ShapiroWilkTest,
		N:         n,
		Statistic: w,
		PValue:    swPValue(w, n),
	}, nil
}

// swCoefficients returns the first n/2 coefficients of the antisymmetric weight vector, largest first
func swCoefficients(n int) []float64 {
	nn2 := n / 2
	a := make([]float64, nn2)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a
	}

	an := float64(n)
	m := make([]float64, nn2)
	summ2 := 0.0
	for i := range m {
		m[i] = stat.StandardQuantile((float64(i+1) - 0.375) / (an + 0.25))
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1.0 / math.Sqrt(an)

	a1 := stat.Poly(swC1, rsn) - m[0]/ssumm2
	first := 1
	var fac float64
	switch {
	case n > 5:
		first = 2
		a2 := -m[1]/ssumm2 + stat.Poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
	default:
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	a[0] = a1
	for i := first; i < nn2; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

func swPValue(w float64, n int) float64 {
	if n == 3 {
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Pi/3)
		return math.Max(p, 0)
	}

	an := float64(n)
	y := math.Log(1 - w)
	var m, s float64
	switch {
	case n <= 11:
		gamma := stat.Poly(swG, an)
		if y >= gamma {
			return 0
		}
		y = -math.Log(gamma - y)
		m = stat.Poly(swC3, an)
		s = math.Exp(stat.Poly(swC4, an))
	default:
		xx := math.Log(an)
		m = stat.Poly(swC5, xx)
		s = math.Exp(stat.Poly(swC6, xx))
	}
	return stat.StandardSurvival((y - m) / s)
}
