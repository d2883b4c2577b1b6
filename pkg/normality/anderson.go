package normality

import (
	"fmt"
	"math"
	"sort"

	"github.com/BTBurke/spc/pkg/stat"
)

// AndersonDarlingMin is the smallest sample for which the p-value approximation is used
const AndersonDarlingMin = 8

// AndersonDarling computes the A statistic against a normal distribution with mean and standard deviation
// estimated from the sample.  The p-value uses the small sample adjusted statistic
// A* = A(1 + 0.75/n + 2.25/n^2) and the piecewise approximation of D'Agostino and Stephens (1986).
func AndersonDarling(obs []float64) (Result, error) {
	n := len(obs)
	if n < AndersonDarlingMin {
		return Result{}, sizeError(AndersonDarlingTest, n, AndersonDarlingMin, 0)
	}
	model, err := stat.FitNormal(obs)
	if err != nil {
		return Result{}, err
	}
	if model.Sigma <= 0 {
		return Result{}, stat.DegenerateVarianceError{Msg: fmt.Sprintf("%s: all %d observations are identical", AndersonDarlingTest, n)}
	}

	x := append([]float64(nil), obs...)
	sort.Float64s(x)
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i, v := range x {
		z := model.Standardize(v)
		lower[i] = math.Log(stat.StandardCDF(z))
		upper[i] = math.Log(stat.StandardSurvival(z))
	}

	h := 0.0
	for i := 0; i < n; i++ {
		h += float64(2*i+1) * (lower[i] + upper[n-1-i])
	}
	an := float64(n)
	a := -an - h/an

	return Result{
		Test:      AndersonDarlingTest,
		N:         n,
		Statistic: a,
		PValue:    adPValue(a * (1 + 0.75/an + 2.25/(an*an))),
	}, nil
}

func adPValue(aa float64) float64 {
	switch {
	case aa < 0.2:
		return 1 - math.Exp(-13.436+101.14*aa-223.73*aa*aa)
	case aa < 0.34:
		return 1 - math.Exp(-8.318+42.796*aa-59.938*aa*aa)
	case aa < 0.6:
		return math.Exp(0.9177 - 4.279*aa - 1.38*aa*aa)
	case aa < 10:
		return math.Exp(1.2937 - 5.709*aa + 0.0186*aa*aa)
	default:
		return 3.7e-24
	}
}
