package stat

import (
	"fmt"
	"math"

	gstat "gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Normal is a fitted normal model of a set of observations.  Mu is the sample mean and Sigma the sample standard
// deviation with Bessel's correction (n-1 denominator).
type Normal struct {
	Mu    float64
	Sigma float64
}

// FitNormal estimates a normal model from the observations.  At least two observations are required
// to estimate the standard deviation.
func FitNormal(obs []float64) (Normal, error) {
	if len(obs) < 2 {
		return Normal{}, InvalidInputError{Msg: fmt.Sprintf("at least 2 observations required to fit a normal model, got %d", len(obs))}
	}
	if err := CheckFinite(obs); err != nil {
		return Normal{}, err
	}
	mu, sigma := gstat.MeanStdDev(obs, nil)
	return Normal{Mu: mu, Sigma: sigma}, nil
}

// CDF returns P(X <= x).  The model must have a positive sigma.
func (n Normal) CDF(x float64) float64 {
	return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma}.CDF(x)
}

// Survival returns P(X > x)
func (n Normal) Survival(x float64) float64 {
	return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma}.Survival(x)
}

// Standardize returns the z-score of x under the model
func (n Normal) Standardize(x float64) float64 {
	return (x - n.Mu) / n.Sigma
}

func (n Normal) String() string {
	return fmt.Sprintf("normal(mu=%g sigma=%g)", n.Mu, n.Sigma)
}

// StandardCDF is the standard normal cumulative distribution function Φ(z)
func StandardCDF(z float64) float64 {
	return distuv.UnitNormal.CDF(z)
}

// StandardSurvival is 1 - Φ(z) computed without cancellation in the upper tail
func StandardSurvival(z float64) float64 {
	return distuv.UnitNormal.Survival(z)
}

// StandardQuantile is the inverse of the standard normal CDF
func StandardQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// Mean of the observations, zero for an empty slice
func Mean(obs []float64) float64 {
	if len(obs) == 0 {
		return 0.0
	}
	return gstat.Mean(obs, nil)
}

// StdDev is the sample standard deviation with an n-1 denominator
func StdDev(obs []float64) float64 {
	if len(obs) < 2 {
		return 0.0
	}
	return gstat.StdDev(obs, nil)
}

// Range returns max - min of the observations
func Range(obs []float64) float64 {
	if len(obs) == 0 {
		return 0.0
	}
	min, max := obs[0], obs[0]
	for _, o := range obs {
		min = math.Min(min, o)
		max = math.Max(max, o)
	}
	return max - min
}

// Poly evaluates c[0] + c[1]x + c[2]x^2 + ... using Horner's rule
func Poly(c []float64, x float64) float64 {
	out := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		out = out*x + c[i]
	}
	return out
}

// CheckFinite returns an InvalidInputError identifying the first NaN or infinite observation
func CheckFinite(obs []float64) error {
	for i, o := range obs {
		if math.IsNaN(o) || math.IsInf(o, 0) {
			return InvalidInputError{Msg: fmt.Sprintf("observation %d is not a finite number: %v", i+1, o)}
		}
	}
	return nil
}
