// Package capability computes short term (Cp family) and long term (Pp family) process capability indices and
// the percentage of measurements expected and observed outside of specification limits.
package capability

import (
	"fmt"
	"math"

	"github.com/BTBurke/spc/pkg/chart"
	"github.com/BTBurke/spc/pkg/metric"
	"github.com/BTBurke/spc/pkg/stat"
)

// ShortTerm indices use the within subgroup sigma estimated from the mean range
type ShortTerm struct {
	Sigma float64
	Cp    float64
	Cpl   float64
	Cpu   float64
	Cpk   float64
	Cpm   float64
}

// LongTerm indices use the overall sample standard deviation
type LongTerm struct {
	Sigma float64
	Pp    float64
	Ppl   float64
	Ppu   float64
	Ppk   float64
}

// Exceedance is the percentage of measurements below LSL and above USL
type Exceedance struct {
	BelowLSL float64
	AboveUSL float64
	Within   float64
}

// Total percentage outside of either limit
func (e Exceedance) Total() float64 {
	return e.BelowLSL + e.AboveUSL
}

// Result is the complete capability analysis of one characteristic
type Result struct {
	Mean     float64
	Within   ShortTerm
	Overall  LongTerm
	Expected Exceedance
	Observed Exceedance
}

// NewShortTerm computes Cp, Cpl, Cpu, Cpk and Cpm from the within subgroup sigma and the overall mean
func NewShortTerm(sigma float64, mean float64, l metric.Limits) (ShortTerm, error) {
	if err := checkSigma("within subgroup", sigma); err != nil {
		return ShortTerm{}, err
	}
	cpl := (mean - l.LSL) / (3 * sigma)
	cpu := (l.USL - mean) / (3 * sigma)
	return ShortTerm{
		Sigma: sigma,
		Cp:    l.Tolerance() / (6 * sigma),
		Cpl:   cpl,
		Cpu:   cpu,
		Cpk:   math.Min(cpl, cpu),
		Cpm:   l.Tolerance() / (6 * math.Hypot(sigma, mean-l.Nominal)),
	}, nil
}

// NewLongTerm computes Pp, Ppl, Ppu and Ppk from a normal model fitted to all measurements
func NewLongTerm(model stat.Normal, l metric.Limits) (LongTerm, error) {
	if err := checkSigma("overall", model.Sigma); err != nil {
		return LongTerm{}, err
	}
	ppl := (model.Mu - l.LSL) / (3 * model.Sigma)
	ppu := (l.USL - model.Mu) / (3 * model.Sigma)
	return LongTerm{
		Sigma: model.Sigma,
		Pp:    l.Tolerance() / (6 * model.Sigma),
		Ppl:   ppl,
		Ppu:   ppu,
		Ppk:   math.Min(ppl, ppu),
	}, nil
}

// Expected returns the percentages outside of the limits predicted by the fitted normal model
func Expected(model stat.Normal, l metric.Limits) (Exceedance, error) {
	if err := checkSigma("overall", model.Sigma); err != nil {
		return Exceedance{}, err
	}
	return Exceedance{
		BelowLSL: 100 * model.CDF(l.LSL),
		AboveUSL: 100 * model.Survival(l.USL),
		Within:   100 * (model.CDF(l.USL) - model.CDF(l.LSL)),
	}, nil
}

// Observed counts the measurements strictly below LSL and strictly above USL.  No distribution is assumed.
func Observed(values []float64, l metric.Limits) Exceedance {
	if len(values) == 0 {
		return Exceedance{}
	}
	var below, above int
	for _, v := range values {
		switch {
		case v < l.LSL:
			below++
		case v > l.USL:
			above++
		}
	}
	n := float64(len(values))
	return Exceedance{
		BelowLSL: 100 * float64(below) / n,
		AboveUSL: 100 * float64(above) / n,
		Within:   100 * float64(len(values)-below-above) / n,
	}
}

// Compute performs the full capability analysis.  The within subgroup sigma comes from the chart statistics, the
// mean and overall sigma from the raw series.  Either sigma being zero fails the analysis.
func Compute(cs chart.Statistics, l metric.Limits, s *metric.Series) (Result, error) {
	if err := l.Validate(); err != nil {
		return Result{}, err
	}
	values := s.Values()
	model, err := stat.FitNormal(values)
	if err != nil {
		return Result{}, err
	}
	within, err := NewShortTerm(cs.Sigma, model.Mu, l)
	if err != nil {
		return Result{}, err
	}
	overall, err := NewLongTerm(model, l)
	if err != nil {
		return Result{}, err
	}
	expected, err := Expected(model, l)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Mean:     model.Mu,
		Within:   within,
		Overall:  overall,
		Expected: expected,
		Observed: Observed(values, l),
	}, nil
}

func checkSigma(which string, sigma float64) error {
	switch {
	case math.IsNaN(sigma) || math.IsInf(sigma, 0):
		return stat.DegenerateVarianceError{Msg: fmt.Sprintf("%s sigma is not a finite number: %v", which, sigma)}
	case sigma <= 0:
		return stat.DegenerateVarianceError{Msg: fmt.Sprintf("%s sigma is zero, capability is undefined for a constant process", which)}
	}
	return nil
}
