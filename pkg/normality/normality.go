// Package normality tests whether measurements are consistent with a normal distribution using the Shapiro-Wilk
// and Anderson-Darling goodness of fit tests
package normality

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/BTBurke/spc/pkg/classify"
	"github.com/BTBurke/spc/pkg/stat"
)

// Test names a goodness of fit test
type Test string

const (
	ShapiroWilkTest     Test = "shapiro-wilk"
	AndersonDarlingTest Test = "anderson-darling"
)

// Result of one goodness of fit test.  Conclusion is only set by Evaluate.
type Result struct {
	Test       Test
	N          int
	Statistic  float64
	PValue     float64
	Conclusion classify.Normality
}

// Report holds the results of both tests on the same sample
type Report struct {
	ShapiroWilk     Result
	AndersonDarling Result
}

// Results returns both test results in a fixed order
func (r Report) Results() []Result {
	return []Result{r.ShapiroWilk, r.AndersonDarling}
}

// Evaluate runs both tests concurrently and classifies each p-value at significance level alpha.  If either test
// fails no report is returned.
func Evaluate(obs []float64, alpha float64) (Report, error) {
	if !(alpha > 0 && alpha < 1) {
		return Report{}, stat.InvalidInputError{Msg: fmt.Sprintf("significance level must be in (0, 1), got %v", alpha)}
	}

	var r Report
	var g errgroup.Group
	g.Go(func() error {
		res, err := ShapiroWilk(obs)
		r.ShapiroWilk = res
		return err
	})
	g.Go(func() error {
		res, err := AndersonDarling(obs)
		r.AndersonDarling = res
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	r.ShapiroWilk.Conclusion = classify.ClassifyNormality(r.ShapiroWilk.PValue, alpha)
	r.AndersonDarling.Conclusion = classify.ClassifyNormality(r.AndersonDarling.PValue, alpha)
	return r, nil
}

func sizeError(test Test, n int, min int, max int) error {
	var msg string
	switch {
	case max > 0:
		msg = fmt.Sprintf("%s requires between %d and %d observations, got %d", test, min, max, n)
	default:
		msg = fmt.Sprintf("%s requires at least %d observations, got %d", test, min, n)
	}
	return stat.SampleSizeUnsupportedError{Msg: msg, N: n, Min: min, Max: max}
}
