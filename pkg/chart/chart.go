// Package chart computes X-bar and R control chart statistics for equally sized subgroups
package chart

import (
	"fmt"
	"math"

	"github.com/BTBurke/spc/pkg/stat"
	"github.com/BTBurke/spc/pkg/subgroup"
)

// Kind identifies one of the two charts
type Kind string

const (
	XBar  Kind = "xbar"
	Range Kind = "range"
)

// Limits are the center line and control limits of one chart
type Limits struct {
	Center float64
	Lower  float64
	Upper  float64
}

// Contains returns true if the value is within the control limits, inclusive
func (l Limits) Contains(v float64) bool {
	return v >= l.Lower && v <= l.Upper
}

// Violation is a subgroup whose plotted point falls outside the control limits of a chart
type Violation struct {
	Chart    Kind
	Subgroup int
	Value    float64
	Above    bool
}

func (v Violation) String() string {
	side := "below LCL"
	if v.Above {
		side = "above UCL"
	}
	return fmt.Sprintf("%s subgroup %d = %g %s", v.Chart, v.Subgroup, v.Value, side)
}

// Statistics are the per subgroup points and process level aggregates of the X-bar/R charts.  They are computed
// once by Compute and are not modified afterward.
type Statistics struct {
	Size       int
	Constants  Constants
	Means      []float64
	Ranges     []float64
	GrandMean  float64
	MeanRange  float64
	XBar       Limits
	Range      Limits
	Sigma      float64
	Violations []Violation
}

// InControl is true if no subgroup falls outside the limits of either chart
func (s Statistics) InControl() bool {
	return len(s.Violations) == 0
}

// Compute calculates chart statistics from subgroups of equal size using constants from the table.  Any subgroup
// whose mean or range is not a finite number fails the whole computation.
func Compute(groups []subgroup.Subgroup, table Table) (Statistics, error) {
	if len(groups) == 0 {
		return Statistics{}, stat.InvalidInputError{Msg: "no subgroups to chart"}
	}
	k := len(groups[0].Values)
	c, err := table.Lookup(k)
	if err != nil {
		return Statistics{}, err
	}

	means := make([]float64, len(groups))
	ranges := make([]float64, len(groups))
	for i, g := range groups {
		if len(g.Values) != k {
			return Statistics{}, stat.InvalidInputError{Msg: fmt.Sprintf("subgroup %d has %d values, expected %d", g.Index, len(g.Values), k)}
		}
		means[i] = g.Mean()
		ranges[i] = g.Range()
		if !finite(means[i]) || !finite(ranges[i]) {
			return Statistics{}, stat.InvalidInputError{Msg: fmt.Sprintf("subgroup %d mean or range is not a finite number", g.Index)}
		}
	}

	grand := stat.Mean(means)
	rbar := stat.Mean(ranges)
	s := Statistics{
		Size:      k,
		Constants: c,
		Means:     means,
		Ranges:    ranges,
		GrandMean: grand,
		MeanRange: rbar,
		XBar: Limits{
			Center: grand,
			Lower:  grand - c.A2*rbar,
			Upper:  grand + c.A2*rbar,
		},
		Range: Limits{
			Center: rbar,
			Lower:  c.D3 * rbar,
			Upper:  c.D4 * rbar,
		},
		Sigma: rbar / c.D2,
	}
	s.Violations = append(violations(XBar, groups, means, s.XBar), violations(Range, groups, ranges, s.Range)...)
	return s, nil
}

func violations(kind Kind, groups []subgroup.Subgroup, points []float64, l Limits) []Violation {
	var out []Violation
	for i, p := range points {
		if l.Contains(p) {
			continue
		}
		out = append(out, Violation{
			Chart:    kind,
			Subgroup: groups[i].Index,
			Value:    p,
			Above:    p > l.Upper,
		})
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
